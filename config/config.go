package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevJWTSecret is the signing key used when JWT_SECRET is not configured.
// It is refused when running in production.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	Env         string   `env:"ENV" envDefault:"dev"`
	ServerPort  int      `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	PingMessage string   `env:"PING_MESSAGE" envDefault:"ping"`
	JWTSecret   string   `env:"JWT_SECRET"`
	SiteName    string   `env:"SITE_NAME" envDefault:"Our Team"`

	Database  DatabaseConfig  `envPrefix:"DB_"`
	Email     EmailConfig     `envPrefix:"EMAIL_"`
	Media     MediaConfig     `envPrefix:"MEDIA_"`
	Minio     MinioConfig     `envPrefix:"MINIO_"`
	GCS       GCSConfig       `envPrefix:"GCS_"`
	MQ        MQConfig        `envPrefix:"MQ_"`
	RabbitMQ  RabbitMQConfig  `envPrefix:"RABBITMQ_"`
	PubSub    PubSubConfig    `envPrefix:"PUBSUB_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"cms"`
	Password string `env:"PASSWORD" envDefault:"password"`
	DBName   string `env:"NAME" envDefault:"cms_db"`
	UseSSL   bool   `env:"USE_SSL" envDefault:"false"`
}

// EmailConfig configures the SMTP relay used by the contact form.
type EmailConfig struct {
	Host      string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port      int    `env:"PORT" envDefault:"587"`
	User      string `env:"USER"`
	Password  string `env:"PASS"`
	Recipient string `env:"RECIPIENT"`
	FromName  string `env:"FROM_NAME" envDefault:"Website Contact"`
}

// MediaConfig selects the upload backend and its housekeeping.
type MediaConfig struct {
	Backend       string        `env:"BACKEND" envDefault:"local"`
	UploadDir     string        `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	AllowedTypes  []string      `env:"ALLOWED_TYPES" envSeparator:","`
	PruneSchedule string        `env:"PRUNE_SCHEDULE"`
	PruneGrace    time.Duration `env:"PRUNE_GRACE" envDefault:"24h"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"cms-media"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type GCSConfig struct {
	Bucket          string `env:"BUCKET"`
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// MQConfig selects the event backend. An empty or "none" backend disables publishing.
type MQConfig struct {
	Backend        string `env:"BACKEND" envDefault:"none"`
	ContentChannel string `env:"CONTENT_CHANNEL" envDefault:"cms.content"`
	ContactChannel string `env:"CONTACT_CHANNEL" envDefault:"cms.contact"`
}

type RabbitMQConfig struct {
	URL             string `env:"URL"`
	QueueDurable    bool   `env:"QUEUE_DURABLE" envDefault:"true"`
	QueueAutoDelete bool   `env:"QUEUE_AUTO_DELETE" envDefault:"false"`
	PrefetchCount   int    `env:"PREFETCH_COUNT" envDefault:"10"`
}

type PubSubConfig struct {
	ProjectID          string `env:"PROJECT_ID"`
	CredentialsFile    string `env:"CREDENTIALS_FILE"`
	SubscriptionSuffix string `env:"SUBSCRIPTION_SUFFIX" envDefault:"-sub"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RPS" envDefault:"0.5"`
	Burst int     `env:"BURST" envDefault:"5"`
}

// IsProduction reports whether the service runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SigningSecret returns the configured JWT key, falling back to DevJWTSecret.
func (c Config) SigningSecret() string {
	if s := strings.TrimSpace(c.JWTSecret); s != "" {
		return s
	}
	return DevJWTSecret
}

// LoadConfig reads the environment (and .env in dev) into a Config.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		slog.Warn("JWT_SECRET is not set; using the development signing key")
	}

	return cfg, nil
}
