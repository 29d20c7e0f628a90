package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/config"
	"github.com/loreycode/cms-api/internal/auth"
	"github.com/loreycode/cms-api/internal/db"
	"github.com/loreycode/cms-api/internal/handlers"
	"github.com/loreycode/cms-api/internal/mail"
	"github.com/loreycode/cms-api/internal/mq"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/internal/storage"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
	"github.com/robfig/cron/v3"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	cron       *cron.Cron
	logger     *slog.Logger
}

// New constructs a Server with all repositories, services and routes wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.Default()

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	queue, err := mq.Open(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open message queue: %w", err)
	}
	notifier := NewNotifier(cfg, queue, logger)

	media, err := NewMediaService(ctx, cfg, dbConn, notifier)
	if err != nil {
		closeQueue(queue)
		_ = dbConn.Close()
		return nil, err
	}

	recipient := strings.TrimSpace(cfg.Email.Recipient)
	if recipient == "" {
		recipient = cfg.Email.User
	}

	pages := services.NewContentService[types.Page](store.NewTable[types.Page](dbConn, "pages"), services.PageOptions, notifier)
	sections := services.NewContentService[types.Section](store.NewTable[types.Section](dbConn, "sections"), services.SectionOptions, notifier)
	submissions := store.NewTable[types.ContactSubmission](dbConn, "contact_submissions")

	router := handlers.NewRouter(handlers.Deps{
		Codec:       auth.NewCodec(cfg.SigningSecret()),
		Users:       services.NewUserService(store.NewUserRepository(dbConn)),
		Services:    services.NewContentService[types.Service](store.NewTable[types.Service](dbConn, "services"), services.ServiceOptions, notifier),
		Courses:     services.NewContentService[types.Course](store.NewTable[types.Course](dbConn, "courses"), services.CourseOptions, notifier),
		Projects:    services.NewContentService[types.Project](store.NewTable[types.Project](dbConn, "projects"), services.ProjectOptions, notifier),
		Pages:       services.NewPageService(pages, sections),
		Sections:    sections,
		Settings:    services.NewSettingService(store.NewSettingRepository(dbConn), notifier),
		Media:       media,
		Contacts:    services.NewContactService(submissions, mail.NewSMTPSender(cfg.Email), recipient, cfg.SiteName, notifier, logger),
		Submissions: services.NewContentService[types.ContactSubmission](submissions, services.ContactOptions, nil),

		DB:           dbConn,
		SecureCookie: cfg.IsProduction(),
		PingMessage:  cfg.PingMessage,
		CORSOrigins:  cfg.CORSOrigins,
		RateLimitRPS: cfg.RateLimit.RPS,
		RateBurst:    cfg.RateLimit.Burst,
		Logger:       logger,
	})

	scheduler, err := schedulePrune(cfg.Media, media, logger)
	if err != nil {
		closeQueue(queue)
		_ = dbConn.Close()
		return nil, err
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Uploads of a full batch need more than the default budget.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		cron:       scheduler,
		logger:     logger,
	}, nil
}

// NewNotifier returns the event notifier for cfg. It drops every event when
// queue is nil.
func NewNotifier(cfg config.Config, queue *mq.MQ, logger *slog.Logger) *services.Notifier {
	if queue == nil {
		return nil
	}
	return services.NewNotifier(queue, cfg.MQ.ContentChannel, cfg.MQ.ContactChannel, logger)
}

// NewMediaService builds the media service over the configured storage backend.
func NewMediaService(ctx context.Context, cfg config.Config, dbConn *sql.DB, notifier *services.Notifier) (*services.MediaService, error) {
	objects, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init media storage: %w", err)
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure media bucket %s: %w", objects.Bucket(), err)
	}

	records := services.NewContentService[types.MediaFile](store.NewTable[types.MediaFile](dbConn, "media_files"), services.MediaOptions, notifier)
	return services.NewMediaService(records, objects, cfg.Media.AllowedTypes, slog.Default()), nil
}

func schedulePrune(cfg config.MediaConfig, media *services.MediaService, logger *slog.Logger) (*cron.Cron, error) {
	schedule := strings.TrimSpace(cfg.PruneSchedule)
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		pruned, err := media.PruneOrphans(ctx, cfg.PruneGrace)
		if err != nil {
			logger.Error("prune media", "error", err)
			return
		}
		if len(pruned) > 0 {
			logger.Info("pruned orphaned media", "count", len(pruned))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_PRUNE_SCHEDULE %q: %w", schedule, err)
	}
	return c, nil
}

func closeQueue(queue *mq.MQ) {
	if queue != nil {
		_ = queue.Close()
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	if s.cron != nil {
		s.cron.Start()
	}
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the queue and database.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	err := s.httpServer.Shutdown(ctx)
	closeQueue(s.queue)
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
