package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/loreycode/cms-api/internal/auth"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/types"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Codec    *auth.Codec
	Users    *services.UserService
	Services *services.ContentService[types.Service]
	Courses  *services.ContentService[types.Course]
	Projects *services.ContentService[types.Project]
	Pages    *services.PageService
	Sections *services.ContentService[types.Section]
	Settings *services.SettingService
	Media    *services.MediaService
	Contacts *services.ContactService
	// Submissions holds stored contact form entries.
	Submissions *services.ContentService[types.ContactSubmission]

	DB           Pinger
	SecureCookie bool
	PingMessage  string
	CORSOrigins  []string
	RateLimitRPS float64
	RateBurst    int
	Logger       *slog.Logger
}

// NewRouter builds the HTTP handler. Every route is served both under /api
// and at the root.
func NewRouter(d Deps) *chi.Mux {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
		corsHandler(d.CORSOrigins),
	)

	router.Get("/healthz", Healthz(d.DB))

	loginLimit := NewRateLimiter(d.RateLimitRPS, d.RateBurst).Middleware
	contactLimit := NewRateLimiter(d.RateLimitRPS, d.RateBurst).Middleware
	gate := auth.Require(d.Codec)

	authHandler := NewAuthHandler(d.Users, d.Codec, d.SecureCookie)
	publicHandler := NewPublicHandler(d.Services, d.Courses, d.Projects, d.Pages, d.Settings)
	mediaHandler := NewMediaHandler(d.Media)
	contactHandler := NewContactHandler(d.Contacts)

	routes := func(r chi.Router) {
		r.Get("/ping", Ping(d.PingMessage))
		r.Get("/uploads/{filename}", mediaHandler.ServeUpload)
		ContactRouter(r, contactHandler, contactLimit)

		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, authHandler, loginLimit)
		})
		r.Route("/public", func(r chi.Router) {
			PublicRouter(r, publicHandler)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(gate)
			r.Route("/services", NewResource[types.Service, types.ServiceInput, types.ServicePatch](d.Services).mount)
			r.Route("/courses", NewResource[types.Course, types.CourseInput, types.CoursePatch](d.Courses).mount)
			r.Route("/projects", NewResource[types.Project, types.ProjectInput, types.ProjectPatch](d.Projects).mount)
			r.Route("/pages", func(r chi.Router) {
				PagesRouter(r, NewPageHandler(d.Pages))
			})
			r.Route("/sections", func(r chi.Router) {
				SectionsRouter(r, d.Sections)
			})
			r.Route("/settings", func(r chi.Router) {
				SettingsRouter(r, NewSettingsHandler(d.Settings))
			})
			r.Route("/media", func(r chi.Router) {
				MediaRouter(r, mediaHandler)
			})
			r.Route("/contacts", func(r chi.Router) {
				ContactsRouter(r, d.Submissions)
			})
		})
	}

	router.Route("/api", routes)
	router.Group(routes)
	return router
}

// corsHandler allows credentials only for an explicit origin list.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}
