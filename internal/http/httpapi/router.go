package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"videostudio/internal/http/handlers"
	"videostudio/internal/infra"
	"videostudio/internal/metrics"
	"videostudio/internal/middleware"
)

// Options configures the API router.
type Options struct {
	Logger        infra.Logger
	Metrics       *metrics.Metrics
	Limiter       middleware.Limiter
	JWTSecret     string
	JWTAudience   string
	CORSOrigins   []string
	DefaultLocale string
	CountryLookup middleware.CountryLookup
	// StaticDir, when set, serves filesystem-stored assets under /static.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger, opts.Metrics),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Authenticate(opts.JWTSecret, opts.JWTAudience),
	)

	r.Get("/healthz", app.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
		}

		r.Get("/me", app.Me)

		r.Post("/generate-video", app.GenerateVideo)
		r.Post("/batch-generate", app.BatchGenerate)
		r.Get("/generations", app.ListGenerations)
		r.Get("/generations/{id}", app.GetGeneration)

		r.Post("/enhance-prompt", app.EnhancePrompt)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", app.ListProjects)
			r.Post("/", app.CreateProject)
			r.Get("/{id}", app.GetProject)
			r.Patch("/{id}", app.UpdateProject)
			r.Delete("/{id}", app.DeleteProject)
		})

		r.Get("/templates", app.ListTemplates)
		r.Post("/templates", app.CreateTemplate)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", app.ListNotifications)
			r.Post("/", app.CreateNotification)
			r.Patch("/", app.MarkAllNotificationsRead)
			r.Patch("/{id}", app.MarkNotificationRead)
			r.Delete("/{id}", app.DeleteNotification)
		})

		r.Get("/gallery", app.ListGallery)
		r.Get("/stats", app.GetStats)
	})

	return r
}
