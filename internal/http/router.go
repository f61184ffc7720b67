package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig lists the handlers to mount. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Assets     *AssetHandler
	State      *StateHandler
	Session    *SessionHandler
	Calendar   *CalendarHandler
	Admin      *AdminHandler
	Metrics    http.Handler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the chi router for the configured handlers and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()
	for _, mw := range cfg.Middleware {
		if mw != nil {
			router.Use(mw)
		}
	}

	if cfg.Assets != nil {
		router.Route("/assets", func(r chi.Router) {
			r.Put("/{id}", cfg.Assets.Put)
			r.Get("/{id}", cfg.Assets.Get)
		})
	}

	if cfg.State != nil {
		router.Route("/state", func(r chi.Router) {
			r.Put("/{key}", cfg.State.Put)
			r.Get("/{key}", cfg.State.Get)
		})
	}

	if cfg.Session != nil {
		router.Route("/session", func(r chi.Router) {
			r.Post("/", cfg.Session.Create)
			r.Get("/", cfg.Session.Get)
			r.Delete("/", cfg.Session.Delete)
		})
	}

	if cfg.Calendar != nil {
		router.Route("/calendar", func(r chi.Router) {
			r.Get("/events", cfg.Calendar.ListEvents)
			r.Delete("/events/{id}", cfg.Calendar.DeleteEvent)
			r.Post("/plan", cfg.Calendar.Plan)
			r.Get("/{year}/{month}", cfg.Calendar.Month)
		})
	}

	if cfg.Admin != nil {
		router.Post("/admin/reset", cfg.Admin.Reset)
		router.Get("/healthz", cfg.Admin.Health)
	}

	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return router
}
