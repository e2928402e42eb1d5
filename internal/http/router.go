// Package http assembles the router, server and instrumentation.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	adminctl "github.com/pmckinstry/ideas/internal/http/controllers/admin"
	authctl "github.com/pmckinstry/ideas/internal/http/controllers/auth"
	healthctl "github.com/pmckinstry/ideas/internal/http/controllers/health"
	socialctl "github.com/pmckinstry/ideas/internal/http/controllers/social"
	thoughtsctl "github.com/pmckinstry/ideas/internal/http/controllers/thoughts"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/http/middlewares"
	"github.com/pmckinstry/ideas/internal/http/services/session"
	"github.com/pmckinstry/ideas/internal/metrics"
)

// RouterDeps groups everything the router mounts.
type RouterDeps struct {
	Auth     *authctl.Controllers
	Social   *socialctl.Controllers
	Thoughts *thoughtsctl.Controller
	Health   *healthctl.Controller
	Admin    *adminctl.Controller

	Sessions       session.Service
	AdminAPIKey    string
	AllowedOrigins []string
	MetricsHandler http.Handler
}

// NewRouter builds the HTTP routing table.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		metrics.WithHTTP,
		middlewares.WithCORS(d.AllowedOrigins),
		middlewares.WithSession(d.Sessions),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperr.WriteError(w, httperr.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperr.WriteError(w, httperr.ErrMethodNotAllowed)
	})

	// Probes and metrics.
	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register.Register)
			r.Post("/login", d.Auth.Login.Login)
			r.Post("/logout", d.Auth.Logout.Logout)

			r.With(middlewares.RequireAuth()).Post("/change-password", d.Auth.ChangePassword.ChangePassword)

			r.Route("/social", func(r chi.Router) {
				r.Get("/google", d.Social.Start.Start)
				r.Get("/google/callback", d.Social.Callback.Callback)
			})
		})

		r.With(middlewares.RequireAuth()).Get("/me", d.Auth.Me.Me)

		r.Route("/thoughts", func(r chi.Router) {
			r.Use(middlewares.RequireAuth())
			r.Post("/", d.Thoughts.Create)
			r.Get("/", d.Thoughts.List)
			r.Get("/{id}", d.Thoughts.Get)
			r.Patch("/{id}", d.Thoughts.Update)
			r.Delete("/{id}", d.Thoughts.Delete)
		})

		// Public reads allow anonymous access; Get falls back to
		// public-only visibility without a principal.
		r.Get("/public/thoughts", d.Thoughts.ListPublic)
		r.Get("/public/thoughts/{id}", d.Thoughts.Get)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewares.RequireAdminKey(d.AdminAPIKey))
			r.Get("/accounts", d.Admin.ListAccounts)
			r.Post("/accounts/{id}/disable", d.Admin.DisableAccount)
			r.Post("/accounts/{id}/enable", d.Admin.EnableAccount)
		})
	})

	return r
}
