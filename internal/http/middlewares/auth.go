package middlewares

import (
	"net/http"

	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/http/services/session"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// WithSession resolves the session cookie and, when valid, attaches the
// Principal to the context. Invalid or absent cookies pass through
// anonymously; use RequireAuth to enforce authentication.
func WithSession(sessions session.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(sessions.CookieName())
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := sessions.Resolve(r.Context(), c.Value)
			if err != nil {
				// Stale cookie, clear it.
				http.SetCookie(w, sessions.ClearCookie())
				next.ServeHTTP(w, r)
				return
			}

			ctx := setPrincipal(r.Context(), principalFromPayload(c.Value, payload))
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.AccountID(payload.AccountID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated principal.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPrincipal(r.Context()) == nil {
				httperr.WriteError(w, httperr.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
