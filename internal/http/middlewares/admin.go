package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// RequireAdminKey guards operator endpoints with the X-Admin-API-Key
// header. An empty configured key disables the surface entirely.
func RequireAdminKey(apiKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				httperr.WriteError(w, httperr.ErrNotFound)
				return
			}
			got := r.Header.Get("X-Admin-API-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				logger.From(r.Context()).Warn("admin key rejected", logger.Path(r.URL.Path))
				httperr.WriteError(w, httperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
