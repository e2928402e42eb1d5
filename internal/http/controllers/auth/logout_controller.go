package auth

import (
	"net/http"

	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/http/middlewares"
	"github.com/pmckinstry/ideas/internal/http/services/session"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// LogoutController destroys the caller's session.
type LogoutController struct {
	sessions session.Service
}

// Logout handles POST /v1/auth/logout
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := middlewares.GetPrincipal(ctx)
	if p != nil {
		if err := c.sessions.Destroy(ctx, p.SessionID); err != nil {
			logger.From(ctx).Warn("session destroy failed", logger.Err(err))
		}
	}

	http.SetCookie(w, c.sessions.ClearCookie())
	httperr.WriteJSON(w, http.StatusNoContent, nil)
}
