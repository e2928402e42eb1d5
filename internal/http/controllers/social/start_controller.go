package social

import (
	"net/http"

	"github.com/pmckinstry/ideas/internal/http/middlewares"
	svc "github.com/pmckinstry/ideas/internal/http/services/social"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// StartController redirects the user agent to the provider's consent
// screen.
type StartController struct {
	service     svc.StartService
	successPath string
	loginPath   string
}

// Start handles GET /v1/auth/social/google
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Start"))

	// Already signed in, nothing to initiate.
	if middlewares.GetPrincipal(ctx) != nil {
		http.Redirect(w, r, c.successPath, http.StatusFound)
		return
	}

	authURL, err := c.service.Start(ctx)
	if err != nil {
		log.Warn("federated login start failed", logger.Err(err))
		redirectWithError(w, r, c.loginPath, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, authURL, http.StatusFound)
}
