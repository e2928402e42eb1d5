package auth

import (
	"errors"
	"net/http"

	dto "github.com/pmckinstry/ideas/internal/http/dto/auth"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/http/middlewares"
	authsvc "github.com/pmckinstry/ideas/internal/http/services/auth"
)

// MeController returns the authenticated account.
type MeController struct {
	auth authsvc.Service
}

// Me handles GET /v1/me
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := middlewares.GetPrincipal(ctx)
	if p == nil {
		httperr.WriteError(w, httperr.ErrUnauthorized)
		return
	}

	acc, err := c.auth.Me(ctx, p.AccountID)
	if err != nil {
		if errors.Is(err, authsvc.ErrNotFound) {
			// Session outlived the account.
			httperr.WriteError(w, httperr.ErrSessionExpired)
			return
		}
		httperr.WriteError(w, httperr.ErrInternalServerError.WithCause(err))
		return
	}

	httperr.WriteJSON(w, http.StatusOK, dto.FromAccount(acc))
}
