package auth

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/pmckinstry/ideas/internal/http/dto/auth"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/http/middlewares"
	authsvc "github.com/pmckinstry/ideas/internal/http/services/auth"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// ChangePasswordController rotates the local credential.
type ChangePasswordController struct {
	auth authsvc.Service
}

// ChangePassword handles POST /v1/auth/change-password
func (c *ChangePasswordController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ChangePasswordController.ChangePassword"))

	p := middlewares.GetPrincipal(ctx)
	if p == nil {
		httperr.WriteError(w, httperr.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := httperr.ReadJSON(w, r, &req); err != nil {
		httperr.WriteError(w, err)
		return
	}

	err := c.auth.ChangePassword(ctx, p.AccountID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		log.Debug("change password failed", logger.Err(err))
		switch {
		case errors.Is(err, authsvc.ErrFederatedAccount):
			httperr.WriteError(w, httperr.ErrConflict.WithDetail("federated accounts have no local password"))
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			httperr.WriteError(w, httperr.ErrInvalidCredentials)
		case errors.Is(err, authsvc.ErrWeakPassword):
			var weak *authsvc.WeakPasswordError
			detail := ""
			if errors.As(err, &weak) {
				detail = strings.Join(weak.Reasons, ", ")
			}
			httperr.WriteError(w, httperr.ErrPasswordTooWeak.WithDetail(detail))
		default:
			httperr.WriteError(w, httperr.ErrInternalServerError.WithCause(err))
		}
		return
	}

	httperr.WriteJSON(w, http.StatusNoContent, nil)
}
