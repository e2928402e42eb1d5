package auth

import (
	"errors"
	"net/http"

	dto "github.com/pmckinstry/ideas/internal/http/dto/auth"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	authsvc "github.com/pmckinstry/ideas/internal/http/services/auth"
	"github.com/pmckinstry/ideas/internal/http/services/session"
	"github.com/pmckinstry/ideas/internal/metrics"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// LoginController handles local credential login.
type LoginController struct {
	auth     authsvc.Service
	sessions session.Service
}

// Login handles POST /v1/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if err := httperr.ReadJSON(w, r, &req); err != nil {
		httperr.WriteError(w, err)
		return
	}

	acc, err := c.auth.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		switch {
		case errors.Is(err, authsvc.ErrRateLimited):
			metrics.RecordLoginAttempt("rate_limited")
			httperr.WriteError(w, httperr.ErrRateLimitExceeded)
		case errors.Is(err, authsvc.ErrAccountDisabled):
			metrics.RecordLoginAttempt("disabled")
			httperr.WriteError(w, httperr.ErrAccountSuspended)
		case errors.Is(err, authsvc.ErrFederatedAccount):
			metrics.RecordLoginAttempt("invalid")
			httperr.WriteError(w, httperr.ErrInvalidCredentials.WithDetail("account uses federated login"))
		default:
			metrics.RecordLoginAttempt("invalid")
			httperr.WriteError(w, httperr.ErrInvalidCredentials)
		}
		return
	}

	sid, err := c.sessions.Bind(ctx, acc)
	if err != nil {
		httperr.WriteError(w, httperr.ErrInternalServerError.WithCause(err))
		return
	}
	http.SetCookie(w, c.sessions.Cookie(sid))

	metrics.RecordLoginAttempt("ok")
	w.Header().Set("Cache-Control", "no-store")
	httperr.WriteJSON(w, http.StatusOK, dto.FromAccount(acc))
}
