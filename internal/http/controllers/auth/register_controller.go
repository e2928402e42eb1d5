package auth

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/pmckinstry/ideas/internal/http/dto/auth"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	authsvc "github.com/pmckinstry/ideas/internal/http/services/auth"
	"github.com/pmckinstry/ideas/internal/http/services/session"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// RegisterController handles account creation.
type RegisterController struct {
	auth      authsvc.Service
	sessions  session.Service
	autoLogin bool
}

// Register handles POST /v1/auth/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if err := httperr.ReadJSON(w, r, &req); err != nil {
		httperr.WriteError(w, err)
		return
	}

	acc, err := c.auth.Register(ctx, authsvc.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			httperr.WriteError(w, httperr.ErrEmailAlreadyInUse)
		case errors.Is(err, authsvc.ErrUsernameTaken):
			httperr.WriteError(w, httperr.ErrUsernameTaken)
		case errors.Is(err, authsvc.ErrWeakPassword):
			var weak *authsvc.WeakPasswordError
			detail := ""
			if errors.As(err, &weak) {
				detail = strings.Join(weak.Reasons, ", ")
			}
			httperr.WriteError(w, httperr.ErrPasswordTooWeak.WithDetail(detail))
		default:
			httperr.WriteError(w, httperr.ErrBadRequest.WithCause(err))
		}
		return
	}

	if c.autoLogin && c.sessions != nil {
		if sid, err := c.sessions.Bind(ctx, acc); err == nil {
			http.SetCookie(w, c.sessions.Cookie(sid))
		} else {
			log.Warn("auto-login failed", logger.Err(err))
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	httperr.WriteJSON(w, http.StatusCreated, dto.FromAccount(acc))
}
