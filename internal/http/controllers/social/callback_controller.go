package social

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/pmckinstry/ideas/internal/http/services/session"
	svc "github.com/pmckinstry/ideas/internal/http/services/social"
	"github.com/pmckinstry/ideas/internal/metrics"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// CallbackController finishes the federated login flow. Every failure
// sends the user agent back to the login page with a distinct message;
// success binds a session and redirects into the app.
type CallbackController struct {
	service     svc.CallbackService
	sessions    session.Service
	successPath string
	loginPath   string
}

// Callback handles GET /v1/auth/social/google/callback
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	q := r.URL.Query()
	result, err := c.service.Callback(ctx, svc.CallbackRequest{
		Code:       strings.TrimSpace(q.Get("code")),
		State:      strings.TrimSpace(q.Get("state")),
		ErrorParam: strings.TrimSpace(q.Get("error")),
	})
	if err != nil {
		log.Warn("federated callback failed", logger.Err(err))
		metrics.RecordSocialLogin(svc.ProviderGoogle, callbackOutcome(err))
		redirectWithError(w, r, c.loginPath, err)
		return
	}

	sid, err := c.sessions.Bind(ctx, result.Account)
	if err != nil {
		log.Error("session bind failed", logger.Err(err))
		metrics.RecordSocialLogin(svc.ProviderGoogle, "error")
		redirectWithError(w, r, c.loginPath, err)
		return
	}
	http.SetCookie(w, c.sessions.Cookie(sid))

	if result.Created {
		metrics.RecordSocialLogin(svc.ProviderGoogle, "created")
	} else {
		metrics.RecordSocialLogin(svc.ProviderGoogle, "ok")
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	http.Redirect(w, r, c.successPath, http.StatusFound)
}

func callbackOutcome(err error) string {
	if errors.Is(err, svc.ErrEmailAlreadyRegistered) || errors.Is(err, svc.ErrAccountDisabled) {
		return "rejected"
	}
	return "error"
}

// flowErrorMessage maps a flow error to the message shown on the login
// page. Each failure kind keeps its own wording so users and support
// can tell them apart.
func flowErrorMessage(err error) string {
	var provErr *svc.ProviderError
	switch {
	case errors.Is(err, svc.ErrProviderNotConfigured):
		return "Login with Google is not available."
	case errors.As(err, &provErr):
		if provErr.Code == "access_denied" {
			return "Google sign-in was cancelled."
		}
		return "Google reported an error: " + provErr.Code + "."
	case errors.Is(err, svc.ErrNoAuthorizationCode):
		return "Google did not return an authorization code."
	case errors.Is(err, svc.ErrInvalidState):
		return "The sign-in request expired or was tampered with. Please try again."
	case errors.Is(err, svc.ErrTokenExchangeFailed):
		return "Could not complete sign-in with Google. Please try again."
	case errors.Is(err, svc.ErrProfileFetchFailed):
		return "Could not read your Google profile. Please try again."
	case errors.Is(err, svc.ErrEmailMissing):
		return "Your Google account did not share an email address."
	case errors.Is(err, svc.ErrEmailAlreadyRegistered):
		return "An account with this email already exists. Sign in with your password instead."
	case errors.Is(err, svc.ErrAccountDisabled):
		return "This account has been disabled."
	default:
		return "Sign-in failed. Please try again."
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, loginPath string, err error) {
	u := url.URL{Path: loginPath}
	q := u.Query()
	q.Set("error", flowErrorMessage(err))
	u.RawQuery = q.Encode()

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	http.Redirect(w, r, u.String(), http.StatusFound)
}
