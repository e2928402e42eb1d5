// Package social contains the controllers for the federated login flow.
package social

import (
	"github.com/pmckinstry/ideas/internal/http/services/session"
	svc "github.com/pmckinstry/ideas/internal/http/services/social"
)

// Deps groups what the social controllers need.
type Deps struct {
	Start    svc.StartService
	Callback svc.CallbackService
	Sessions session.Service
	// LoginPath receives the user agent on flow failures.
	LoginPath string
	// SuccessPath receives the user agent after a session is bound.
	SuccessPath string
}

// Controllers aggregates the social domain controllers.
type Controllers struct {
	Start    *StartController
	Callback *CallbackController
}

func NewControllers(d Deps) *Controllers {
	if d.LoginPath == "" {
		d.LoginPath = "/login"
	}
	if d.SuccessPath == "" {
		d.SuccessPath = "/"
	}
	return &Controllers{
		Start:    &StartController{service: d.Start, successPath: d.SuccessPath, loginPath: d.LoginPath},
		Callback: &CallbackController{service: d.Callback, sessions: d.Sessions, successPath: d.SuccessPath, loginPath: d.LoginPath},
	}
}
