// Package auth contains the controllers for local credential flows.
package auth

import (
	authsvc "github.com/pmckinstry/ideas/internal/http/services/auth"
	"github.com/pmckinstry/ideas/internal/http/services/session"
)

// Deps groups what the auth controllers need.
type Deps struct {
	Auth     authsvc.Service
	Sessions session.Service
	// AutoLogin binds a session right after registration.
	AutoLogin bool
}

// Controllers aggregates the auth domain controllers.
type Controllers struct {
	Register       *RegisterController
	Login          *LoginController
	Logout         *LogoutController
	Me             *MeController
	ChangePassword *ChangePasswordController
}

func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Register:       &RegisterController{auth: d.Auth, sessions: d.Sessions, autoLogin: d.AutoLogin},
		Login:          &LoginController{auth: d.Auth, sessions: d.Sessions},
		Logout:         &LogoutController{sessions: d.Sessions},
		Me:             &MeController{auth: d.Auth},
		ChangePassword: &ChangePasswordController{auth: d.Auth},
	}
}
