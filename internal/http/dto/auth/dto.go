// Package auth holds the wire types for the auth endpoints.
package auth

import (
	"time"

	"github.com/pmckinstry/ideas/internal/store/core"
)

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /v1/auth/login. Identifier accepts
// either the email or the username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// ChangePasswordRequest is the body for POST /v1/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// FromAccount maps a store account to its public view.
func FromAccount(acc *core.Account) AccountResponse {
	out := AccountResponse{
		ID:        acc.ID,
		Username:  acc.Username,
		Email:     acc.Email,
		Active:    acc.Active,
		CreatedAt: acc.CreatedAt,
	}
	if acc.Federated != nil {
		out.Provider = acc.Federated.Provider
	}
	return out
}
