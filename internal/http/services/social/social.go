// Package social implements federated login: flow initiation, the OAuth
// callback, and reconciliation of the fetched provider profile against
// the account store.
package social

import (
	"context"
	"errors"
	"fmt"
)

// Profile is the normalized identity fetched from a provider.
type Profile struct {
	Provider  string
	SubjectID string
	Email     string
	Name      string
}

// Provider abstracts the outbound OAuth client. The two calls map to the
// two network round-trips of the code flow; which one failed decides the
// error kind surfaced to the user.
type Provider interface {
	Name() string
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Flow errors. Every one of these maps to a redirect back to the login
// entry point with a distinct user-visible message; none escapes the
// controller.
var (
	ErrProviderNotConfigured  = errors.New("social: provider not configured")
	ErrNoAuthorizationCode    = errors.New("social: no authorization code in callback")
	ErrInvalidState           = errors.New("social: invalid or expired state")
	ErrTokenExchangeFailed    = errors.New("social: token exchange failed")
	ErrProfileFetchFailed     = errors.New("social: profile fetch failed")
	ErrEmailMissing           = errors.New("social: email missing from provider profile")
	ErrEmailAlreadyRegistered = errors.New("social: email already registered with another login method")
	ErrAccountDisabled        = errors.New("social: account disabled")
)

// ProviderError is the provider redirecting back with an error code
// (e.g. access_denied) instead of an authorization code. No network
// call is made in that case.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("social: provider returned error %q", e.Code)
}
