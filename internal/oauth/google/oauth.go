// Package google implements the OAuth 2.0 authorization-code flow against
// Google: it builds the authorization URL, exchanges the one-time code for
// an access token and fetches the user profile. It keeps no local state;
// both operations are plain outbound HTTP calls.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthEndpoint     = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenEndpoint    = "https://oauth2.googleapis.com/token"
	defaultUserinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Client is the Google OAuth 2.0 client.
type Client struct {
	ClientID     string
	ClientSecret string
	// RedirectURL must exactly match the value registered with Google and
	// is echoed on the token exchange.
	RedirectURL string
	Scopes      []string

	// Endpoints are overridable for tests.
	AuthEndpoint     string
	TokenEndpoint    string
	UserinfoEndpoint string

	http *http.Client
}

// New creates a Google OAuth client.
func New(clientID, clientSecret, redirectURL string, scopes []string) *Client {
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &Client{
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		RedirectURL:      redirectURL,
		Scopes:           scopes,
		AuthEndpoint:     defaultAuthEndpoint,
		TokenEndpoint:    defaultTokenEndpoint,
		UserinfoEndpoint: defaultUserinfoEndpoint,
		http:             &http.Client{Timeout: 10 * time.Second},
	}
}

// TransportError is a network-level failure, as opposed to a non-2xx
// response from the provider.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("google %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-success provider response with the body captured
// for operator diagnostics.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("google %s: http %d: %s", e.Op, e.Status, e.Body)
}

// ErrMissingToken is returned when a 200 token response carries no
// access_token.
var ErrMissingToken = fmt.Errorf("google token: no access_token in response")

// AuthURL builds the authorization URL. The state value is carried
// opaquely and returned by Google on the callback.
func (c *Client) AuthURL(state string) string {
	u, _ := url.Parse(c.AuthEndpoint)
	q := u.Query()
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("scope", strings.Join(c.Scopes, " "))
	q.Set("response_type", "code")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenResponse is the token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	IDToken     string `json:"id_token,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// ExchangeCode exchanges an authorization code for an access token.
// The redirect URL echoed here must match the one used on AuthURL;
// Google enforces that.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, "POST", c.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &HTTPError{Op: "token", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("google token: decode response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, ErrMissingToken
	}
	return &tr, nil
}

// Profile contains the user information from the userinfo endpoint.
type Profile struct {
	SubjectID string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Picture   string `json:"picture,omitempty"`
}

// FetchProfile fetches the user profile with the access token.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.UserinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "userinfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &HTTPError{Op: "userinfo", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("google userinfo: decode response: %w", err)
	}
	if p.SubjectID == "" {
		return nil, fmt.Errorf("google userinfo: no subject id in response")
	}
	return &p, nil
}
