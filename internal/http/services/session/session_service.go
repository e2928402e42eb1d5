// Package session establishes and resolves the authenticated principal
// for a browser session. Session IDs are opaque; the payload lives in
// the cache keyed by the hash of the ID.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pmckinstry/ideas/internal/cache"
	"github.com/pmckinstry/ideas/internal/observability/logger"
	tokens "github.com/pmckinstry/ideas/internal/security/token"
	"github.com/pmckinstry/ideas/internal/store/core"
)

// Payload is what a session id resolves to.
type Payload struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	Expires   time.Time `json:"expires"`
}

// Config controls the session cookie.
type Config struct {
	CookieName string
	Domain     string
	SameSite   string // "Lax" | "Strict" | "None"
	Secure     bool
	TTL        time.Duration
}

// Service binds a resolved account to the client session and resolves
// incoming session cookies. Binding has no side effect beyond the
// session-state write, so re-binding the same account is harmless.
type Service interface {
	Bind(ctx context.Context, acc *core.Account) (sessionID string, err error)
	Resolve(ctx context.Context, sessionID string) (*Payload, error)
	Destroy(ctx context.Context, sessionID string) error
	Cookie(sessionID string) *http.Cookie
	ClearCookie() *http.Cookie
	CookieName() string
}

var (
	ErrSessionNotFound = errors.New("session: not found or expired")
	ErrBindFailed      = errors.New("session: failed to create session")
)

// Deps contains dependencies for the session service.
type Deps struct {
	Cache  cache.Client
	Config Config
}

type service struct {
	cache cache.Client
	cfg   Config
}

func New(d Deps) Service {
	cfg := d.Config
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.SameSite == "" {
		cfg.SameSite = "Lax"
	}
	return &service{cache: d.Cache, cfg: cfg}
}

func key(sessionID string) string {
	return "sid:" + tokens.SHA256Base64URL(sessionID)
}

func (s *service) Bind(ctx context.Context, acc *core.Account) (string, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("session"))

	sessionID, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		log.Error("failed to generate session id", logger.Err(err))
		return "", ErrBindFailed
	}

	payload := Payload{
		AccountID: acc.ID,
		Username:  acc.Username,
		Expires:   time.Now().Add(s.cfg.TTL),
	}
	b, _ := json.Marshal(payload)
	if err := s.cache.Set(ctx, key(sessionID), string(b), s.cfg.TTL); err != nil {
		log.Error("failed to store session", logger.Err(err))
		return "", ErrBindFailed
	}

	log.Debug("session bound", logger.AccountID(acc.ID))
	return sessionID, nil
}

func (s *service) Resolve(ctx context.Context, sessionID string) (*Payload, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := s.cache.Get(ctx, key(sessionID))
	if err != nil {
		return nil, ErrSessionNotFound
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, ErrSessionNotFound
	}
	if !p.Expires.IsZero() && time.Now().After(p.Expires) {
		_ = s.cache.Delete(ctx, key(sessionID))
		return nil, ErrSessionNotFound
	}
	return &p, nil
}

func (s *service) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.cache.Delete(ctx, key(sessionID))
}

func (s *service) sameSite() http.SameSite {
	switch strings.ToLower(s.cfg.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (s *service) Cookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   s.cfg.Domain,
		MaxAge:   int(s.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: s.sameSite(),
	}
}

func (s *service) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: s.sameSite(),
	}
}

func (s *service) CookieName() string { return s.cfg.CookieName }
