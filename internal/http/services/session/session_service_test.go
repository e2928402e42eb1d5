package session

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/pmckinstry/ideas/internal/cache"
	"github.com/pmckinstry/ideas/internal/store/core"
)

func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	return New(Deps{Cache: cache.NewMemory(""), Config: cfg})
}

func TestBindResolveDestroy(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{})
	ctx := context.Background()
	acc := &core.Account{ID: "acc-1", Username: "alice"}

	sid, err := svc.Bind(ctx, acc)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if sid == "" {
		t.Fatalf("empty session id")
	}

	p, err := svc.Resolve(ctx, sid)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.AccountID != "acc-1" || p.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if !p.Expires.After(time.Now()) {
		t.Fatalf("expiry should be in the future: %v", p.Expires)
	}

	if err := svc.Destroy(ctx, sid); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := svc.Resolve(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}
}

func TestResolveRejectsUnknownAndEmptyIDs(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{})
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("empty id: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Resolve(ctx, "no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown id: expected ErrSessionNotFound, got %v", err)
	}
}

func TestResolveExpiredPayload(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{TTL: time.Nanosecond})
	ctx := context.Background()

	sid, err := svc.Bind(ctx, &core.Account{ID: "acc-1", Username: "a"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Resolve(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
}

func TestBindsAreIndependent(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{})
	ctx := context.Background()
	acc := &core.Account{ID: "acc-1", Username: "a"}

	sid1, _ := svc.Bind(ctx, acc)
	sid2, _ := svc.Bind(ctx, acc)
	if sid1 == sid2 {
		t.Fatalf("session ids must be unique per bind")
	}

	// Destroying one session leaves the other valid.
	if err := svc.Destroy(ctx, sid1); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := svc.Resolve(ctx, sid2); err != nil {
		t.Fatalf("second session should survive: %v", err)
	}
}

func TestCookieAttributes(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{
		CookieName: "session",
		Domain:     "ideas.test",
		SameSite:   "Strict",
		Secure:     true,
		TTL:        time.Hour,
	})

	c := svc.Cookie("abc")
	if c.Name != "session" || c.Value != "abc" {
		t.Fatalf("unexpected cookie: %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Fatalf("cookie must be HttpOnly, Secure, path /: %+v", c)
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected SameSite=Strict, got %v", c.SameSite)
	}
	if c.Domain != "ideas.test" {
		t.Fatalf("expected domain, got %q", c.Domain)
	}

	cleared := svc.ClearCookie()
	if cleared.Name != "session" || cleared.Value != "" || cleared.MaxAge != -1 {
		t.Fatalf("clear cookie should expire immediately: %+v", cleared)
	}
}

func TestDefaultsApplied(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{})
	if svc.CookieName() != "sid" {
		t.Fatalf("expected default cookie name sid, got %q", svc.CookieName())
	}
	if svc.Cookie("x").SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected default SameSite=Lax")
	}
}
