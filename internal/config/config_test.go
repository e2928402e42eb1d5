package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks the override variables so a developer's shell does not
// leak into the assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "SERVER_ADDR", "BASE_URL",
		"DATABASE_DSN", "REDIS_ADDR", "SESSION_STATE_SECRET",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "ADMIN_API_KEY",
		"RATE_ENABLED", "SMTP_PORT", "SMTP_HOST",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Env != "dev" || c.App.LogLevel != "info" {
		t.Fatalf("app defaults: %+v", c.App)
	}
	if c.Server.Addr != ":8080" || c.Storage.Driver != "memory" || c.Cache.Kind != "memory" {
		t.Fatalf("infra defaults: %+v %+v %+v", c.Server, c.Storage, c.Cache)
	}
	if c.Auth.Session.CookieName != "sid" || c.SessionTTL() != 12*time.Hour {
		t.Fatalf("session defaults: %+v", c.Auth.Session)
	}
	if c.Security.PasswordPolicy.MinLength != 8 {
		t.Fatalf("policy default: %+v", c.Security.PasswordPolicy)
	}
	if c.LoginWindow() != time.Minute || c.Rate.Login.Limit != 10 {
		t.Fatalf("rate defaults: %+v", c.Rate)
	}
	if c.GoogleConfigured() {
		t.Fatalf("google must be unconfigured by default")
	}
	want := "http://localhost:8080/v1/auth/social/google/callback"
	if c.Providers.Google.RedirectURL != want {
		t.Fatalf("redirect default: %q", c.Providers.Google.RedirectURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, `
app:
  env: prod
  log_level: warn
server:
  addr: ":9000"
  base_url: "https://ideas.example.com/"
auth:
  session:
    ttl: 30m
providers:
  google:
    enabled: true
    client_id: cid
    client_secret: secret
`)

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Env != "prod" || c.Server.Addr != ":9000" {
		t.Fatalf("file values not applied: %+v %+v", c.App, c.Server)
	}
	if c.SessionTTL() != 30*time.Minute {
		t.Fatalf("ttl: %v", c.SessionTTL())
	}
	if !c.GoogleConfigured() {
		t.Fatalf("google should be configured")
	}
	want := "https://ideas.example.com/v1/auth/social/google/callback"
	if c.Providers.Google.RedirectURL != want {
		t.Fatalf("redirect should strip trailing slash: %q", c.Providers.Google.RedirectURL)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, `
app:
  env: prod
`)
	t.Setenv("APP_ENV", "dev")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost/ideas")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Env != "dev" {
		t.Fatalf("env override lost: %q", c.App.Env)
	}
	if c.Storage.Driver != "postgres" || c.Storage.DSN == "" {
		t.Fatalf("DATABASE_DSN should switch the driver: %+v", c.Storage)
	}
	if !c.GoogleConfigured() {
		t.Fatalf("google env credentials should enable the provider")
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}

	p := writeConfig(t, "auth:\n  session:\n    ttl: \"not a duration\"\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("bad duration must error")
	}

	p = writeConfig(t, "storage:\n  driver: postgres\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("postgres without dsn must error")
	}
}

func TestDurationFallbacks(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Auth.Session.TTL = "garbage"
	c.Rate.Login.Window = "garbage"
	if c.SessionTTL() != 12*time.Hour || c.LoginWindow() != time.Minute {
		t.Fatalf("fallbacks: %v %v", c.SessionTTL(), c.LoginWindow())
	}
}
