// Package app wires configuration into the running service: store,
// cache, services, controllers and the HTTP handler.
package app

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pmckinstry/ideas/internal/cache"
	"github.com/pmckinstry/ideas/internal/config"
	"github.com/pmckinstry/ideas/internal/email"
	api "github.com/pmckinstry/ideas/internal/http"
	adminctl "github.com/pmckinstry/ideas/internal/http/controllers/admin"
	authctl "github.com/pmckinstry/ideas/internal/http/controllers/auth"
	healthctl "github.com/pmckinstry/ideas/internal/http/controllers/health"
	socialctl "github.com/pmckinstry/ideas/internal/http/controllers/social"
	thoughtsctl "github.com/pmckinstry/ideas/internal/http/controllers/thoughts"
	adminsvc "github.com/pmckinstry/ideas/internal/http/services/admin"
	authsvc "github.com/pmckinstry/ideas/internal/http/services/auth"
	"github.com/pmckinstry/ideas/internal/http/services/session"
	"github.com/pmckinstry/ideas/internal/http/services/social"
	thoughtssvc "github.com/pmckinstry/ideas/internal/http/services/thoughts"
	"github.com/pmckinstry/ideas/internal/metrics"
	"github.com/pmckinstry/ideas/internal/oauth/google"
	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/rate"
	"github.com/pmckinstry/ideas/internal/security/password"
	"github.com/pmckinstry/ideas/internal/store/core"
	"github.com/pmckinstry/ideas/internal/store/memory"
	"github.com/pmckinstry/ideas/internal/store/pg"
	"github.com/pmckinstry/ideas/migrations/postgres"
)

// App holds the wired application.
type App struct {
	Config  *config.Config
	Store   core.Repository
	Cache   cache.Client
	Handler nethttp.Handler

	pgStore *pg.Store
}

// Options tweaks wiring behavior.
type Options struct {
	// Migrate applies pending migrations on startup (postgres only).
	Migrate bool
}

// New builds the full application from config.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.L().With(logger.Component("app"))

	a := &App{Config: cfg}

	// Store.
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MinIdleConns:    cfg.Storage.Postgres.MinIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		if opts.Migrate {
			if err := store.RunMigrations(ctx, postgres.FS, postgres.Dir); err != nil {
				store.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations applied")
		}
		a.Store = store
		a.pgStore = store
	case "memory":
		a.Store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Cache.
	c, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("cache: %w", err)
	}
	a.Cache = c

	// Sessions.
	sessions := session.New(session.Deps{
		Cache: c,
		Config: session.Config{
			CookieName: cfg.Auth.Session.CookieName,
			Domain:     cfg.Auth.Session.Domain,
			SameSite:   cfg.Auth.Session.SameSite,
			Secure:     cfg.Auth.Session.Secure,
			TTL:        cfg.SessionTTL(),
		},
	})

	// Optional mailer.
	var mailer email.Sender
	if cfg.SMTP.Host != "" {
		mailer = email.FromConfig(email.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.From,
		})
	}

	// Optional login limiter.
	var limiter *rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.NewLimiter(c, int64(cfg.Rate.Login.Limit), cfg.LoginWindow())
	}

	policy := password.Policy{
		MinLength:     cfg.Security.PasswordPolicy.MinLength,
		RequireUpper:  cfg.Security.PasswordPolicy.RequireUpper,
		RequireLower:  cfg.Security.PasswordPolicy.RequireLower,
		RequireDigit:  cfg.Security.PasswordPolicy.RequireDigit,
		RequireSymbol: cfg.Security.PasswordPolicy.RequireSymbol,
	}

	authService := authsvc.New(authsvc.Deps{
		Store:   a.Store,
		Policy:  policy,
		Mailer:  mailer,
		Limiter: limiter,
	})
	thoughtsService := thoughtssvc.New(a.Store)
	adminService := adminsvc.New(a.Store)

	// Federated login. A nil provider keeps the routes mounted but the
	// flow refuses with a clear message.
	var provider social.Provider
	if cfg.GoogleConfigured() {
		provider = social.NewGoogleProvider(google.New(
			cfg.Providers.Google.ClientID,
			cfg.Providers.Google.ClientSecret,
			cfg.Providers.Google.RedirectURL,
			cfg.Providers.Google.Scopes,
		))
		log.Info("google federated login enabled")
	} else {
		log.Info("google federated login disabled")
	}
	signer := social.NewStateSigner(cfg.Auth.StateSecret, 0)
	startService := social.NewStartService(social.StartDeps{Provider: provider, StateSigner: signer})
	callbackService := social.NewCallbackService(social.CallbackDeps{
		Provider:    provider,
		StateSigner: signer,
		Reconciler:  social.NewReconciler(a.Store),
	})

	// Metrics.
	var poolFn func() *pgxpool.Pool
	if a.pgStore != nil {
		poolFn = a.pgStore.Pool
	}
	metricsHandler, err := metrics.Register(metrics.Config{Pool: poolFn})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}

	a.Handler = api.NewRouter(api.RouterDeps{
		Auth: authctl.NewControllers(authctl.Deps{
			Auth:      authService,
			Sessions:  sessions,
			AutoLogin: cfg.Auth.Register.AutoLogin,
		}),
		Social: socialctl.NewControllers(socialctl.Deps{
			Start:    startService,
			Callback: callbackService,
			Sessions: sessions,
		}),
		Thoughts:       thoughtsctl.NewController(thoughtsService),
		Health:         healthctl.NewController(a.Store, c),
		Admin:          adminctl.NewController(adminService),
		Sessions:       sessions,
		AdminAPIKey:    cfg.Admin.APIKey,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MetricsHandler: metricsHandler,
	})

	return a, nil
}

// Close releases the store and cache.
func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
