package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pmckinstry/ideas/internal/app"
	"github.com/pmckinstry/ideas/internal/config"
	api "github.com/pmckinstry/ideas/internal/http"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

const version = "0.3.0"

func main() {
	// Load .env if present; system env still wins inside config.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var (
		configPath = flag.String("config", defaultConfigPath(), "path to config.yaml (empty = env/defaults only)")
		migrate    = flag.Bool("migrate", true, "apply pending migrations on startup")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "ideas",
		Version:     version,
	})
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{Migrate: *migrate})
	if err != nil {
		logger.L().Fatal("wiring failed", logger.Err(err))
	}
	defer a.Close()

	srv := api.NewServer(cfg.Server.Addr, a.Handler)
	if err := srv.Run(ctx); err != nil {
		logger.L().Fatal("server failed", logger.Err(err))
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("IDEAS_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}
