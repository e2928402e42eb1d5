package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pmckinstry/ideas/internal/store/pg"
	"github.com/pmckinstry/ideas/migrations/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var (
		dsn  = flag.String("dsn", os.Getenv("DATABASE_DSN"), "postgres connection string")
		down = flag.Bool("down", false, "roll migrations back instead of applying them")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing -dsn (or DATABASE_DSN)")
	}

	ctx := context.Background()
	store, err := pg.New(ctx, *dsn, pg.Options{})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer store.Close()

	if *down {
		if err := store.RunMigrationsDown(ctx, postgres.FS, postgres.Dir); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("migrations rolled back")
		return
	}

	if err := store.RunMigrations(ctx, postgres.FS, postgres.Dir); err != nil {
		log.Fatalf("migrate up: %v", err)
	}
	log.Println("migrations applied")
}
