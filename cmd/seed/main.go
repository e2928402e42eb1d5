// Command seed loads a demo account and a handful of thoughts, for
// local development against a fresh database.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pmckinstry/ideas/internal/security/password"
	"github.com/pmckinstry/ideas/internal/store/core"
	"github.com/pmckinstry/ideas/internal/store/pg"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var (
		dsn   = flag.String("dsn", os.Getenv("DATABASE_DSN"), "postgres connection string")
		email = flag.String("email", "demo@example.com", "demo account email")
		pass  = flag.String("password", "demo-password-1", "demo account password")
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

	hash, err := password.Hash(password.Default, *pass)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	acc, err := store.CreateAccount(ctx, core.NewAccount{
		Username:     "demo",
		Email:        *email,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			log.Println("demo account already exists, skipping")
			return
		}
		log.Fatalf("create account: %v", err)
	}

	samples := []core.Thought{
		{Title: "Read about CRDTs", Content: "Conflict-free replicated data types for the sync feature.", Category: "engineering", Tags: []string{"reading", "distributed"}},
		{Title: "Garden layout", Content: "Tomatoes on the south bed, herbs near the kitchen door.", Category: "home", Tags: []string{"garden"}, Public: true},
		{Title: "Gift ideas", Content: "Notebook, fountain pen, that tea sampler.", Category: "personal", Tags: []string{"gifts"}},
	}
	for i := range samples {
		samples[i].AccountID = acc.ID
		if err := store.CreateThought(ctx, &samples[i]); err != nil {
			log.Fatalf("create thought %q: %v", samples[i].Title, err)
		}
	}

	log.Printf("seeded account %s with %d thoughts", acc.Email, len(samples))
}
