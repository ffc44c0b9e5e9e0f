// Command main seeds the skill catalog and demo users into a SQL store.
package main

import (
	"context"
	"flag"
	"log"

	"skillswap/internal/bootstrap"
	"skillswap/internal/config"
	"skillswap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of demo users to create")
	seedValue := flag.Int64("seed", 0, "Random seed for reproducible users (0 uses the clock)")
	catalogOnly := flag.Bool("catalog-only", false, "Seed the skill catalog and quizzes only")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver == config.StoreMemory {
		log.Fatal("STORE_DRIVER=memory has nothing to persist; use sqlite or postgres")
	}

	repos, db, err := bootstrap.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx := context.Background()
	if err := seed.Catalog(ctx, repos); err != nil {
		log.Fatalf("Catalog seeding failed: %v", err)
	}
	log.Println("Skill catalog and quizzes are in place")

	if *catalogOnly {
		return
	}

	users, err := seed.DemoUsers(ctx, repos, seed.DemoOptions{Count: *numUsers, Seed: *seedValue})
	if err != nil {
		log.Fatalf("Demo user seeding failed: %v", err)
	}
	log.Printf("Created %d demo users", len(users))
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
