package main

import (
	"flag"
	"log"

	"github.com/legitsearch/platform/internal/config"
	"github.com/legitsearch/platform/internal/db"
)

func main() {
	minimal := flag.Bool("minimal", false, "load the three-user fixture instead of the full demo data")
	flag.Parse()

	// Load configuration
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("failed to migrate db: %v", err)
	}

	seed := db.SeedTestData
	if *minimal {
		seed = db.SeedMinimalTestData
	}
	if err := seed(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
