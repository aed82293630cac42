// Command seed populates the database with development data.
package main

import (
	"flag"
	"log"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/config"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/database"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.NewSeeder(db).Run(*numUsers, *numPosts, *shouldClean); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done. All seeded users share the password %q", seed.SeedPassword)
}
