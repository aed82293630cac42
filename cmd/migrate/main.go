// Command migrate applies the database schema.
package main

import (
	"fmt"
	"log"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/config"
	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Connect already migrates outside production; run explicitly so
	// production deploys can apply schema as a release step.
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("migrations applied")
	return nil
}
