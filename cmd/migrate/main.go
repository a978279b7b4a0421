// cmd/migrate/main.go
package main

import (
	"context"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.DatabaseDSN(),
		Debug:  cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("✅ Migrations completed successfully!")
}
