// internal/database/migrate.go
package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	log "github.com/sirupsen/logrus"
)

// Migrate creates or updates the board tables
func (db *DB) Migrate(ctx context.Context) error {
	log.Info("🔄 Running auto migration...")
	m, err := schema.NewMigrate(
		db.Driver(),
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("run auto migration: %w", err)
	}
	log.Info("✅ Auto migration completed")
	return nil
}
