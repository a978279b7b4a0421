// internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// Config for database connection
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// DB bundles the handles the repositories and migrations need. All of them
// share one connection pool.
type DB struct {
	*sqlx.DB
	driver  *entsql.Driver
	dialect string
	debug   bool
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, cfg Config) (*DB, error) {
	var name string
	switch cfg.Driver {
	case dialect.Postgres:
		name = dialect.Postgres
	case dialect.SQLite:
		name = dialect.SQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.WithField("driver", name).Info("✅ Connected to database")
	return &DB{
		DB:      sqlx.NewDb(db, name),
		driver:  entsql.OpenDB(name, db),
		dialect: name,
		debug:   cfg.Debug,
	}, nil
}

// Dialect returns the SQL dialect used to build queries
func (db *DB) Dialect() string {
	return db.dialect
}

// Driver returns the ent driver over the shared pool
func (db *DB) Driver() dialect.Driver {
	if db.debug {
		return dialect.DebugWithContext(db.driver, func(ctx context.Context, v ...any) {
			log.WithContext(ctx).Debug(v...)
		})
	}
	return db.driver
}
