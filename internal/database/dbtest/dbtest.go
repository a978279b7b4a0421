// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/database"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t *testing.T) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000&_journal_mode=WAL", filepath.Join(t.TempDir(), "board.db"))
	db, err := database.Open(context.Background(), database.Config{Driver: "sqlite3", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}
