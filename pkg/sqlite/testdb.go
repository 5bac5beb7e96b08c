package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// NewTestDB creates a fresh, private in-memory database with migrations applied.
func NewTestDB(t testing.TB, migrations fs.FS) *sqlx.DB {
	t.Helper()

	cfg := &DB{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())}
	db, err := NewSQLiteDB(context.Background(), cfg, migrations)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
