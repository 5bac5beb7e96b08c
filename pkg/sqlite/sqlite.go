package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Astemirdum/library-circulation/pkg/migrate"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type DB struct {
	// Path is a file path or a "file:...?mode=memory" URI.
	Path string `yaml:"path" envconfig:"SQLITE_PATH"`
}

// NewSQLiteDB opens an embedded database. SQLite allows a single writer, so the
// pool is pinned to one connection; this also keeps in-memory databases alive.
func NewSQLiteDB(ctx context.Context, cfg *DB, migrations fs.FS) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	if !isMemory(cfg.Path) {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if migrations != nil {
		if err := migrate.Up(db.DB, migrate.DialectSQLite, migrations); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
