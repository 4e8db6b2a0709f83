package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/lib/pq"   // PostgreSQL driver for database/sql
	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/guttosm/barstore/config"
	"github.com/guttosm/barstore/internal/storage"
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open.
var sqlOpener = sql.Open

// OpenDB opens and pings the relational backend selected by
// cfg.Database.Driver.
//
// Behavior:
//   - sqlite: opens the file at cfg.Database.SQLitePath (created on demand).
//   - postgres: connects with the DSN built by config.LoadConfig (cfg.Postgres.URL).
//
// Returns:
//   - *sql.DB: an open connection pool (safe for concurrent use).
//   - storage.Dialect: the dialect the repository must speak.
//   - error: if the driver is unknown or opening/pinging fails.
func OpenDB(ctx context.Context, cfg config.Config) (*sql.DB, storage.Dialect, error) {
	dialect, err := storage.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.Database.SQLitePath
	if dialect == storage.Postgres {
		dsn = cfg.Postgres.URL
	}

	db, err := sqlOpener(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", dialect, err)
	}
	if dialect == storage.SQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// dbOpener is an indirection used by InitializeApp and the pipelines;
// overridden in tests to avoid real connections.
var dbOpener = OpenDB

// removeSQLiteFile deletes the SQLite database file so an ingest run starts
// from an empty store. A missing file is not an error.
func removeSQLiteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing database %s: %w", path, err)
	}
	return nil
}
