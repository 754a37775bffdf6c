// Package db persists instrument profiles and a log of resolve requests in
// SQLite. The schema is managed by golang-migrate from embedded migrations.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/diffcalc/internal/monitoring"
	"github.com/banshee-data/diffcalc/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DevMode reads migrations from MigrationsDir on disk instead of the copy
// embedded in the binary.
var DevMode = false

// MigrationsDir is the on-disk migrations directory used in DevMode.
var MigrationsDir = "internal/db/migrations"

type DB struct {
	*sql.DB

	// Clock stamps stored rows. A nil Clock uses the wall clock.
	Clock timeutil.Clock
}

func (db *DB) now() time.Time {
	if db.Clock == nil {
		return time.Now().UTC()
	}
	return db.Clock.Now().UTC()
}

// getMigrationsFS returns the migration source rooted at the directory
// holding the *.sql files.
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		return os.DirFS(MigrationsDir), nil
	}
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return sub, nil
}

// MigrationsFS exposes the migration source used by NewDB, for CLI
// subcommands.
func MigrationsFS() (fs.FS, error) {
	return getMigrationsFS()
}

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"temp_store(MEMORY)",
	"foreign_keys(ON)",
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// NewDB opens the database at path and migrates it to the latest schema.
func NewDB(path string) (*DB, error) {
	return NewDBWithMigrationCheck(path, true)
}

// OpenDB opens the database at path without touching its schema, for
// tooling that manages migrations itself.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &DB{DB: sqlDB}, nil
}

// NewDBWithMigrationCheck opens the database at path. With migrate set the
// schema is brought up to date; otherwise a stale schema is only logged.
func NewDBWithMigrationCheck(path string, migrate bool) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	migFS, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, err
	}

	if migrate {
		if err := db.MigrateUp(migFS); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}

	stale, err := db.CheckMigrations(migFS)
	if err != nil {
		db.Close()
		return nil, err
	}
	if stale {
		monitoring.Logf("database %s has outstanding migrations; run 'diffcalc migrate up'", path)
	}
	return db, nil
}
