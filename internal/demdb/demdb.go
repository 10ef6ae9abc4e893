// Package demdb persists the history of DEM rasterization runs in
// SQLite. The rasterization core never touches it; cmd/demgen records
// a run only after its artifact set has been fully written.
package demdb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the run-history database handle.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the run database at path and
// applies pending migrations.
func Open(path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run db %s: %w", path, err)
	}
	if _, err := handle.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("configure run db: %w", err)
	}

	db := &DB{handle}
	if err := db.migrateUp(); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// migrateUp applies all pending embedded migrations.
func (db *DB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	// Closing m would close the underlying DB connection, so it is
	// left to the garbage collector.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate run db: %w", err)
	}
	return nil
}

// migrateLogger adapts the standard logger to migrate.Logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
