// Package store implements the sqlite-backed workspace store: documents,
// sessions, and plugin settings, with schema migrations embedded in the
// binary.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/services/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the sqlite connection to the workspace store.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (or creates) the workspace store at path, backing up any
// existing database file before running pending migrations.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	if err := backupExisting(path); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatStore, "Workspace store opened", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// backupExisting copies the current database file to path.bak before
// migrations touch it. A missing file is not an error.
func backupExisting(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading store for backup: %w", err)
	}
	if err := os.WriteFile(path+".bak", data, 0600); err != nil {
		return fmt.Errorf("writing store backup: %w", err)
	}
	return nil
}

func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Conn exposes the underlying connection for repositories and tests.
func (db *DB) Conn() *sql.DB { return db.conn }

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Documents returns the document repository backed by this store.
func (db *DB) Documents() domain.DocumentRepository {
	return newDocumentRepository(db.conn)
}

// Sessions returns the session repository backed by this store.
func (db *DB) Sessions() domain.SessionRepository {
	return newSessionRepository(db.conn)
}

// Settings returns the settings repository backed by this store.
func (db *DB) Settings() domain.SettingsRepository {
	return newSettingsRepository(db.conn)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
