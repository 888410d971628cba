// Package state persists administrator-installed printer settings so they
// survive a restart: the sub-record of defaults and the ready media list,
// keyed by printer name. Capability records themselves are not persisted;
// drivers rebuild them at startup.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"vprinter/driver"
)

// Logger interface for store operations
type Logger interface {
	Error(msg string, context ...interface{})
	Warn(msg string, context ...interface{})
	Info(msg string, context ...interface{})
	Debug(msg string, context ...interface{})
}

var stateLogger Logger

// SetLogger sets the logger for the state package
func SetLogger(logger Logger) {
	stateLogger = logger
}

// ErrNotFound is returned when no saved state exists for a printer
var ErrNotFound = errors.New("no saved state for printer")

// Store persists per-printer settings in SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) the state database. An empty dbPath uses an
// in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes internally; a small pool covers concurrent
	// reads under WAL
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS printer_state (
		name TEXT PRIMARY KEY,
		defaults_json TEXT,
		ready_json TEXT,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDefaults persists a printer's default settings, replacing any
// previous row but leaving the ready media column untouched
func (s *Store) SaveDefaults(ctx context.Context, name string, defaults driver.Defaults) error {
	if name == "" {
		return fmt.Errorf("printer name is empty")
	}

	blob, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to encode defaults: %w", err)
	}

	query := `
		INSERT INTO printer_state (name, defaults_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			defaults_json = excluded.defaults_json,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, name, string(blob), time.Now()); err != nil {
		if stateLogger != nil {
			stateLogger.Error("Failed to save printer defaults", "printer", name, "error", err)
		}
		return fmt.Errorf("failed to save defaults: %w", err)
	}

	if stateLogger != nil {
		stateLogger.Debug("Saved printer defaults", "printer", name)
	}
	return nil
}

// LoadDefaults returns a printer's saved default settings
func (s *Store) LoadDefaults(ctx context.Context, name string) (driver.Defaults, error) {
	var defaults driver.Defaults

	var blob sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT defaults_json FROM printer_state WHERE name = ?", name).Scan(&blob)
	if err == sql.ErrNoRows {
		return defaults, ErrNotFound
	}
	if err != nil {
		return defaults, fmt.Errorf("failed to load defaults: %w", err)
	}
	if !blob.Valid || blob.String == "" {
		return defaults, ErrNotFound
	}

	if err := json.Unmarshal([]byte(blob.String), &defaults); err != nil {
		return defaults, fmt.Errorf("failed to decode defaults: %w", err)
	}
	return defaults, nil
}

// SaveReadyMedia persists a printer's loaded media list
func (s *Store) SaveReadyMedia(ctx context.Context, name string, ready []driver.MediaCol) error {
	if name == "" {
		return fmt.Errorf("printer name is empty")
	}

	blob, err := json.Marshal(ready)
	if err != nil {
		return fmt.Errorf("failed to encode ready media: %w", err)
	}

	query := `
		INSERT INTO printer_state (name, ready_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			ready_json = excluded.ready_json,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, name, string(blob), time.Now()); err != nil {
		if stateLogger != nil {
			stateLogger.Error("Failed to save ready media", "printer", name, "error", err)
		}
		return fmt.Errorf("failed to save ready media: %w", err)
	}

	if stateLogger != nil {
		stateLogger.Debug("Saved ready media", "printer", name, "entries", len(ready))
	}
	return nil
}

// LoadReadyMedia returns a printer's saved loaded media list
func (s *Store) LoadReadyMedia(ctx context.Context, name string) ([]driver.MediaCol, error) {
	var blob sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT ready_json FROM printer_state WHERE name = ?", name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ready media: %w", err)
	}
	if !blob.Valid || blob.String == "" {
		return nil, ErrNotFound
	}

	var ready []driver.MediaCol
	if err := json.Unmarshal([]byte(blob.String), &ready); err != nil {
		return nil, fmt.Errorf("failed to decode ready media: %w", err)
	}
	return ready, nil
}

// Delete removes a printer's saved state
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM printer_state WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
