package database

import (
	"fmt"
	"strings"

	"eventide/internal/log"
)

// Migration represents a database migration
type Migration struct {
	ID          int
	Description string
	SQL         string
}

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		ID:          1,
		Description: "Save slots",
		SQL: `
CREATE TABLE IF NOT EXISTS save_slots (
	name       TEXT PRIMARY KEY,
	world      BLOB NOT NULL,
	has_random INTEGER NOT NULL DEFAULT 0,
	seed       INTEGER NOT NULL DEFAULT 0,
	draws      INTEGER NOT NULL DEFAULT 0,
	saved_at   INTEGER NOT NULL
);`,
	},
	{
		ID:          2,
		Description: "Saved event queue and triggered events",
		SQL: `
CREATE TABLE IF NOT EXISTS slot_events (
	slot         TEXT NOT NULL REFERENCES save_slots(name) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	event_id     TEXT NOT NULL,
	prefab       TEXT NOT NULL,
	trigger_name TEXT NOT NULL,
	state        TEXT NOT NULL,
	snapshot     TEXT NOT NULL,
	PRIMARY KEY (slot, position)
);
CREATE TABLE IF NOT EXISTS slot_triggered (
	slot   TEXT NOT NULL REFERENCES save_slots(name) ON DELETE CASCADE,
	prefab TEXT NOT NULL,
	PRIMARY KEY (slot, prefab)
);`,
	},
}

// runMigrations executes all pending migrations
func (s *Store) runMigrations() error {
	if err := s.ensureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := s.getCurrentSchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.ID <= currentVersion {
			continue
		}
		log.Info("applying migration", "id", migration.ID, "description", migration.Description)
		if err := s.applyMigration(migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.ID, err)
		}
	}
	return nil
}

func (s *Store) ensureSchemaVersionTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

// SchemaVersion returns the highest applied migration
func (s *Store) SchemaVersion() (int, error) {
	return s.getCurrentSchemaVersion()
}

func (s *Store) getCurrentSchemaVersion() (int, error) {
	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version;`).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// applyMigration runs one migration and records it in a single transaction
func (s *Store) applyMigration(migration Migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(migration.SQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute migration statement: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?);`, migration.ID); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
