package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the necessary
// schemas for the zone event ledger, the census history and map snapshots.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS zone_events (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			payload TEXT NOT NULL,
			tick INTEGER NOT NULL,
			city_month INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS census_snapshots (
			tick INTEGER PRIMARY KEY,
			city_month INTEGER NOT NULL,
			residential INTEGER NOT NULL,
			commercial INTEGER NOT NULL,
			industrial INTEGER NOT NULL,
			nuclear INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS grid_snapshots (
			tick INTEGER PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			blob BLOB NOT NULL,
			timestamp DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_zone_events_tick ON zone_events(tick);`,
		`CREATE INDEX IF NOT EXISTS idx_zone_events_type ON zone_events(event_type);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
