package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
}

// Open opens the database and initializes the schema
func Open(configDir string) (*DB, error) {
	dbPath := filepath.Join(configDir, "keywatch.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the database schema
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS key_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,

		-- Matched key (virtual-key code only; no typed text is ever stored)
		key_code INTEGER NOT NULL,
		key_name TEXT NOT NULL,

		-- Modifier snapshot at match time
		modifier_mask INTEGER NOT NULL,
		modifier_text TEXT NOT NULL,

		-- Whether the keystroke was suppressed
		blocked BOOLEAN NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_key_events_timestamp ON key_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_key_events_key_code ON key_events(key_code);
	`

	_, err := db.conn.Exec(schema)
	return err
}
