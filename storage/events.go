package storage

import (
	"fmt"
	"time"
)

// KeyEvent is one delivered hook notification as persisted in the audit log.
type KeyEvent struct {
	ID           int64
	Timestamp    time.Time
	KeyCode      uint32
	KeyName      string
	ModifierMask uint16
	ModifierText string
	Blocked      bool
}

// SaveKeyEvent saves a key event to the database
func (db *DB) SaveKeyEvent(e *KeyEvent) error {
	query := `
		INSERT INTO key_events (key_code, key_name, modifier_mask, modifier_text, blocked)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query, e.KeyCode, e.KeyName, e.ModifierMask, e.ModifierText, e.Blocked)
	if err != nil {
		return fmt.Errorf("failed to save key event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	e.ID = id
	return nil
}

// GetKeyEvents retrieves key events with pagination, newest first
func (db *DB) GetKeyEvents(limit, offset int) ([]KeyEvent, error) {
	query := `
		SELECT id, timestamp, key_code, key_name, modifier_mask, modifier_text, blocked
		FROM key_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query key events: %w", err)
	}
	defer rows.Close()

	var events []KeyEvent
	for rows.Next() {
		var e KeyEvent
		err := rows.Scan(&e.ID, &e.Timestamp, &e.KeyCode, &e.KeyName,
			&e.ModifierMask, &e.ModifierText, &e.Blocked)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetKeyEventCount returns the total number of stored key events
func (db *DB) GetKeyEventCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM key_events").Scan(&count)
	return count, err
}

// DeleteEventsBefore prunes events older than cutoff and returns how many
// rows were removed
func (db *DB) DeleteEventsBefore(cutoff time.Time) (int64, error) {
	result, err := db.conn.Exec("DELETE FROM key_events WHERE timestamp < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("failed to prune key events: %w", err)
	}
	return result.RowsAffected()
}
