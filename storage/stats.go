package storage

import "fmt"

// KeyStats represents event counts grouped by key
type KeyStats struct {
	KeyName      string
	TotalEvents  int
	BlockedCount int
}

// OverallStats represents overall audit-log statistics
type OverallStats struct {
	TotalEvents  int
	BlockedCount int
	DistinctKeys int
}

// GetKeyStats retrieves event counts grouped by key for the last N days
func (db *DB) GetKeyStats(days int) ([]KeyStats, error) {
	query := `
		SELECT
			key_name,
			COUNT(*) as total_events,
			SUM(CASE WHEN blocked = 1 THEN 1 ELSE 0 END) as blocked_count
		FROM key_events
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY key_name
		ORDER BY total_events DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query key stats: %w", err)
	}
	defer rows.Close()

	var stats []KeyStats
	for rows.Next() {
		var s KeyStats
		if err := rows.Scan(&s.KeyName, &s.TotalEvents, &s.BlockedCount); err != nil {
			return nil, fmt.Errorf("failed to scan key stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOverallStats retrieves overall statistics for the last N days
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*) as total_events,
			COALESCE(SUM(CASE WHEN blocked = 1 THEN 1 ELSE 0 END), 0) as blocked_count,
			COUNT(DISTINCT key_code) as distinct_keys
		FROM key_events
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
	`

	var stats OverallStats
	err := db.conn.QueryRow(query, days).Scan(
		&stats.TotalEvents,
		&stats.BlockedCount,
		&stats.DistinctKeys,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	return &stats, nil
}
