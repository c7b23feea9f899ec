package postgres

import (
	"context"
	"fmt"

	"github.com/okanele/peoplebook/internal/models"
)

// AppendLog inserts an audit record and populates ID and Timestamp.
func (s *Store) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO logs (action, details, username) VALUES ($1, $2, $3) RETURNING id, timestamp",
		entry.Action, entry.Details, entry.Username,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

// ListLogs returns all audit records, newest first.
func (s *Store) ListLogs(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, action, details, username, timestamp FROM logs ORDER BY timestamp DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Details, &e.Username, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate logs: %w", err)
	}
	return entries, nil
}
