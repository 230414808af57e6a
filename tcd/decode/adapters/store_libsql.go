package adapters

import (
	"context"
	"database/sql"
	"fmt"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// LibSQLRunStore implements the RunStore port on a libsql database.
// The decode_runs table is created by the db package's migrations.
type LibSQLRunStore struct {
	db *sql.DB
}

// NewLibSQLRunStore creates a run store over an open connection.
func NewLibSQLRunStore(db *sql.DB) *LibSQLRunStore {
	return &LibSQLRunStore{db: db}
}

// SaveRun persists one completed decoding run.
func (s *LibSQLRunStore) SaveRun(ctx context.Context, rec ports.RunRecord) error {
	query := `
		INSERT INTO decode_runs (id, request, output, tool, truncated, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Request, rec.Output, rec.Tool, rec.Truncated, rec.Confidence, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// RecentRuns loads the latest runs, newest first.
func (s *LibSQLRunStore) RecentRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	query := `
		SELECT id, request, output, tool, truncated, confidence, created_at
		FROM decode_runs
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunRecord
	for rows.Next() {
		var rec ports.RunRecord
		if err := rows.Scan(&rec.ID, &rec.Request, &rec.Output, &rec.Tool, &rec.Truncated, &rec.Confidence, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

var _ ports.RunStore = (*LibSQLRunStore)(nil)
