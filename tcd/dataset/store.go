package dataset

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists generated examples into the training_examples table
// for later fine-tuning runs.
type Store struct {
	db *sql.DB
}

// NewStore creates a dataset store over an established connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveExamples inserts examples in one transaction.
func (s *Store) SaveExamples(ctx context.Context, examples []Example) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dataset tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO training_examples (prompt, completion, tool, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("prepare dataset insert: %w", err)
	}
	defer stmt.Close()

	for _, ex := range examples {
		if _, err := stmt.ExecContext(ctx, ex.Prompt, ex.Completion, ex.Tool); err != nil {
			return fmt.Errorf("insert example: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset tx: %w", err)
	}
	return nil
}

// CountByTool reports how many stored examples exist per tool.
func (s *Store) CountByTool(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool, COUNT(*) FROM training_examples GROUP BY tool
	`)
	if err != nil {
		return nil, fmt.Errorf("count examples: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tool string
		var n int
		if err := rows.Scan(&tool, &n); err != nil {
			return nil, fmt.Errorf("scan example count: %w", err)
		}
		counts[tool] = n
	}
	return counts, rows.Err()
}
