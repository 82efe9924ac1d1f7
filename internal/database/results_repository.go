package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_results (
	run_id   TEXT      NOT NULL,
	row_id   INTEGER   NOT NULL,
	score    INTEGER   NOT NULL,
	text     TEXT      NOT NULL,
	saved_at TIMESTAMP NOT NULL
)`

const scoreIndex = `CREATE INDEX IF NOT EXISTS idx_analysis_results_score ON analysis_results (score DESC, row_id)`

// ResultsRepository stores the most recently saved result table.
type ResultsRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewResultsRepository creates a results repository.
func NewResultsRepository(db *sqlx.DB) *ResultsRepository {
	return &ResultsRepository{db: db, now: time.Now}
}

// EnsureSchema creates the results table when it does not exist.
func (r *ResultsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, scoreIndex); err != nil {
		return fmt.Errorf("failed to create results index: %w", err)
	}
	return nil
}

// ReplaceAll swaps the stored table for rows in one transaction. Every row
// is tagged with runID.
func (r *ResultsRepository) ReplaceAll(ctx context.Context, runID string, rows []domain.SavedResult) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM analysis_results`); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO analysis_results (run_id, row_id, score, text, saved_at) VALUES (?, ?, ?, ?, ?)`)
	savedAt := r.now().UTC()
	for _, row := range rows {
		if _, err = tx.ExecContext(ctx, insert, runID, row.RowID, row.Score, row.Text, savedAt); err != nil {
			return fmt.Errorf("failed to insert result %d: %w", row.RowID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// List returns the stored rows ordered by score, highest first.
func (r *ResultsRepository) List(ctx context.Context) ([]domain.SavedResult, error) {
	rows := make([]domain.SavedResult, 0)
	query := `SELECT run_id, row_id, score, text FROM analysis_results ORDER BY score DESC, row_id ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return rows, nil
}

// Ping checks the connection.
func (r *ResultsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
