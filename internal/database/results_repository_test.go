package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/database"
	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*database.ResultsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return database.NewResultsRepository(sqlx.NewDb(db, "sqlite3")), mock
}

func TestResultsRepository_ReplaceAll(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM analysis_results").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO analysis_results").
		WithArgs("run-1", 3, 7, "crisis...", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO analysis_results").
		WithArgs("run-1", 0, 2, "calm...", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAll(context.Background(), "run-1", []domain.SavedResult{
		{RowID: 3, Score: 7, Text: "crisis..."},
		{RowID: 0, Score: 2, Text: "calm..."},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultsRepository_ReplaceAllRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM analysis_results").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO analysis_results").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), "run-2", []domain.SavedResult{{RowID: 1, Score: 1, Text: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultsRepository_List(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"run_id", "row_id", "score", "text"}).
		AddRow("run-1", 3, 7, "crisis...").
		AddRow("run-1", 0, 2, "calm...")
	mock.ExpectQuery("SELECT run_id, row_id, score, text FROM analysis_results ORDER BY score DESC").
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.SavedResult{
		{RunID: "run-1", RowID: 3, Score: 7, Text: "crisis..."},
		{RunID: "run-1", RowID: 0, Score: 2, Text: "calm..."},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultsRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_results").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_analysis_results_score").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := database.Connect(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mysql"`)
}
