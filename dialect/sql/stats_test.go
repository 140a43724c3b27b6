package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(time.Hour))
	ctx := context.Background()

	mock.ExpectQuery("SELECT id FROM users").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT id FROM users", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, drv.Exec(ctx, "DELETE FROM users", []any{}, nil))

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: CodeUniqueViolation})
	require.Error(t, drv.Exec(ctx, "INSERT INTO users DEFAULT VALUES", []any{}, nil))

	mock.ExpectExec("UPDATE users").WillReturnError(errors.New("bad connection"))
	require.Error(t, drv.Exec(ctx, "UPDATE users SET name = $1", []any{"a"}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(3), s.TotalExecs)
	assert.Equal(t, int64(2), s.Errors)
	assert.Equal(t, int64(1), s.Constraints)
	assert.Zero(t, s.SlowQueries)
	assert.Contains(t, s.String(), "queries=1 execs=3")

	drv.QueryStats().Reset()
	assert.Equal(t, StatsSnapshot{}, drv.QueryStats().Stats())
}

func TestStatsDriverSlowQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var hooked []string
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowQueryLog(logger))
	drv.SetSlowThreshold(-1)
	assert.Equal(t, time.Duration(-1), drv.SlowThreshold())

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, drv.Exec(context.Background(), "DELETE FROM users WHERE id = $1", []any{1}, nil))
	assert.Equal(t, int64(1), drv.QueryStats().Stats().SlowQueries)
	assert.Contains(t, buf.String(), "slow query detected")
	assert.Contains(t, buf.String(), "DELETE FROM users WHERE id = $1")

	drv = NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(-1), WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
		hooked = append(hooked, query)
	}))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectCommit()
	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	rows := &Rows{}
	require.NoError(t, tx.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"SELECT 1"}, hooked)
	assert.Equal(t, int64(1), drv.QueryStats().Stats().TotalQueries)
}
