package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"scholar-match/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// sqlDB runs the repository contract over database/sql so sqlmock can stand
// in for Postgres. TEXT[] columns are carried as []string driver values.
type sqlDB struct {
	db *sql.DB
}

func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlDB{db: db}, mock
}

type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.([]string); ok {
		return s, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execOn(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryOn(ctx context.Context, q querier, query string, args ...any) (database.Rows, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: rows}, nil
}

func (d sqlDB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d sqlDB) Close() error                   { return d.db.Close() }
func (d sqlDB) SQLDB() *sql.DB                 { return d.db }

func (d sqlDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execOn(ctx, d.db, query, args...)
}

func (d sqlDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return queryOn(ctx, d.db, query, args...)
}

func (d sqlDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return sqlRow{row: d.db.QueryRowContext(ctx, query, args...)}
}

func (d sqlDB) Begin(ctx context.Context) (database.Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return sqlTx{tx: tx}, nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execOn(ctx, t.tx, query, args...)
}

func (t sqlTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return queryOn(ctx, t.tx, query, args...)
}

func (t sqlTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return sqlRow{row: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t sqlTx) Commit(context.Context) error { return t.tx.Commit() }

func (t sqlTx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return err
	}
	return nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Close()                 { _ = r.rows.Close() }
func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Err() error             { return r.rows.Err() }
func (r sqlRows) Scan(dest ...any) error { return scanArrays(r.rows.Scan, dest) }

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error { return scanArrays(r.row.Scan, dest) }

// scanArrays routes *[]string destinations through an any holder, since
// database/sql cannot assign a []string driver value directly.
func scanArrays(scan func(...any) error, dest []any) error {
	holders := make([]any, len(dest))
	var assign []func()
	for i, d := range dest {
		sp, ok := d.(*[]string)
		if !ok {
			holders[i] = d
			continue
		}
		var v any
		holders[i] = &v
		assign = append(assign, func() {
			if s, ok := v.([]string); ok {
				*sp = s
			}
		})
	}
	if err := scan(holders...); err != nil {
		return err
	}
	for _, a := range assign {
		a()
	}
	return nil
}
