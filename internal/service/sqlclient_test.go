package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T, client *SQLClient) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	client.db = db
	return mock
}

func TestPrepareWithoutConnection(t *testing.T) {
	_, err := NewPostgresClient().Prepare(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestAllSelect(t *testing.T) {
	client := NewPostgresClient()
	mock := newMockClient(t, client)

	query := "  SELECT id, body FROM comments LIMIT 3"
	mock.ExpectPrepare(query).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "body"}).
			AddRow(int64(1), []byte("first")).
			AddRow(int64(2), nil))

	stmt, err := client.Prepare(context.Background(), query)
	require.NoError(t, err)
	defer stmt.Close()

	res, err := stmt.All(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, []map[string]any{
		{"id": int64(1), "body": "first"},
		{"id": int64(2), "body": nil},
	}, res.Results)
	assert.Equal(t, "postgres", res.Meta.ServedBy)
	assert.Equal(t, int64(2), res.Meta.RowsRead)
	assert.False(t, res.Meta.ChangedDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllSelectNoRows(t *testing.T) {
	client := NewMySQLClient()
	mock := newMockClient(t, client)

	query := "select * from comments where 1 = 0"
	mock.ExpectPrepare(query).ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}))

	stmt, err := client.Prepare(context.Background(), query)
	require.NoError(t, err)

	res, err := stmt.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Equal(t, "mysql", res.Meta.ServedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllExec(t *testing.T) {
	client := NewMySQLClient()
	mock := newMockClient(t, client)

	query := "INSERT INTO comments (author, body) VALUES ('a', 'b')"
	mock.ExpectPrepare(query).ExpectExec().WillReturnResult(sqlmock.NewResult(7, 1))

	stmt, err := client.Prepare(context.Background(), query)
	require.NoError(t, err)

	res, err := stmt.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{}, res.Results)
	assert.Equal(t, int64(1), res.Meta.Changes)
	assert.Equal(t, int64(1), res.Meta.RowsWritten)
	assert.Equal(t, int64(7), res.Meta.LastRowID)
	assert.True(t, res.Meta.ChangedDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllInsertReturning(t *testing.T) {
	client := NewPgxClient()
	mock := newMockClient(t, client)

	query := "INSERT INTO comments (body) VALUES ('x') RETURNING id"
	mock.ExpectPrepare(query).ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	stmt, err := client.Prepare(context.Background(), query)
	require.NoError(t, err)

	res, err := stmt.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": int64(9)}}, res.Results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverErrors(t *testing.T) {
	tests := []struct {
		name          string
		client        *SQLClient
		driverErr     error
		expectedMsg   string
		expectedCause string
	}{
		{
			name:          "postgres",
			client:        NewPostgresClient(),
			driverErr:     &pq.Error{Code: "42P01", Message: `relation "x" does not exist`},
			expectedMsg:   `relation "x" does not exist`,
			expectedCause: "undefined_table (SQLSTATE 42P01)",
		},
		{
			name:          "pgx",
			client:        NewPgxClient(),
			driverErr:     &pgconn.PgError{Code: "23505", Message: "duplicate key value", Detail: "Key (id)=(1) already exists."},
			expectedMsg:   "duplicate key value",
			expectedCause: "SQLSTATE 23505: Key (id)=(1) already exists.",
		},
		{
			name:          "mysql",
			client:        NewMySQLClient(),
			driverErr:     &mysql.MySQLError{Number: 1146, SQLState: [5]byte{'4', '2', 'S', '0', '2'}, Message: "Table 'db.x' doesn't exist"},
			expectedMsg:   "Table 'db.x' doesn't exist",
			expectedCause: "Error 1146 (42S02)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMockClient(t, tc.client)
			mock.ExpectPrepare("SELECT * FROM x").ExpectQuery().WillReturnError(tc.driverErr)

			stmt, err := tc.client.Prepare(context.Background(), "SELECT * FROM x")
			require.NoError(t, err)

			_, err = stmt.All(context.Background())
			var execErr *ExecError
			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, tc.expectedMsg, execErr.Error())
			require.NotNil(t, errors.Unwrap(err))
			assert.Equal(t, tc.expectedCause, errors.Unwrap(err).Error())
		})
	}
}

func TestPrepareError(t *testing.T) {
	client := NewPostgresClient()
	mock := newMockClient(t, client)

	mock.ExpectPrepare("SELEC 1").WillReturnError(&pq.Error{Code: "42601", Message: `syntax error at or near "SELEC"`})

	_, err := client.Prepare(context.Background(), "SELEC 1")
	require.Error(t, err)
	assert.Equal(t, `syntax error at or near "SELEC"`, err.Error())
}

func TestUnknownErrorPassesThrough(t *testing.T) {
	client := NewPostgresClient()
	mock := newMockClient(t, client)

	boom := errors.New("connection reset")
	mock.ExpectPrepare("DELETE FROM comments").ExpectExec().WillReturnError(boom)

	stmt, err := client.Prepare(context.Background(), "DELETE FROM comments")
	require.NoError(t, err)

	_, err = stmt.All(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestReturnsRows(t *testing.T) {
	tests := map[string]bool{
		"SELECT 1":                               true,
		"  (select 1) union (select 2)":          true,
		"WITH t AS (SELECT 1) SELECT * FROM t":   true,
		"VALUES (1), (2)":                        true,
		"explain select 1":                       true,
		"UPDATE comments SET body = 'x'":         false,
		"DELETE FROM comments RETURNING id":      true,
		"CREATE TABLE t (id int)":                false,
		"":                                       false,
		"insert into returning_log values (1)":   false,
	}

	for query, expected := range tests {
		assert.Equal(t, expected, returnsRows(query), query)
	}
}
