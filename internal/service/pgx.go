package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPgxClient talks to PostgreSQL through pgx's database/sql driver instead
// of lib/pq.
func NewPgxClient() *SQLClient {
	return newSQLClient("pgx", classifyPgxError)
}

func classifyPgxError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	cause := fmt.Sprintf("SQLSTATE %s", pgErr.Code)
	if pgErr.Detail != "" {
		cause += ": " + pgErr.Detail
	}
	return &ExecError{Message: pgErr.Message, Cause: errors.New(cause)}
}
