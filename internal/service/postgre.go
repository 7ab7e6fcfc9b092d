package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

func NewPostgresClient() *SQLClient {
	return newSQLClient("postgres", classifyPostgresError)
}

func classifyPostgresError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	cause := fmt.Sprintf("%s (SQLSTATE %s)", pqErr.Code.Name(), pqErr.Code)
	if pqErr.Detail != "" {
		cause += ": " + pqErr.Detail
	}
	return &ExecError{Message: pqErr.Message, Cause: errors.New(cause)}
}
