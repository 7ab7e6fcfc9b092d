package service

import (
	"context"

	"sqlrunner/internal/model"
)

type DBClient interface {
	Connect(dsn string) error
	Disconnect() error
	Prepare(ctx context.Context, query string) (Statement, error)
}

// Statement is a prepared query waiting to be run. All executes it once and
// returns every row; it never returns partial results.
type Statement interface {
	All(ctx context.Context) (*model.QueryResult, error)
	Close() error
}
