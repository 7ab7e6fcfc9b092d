package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sqlrunner/internal/model"
)

var (
	rowKeywords    = map[string]bool{"select": true, "with": true, "values": true, "show": true, "explain": true, "table": true, "describe": true}
	returningRegex = regexp.MustCompile(`(?i)\breturning\b`)
	firstWordRegex = regexp.MustCompile(`^[\s(]*([a-zA-Z]+)`)
)

// SQLClient runs queries through database/sql. The driver-specific parts are
// the registered driver name and the function that turns driver errors into
// ExecErrors.
type SQLClient struct {
	driver   string
	db       *sql.DB
	classify func(error) error
}

func newSQLClient(driver string, classify func(error) error) *SQLClient {
	return &SQLClient{driver: driver, classify: classify}
}

func (c *SQLClient) Connect(dsn string) error {
	db, err := sql.Open(c.driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", c.driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping %s database: %w", c.driver, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	c.db = db
	return nil
}

func (c *SQLClient) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *SQLClient) Prepare(ctx context.Context, query string) (Statement, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}

	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, c.classify(err)
	}
	return &sqlStatement{client: c, stmt: stmt, query: query}, nil
}

type sqlStatement struct {
	client *SQLClient
	stmt   *sql.Stmt
	query  string
}

func (s *sqlStatement) Close() error {
	return s.stmt.Close()
}

func (s *sqlStatement) All(ctx context.Context) (*model.QueryResult, error) {
	start := time.Now()
	meta := model.Meta{ServedBy: s.client.driver}

	var results []map[string]any
	if returnsRows(s.query) {
		rows, err := s.stmt.QueryContext(ctx)
		if err != nil {
			return nil, s.client.classify(err)
		}
		defer rows.Close()

		results, err = scanRows(rows)
		if err != nil {
			return nil, s.client.classify(err)
		}
		meta.RowsRead = int64(len(results))
	} else {
		res, err := s.stmt.ExecContext(ctx)
		if err != nil {
			return nil, s.client.classify(err)
		}
		// Not every driver reports these; zero is left in place when it doesn't.
		if n, err := res.RowsAffected(); err == nil {
			meta.Changes = n
			meta.RowsWritten = n
			meta.ChangedDB = n > 0
		}
		if id, err := res.LastInsertId(); err == nil {
			meta.LastRowID = id
		}
		results = []map[string]any{}
	}

	meta.Duration = float64(time.Since(start).Microseconds()) / 1000
	return &model.QueryResult{Results: results, Success: true, Meta: meta}, nil
}

// returnsRows guesses from the leading keyword whether a statement produces
// a result set.
func returnsRows(query string) bool {
	if returningRegex.MatchString(query) {
		return true
	}
	m := firstWordRegex.FindStringSubmatch(query)
	if m == nil {
		return false
	}
	return rowKeywords[strings.ToLower(m[1])]
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]any, len(cols))
		for i, colName := range cols {
			if b, ok := values[i].([]byte); ok {
				rowMap[colName] = string(b)
			} else {
				rowMap[colName] = values[i]
			}
		}
		results = append(results, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}
