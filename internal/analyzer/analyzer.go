// Package analyzer runs EXPLAIN for a bound statement and summarizes the plan
// the database chose.
package analyzer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUnsupported is returned for a dialect without an EXPLAIN parser.
var ErrUnsupported = errors.New("explain not supported for dialect")

// Plan is a dialect-neutral summary of an execution plan.
type Plan struct {
	Dialect       string
	Cost          float64 // database-specific units, 0 when not reported
	EstimatedRows int64
	UsesIndex     bool
	IndexName     string // first index seen
	FullScan      bool
	Raw           string
}

// Querier runs a query. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Explain runs EXPLAIN for query, whose placeholders must already be in the
// dialect's form, and parses the output.
func Explain(ctx context.Context, q Querier, dialect, query string, args []any) (*Plan, error) {
	var (
		plan *Plan
		err  error
	)
	switch dialect {
	case "postgres":
		plan, err = explainJSON(ctx, q, "EXPLAIN (FORMAT JSON) "+query, args, parsePostgres)
	case "mysql":
		plan, err = explainJSON(ctx, q, "EXPLAIN FORMAT=JSON "+query, args, parseMySQL)
	case "sqlite":
		plan, err = explainSQLite(ctx, q, query, args)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, dialect)
	}
	if err != nil {
		return nil, err
	}
	plan.Dialect = dialect
	return plan, nil
}

func explainJSON(ctx context.Context, q Querier, query string, args []any, parse func(string) (*Plan, error)) (*Plan, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	defer rows.Close()

	var raw string
	if rows.Next() {
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("explain: scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	plan, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("explain: parse: %w", err)
	}
	plan.Raw = raw
	return plan, nil
}

func (p *Plan) noteIndex(name string) {
	p.UsesIndex = true
	if p.IndexName == "" {
		p.IndexName = name
	}
}
