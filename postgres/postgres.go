// Package postgres provides statement builders with PostgreSQL syntax:
// row locks, set operations, ON CONFLICT and RETURNING.
package postgres

import (
	"strconv"
	"strings"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/dialects"
)

// Quote quotes a possibly schema-qualified identifier with double quotes.
func Quote(ident string) string {
	return dialects.Postgres{}.QuoteIdentifier(ident)
}

// QueryBuilder creates PostgreSQL statements.
type QueryBuilder struct{}

// New returns a PostgreSQL statement factory.
func New() *QueryBuilder { return &QueryBuilder{} }

// Select starts a SELECT of columns.
func (QueryBuilder) Select(columns ...any) *Select { return NewSelect(columns...) }

// Insert starts an INSERT into table.
func (QueryBuilder) Insert(table any) *Insert { return NewInsert(table) }

// Update starts an UPDATE of table.
func (QueryBuilder) Update(table any) *Update { return NewUpdate(table) }

// Delete starts a DELETE from table.
func (QueryBuilder) Delete(table any) *Delete { return NewDelete(table) }

// Truncate starts a TRUNCATE of tables.
func (QueryBuilder) Truncate(tables ...any) *core.Truncate { return core.NewTruncate(tables...) }

func returningLine(columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	return "RETURNING " + strings.Join(columns, ", ")
}

func outerPaging(limit, offset int) []string {
	var lines []string
	if limit >= 0 {
		lines = append(lines, "LIMIT "+strconv.Itoa(limit))
	}
	if offset >= 0 {
		lines = append(lines, "OFFSET "+strconv.Itoa(offset)+" ROWS")
	}
	return lines
}

var (
	_ core.Statement = (*Select)(nil)
	_ core.Statement = (*Insert)(nil)
	_ core.Statement = (*Update)(nil)
	_ core.Statement = (*Delete)(nil)
	_ core.SubQuery  = (*Select)(nil)
)
