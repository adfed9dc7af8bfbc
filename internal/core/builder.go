package core

import "github.com/coregx/qb/internal/params"

// Statement is a complete statement builder.
type Statement interface {
	QueryPart
	ToSQL() (string, params.Set, error)
	Err() error
}

// QueryBuilder creates generic statements.
type QueryBuilder struct{}

// NewQueryBuilder returns a generic statement factory.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Select starts a SELECT of columns.
func (b *QueryBuilder) Select(columns ...any) *Select {
	return NewSelect(columns...)
}

// Insert starts an INSERT into table.
func (b *QueryBuilder) Insert(table any) *Insert {
	return NewInsert(table)
}

// Update starts an UPDATE of table.
func (b *QueryBuilder) Update(table any) *Update {
	return NewUpdate(table)
}

// Delete starts a DELETE from table.
func (b *QueryBuilder) Delete(table any) *Delete {
	return NewDelete(table)
}

// Truncate starts a TRUNCATE of tables.
func (b *QueryBuilder) Truncate(tables ...any) *Truncate {
	return NewTruncate(tables...)
}

var (
	_ Statement = (*Select)(nil)
	_ Statement = (*Insert)(nil)
	_ Statement = (*Update)(nil)
	_ Statement = (*Delete)(nil)
	_ Statement = (*Truncate)(nil)
	_ SubQuery  = (*Select)(nil)
	_ QueryPart = (*Expr)(nil)
	_ QueryPart = (*Template)(nil)
	_ QueryPart = (*Column)(nil)
	_ QueryPart = (*Table)(nil)
	_ QueryPart = (*QueryAsTable)(nil)
	_ QueryPart = (*Join)(nil)
)
