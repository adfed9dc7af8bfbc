package mysql

import "github.com/coregx/qb/internal/core"

// QueryBuilder creates MySQL statements.
type QueryBuilder struct{}

// New returns a MySQL statement factory.
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

var (
	_ core.Statement = (*Select)(nil)
	_ core.Statement = (*Insert)(nil)
	_ core.Statement = (*Update)(nil)
	_ core.Statement = (*Delete)(nil)
	_ core.SubQuery  = (*Select)(nil)
)
