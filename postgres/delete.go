package postgres

import (
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Delete is a PostgreSQL DELETE with RETURNING.
type Delete struct {
	*core.Delete
	returning []string
}

// NewDelete returns a PostgreSQL DELETE from table.
func NewDelete(table any) *Delete {
	return &Delete{Delete: core.NewDelete(table)}
}

// From adds target tables.
func (d *Delete) From(tables ...any) *Delete { d.Delete.From(tables...); return d }

// Where adds a condition.
func (d *Delete) Where(cond any, args ...any) *Delete { d.Delete.Where(cond, args...); return d }

// AllowFullTable permits rendering without a WHERE condition.
func (d *Delete) AllowFullTable() *Delete { d.Delete.AllowFullTable(); return d }

// Returning sets the RETURNING columns.
func (d *Delete) Returning(columns ...string) *Delete {
	d.returning = columns
	return d
}

// SQL renders the statement.
func (d *Delete) SQL() (string, error) {
	if err := d.Check(); err != nil {
		return "", err
	}
	sql, err := d.Lines(nil)
	if err != nil {
		return "", err
	}
	return core.JoinLines(sql, returningLine(d.returning)), nil
}

// Params returns the WHERE parameters.
func (d *Delete) Params() params.Set { return d.Delete.Params() }

// ToSQL renders the statement and its parameters.
func (d *Delete) ToSQL() (string, params.Set, error) {
	return core.Build(d)
}
