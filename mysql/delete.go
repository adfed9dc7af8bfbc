package mysql

import (
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Delete is a MySQL DELETE with modifiers, ORDER BY and LIMIT.
type Delete struct {
	*core.Delete
	err       error
	modifiers *core.ModifierSlots
	orderBy   core.Ordering
	limit     int
}

// NewDelete returns a MySQL DELETE from table.
func NewDelete(table any) *Delete {
	return &Delete{
		Delete: core.NewDelete(table),
		modifiers: core.NewModifierSlots("delete",
			[]string{"LOW_PRIORITY"},
			[]string{"QUICK"},
			[]string{"IGNORE"},
		),
		limit: -1,
	}
}

func (d *Delete) fail(err error) *Delete {
	if d.err == nil {
		d.err = err
	}
	return d
}

// Err returns the first error recorded by a builder call.
func (d *Delete) Err() error {
	if d.err != nil {
		return d.err
	}
	return d.Delete.Err()
}

// Modifier sets LOW_PRIORITY, QUICK and IGNORE.
func (d *Delete) Modifier(modifiers ...string) *Delete {
	if err := d.modifiers.Add(modifiers...); err != nil {
		return d.fail(err)
	}
	return d
}

// From adds target tables.
func (d *Delete) From(tables ...any) *Delete { d.Delete.From(tables...); return d }

// Where adds a condition.
func (d *Delete) Where(cond any, args ...any) *Delete { d.Delete.Where(cond, args...); return d }

// AllowFullTable permits rendering without a WHERE condition.
func (d *Delete) AllowFullTable() *Delete { d.Delete.AllowFullTable(); return d }

// OrderBy orders the rows to delete.
func (d *Delete) OrderBy(column, direction string) *Delete {
	if err := d.orderBy.Add(column, direction); err != nil {
		return d.fail(err)
	}
	return d
}

// Limit caps the number of deleted rows.
func (d *Delete) Limit(n int) *Delete {
	if n < 0 {
		return d.fail(core.NewError(core.ErrInvalidArgument, "delete.limit", "negative limit %d", n))
	}
	d.limit = n
	return d
}

// SQL renders the statement.
func (d *Delete) SQL() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if err := d.Check(); err != nil {
		return "", err
	}
	sql, err := d.Lines(d.modifiers.List())
	if err != nil {
		return "", err
	}
	return core.JoinLines(sql, d.orderBy.SQL(), limitLine(d.limit)), nil
}

// Params returns the WHERE parameters.
func (d *Delete) Params() params.Set { return d.Delete.Params() }

// ToSQL renders the statement and its parameters.
func (d *Delete) ToSQL() (string, params.Set, error) {
	return core.Build(d)
}
