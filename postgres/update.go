package postgres

import (
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Update is a PostgreSQL UPDATE with RETURNING.
type Update struct {
	*core.Update
	returning []string
}

// NewUpdate returns a PostgreSQL UPDATE of table.
func NewUpdate(table any) *Update {
	return &Update{Update: core.NewUpdate(table)}
}

// Table adds target tables.
func (u *Update) Table(tables ...any) *Update { u.Update.Table(tables...); return u }

// Set assigns value to column.
func (u *Update) Set(column string, value any) *Update { u.Update.Set(column, value); return u }

// SetMap assigns every entry of values in column name order.
func (u *Update) SetMap(values map[string]any) *Update { u.Update.SetMap(values); return u }

// Where adds a condition.
func (u *Update) Where(cond any, args ...any) *Update { u.Update.Where(cond, args...); return u }

// Returning sets the RETURNING columns.
func (u *Update) Returning(columns ...string) *Update {
	u.returning = columns
	return u
}

// SQL renders the statement.
func (u *Update) SQL() (string, error) {
	if err := u.Check(); err != nil {
		return "", err
	}
	sql, err := u.Lines(nil)
	if err != nil {
		return "", err
	}
	return core.JoinLines(sql, returningLine(u.returning)), nil
}

// Params returns SET parameters followed by WHERE parameters.
func (u *Update) Params() params.Set { return u.Update.Params() }

// ToSQL renders the statement and its parameters.
func (u *Update) ToSQL() (string, params.Set, error) {
	return core.Build(u)
}
