package mysql

import (
	"strconv"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Update is a MySQL UPDATE with modifiers, ORDER BY and LIMIT.
type Update struct {
	*core.Update
	err       error
	modifiers *core.ModifierSlots
	orderBy   core.Ordering
	limit     int
}

// NewUpdate returns a MySQL UPDATE of table.
func NewUpdate(table any) *Update {
	return &Update{
		Update:    core.NewUpdate(table),
		modifiers: core.NewModifierSlots("update", []string{"LOW_PRIORITY"}, []string{"IGNORE"}),
		limit:     -1,
	}
}

func (u *Update) fail(err error) *Update {
	if u.err == nil {
		u.err = err
	}
	return u
}

// Err returns the first error recorded by a builder call.
func (u *Update) Err() error {
	if u.err != nil {
		return u.err
	}
	return u.Update.Err()
}

// Modifier sets LOW_PRIORITY and IGNORE.
func (u *Update) Modifier(modifiers ...string) *Update {
	if err := u.modifiers.Add(modifiers...); err != nil {
		return u.fail(err)
	}
	return u
}

// Table adds target tables.
func (u *Update) Table(tables ...any) *Update { u.Update.Table(tables...); return u }

// Set assigns value to column.
func (u *Update) Set(column string, value any) *Update { u.Update.Set(column, value); return u }

// SetMap assigns every entry of values in column name order.
func (u *Update) SetMap(values map[string]any) *Update { u.Update.SetMap(values); return u }

// Where adds a condition.
func (u *Update) Where(cond any, args ...any) *Update { u.Update.Where(cond, args...); return u }

// OrderBy orders the rows to update.
func (u *Update) OrderBy(column, direction string) *Update {
	if err := u.orderBy.Add(column, direction); err != nil {
		return u.fail(err)
	}
	return u
}

// Limit caps the number of updated rows.
func (u *Update) Limit(n int) *Update {
	if n < 0 {
		return u.fail(core.NewError(core.ErrInvalidArgument, "update.limit", "negative limit %d", n))
	}
	u.limit = n
	return u
}

// SQL renders the statement.
func (u *Update) SQL() (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if err := u.Check(); err != nil {
		return "", err
	}
	sql, err := u.Lines(u.modifiers.List())
	if err != nil {
		return "", err
	}
	return core.JoinLines(sql, u.orderBy.SQL(), limitLine(u.limit)), nil
}

// Params returns SET parameters followed by WHERE parameters.
func (u *Update) Params() params.Set { return u.Update.Params() }

// ToSQL renders the statement and its parameters.
func (u *Update) ToSQL() (string, params.Set, error) {
	return core.Build(u)
}

func limitLine(n int) string {
	if n < 0 {
		return ""
	}
	return "LIMIT " + strconv.Itoa(n)
}
