package mysql

import (
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Insert is a MySQL INSERT with modifiers and ON DUPLICATE KEY UPDATE.
type Insert struct {
	*core.Insert
	err         error
	modifiers   *core.ModifierSlots
	onDuplicate core.Assignments
}

// NewInsert returns a MySQL INSERT into table.
func NewInsert(table any) *Insert {
	return &Insert{
		Insert: core.NewInsert(table),
		modifiers: core.NewModifierSlots("insert",
			[]string{"LOW_PRIORITY", "DELAYED", "HIGH_PRIORITY"},
			[]string{"IGNORE"},
		),
	}
}

func (i *Insert) fail(err error) *Insert {
	if i.err == nil {
		i.err = err
	}
	return i
}

// Err returns the first error recorded by a builder call.
func (i *Insert) Err() error {
	if i.err != nil {
		return i.err
	}
	return i.Insert.Err()
}

// Modifier sets LOW_PRIORITY, DELAYED or HIGH_PRIORITY, and IGNORE.
func (i *Insert) Modifier(modifiers ...string) *Insert {
	if err := i.modifiers.Add(modifiers...); err != nil {
		return i.fail(err)
	}
	return i
}

// Into sets the target table.
func (i *Insert) Into(table any) *Insert { i.Insert.Into(table); return i }

// Columns sets the column list.
func (i *Insert) Columns(columns ...string) *Insert { i.Insert.Columns(columns...); return i }

// Values adds one row.
func (i *Insert) Values(values ...any) *Insert { i.Insert.Values(values...); return i }

// Select inserts the result of a query.
func (i *Insert) Select(query core.QueryPart) *Insert { i.Insert.Select(query); return i }

// OnDuplicateKeyUpdate adds an assignment applied when the row already exists.
// A QueryPart value such as core.Raw("VALUES(name)") is inlined.
func (i *Insert) OnDuplicateKeyUpdate(column string, value any) *Insert {
	if err := i.onDuplicate.Add(column, value); err != nil {
		return i.fail(err)
	}
	return i
}

// SQL renders the statement.
func (i *Insert) SQL() (string, error) {
	if i.err != nil {
		return "", i.err
	}
	if err := i.Check(); err != nil {
		return "", err
	}
	sql, err := i.Lines(i.modifiers.List())
	if err != nil {
		return "", err
	}
	if i.onDuplicate.Len() == 0 {
		return sql, nil
	}
	set, err := i.onDuplicate.SQL()
	if err != nil {
		return "", err
	}
	return sql + "\nON DUPLICATE KEY UPDATE " + set, nil
}

// Params returns row parameters followed by ON DUPLICATE KEY UPDATE parameters.
func (i *Insert) Params() params.Set {
	return params.Merge(i.Insert.Params(), i.onDuplicate.Params())
}

// ToSQL renders the statement and its parameters.
func (i *Insert) ToSQL() (string, params.Set, error) {
	return core.Build(i)
}
