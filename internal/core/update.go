package core

import (
	"sort"
	"strings"

	"github.com/coregx/qb/internal/params"
)

// Update builds an UPDATE statement. It renders only with exactly one table,
// at least one assignment and at least one WHERE condition.
type Update struct {
	err       error
	modifiers []string
	tables    partList
	set       Assignments
	where     partList
}

// NewUpdate returns an UPDATE of table.
func NewUpdate(table any) *Update {
	u := &Update{}
	if table == nil {
		return u
	}
	return u.Table(table)
}

func (u *Update) fail(err error) *Update {
	if u.err == nil {
		u.err = err
	}
	return u
}

// Err returns the first error recorded by a builder call.
func (u *Update) Err() error { return u.err }

// Table adds target tables.
func (u *Update) Table(tables ...any) *Update {
	parts := make(partList, 0, len(tables))
	for _, t := range tables {
		p, err := tablePart("update.table", t)
		if err != nil {
			return u.fail(err)
		}
		parts = append(parts, p)
	}
	u.tables = append(u.tables, parts...)
	return u
}

// Modifier adds statement modifiers rendered after UPDATE.
func (u *Update) Modifier(modifiers ...string) *Update {
	for _, m := range modifiers {
		if strings.TrimSpace(m) == "" {
			return u.fail(invalidArgument("update.modifier", "empty modifier"))
		}
	}
	u.modifiers = append(u.modifiers, modifiers...)
	return u
}

// Set assigns value to column. Assignments render in call order.
func (u *Update) Set(column string, value any) *Update {
	if err := u.set.Add(column, value); err != nil {
		return u.fail(withOp("update", err))
	}
	return u
}

// SetMap assigns every entry of values, in column name order.
func (u *Update) SetMap(values map[string]any) *Update {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	for _, c := range columns {
		u.Set(c, values[c])
		if u.err != nil {
			return u
		}
	}
	return u
}

// Where adds a condition. Conditions are combined with AND.
func (u *Update) Where(cond any, args ...any) *Update {
	c, err := condition("update.where", cond, args)
	if err != nil {
		return u.fail(err)
	}
	u.where = append(u.where, c)
	return u
}

// Values returns the raw assigned values in SET order.
func (u *Update) Values() []any { return u.set.Values() }

// IsValid reports whether the statement has one table, assignments and a condition.
func (u *Update) IsValid() bool {
	return len(u.tables) == 1 && u.set.Len() > 0 && len(u.where) > 0
}

// Check returns the recorded builder error or ErrNotReady.
func (u *Update) Check() error {
	if u.err != nil {
		return u.err
	}
	if !u.IsValid() {
		return notReady("update", "UPDATE requires one table, values and a WHERE condition")
	}
	return nil
}

// Lines renders UPDATE, SET and WHERE. modifiers replaces the ones set
// through Modifier when non-nil.
func (u *Update) Lines(modifiers []string) (string, error) {
	mods := u.modifiers
	if modifiers != nil {
		mods = modifiers
	}
	tables, err := u.tables.join(", ")
	if err != nil {
		return "", err
	}
	set, err := u.set.SQL()
	if err != nil {
		return "", err
	}
	where, err := u.where.clause("WHERE", " AND ")
	if err != nil {
		return "", err
	}
	return JoinLines("UPDATE "+modifierPrefix(mods)+tables, "SET "+set, where), nil
}

// Params returns assignment parameters followed by WHERE parameters.
func (u *Update) Params() params.Set {
	return params.Merge(u.tables.params(), u.set.Params(), u.where.params())
}

// SQL renders the statement.
func (u *Update) SQL() (string, error) {
	if err := u.Check(); err != nil {
		return "", err
	}
	return u.Lines(nil)
}

// ToSQL renders the statement and its parameters.
func (u *Update) ToSQL() (string, params.Set, error) {
	return Build(u)
}
