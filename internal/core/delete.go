package core

import (
	"strings"

	"github.com/coregx/qb/internal/params"
)

// Delete builds a DELETE statement. It requires a WHERE condition unless
// AllowFullTable was called.
type Delete struct {
	err       error
	modifiers []string
	tables    partList
	where     partList
	fullTable bool
}

// NewDelete returns a DELETE from table.
func NewDelete(table any) *Delete {
	d := &Delete{}
	if table == nil {
		return d
	}
	return d.From(table)
}

func (d *Delete) fail(err error) *Delete {
	if d.err == nil {
		d.err = err
	}
	return d
}

// Err returns the first error recorded by a builder call.
func (d *Delete) Err() error { return d.err }

// From adds target tables.
func (d *Delete) From(tables ...any) *Delete {
	parts := make(partList, 0, len(tables))
	for _, t := range tables {
		p, err := tablePart("delete.from", t)
		if err != nil {
			return d.fail(err)
		}
		parts = append(parts, p)
	}
	d.tables = append(d.tables, parts...)
	return d
}

// Modifier adds statement modifiers rendered after DELETE.
func (d *Delete) Modifier(modifiers ...string) *Delete {
	for _, m := range modifiers {
		if strings.TrimSpace(m) == "" {
			return d.fail(invalidArgument("delete.modifier", "empty modifier"))
		}
	}
	d.modifiers = append(d.modifiers, modifiers...)
	return d
}

// Where adds a condition. Conditions are combined with AND.
func (d *Delete) Where(cond any, args ...any) *Delete {
	c, err := condition("delete.where", cond, args)
	if err != nil {
		return d.fail(err)
	}
	d.where = append(d.where, c)
	return d
}

// AllowFullTable permits rendering without a WHERE condition.
func (d *Delete) AllowFullTable() *Delete {
	d.fullTable = true
	return d
}

// IsValid reports whether the statement has one table and a condition, or
// the full-table opt-out.
func (d *Delete) IsValid() bool {
	return len(d.tables) == 1 && (len(d.where) > 0 || d.fullTable)
}

// Check returns the recorded builder error or ErrNotReady.
func (d *Delete) Check() error {
	if d.err != nil {
		return d.err
	}
	if len(d.tables) != 1 {
		return notReady("delete", "DELETE requires exactly one table, got %d", len(d.tables))
	}
	if !d.IsValid() {
		return notReady("delete", "DELETE without WHERE requires AllowFullTable")
	}
	return nil
}

// Lines renders DELETE and WHERE. modifiers replaces the ones set through
// Modifier when non-nil.
func (d *Delete) Lines(modifiers []string) (string, error) {
	mods := d.modifiers
	if modifiers != nil {
		mods = modifiers
	}
	tables, err := d.tables.join(", ")
	if err != nil {
		return "", err
	}
	where, err := d.where.clause("WHERE", " AND ")
	if err != nil {
		return "", err
	}
	return JoinLines("DELETE "+modifierPrefix(mods)+"FROM "+tables, where), nil
}

// Params returns the WHERE parameters.
func (d *Delete) Params() params.Set {
	return params.Merge(d.tables.params(), d.where.params())
}

// SQL renders the statement.
func (d *Delete) SQL() (string, error) {
	if err := d.Check(); err != nil {
		return "", err
	}
	return d.Lines(nil)
}

// ToSQL renders the statement and its parameters.
func (d *Delete) ToSQL() (string, params.Set, error) {
	return Build(d)
}
