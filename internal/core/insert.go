package core

import (
	"strings"

	"github.com/coregx/qb/internal/params"
)

// Insert builds an INSERT statement. Every value binds as one "?" placeholder
// except QueryPart values, which are inlined with their own parameters.
// Parameters are collected row by row.
type Insert struct {
	err       error
	modifiers []string
	table     QueryPart
	columns   []string
	rows      [][]cell
	query     QueryPart
}

// NewInsert returns an INSERT into table.
func NewInsert(table any) *Insert {
	i := &Insert{}
	if table == nil {
		return i
	}
	return i.Into(table)
}

func (i *Insert) fail(err error) *Insert {
	if i.err == nil {
		i.err = err
	}
	return i
}

// Err returns the first error recorded by a builder call.
func (i *Insert) Err() error { return i.err }

// Into sets the target table.
func (i *Insert) Into(table any) *Insert {
	t, err := tablePart("insert.into", table)
	if err != nil {
		return i.fail(err)
	}
	i.table = t
	return i
}

// Modifier adds statement modifiers rendered after INSERT.
func (i *Insert) Modifier(modifiers ...string) *Insert {
	for _, m := range modifiers {
		if strings.TrimSpace(m) == "" {
			return i.fail(invalidArgument("insert.modifier", "empty modifier"))
		}
	}
	i.modifiers = append(i.modifiers, modifiers...)
	return i
}

// Columns sets the column list. It must match the width of added rows.
func (i *Insert) Columns(columns ...string) *Insert {
	for _, c := range columns {
		if c == "" {
			return i.fail(invalidArgument("insert.columns", "empty column"))
		}
	}
	if len(i.rows) > 0 && len(i.rows[0]) != len(columns) {
		return i.fail(invalidArgument("insert.columns", "%d columns for rows of %d values", len(columns), len(i.rows[0])))
	}
	i.columns = columns
	return i
}

// Values adds one row.
func (i *Insert) Values(values ...any) *Insert {
	if i.query != nil {
		return i.fail(invalidArgument("insert.values", "statement already inserts from a query"))
	}
	if len(values) == 0 {
		return i.fail(invalidArgument("insert.values", "empty row"))
	}
	width := len(i.columns)
	if width == 0 && len(i.rows) > 0 {
		width = len(i.rows[0])
	}
	if width > 0 && len(values) != width {
		return i.fail(invalidArgument("insert.values", "%d values for %d columns", len(values), width))
	}
	row := make([]cell, len(values))
	for k, v := range values {
		c, err := newCell("insert.values", v)
		if err != nil {
			return i.fail(err)
		}
		row[k] = c
	}
	i.rows = append(i.rows, row)
	return i
}

// Select inserts the result of a query instead of VALUES rows.
func (i *Insert) Select(query QueryPart) *Insert {
	if IsNil(query) {
		return i.fail(invalidArgument("insert.select", "nil query"))
	}
	if len(i.rows) > 0 {
		return i.fail(invalidArgument("insert.select", "statement already has VALUES rows"))
	}
	i.query = query
	return i
}

// Rows returns the raw row values in row-major order.
func (i *Insert) Rows() [][]any {
	out := make([][]any, len(i.rows))
	for r, row := range i.rows {
		out[r] = make([]any, len(row))
		for k, c := range row {
			out[r][k] = c.raw
		}
	}
	return out
}

// ColumnNames returns the column list.
func (i *Insert) ColumnNames() []string { return i.columns }

// HasTarget reports whether a table is set.
func (i *Insert) HasTarget() bool { return i.table != nil }

// HasSource reports whether rows or a query were added.
func (i *Insert) HasSource() bool { return len(i.rows) > 0 || i.query != nil }

// IsValid reports whether the statement has a table and rows or a query.
func (i *Insert) IsValid() bool { return i.HasTarget() && i.HasSource() }

// Check returns the recorded builder error or ErrNotReady.
func (i *Insert) Check() error {
	if i.err != nil {
		return i.err
	}
	if !i.IsValid() {
		return notReady("insert", "INSERT requires a table and values or a query")
	}
	return nil
}

// Lines renders the INSERT head followed by VALUES rows or the query. The
// head alone is returned when there is no source. modifiers replaces the
// ones set through Modifier when non-nil.
func (i *Insert) Lines(modifiers []string) (string, error) {
	if i.table == nil {
		return "", notReady("insert", "missing table")
	}
	mods := i.modifiers
	if modifiers != nil {
		mods = modifiers
	}
	table, err := i.table.SQL()
	if err != nil {
		return "", err
	}
	head := "INSERT " + modifierPrefix(mods) + "INTO " + table
	if len(i.columns) > 0 {
		head += " (" + strings.Join(i.columns, ", ") + ")"
	}

	if i.query != nil {
		q, err := i.query.SQL()
		if err != nil {
			return "", err
		}
		return head + "\n" + q, nil
	}
	if len(i.rows) == 0 {
		return head, nil
	}

	rows := make([]string, len(i.rows))
	for r, row := range i.rows {
		vals := make([]string, len(row))
		for k, c := range row {
			if vals[k], err = c.sql(); err != nil {
				return "", err
			}
		}
		rows[r] = "(" + strings.Join(vals, ", ") + ")"
	}
	return head + "\nVALUES " + strings.Join(rows, ",\n"), nil
}

// Params returns row parameters in row-major order, or the query's parameters.
func (i *Insert) Params() params.Set {
	if i.query != nil {
		return i.query.Params()
	}
	var sets []params.Set
	for _, row := range i.rows {
		for _, c := range row {
			sets = append(sets, c.params())
		}
	}
	return params.Merge(sets...)
}

// SQL renders the statement.
func (i *Insert) SQL() (string, error) {
	if err := i.Check(); err != nil {
		return "", err
	}
	return i.Lines(nil)
}

// ToSQL renders the statement and its parameters.
func (i *Insert) ToSQL() (string, params.Set, error) {
	return Build(i)
}
