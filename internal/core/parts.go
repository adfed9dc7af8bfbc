package core

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/coregx/qb/internal/params"
)

// IsNil reports whether v is nil or holds a nil pointer, map, slice, func or
// channel. A typed nil part compares unequal to nil as an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// partList is an ordered list of parts rendered with a separator.
type partList []QueryPart

func (l partList) join(sep string) (string, error) {
	out := make([]string, len(l))
	for i, p := range l {
		s, err := renderNested(p)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return strings.Join(out, sep), nil
}

func (l partList) params() params.Set {
	sets := make([]params.Set, len(l))
	for i, p := range l {
		sets[i] = p.Params()
	}
	return params.Merge(sets...)
}

// clause renders "KEYWORD a<sep>b" or "" for an empty list.
func (l partList) clause(keyword, sep string) (string, error) {
	if len(l) == 0 {
		return "", nil
	}
	s, err := l.join(sep)
	if err != nil {
		return "", err
	}
	return keyword + " " + s, nil
}

// Ordering is an ORDER BY list. Setting a column again replaces its
// direction and keeps its position.
type Ordering struct {
	columns    []string
	directions map[string]string
}

// Add sets the direction of column. An empty direction means ASC.
func (o *Ordering) Add(column, direction string) error {
	if column == "" {
		return invalidArgument("order-by", "empty column")
	}
	dir := strings.ToUpper(strings.TrimSpace(direction))
	switch dir {
	case "":
		dir = "ASC"
	case "ASC", "DESC":
	default:
		return invalidArgument("order-by", "unsupported direction %q", direction)
	}
	if o.directions == nil {
		o.directions = make(map[string]string)
	}
	if _, ok := o.directions[column]; !ok {
		o.columns = append(o.columns, column)
	}
	o.directions[column] = dir
	return nil
}

// Len returns the number of ordered columns.
func (o *Ordering) Len() int { return len(o.columns) }

// SQL renders "ORDER BY ..." or "" when empty.
func (o *Ordering) SQL() string {
	if len(o.columns) == 0 {
		return ""
	}
	terms := make([]string, len(o.columns))
	for i, c := range o.columns {
		terms[i] = c + " " + o.directions[c]
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}

// cell is one bound value: a placeholder with its parameter, or an inlined part.
type cell struct {
	raw   any
	part  QueryPart
	param params.Param
}

func newCell(op string, v any) (cell, error) {
	if part, ok := v.(QueryPart); ok {
		if IsNil(part) {
			return cell{}, invalidArgument(op, "nil %T value", v)
		}
		return cell{raw: v, part: part}, nil
	}
	if params.IsBatch(v) {
		return cell{}, invalidArgument(op, "value %T is not a scalar", v)
	}
	p, err := params.Normalize(v, params.Auto)
	if err != nil {
		return cell{}, invalidCause(op, err)
	}
	return cell{raw: v, param: p}, nil
}

func (c cell) sql() (string, error) {
	if c.part == nil {
		return "?", nil
	}
	return renderNested(c.part)
}

func (c cell) params() params.Set {
	if c.part == nil {
		return params.Set{c.param}
	}
	return c.part.Params()
}

// Assignments is an ordered "column = value" list as used by SET clauses.
// Plain values bind as placeholders; a QueryPart value is inlined.
type Assignments struct {
	columns []string
	cells   []cell
}

// Add appends an assignment. A column that is already set is rejected.
func (a *Assignments) Add(column string, value any) error {
	if column == "" {
		return invalidArgument("set", "empty column")
	}
	if slices.Contains(a.columns, column) {
		return invalidArgument("set", "column %q assigned twice", column)
	}
	c, err := newCell("set", value)
	if err != nil {
		return err
	}
	a.columns = append(a.columns, column)
	a.cells = append(a.cells, c)
	return nil
}

// Len returns the number of assignments.
func (a *Assignments) Len() int { return len(a.columns) }

// Values returns the raw assigned values in order.
func (a *Assignments) Values() []any {
	out := make([]any, len(a.cells))
	for i, c := range a.cells {
		out[i] = c.raw
	}
	return out
}

// SQL renders "a = ?, b = ?".
func (a *Assignments) SQL() (string, error) {
	terms := make([]string, len(a.columns))
	for i, col := range a.columns {
		v, err := a.cells[i].sql()
		if err != nil {
			return "", err
		}
		terms[i] = fmt.Sprintf("%s = %s", col, v)
	}
	return strings.Join(terms, ", "), nil
}

// Params returns the assigned parameters in order.
func (a *Assignments) Params() params.Set {
	sets := make([]params.Set, len(a.cells))
	for i, c := range a.cells {
		sets[i] = c.params()
	}
	return params.Merge(sets...)
}

// JoinLines joins the non-empty lines with newlines.
func JoinLines(lines ...string) string {
	out := lines[:0:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func modifierPrefix(mods []string) string {
	if len(mods) == 0 {
		return ""
	}
	return strings.Join(mods, " ") + " "
}
