package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coregx/qb/internal/params"
)

// Select builds a SELECT statement. Methods return the receiver for chaining.
// A call with a malformed argument is not applied; the first such error is
// kept and returned by Err, SQL and ToSQL.
//
// Clauses render, and their parameters are collected, in this order:
// columns, FROM, joins, WHERE, GROUP BY, HAVING, ORDER BY, paging.
// Without a FROM clause only the column list is rendered, and any join,
// WHERE, GROUP BY, HAVING or ORDER BY makes the statement not ready.
type Select struct {
	err       error
	modifiers []string
	columns   partList
	from      partList
	joins     []*Join
	where     partList
	groupBy   partList
	having    partList
	orderBy   Ordering
	limit     int
	offset    int
}

// NewSelect returns a SELECT of columns. With no columns it selects "*".
func NewSelect(columns ...any) *Select {
	s := &Select{limit: -1, offset: -1}
	return s.Columns(columns...)
}

func (s *Select) subQuery() {}

func (s *Select) fail(err error) *Select {
	if s.err == nil {
		s.err = err
	}
	return s
}

// Err returns the first error recorded by a builder call.
func (s *Select) Err() error { return s.err }

// Modifier adds select modifiers such as DISTINCT, rendered in call order.
func (s *Select) Modifier(modifiers ...string) *Select {
	for _, m := range modifiers {
		if strings.TrimSpace(m) == "" {
			return s.fail(invalidArgument("select.modifier", "empty modifier"))
		}
	}
	for _, m := range modifiers {
		if !slices.Contains(s.modifiers, m) {
			s.modifiers = append(s.modifiers, m)
		}
	}
	return s
}

// Columns adds select-list entries: a column name (optionally "expr AS alias"),
// a *Column, a sub-query or any other QueryPart.
func (s *Select) Columns(columns ...any) *Select {
	parts := make(partList, 0, len(columns))
	for _, c := range columns {
		p, err := columnPart(c)
		if err != nil {
			return s.fail(err)
		}
		parts = append(parts, p)
	}
	s.columns = append(s.columns, parts...)
	return s
}

// Column adds one aliased entry.
func (s *Select) Column(expr any, alias string) *Select {
	switch e := expr.(type) {
	case string:
		if e == "" {
			return s.fail(invalidArgument("select.column", "empty column"))
		}
		s.columns = append(s.columns, ColAs(e, alias))
	case QueryPart:
		if IsNil(e) {
			return s.fail(invalidArgument("select.column", "nil %T column", expr))
		}
		s.columns = append(s.columns, NewColumn(e, alias))
	default:
		return s.fail(invalidArgument("select.column", "unsupported column type %T", expr))
	}
	return s
}

func columnPart(c any) (QueryPart, error) {
	switch v := c.(type) {
	case string:
		if v == "" {
			return nil, invalidArgument("select.columns", "empty column")
		}
		return Col(v), nil
	case QueryPart:
		if IsNil(v) {
			return nil, invalidArgument("select.columns", "nil %T column", c)
		}
		if col, ok := v.(*Column); ok {
			return col, nil
		}
		return NewColumn(v, ""), nil
	default:
		return nil, invalidArgument("select.columns", "unsupported column type %T", c)
	}
}

// From adds tables: names ("name AS alias" is split), *Table, derived tables
// or other parts.
func (s *Select) From(tables ...any) *Select {
	parts := make(partList, 0, len(tables))
	for _, t := range tables {
		p, err := tablePart("select.from", t)
		if err != nil {
			return s.fail(err)
		}
		parts = append(parts, p)
	}
	s.from = append(s.from, parts...)
	return s
}

// Join adds a join of typ. on is nil, a condition string bound to args, or a part.
func (s *Select) Join(typ JoinType, table any, on any, args ...any) *Select {
	return s.JoinAs(typ, table, "", on, args...)
}

// JoinAs adds an aliased join.
func (s *Select) JoinAs(typ JoinType, table any, alias string, on any, args ...any) *Select {
	j, err := NewJoin(typ, table, on, alias, args...)
	if err != nil {
		return s.fail(err)
	}
	s.joins = append(s.joins, j)
	return s
}

// AddJoin adds prepared join clauses.
func (s *Select) AddJoin(joins ...*Join) *Select {
	for _, j := range joins {
		if j == nil {
			return s.fail(invalidArgument("select.join", "nil join"))
		}
	}
	s.joins = append(s.joins, joins...)
	return s
}

// InnerJoin adds an INNER JOIN.
func (s *Select) InnerJoin(table any, on any, args ...any) *Select {
	return s.Join(InnerJoin, table, on, args...)
}

// LeftJoin adds a LEFT JOIN.
func (s *Select) LeftJoin(table any, on any, args ...any) *Select {
	return s.Join(LeftJoin, table, on, args...)
}

// RightJoin adds a RIGHT JOIN.
func (s *Select) RightJoin(table any, on any, args ...any) *Select {
	return s.Join(RightJoin, table, on, args...)
}

// FullJoin adds a FULL JOIN.
func (s *Select) FullJoin(table any, on any, args ...any) *Select {
	return s.Join(FullJoin, table, on, args...)
}

// Where adds a condition. Conditions are combined with AND.
func (s *Select) Where(cond any, args ...any) *Select {
	c, err := condition("select.where", cond, args)
	if err != nil {
		return s.fail(err)
	}
	s.where = append(s.where, c)
	return s
}

// GroupBy adds grouping terms: column names or parts.
func (s *Select) GroupBy(terms ...any) *Select {
	parts, err := termParts("select.group-by", terms)
	if err != nil {
		return s.fail(err)
	}
	s.groupBy = append(s.groupBy, parts...)
	return s
}

// Having adds a HAVING condition. Conditions are combined with AND.
func (s *Select) Having(cond any, args ...any) *Select {
	c, err := condition("select.having", cond, args)
	if err != nil {
		return s.fail(err)
	}
	s.having = append(s.having, c)
	return s
}

// OrderBy sets the direction of column (ASC, DESC, or empty for ASC).
// Ordering by the same column again replaces the earlier direction.
func (s *Select) OrderBy(column, direction string) *Select {
	if err := s.orderBy.Add(column, direction); err != nil {
		return s.fail(withOp("select", err))
	}
	return s
}

// Limit sets the maximum number of rows.
func (s *Select) Limit(n int) *Select {
	if n < 0 {
		return s.fail(invalidArgument("select.limit", "negative limit %d", n))
	}
	s.limit = n
	return s
}

// Offset sets the number of rows to skip.
func (s *Select) Offset(n int) *Select {
	if n < 0 {
		return s.fail(invalidArgument("select.offset", "negative offset %d", n))
	}
	s.offset = n
	return s
}

// Paging returns the limit and offset, -1 when unset.
func (s *Select) Paging() (limit, offset int) {
	return s.limit, s.offset
}

// IsValid reports whether the statement has at least one column or table.
func (s *Select) IsValid() bool {
	return len(s.columns) > 0 || len(s.from) > 0
}

// Check returns the recorded builder error or ErrNotReady for an
// under-populated statement.
func (s *Select) Check() error {
	if s.err != nil {
		return s.err
	}
	if !s.IsValid() {
		return notReady("select", "under-initialized SELECT query")
	}
	if len(s.from) == 0 && s.needsFrom() {
		return notReady("select", "clauses after the column list require FROM")
	}
	return nil
}

func (s *Select) needsFrom() bool {
	return len(s.joins) > 0 || len(s.where) > 0 || len(s.groupBy) > 0 ||
		len(s.having) > 0 || s.orderBy.Len() > 0
}

// SelectOptions adjusts body rendering for dialect statements.
type SelectOptions struct {
	// Modifiers replaces the modifiers set through Modifier when non-nil.
	Modifiers []string
	// GroupBySuffix is appended to a non-empty GROUP BY clause.
	GroupBySuffix string
}

// Body renders the statement from the column list through ORDER BY.
func (s *Select) Body(opts SelectOptions) (string, error) {
	mods := s.modifiers
	if opts.Modifiers != nil {
		mods = opts.Modifiers
	}

	cols := "*"
	if len(s.columns) > 0 {
		c, err := s.columns.join(", ")
		if err != nil {
			return "", err
		}
		cols = c
	}
	selectLine := "SELECT " + modifierPrefix(mods) + cols
	if len(s.from) == 0 {
		return selectLine, nil
	}

	from, err := s.from.clause("FROM", ", ")
	if err != nil {
		return "", err
	}
	joins := make([]string, len(s.joins))
	for i, j := range s.joins {
		if joins[i], err = j.SQL(); err != nil {
			return "", err
		}
	}
	where, err := s.where.clause("WHERE", " AND ")
	if err != nil {
		return "", err
	}
	group, err := s.groupBy.clause("GROUP BY", ", ")
	if err != nil {
		return "", err
	}
	if group != "" {
		group += opts.GroupBySuffix
	}
	having, err := s.having.clause("HAVING", " AND ")
	if err != nil {
		return "", err
	}

	lines := []string{selectLine, from}
	lines = append(lines, joins...)
	lines = append(lines, where, group, having, s.orderBy.SQL())
	return JoinLines(lines...), nil
}

// Params returns parameters in rendering order.
func (s *Select) Params() params.Set {
	sets := []params.Set{s.columns.params()}
	if len(s.from) == 0 {
		return params.Merge(sets...)
	}
	sets = append(sets, s.from.params())
	for _, j := range s.joins {
		sets = append(sets, j.Params())
	}
	sets = append(sets, s.where.params(), s.groupBy.params(), s.having.params())
	return params.Merge(sets...)
}

// SQL renders the statement with ANSI paging.
func (s *Select) SQL() (string, error) {
	if err := s.Check(); err != nil {
		return "", err
	}
	body, err := s.Body(SelectOptions{})
	if err != nil {
		return "", err
	}
	return JoinLines(body, ANSIPaging(s.limit, s.offset)), nil
}

// ToSQL renders the statement and its parameters.
func (s *Select) ToSQL() (string, params.Set, error) {
	return Build(s)
}

// ANSIPaging renders "OFFSET n ROWS" and "FETCH FIRST n ROWS ONLY" lines for
// the values that are set (not negative).
func ANSIPaging(limit, offset int) string {
	var lines []string
	if offset >= 0 {
		lines = append(lines, fmt.Sprintf("OFFSET %d ROWS", offset))
	}
	if limit >= 0 {
		lines = append(lines, fmt.Sprintf("FETCH FIRST %d ROWS ONLY", limit))
	}
	return strings.Join(lines, "\n")
}

func termParts(op string, terms []any) (partList, error) {
	parts := make(partList, 0, len(terms))
	for _, t := range terms {
		switch v := t.(type) {
		case string:
			if v == "" {
				return nil, invalidArgument(op, "empty term")
			}
			parts = append(parts, Raw(v))
		case QueryPart:
			if IsNil(v) {
				return nil, invalidArgument(op, "nil %T term", t)
			}
			parts = append(parts, v)
		default:
			return nil, invalidArgument(op, "unsupported term type %T", t)
		}
	}
	return parts, nil
}
