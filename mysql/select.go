package mysql

import (
	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Select is a MySQL SELECT. It renders, in order: the generic body, LIMIT,
// the lock clause and UNION parts. When an outer ORDER BY, LIMIT, OFFSET or
// lock is set, all of that is wrapped in parentheses and the outer clauses
// follow.
type Select struct {
	*core.Select
	err         error
	modifiers   *core.ModifierSlots
	rollup      bool
	lock        *Lock
	unions      []*CombiningQuery
	outerOrder  core.Ordering
	outerLimit  int
	outerOffset int
	outerLock   *Lock
}

// NewSelect returns a MySQL SELECT of columns.
func NewSelect(columns ...any) *Select {
	return &Select{
		Select: core.NewSelect(columns...),
		modifiers: core.NewModifierSlots("select",
			[]string{"ALL", "DISTINCT", "DISTINCTROW"},
			[]string{"HIGH_PRIORITY"},
			[]string{"STRAIGHT_JOIN"},
			[]string{"SQL_SMALL_RESULT"},
			[]string{"SQL_BIG_RESULT"},
			[]string{"SQL_BUFFER_RESULT"},
			[]string{"SQL_NO_CACHE"},
			[]string{"SQL_CALC_FOUND_ROWS"},
		),
		outerLimit:  -1,
		outerOffset: -1,
	}
}

func (s *Select) fail(err error) *Select {
	if s.err == nil {
		s.err = err
	}
	return s
}

// Err returns the first error recorded by a builder call.
func (s *Select) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.Select.Err()
}

// Modifier sets select modifiers. Each belongs to a category (for example
// ALL, DISTINCT and DISTINCTROW share one); a later modifier replaces an
// earlier one of the same category.
func (s *Select) Modifier(modifiers ...string) *Select {
	if err := s.modifiers.Add(modifiers...); err != nil {
		return s.fail(err)
	}
	return s
}

// Columns adds select-list entries.
func (s *Select) Columns(columns ...any) *Select { s.Select.Columns(columns...); return s }

// Column adds one aliased entry.
func (s *Select) Column(expr any, alias string) *Select { s.Select.Column(expr, alias); return s }

// From adds tables.
func (s *Select) From(tables ...any) *Select { s.Select.From(tables...); return s }

// Join adds a join of typ.
func (s *Select) Join(typ core.JoinType, table any, on any, args ...any) *Select {
	s.Select.Join(typ, table, on, args...)
	return s
}

// JoinAs adds an aliased join.
func (s *Select) JoinAs(typ core.JoinType, table any, alias string, on any, args ...any) *Select {
	s.Select.JoinAs(typ, table, alias, on, args...)
	return s
}

// AddJoin adds prepared join clauses.
func (s *Select) AddJoin(joins ...*core.Join) *Select { s.Select.AddJoin(joins...); return s }

// InnerJoin adds an INNER JOIN.
func (s *Select) InnerJoin(table any, on any, args ...any) *Select {
	s.Select.InnerJoin(table, on, args...)
	return s
}

// LeftJoin adds a LEFT JOIN.
func (s *Select) LeftJoin(table any, on any, args ...any) *Select {
	s.Select.LeftJoin(table, on, args...)
	return s
}

// RightJoin adds a RIGHT JOIN.
func (s *Select) RightJoin(table any, on any, args ...any) *Select {
	s.Select.RightJoin(table, on, args...)
	return s
}

// FullJoin adds a FULL JOIN.
func (s *Select) FullJoin(table any, on any, args ...any) *Select {
	s.Select.FullJoin(table, on, args...)
	return s
}

// Where adds a condition.
func (s *Select) Where(cond any, args ...any) *Select { s.Select.Where(cond, args...); return s }

// GroupBy adds grouping terms.
func (s *Select) GroupBy(terms ...any) *Select { s.Select.GroupBy(terms...); return s }

// WithRollup appends WITH ROLLUP to the GROUP BY clause.
func (s *Select) WithRollup() *Select {
	s.rollup = true
	return s
}

// Having adds a HAVING condition.
func (s *Select) Having(cond any, args ...any) *Select { s.Select.Having(cond, args...); return s }

// OrderBy sets the direction of column.
func (s *Select) OrderBy(column, direction string) *Select {
	s.Select.OrderBy(column, direction)
	return s
}

// Limit sets the maximum number of rows.
func (s *Select) Limit(n int) *Select { s.Select.Limit(n); return s }

// Offset sets the number of rows to skip.
func (s *Select) Offset(n int) *Select { s.Select.Offset(n); return s }

// Lock sets the locking read clause.
func (s *Select) Lock(mode LockMode, option LockOption, tables ...string) *Select {
	l, err := NewLock(mode, option, tables...)
	if err != nil {
		return s.fail(err)
	}
	s.lock = l
	return s
}

// Union appends "UNION [modifier] query".
func (s *Select) Union(query core.QueryPart, modifier string) *Select {
	u, err := NewUnion(query, modifier)
	if err != nil {
		return s.fail(err)
	}
	s.unions = append(s.unions, u)
	return s
}

// OuterOrderBy orders the wrapped result.
func (s *Select) OuterOrderBy(column, direction string) *Select {
	if err := s.outerOrder.Add(column, direction); err != nil {
		return s.fail(err)
	}
	return s
}

// OuterLimit limits the wrapped result.
func (s *Select) OuterLimit(n int) *Select {
	if n < 0 {
		return s.fail(core.NewError(core.ErrInvalidArgument, "select.outer-limit", "negative limit %d", n))
	}
	s.outerLimit = n
	return s
}

// OuterOffset skips rows of the wrapped result.
func (s *Select) OuterOffset(n int) *Select {
	if n < 0 {
		return s.fail(core.NewError(core.ErrInvalidArgument, "select.outer-offset", "negative offset %d", n))
	}
	s.outerOffset = n
	return s
}

// OuterLock locks rows of the wrapped result.
func (s *Select) OuterLock(mode LockMode, option LockOption, tables ...string) *Select {
	l, err := NewLock(mode, option, tables...)
	if err != nil {
		return s.fail(err)
	}
	s.outerLock = l
	return s
}

func (s *Select) wrapped() bool {
	return s.outerOrder.Len() > 0 || s.outerLimit >= 0 || s.outerOffset >= 0 || s.outerLock != nil
}

// SQL renders the statement.
func (s *Select) SQL() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if err := s.Check(); err != nil {
		return "", err
	}

	opts := core.SelectOptions{Modifiers: s.modifiers.List()}
	if s.rollup {
		opts.GroupBySuffix = " WITH ROLLUP"
	}
	body, err := s.Body(opts)
	if err != nil {
		return "", err
	}

	lines := []string{body, limitClause(s.Paging())}
	if s.lock != nil {
		l, _ := s.lock.SQL()
		lines = append(lines, l)
	}
	for _, u := range s.unions {
		us, err := u.SQL()
		if err != nil {
			return "", err
		}
		lines = append(lines, us)
	}
	sql := core.JoinLines(lines...)
	if !s.wrapped() {
		return sql, nil
	}

	outer := []string{"(" + sql + ")", s.outerOrder.SQL(), limitClause(s.outerLimit, s.outerOffset)}
	if s.outerLock != nil {
		l, _ := s.outerLock.SQL()
		outer = append(outer, l)
	}
	return core.JoinLines(outer...), nil
}

// Params returns body parameters followed by UNION parameters.
func (s *Select) Params() params.Set {
	sets := []params.Set{s.Select.Params()}
	for _, u := range s.unions {
		sets = append(sets, u.Params())
	}
	return params.Merge(sets...)
}

// ToSQL renders the statement and its parameters.
func (s *Select) ToSQL() (string, params.Set, error) {
	return core.Build(s)
}
