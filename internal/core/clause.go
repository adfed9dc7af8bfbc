package core

import (
	"strings"

	"github.com/coregx/qb/internal/params"
)

// SubQuery is a complete SELECT statement usable inside another statement.
// Column and Join parenthesize it and flatten its lines.
type SubQuery interface {
	QueryPart
	subQuery()
}

const aliasSep = " AS "

// splitAlias splits "name AS alias" on the first literal " AS ".
func splitAlias(s string) (name, alias string) {
	if i := strings.Index(s, aliasSep); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(aliasSep):])
	}
	return s, ""
}

func flatten(sql string) string {
	return strings.ReplaceAll(sql, "\n", " ")
}

// renderNested renders part, wrapping a sub-query in parentheses on one line.
func renderNested(part QueryPart) (string, error) {
	sql, err := part.SQL()
	if err != nil {
		return "", err
	}
	if _, ok := part.(SubQuery); ok {
		return "(" + flatten(sql) + ")", nil
	}
	return sql, nil
}

func withAlias(sql, alias string) string {
	if alias == "" {
		return sql
	}
	return sql + aliasSep + alias
}

// Column is a select-list entry: a name or an expression, optionally aliased.
type Column struct {
	name  string
	expr  QueryPart
	alias string
	err   error
}

// Col returns a bare column. "name AS alias" is split into name and alias.
func Col(name string) *Column {
	n, a := splitAlias(name)
	return &Column{name: n, alias: a}
}

// ColAs returns an aliased column.
func ColAs(name, alias string) *Column {
	return &Column{name: name, alias: alias}
}

// NewColumn wraps an expression or sub-query as a column.
// A nil expression makes SQL fail.
func NewColumn(expr QueryPart, alias string) *Column {
	if IsNil(expr) {
		return &Column{alias: alias, err: invalidArgument("column", "nil expression")}
	}
	return &Column{expr: expr, alias: alias}
}

// SQL renders the column.
func (c *Column) SQL() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if c.expr == nil {
		return withAlias(c.name, c.alias), nil
	}
	sql, err := renderNested(c.expr)
	if err != nil {
		return "", err
	}
	return withAlias(sql, c.alias), nil
}

// Params returns the wrapped expression's parameters.
func (c *Column) Params() params.Set {
	if c.expr == nil {
		return nil
	}
	return c.expr.Params()
}

// Table is a table reference. It never carries parameters.
type Table struct {
	name  string
	alias string
}

// NewTable returns a table reference. An empty alias renders the bare name.
func NewTable(name, alias string) *Table {
	return &Table{name: name, alias: alias}
}

// Name returns the table name without alias.
func (t *Table) Name() string { return t.name }

// SQL renders the table.
func (t *Table) SQL() (string, error) {
	return withAlias(t.name, t.alias), nil
}

// Params returns nil.
func (t *Table) Params() params.Set { return nil }

// QueryAsTable is a derived table: "(query) AS alias".
type QueryAsTable struct {
	query QueryPart
	alias string
}

// NewQueryAsTable wraps a sub-query or a raw SQL string as a derived table.
func NewQueryAsTable(query any, alias string) (*QueryAsTable, error) {
	if alias == "" {
		return nil, invalidArgument("query-as-table", "alias is required")
	}
	switch q := query.(type) {
	case string:
		if q == "" {
			return nil, invalidArgument("query-as-table", "empty query")
		}
		return &QueryAsTable{query: Raw(q), alias: alias}, nil
	case QueryPart:
		if IsNil(q) {
			return nil, invalidArgument("query-as-table", "nil query")
		}
		return &QueryAsTable{query: q, alias: alias}, nil
	default:
		return nil, invalidArgument("query-as-table", "unsupported query type %T", query)
	}
}

// SQL renders the derived table.
func (q *QueryAsTable) SQL() (string, error) {
	sql, err := q.query.SQL()
	if err != nil {
		return "", err
	}
	return "(" + sql + ")" + aliasSep + q.alias, nil
}

// Params returns the sub-query's parameters.
func (q *QueryAsTable) Params() params.Set {
	return q.query.Params()
}

// JoinType is the join keyword.
type JoinType string

// Supported join types.
const (
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
	FullJoin  JoinType = "FULL JOIN"
)

func (t JoinType) valid() bool {
	switch t {
	case InnerJoin, LeftJoin, RightJoin, FullJoin:
		return true
	}
	return false
}

// Join is a JOIN clause. The ON part is omitted when there is no condition.
type Join struct {
	typ   JoinType
	table QueryPart
	on    QueryPart
	alias string
}

// NewJoin returns a join of typ against table. table is a table name
// ("name AS alias" is split), a *Table, a derived table or a sub-query.
// on is nil, a condition string bound to args, or a QueryPart.
func NewJoin(typ JoinType, table any, on any, alias string, args ...any) (*Join, error) {
	if !typ.valid() {
		return nil, invalidArgument("join", "unsupported join type %q", typ)
	}
	t, err := tablePart("join", table)
	if err != nil {
		return nil, err
	}
	cond, err := optionalCondition("join", on, args)
	if err != nil {
		return nil, err
	}
	return &Join{typ: typ, table: t, on: cond, alias: alias}, nil
}

// SQL renders the join.
func (j *Join) SQL() (string, error) {
	table, err := renderNested(j.table)
	if err != nil {
		return "", err
	}
	sql := string(j.typ) + " " + withAlias(table, j.alias)
	if j.on == nil {
		return sql, nil
	}
	cond, err := j.on.SQL()
	if err != nil {
		return "", err
	}
	return sql + " ON " + cond, nil
}

// Params returns the table's parameters followed by the condition's.
func (j *Join) Params() params.Set {
	if j.on == nil {
		return j.table.Params()
	}
	return params.Merge(j.table.Params(), j.on.Params())
}

// tablePart converts a table argument into a part.
func tablePart(op string, table any) (QueryPart, error) {
	switch t := table.(type) {
	case string:
		if t == "" {
			return nil, invalidArgument(op, "empty table name")
		}
		name, alias := splitAlias(t)
		return NewTable(name, alias), nil
	case QueryPart:
		if IsNil(t) {
			return nil, invalidArgument(op, "nil table")
		}
		return t, nil
	default:
		return nil, invalidArgument(op, "unsupported table type %T", table)
	}
}

// condition converts a condition argument into a part. Strings are bound to
// args positionally; parts take no extra args.
func condition(op string, cond any, args []any) (QueryPart, error) {
	switch c := cond.(type) {
	case string:
		if c == "" {
			return nil, invalidArgument(op, "empty condition")
		}
		e, err := NewExpr(c, args...)
		if err != nil {
			return nil, withOp(op, err)
		}
		return e, nil
	case QueryPart:
		if IsNil(c) {
			return nil, invalidArgument(op, "nil condition")
		}
		if len(args) > 0 {
			return nil, invalidArgument(op, "arguments given with a %T condition", cond)
		}
		return c, nil
	default:
		return nil, invalidArgument(op, "unsupported condition type %T", cond)
	}
}

func optionalCondition(op string, cond any, args []any) (QueryPart, error) {
	if cond == nil {
		if len(args) > 0 {
			return nil, invalidArgument(op, "arguments given without a condition")
		}
		return nil, nil
	}
	return condition(op, cond, args)
}

// withOp rewrites the operation of a build error to the calling clause.
func withOp(op string, err error) error {
	if e, ok := err.(*Error); ok {
		c := *e
		c.Op = op + "." + e.Op
		return &c
	}
	return err
}
