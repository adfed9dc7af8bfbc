package core

import "github.com/coregx/qb/internal/params"

// Truncate builds a TRUNCATE statement. It never has parameters.
type Truncate struct {
	err    error
	tables []*Table
}

// NewTruncate returns a TRUNCATE of tables.
func NewTruncate(tables ...any) *Truncate {
	return (&Truncate{}).Tables(tables...)
}

// Err returns the first error recorded by a builder call.
func (t *Truncate) Err() error { return t.err }

// Tables adds table names or *Table values.
func (t *Truncate) Tables(tables ...any) *Truncate {
	out := make([]*Table, 0, len(tables))
	for _, v := range tables {
		switch tbl := v.(type) {
		case string:
			if tbl == "" {
				return t.fail(invalidArgument("truncate", "empty table name"))
			}
			out = append(out, NewTable(tbl, ""))
		case *Table:
			if tbl == nil {
				return t.fail(invalidArgument("truncate", "nil table"))
			}
			out = append(out, tbl)
		default:
			return t.fail(invalidArgument("truncate", "unsupported table type %T", v))
		}
	}
	t.tables = append(t.tables, out...)
	return t
}

func (t *Truncate) fail(err error) *Truncate {
	if t.err == nil {
		t.err = err
	}
	return t
}

// IsValid reports whether at least one table is set.
func (t *Truncate) IsValid() bool { return len(t.tables) > 0 }

// SQL renders the statement. Table aliases are not rendered.
func (t *Truncate) SQL() (string, error) {
	if t.err != nil {
		return "", t.err
	}
	if !t.IsValid() {
		return "", notReady("truncate", "TRUNCATE requires at least one table")
	}
	sql := "TRUNCATE "
	for i, tbl := range t.tables {
		if i > 0 {
			sql += ", "
		}
		sql += tbl.Name()
	}
	return sql, nil
}

// Params returns nil.
func (t *Truncate) Params() params.Set { return nil }

// ToSQL renders the statement.
func (t *Truncate) ToSQL() (string, params.Set, error) {
	return Build(t)
}
