package postgres

import (
	"strings"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// Insert is a PostgreSQL INSERT with ON CONFLICT and RETURNING. Without rows
// or a query it inserts DEFAULT VALUES.
type Insert struct {
	*core.Insert
	err       error
	conflict  []string
	doNothing bool
	doUpdate  core.Assignments
	returning []string
}

// NewInsert returns a PostgreSQL INSERT into table.
func NewInsert(table any) *Insert {
	return &Insert{Insert: core.NewInsert(table)}
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

// Into sets the target table.
func (i *Insert) Into(table any) *Insert { i.Insert.Into(table); return i }

// Columns sets the column list.
func (i *Insert) Columns(columns ...string) *Insert { i.Insert.Columns(columns...); return i }

// Values adds one row.
func (i *Insert) Values(values ...any) *Insert { i.Insert.Values(values...); return i }

// Select inserts the result of a query.
func (i *Insert) Select(query core.QueryPart) *Insert { i.Insert.Select(query); return i }

// OnConflict sets the conflict target columns. The statement is not ready
// until DoNothing or DoUpdateSet picks the action.
func (i *Insert) OnConflict(columns ...string) *Insert {
	i.conflict = columns
	return i
}

// DoNothing skips conflicting rows. It drops assignments made by DoUpdateSet.
func (i *Insert) DoNothing() *Insert {
	i.doNothing = true
	i.doUpdate = core.Assignments{}
	return i
}

// DoUpdateSet adds an assignment applied to conflicting rows. A QueryPart
// value such as core.Raw("EXCLUDED.name") is inlined.
func (i *Insert) DoUpdateSet(column string, value any) *Insert {
	if err := i.doUpdate.Add(column, value); err != nil {
		return i.fail(err)
	}
	i.doNothing = false
	return i
}

// Returning sets the RETURNING columns.
func (i *Insert) Returning(columns ...string) *Insert {
	i.returning = columns
	return i
}

// Check reports a recorded error or an incomplete statement.
func (i *Insert) Check() error {
	if err := i.Err(); err != nil {
		return err
	}
	if !i.HasTarget() {
		return core.NewError(core.ErrNotReady, "insert", "missing table")
	}
	if !i.HasSource() && len(i.ColumnNames()) > 0 {
		return core.NewError(core.ErrNotReady, "insert", "DEFAULT VALUES takes no column list")
	}
	if len(i.conflict) > 0 && !i.doNothing && i.doUpdate.Len() == 0 {
		return core.NewError(core.ErrNotReady, "insert", "ON CONFLICT requires DoNothing or DoUpdateSet")
	}
	if i.doUpdate.Len() > 0 && len(i.conflict) == 0 {
		return core.NewError(core.ErrNotReady, "insert", "ON CONFLICT DO UPDATE requires conflict columns")
	}
	return nil
}

// SQL renders the statement.
func (i *Insert) SQL() (string, error) {
	if err := i.Check(); err != nil {
		return "", err
	}
	sql, err := i.Lines(nil)
	if err != nil {
		return "", err
	}
	if !i.HasSource() {
		sql += "\nDEFAULT VALUES"
	}

	lines := []string{sql}
	if i.doNothing || i.doUpdate.Len() > 0 {
		action := "DO NOTHING"
		if !i.doNothing {
			action = "DO UPDATE"
		}
		head := "ON CONFLICT " + action
		if len(i.conflict) > 0 {
			head = "ON CONFLICT (" + strings.Join(i.conflict, ", ") + ") " + action
		}
		lines = append(lines, head)
		if !i.doNothing {
			set, err := i.doUpdate.SQL()
			if err != nil {
				return "", err
			}
			lines = append(lines, "SET "+set)
		}
	}
	lines = append(lines, returningLine(i.returning))
	return core.JoinLines(lines...), nil
}

// Params returns row parameters followed by DO UPDATE parameters.
func (i *Insert) Params() params.Set {
	return params.Merge(i.Insert.Params(), i.doUpdate.Params())
}

// ToSQL renders the statement and its parameters.
func (i *Insert) ToSQL() (string, params.Set, error) {
	return core.Build(i)
}
