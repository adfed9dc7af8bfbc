package mysql

import (
	"strings"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// LockMode is a row locking mode.
type LockMode string

// Lock modes.
const (
	LockInShareMode LockMode = "LOCK IN SHARE MODE"
	ForUpdate       LockMode = "UPDATE"
	ForShare        LockMode = "SHARE"
)

// LockOption changes how a lock waits for locked rows.
type LockOption string

// Lock options.
const (
	NoWait     LockOption = "NOWAIT"
	SkipLocked LockOption = "SKIP LOCKED"
)

// Lock is a locking read clause.
type Lock struct {
	mode   LockMode
	tables []string
	option LockOption
}

// NewLock returns a lock clause. An empty mode means LOCK IN SHARE MODE,
// which takes neither tables nor an option.
func NewLock(mode LockMode, option LockOption, tables ...string) (*Lock, error) {
	if mode == "" {
		mode = LockInShareMode
	}
	switch mode {
	case LockInShareMode:
		if len(tables) > 0 || option != "" {
			return nil, core.NewError(core.ErrInvalidArgument, "lock", "%s takes no tables or option", mode)
		}
	case ForUpdate, ForShare:
	default:
		return nil, core.NewError(core.ErrInvalidArgument, "lock", "unsupported lock mode %q", mode)
	}
	switch option {
	case "", NoWait, SkipLocked:
	default:
		return nil, core.NewError(core.ErrInvalidArgument, "lock", "unsupported lock option %q", option)
	}
	return &Lock{mode: mode, tables: tables, option: option}, nil
}

// SQL renders the clause.
func (l *Lock) SQL() (string, error) {
	if l.mode == LockInShareMode {
		return string(l.mode), nil
	}
	sql := "FOR " + string(l.mode)
	if len(l.tables) > 0 {
		sql += " OF " + strings.Join(l.tables, ", ")
	}
	if l.option != "" {
		sql += " " + string(l.option)
	}
	return sql, nil
}

// Params returns nil.
func (l *Lock) Params() params.Set { return nil }

// Union modifiers.
const (
	All      = "ALL"
	Distinct = "DISTINCT"
)

// CombiningQuery is a UNION with the right-hand query.
type CombiningQuery struct {
	modifier string
	query    core.QueryPart
}

// NewUnion returns "UNION [ALL|DISTINCT] query".
func NewUnion(query core.QueryPart, modifier string) (*CombiningQuery, error) {
	if core.IsNil(query) {
		return nil, core.NewError(core.ErrInvalidArgument, "union", "nil query")
	}
	modifier = strings.ToUpper(modifier)
	switch modifier {
	case "", All, Distinct:
	default:
		return nil, core.NewError(core.ErrInvalidArgument, "union", "unsupported modifier %q", modifier)
	}
	return &CombiningQuery{modifier: modifier, query: query}, nil
}

// SQL renders the combinator and the query on the following lines.
func (c *CombiningQuery) SQL() (string, error) {
	q, err := c.query.SQL()
	if err != nil {
		return "", err
	}
	head := "UNION"
	if c.modifier != "" {
		head += " " + c.modifier
	}
	return head + "\n" + q, nil
}

// Params returns the query's parameters.
func (c *CombiningQuery) Params() params.Set {
	return c.query.Params()
}
