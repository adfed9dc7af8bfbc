package postgres

import (
	"strings"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// LockMode is a row locking strength.
type LockMode string

// Lock modes.
const (
	ForUpdate      LockMode = "UPDATE"
	ForNoKeyUpdate LockMode = "NO KEY UPDATE"
	ForShare       LockMode = "SHARE"
	ForKeyShare    LockMode = "KEY SHARE"
)

// LockOption changes how a lock waits for locked rows.
type LockOption string

// Lock options.
const (
	NoWait     LockOption = "NOWAIT"
	SkipLocked LockOption = "SKIP LOCKED"
)

// Lock is a locking clause.
type Lock struct {
	mode   LockMode
	tables []string
	option LockOption
}

// NewLock returns a lock clause. An empty mode means FOR UPDATE.
func NewLock(mode LockMode, option LockOption, tables ...string) (*Lock, error) {
	if mode == "" {
		mode = ForUpdate
	}
	switch mode {
	case ForUpdate, ForNoKeyUpdate, ForShare, ForKeyShare:
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

// SQL renders "FOR mode[ OF tables][ option]".
func (l *Lock) SQL() (string, error) {
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

// CombineType is a set operation.
type CombineType string

// Set operations.
const (
	Union     CombineType = "UNION"
	Intersect CombineType = "INTERSECT"
	Except    CombineType = "EXCEPT"
)

// All is the only set operation modifier.
const All = "ALL"

// CombiningQuery is a set operation with the right-hand query.
type CombiningQuery struct {
	typ   CombineType
	all   bool
	query core.QueryPart
}

// NewCombiningQuery returns "TYPE [ALL] query". DISTINCT is implied and
// rejected when given explicitly.
func NewCombiningQuery(typ CombineType, query core.QueryPart, modifier string) (*CombiningQuery, error) {
	switch typ {
	case Union, Intersect, Except:
	default:
		return nil, core.NewError(core.ErrInvalidArgument, "combine", "unsupported set operation %q", typ)
	}
	if core.IsNil(query) {
		return nil, core.NewError(core.ErrInvalidArgument, "combine", "nil query")
	}
	switch strings.ToUpper(modifier) {
	case "":
		return &CombiningQuery{typ: typ, query: query}, nil
	case All:
		return &CombiningQuery{typ: typ, all: true, query: query}, nil
	}
	return nil, core.NewError(core.ErrInvalidArgument, "combine", "unsupported modifier %q", modifier)
}

// SQL renders the operation and the query on the following lines.
func (c *CombiningQuery) SQL() (string, error) {
	q, err := c.query.SQL()
	if err != nil {
		return "", err
	}
	head := string(c.typ)
	if c.all {
		head += " " + All
	}
	return head + "\n" + q, nil
}

// Params returns the query's parameters.
func (c *CombiningQuery) Params() params.Set {
	return c.query.Params()
}
