package runner

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/dialects"
	"github.com/coregx/qb/internal/params"
)

// Bound is a statement ready for database/sql: placeholders are in the
// dialect's form and Args follow them one to one. Rendered and Params keep
// the statement as the builder produced it.
type Bound struct {
	SQL      string
	Args     []any
	Rendered string
	Params   params.Set
}

// Bind renders part and rewrites its placeholders for d.
//
// Positional "?" markers are numbered in order. Every occurrence of a named
// ":name" marker gets its own placeholder, so a name used twice binds its
// value twice. Markers of the style the statement does not use are kept as
// literal text.
func Bind(part core.QueryPart, d dialects.Dialect) (Bound, error) {
	query, ps, err := core.Build(part)
	if err != nil {
		return Bound{}, err
	}

	named := ps.Named()
	args := make([]any, 0, len(ps))
	var sb strings.Builder
	sb.Grow(len(query))

	next := 0
	for _, tok := range core.Tokenize(query) {
		var p params.Param
		switch {
		case tok.Kind == core.TokenPositional && !named:
			p = ps[next]
			next++
		case tok.Kind == core.TokenNamed && named:
			var ok bool
			if p, ok = ps.Lookup(tok.Text); !ok {
				return Bound{}, core.NewError(core.ErrInvalidArgument, "bind", "no value for :%s", tok.Text)
			}
		default:
			sb.WriteString(tok.String())
			continue
		}

		v, err := driverValue(p)
		if err != nil {
			return Bound{}, core.NewError(core.ErrInvalidArgument, "bind", "%s: %v", label(p, len(args)), err)
		}
		args = append(args, v)
		sb.WriteString(d.Placeholder(len(args)))
	}

	return Bound{SQL: sb.String(), Args: args, Rendered: query, Params: ps}, nil
}

func label(p params.Param, i int) string {
	if p.Name != "" {
		return ":" + p.Name
	}
	return "#" + strconv.Itoa(i+1)
}

// driverValue converts a parameter to the Go type its bind type calls for.
// Valuers are left to database/sql.
func driverValue(p params.Param) (any, error) {
	if p.Value == nil {
		return nil, nil
	}
	if v, ok := p.Value.(driver.Valuer); ok {
		return v, nil
	}

	rv := reflect.ValueOf(p.Value)
	switch p.Type {
	case params.Null:
		return nil, nil
	case params.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	case params.Int:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if u > math.MaxInt64 {
				return nil, fmt.Errorf("%d overflows int64", u)
			}
			return int64(u), nil
		case reflect.String:
			return strconv.ParseInt(rv.String(), 10, 64)
		}
	case params.String:
		return stringValue(p.Value, rv), nil
	case params.Binary:
		switch v := p.Value.(type) {
		case []byte:
			return v, nil
		}
		if rv.Kind() == reflect.String {
			return []byte(rv.String()), nil
		}
	}
	return nil, fmt.Errorf("cannot bind %T as %s", p.Value, p.Type)
}

func stringValue(v any, rv reflect.Value) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
