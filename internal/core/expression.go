// Package core implements the expression engine and the statement builders.
package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coregx/qb/internal/params"
)

// QueryPart is anything that renders to SQL with bound parameters.
type QueryPart interface {
	SQL() (string, error)
	Params() params.Set
}

// Expr is an immutable SQL fragment with its bound parameters.
type Expr struct {
	tokens []Token
	params params.Set
}

// NewExpr builds an expression with the Auto bind policy.
//
// Plain arguments bind positionally to "?" markers, one argument per marker.
// Arguments created with params.Named bind to ":name" markers. A batch
// argument (params.Batch or any slice except []byte) expands its marker into
// one placeholder per element:
//
//	NewExpr("id IN (?)", []int{1, 2})                   // id IN (?, ?)
//	NewExpr("id IN (:ids)", params.Named("ids", []int{1, 2})) // id IN (:ids_0, :ids_1)
func NewExpr(sql string, args ...any) (*Expr, error) {
	return NewExprPolicy(params.Auto, sql, args...)
}

// NewExprPolicy builds an expression binding every argument with policy.
func NewExprPolicy(policy params.Policy, sql string, args ...any) (*Expr, error) {
	named, err := bindingMode(args)
	if err != nil {
		return nil, err
	}
	tokens := Tokenize(sql)
	if named {
		return bindNamed(policy, tokens, args)
	}
	return bindPositional(policy, tokens, args)
}

// MustExpr is like NewExpr but panics on error.
func MustExpr(sql string, args ...any) *Expr {
	e, err := NewExpr(sql, args...)
	if err != nil {
		panic(err)
	}
	return e
}

// Raw returns an expression holding sql verbatim, without parameters.
// The text is not scanned for placeholders when it is created. Build and the
// runner lex the whole rendered statement, so a "?" inside Raw text counts
// as a positional placeholder there. It stays literal only in a statement
// bound with named parameters; otherwise use a function form such as
// jsonb_exists(data, 'k') in place of the PostgreSQL "?" operator.
func Raw(sql string) *Expr {
	return &Expr{tokens: []Token{{Kind: TokenText, Text: sql}}}
}

// SQL returns the expression text after placeholder expansion.
func (e *Expr) SQL() (string, error) {
	return renderTokens(e.tokens), nil
}

// Params returns the bound parameters in construction order.
func (e *Expr) Params() params.Set {
	return slices.Clone(e.params)
}

func bindingMode(args []any) (bool, error) {
	n := 0
	for _, a := range args {
		if _, ok := a.(params.NamedArg); ok {
			n++
		}
	}
	switch n {
	case 0:
		return false, nil
	case len(args):
		return true, nil
	default:
		return false, invalidArgument("expr", "positional and named parameters cannot be mixed")
	}
}

func bindPositional(policy params.Policy, tokens []Token, args []any) (*Expr, error) {
	markers := 0
	for _, t := range tokens {
		if t.Kind == TokenPositional {
			markers++
		}
	}
	if markers != len(args) {
		return nil, logicError("expr", "%d placeholders for %d parameters", markers, len(args))
	}

	e := &Expr{tokens: make([]Token, 0, len(tokens))}
	next := 0
	for _, t := range tokens {
		if t.Kind != TokenPositional {
			e.tokens = append(e.tokens, t)
			continue
		}
		arg := args[next]
		next++

		if !params.IsBatch(arg) {
			p, err := params.Normalize(arg, policy)
			if err != nil {
				return nil, invalidCause("expr", fmt.Errorf("parameter %d: %w", next-1, err))
			}
			e.tokens = append(e.tokens, t)
			e.params = append(e.params, p)
			continue
		}

		ps, err := expandBatch(policy, fmt.Sprintf("parameter %d", next-1), arg)
		if err != nil {
			return nil, err
		}
		for i, p := range ps {
			if i > 0 {
				e.tokens = appendText(e.tokens, ", ")
			}
			e.tokens = append(e.tokens, Token{Kind: TokenPositional})
			e.params = append(e.params, p)
		}
	}

	return e, nil
}

func bindNamed(policy params.Policy, tokens []Token, args []any) (*Expr, error) {
	present := make(map[string]bool)
	for _, t := range tokens {
		if t.Kind == TokenNamed {
			present[t.Text] = true
		}
	}

	supplied := make(map[string]bool, len(args))
	for _, a := range args {
		na := a.(params.NamedArg)
		if !validName(na.Name) {
			return nil, invalidArgument("expr", "invalid parameter name %q", na.Name)
		}
		if supplied[na.Name] {
			return nil, invalidArgument("expr", "parameter %q bound twice", na.Name)
		}
		if !present[na.Name] {
			return nil, invalidArgument("expr", "parameter %q not found in SQL", na.Name)
		}
		supplied[na.Name] = true
	}

	e := &Expr{}
	expanded := make(map[string][]string, len(args))
	for _, a := range args {
		na := a.(params.NamedArg)
		if !params.IsBatch(na.Value) {
			p, err := params.Normalize(na.Value, policy)
			if err != nil {
				return nil, invalidCause("expr", fmt.Errorf("parameter %q: %w", na.Name, err))
			}
			p.Name = na.Name
			e.params = append(e.params, p)
			expanded[na.Name] = []string{na.Name}
			continue
		}

		ps, err := expandBatch(policy, fmt.Sprintf("parameter %q", na.Name), na.Value)
		if err != nil {
			return nil, err
		}
		for i := range ps {
			name := fmt.Sprintf("%s_%d", na.Name, i)
			if supplied[name] || present[name] {
				return nil, invalidArgument("expr", "expansion of %q collides with marker :%s", na.Name, name)
			}
			ps[i].Name = name
			expanded[na.Name] = append(expanded[na.Name], name)
		}
		e.params = append(e.params, ps...)
	}

	for _, t := range tokens {
		switch t.Kind {
		case TokenPositional:
			e.tokens = appendText(e.tokens, "?")
		case TokenNamed:
			names, ok := expanded[t.Text]
			if !ok {
				e.tokens = append(e.tokens, t)
				continue
			}
			for i, name := range names {
				if i > 0 {
					e.tokens = appendText(e.tokens, ", ")
				}
				e.tokens = append(e.tokens, Token{Kind: TokenNamed, Text: name})
			}
		default:
			e.tokens = append(e.tokens, t)
		}
	}

	return e, nil
}

func expandBatch(policy params.Policy, what string, batch any) (params.Set, error) {
	elems := params.Elements(batch)
	if len(elems) == 0 {
		return nil, invalidArgument("expr", "%s: empty batch", what)
	}
	out := make(params.Set, 0, len(elems))
	for i, el := range elems {
		if params.IsBatch(el) {
			return nil, invalidArgument("expr", "%s: element %d is a nested batch", what, i)
		}
		p, err := params.Normalize(el, policy)
		if err != nil {
			return nil, invalidCause("expr", fmt.Errorf("%s: element %d: %w", what, i, err))
		}
		out = append(out, p)
	}
	return out, nil
}

// DefaultSpliceToken is the marker NewSuperExpr replaces with placeholders.
const DefaultSpliceToken = "??"

// NewSuperExpr builds an expression where each "??" stands for as many
// placeholders as its argument has elements: one for a scalar or a
// params.Typed value, n for a batch of n. Typed elements inside a batch keep
// their type.
//
//	NewSuperExpr("col IN (??)", params.Batch{"a", 8, params.As(6, params.Int)})
//	// col IN (?, ?, ?)
func NewSuperExpr(sql string, args ...any) (*Expr, error) {
	return NewSuperExprToken(DefaultSpliceToken, sql, args...)
}

// NewSuperExprToken is NewSuperExpr with a custom splice token.
func NewSuperExprToken(token, sql string, args ...any) (*Expr, error) {
	if token == "" {
		return nil, invalidArgument("superexpr", "empty splice token")
	}
	segments := strings.Split(sql, token)
	if len(segments)-1 != len(args) {
		return nil, logicError("superexpr", "%d splice tokens for %d parameters", len(segments)-1, len(args))
	}

	var sb strings.Builder
	flat := make([]any, 0, len(args))
	for i, seg := range segments {
		sb.WriteString(seg)
		if i == len(args) {
			break
		}
		arg := args[i]
		if _, ok := arg.(params.NamedArg); ok {
			return nil, invalidArgument("superexpr", "named parameters are not supported")
		}
		if !params.IsBatch(arg) {
			sb.WriteString("?")
			flat = append(flat, arg)
			continue
		}
		elems := params.Elements(arg)
		if len(elems) == 0 {
			return nil, invalidArgument("superexpr", "parameter %d: empty batch", i)
		}
		sb.WriteString(strings.Repeat("?, ", len(elems)-1) + "?")
		flat = append(flat, elems...)
	}

	return NewExpr(sb.String(), flat...)
}

// Template renders a format string with %s verbs filled by other parts.
// Its parameters are the parts' parameters in order.
type Template struct {
	format string
	parts  []QueryPart
}

// NewTemplate returns a template over parts.
//
//	NewTemplate("EXISTS (%s)", sub)
func NewTemplate(format string, parts ...QueryPart) *Template {
	return &Template{format: format, parts: parts}
}

// SQL renders the template.
func (t *Template) SQL() (string, error) {
	if n := strings.Count(t.format, "%s"); n != len(t.parts) {
		return "", logicError("template", "%d verbs for %d parts", n, len(t.parts))
	}
	rendered := make([]any, len(t.parts))
	for i, p := range t.parts {
		if IsNil(p) {
			return "", invalidArgument("template", "nil part %d", i)
		}
		s, err := p.SQL()
		if err != nil {
			return "", err
		}
		rendered[i] = s
	}
	return fmt.Sprintf(t.format, rendered...), nil
}

// Params returns the parts' parameters in order.
func (t *Template) Params() params.Set {
	sets := make([]params.Set, len(t.parts))
	for i, p := range t.parts {
		if !IsNil(p) {
			sets[i] = p.Params()
		}
	}
	return params.Merge(sets...)
}

// Build renders part and checks that its parameters can be bound: the set
// must not mix styles and, when positional, must match the placeholder count.
func Build(part QueryPart) (string, params.Set, error) {
	if IsNil(part) {
		return "", nil, invalidArgument("build", "nil part")
	}
	sql, err := part.SQL()
	if err != nil {
		return "", nil, err
	}
	ps := part.Params()
	if err := ps.Validate(); err != nil {
		return "", nil, invalidCause("build", err)
	}
	if !ps.Named() {
		if n := CountPlaceholders(sql); n != len(ps) {
			return "", nil, logicError("build", "%d placeholders for %d parameters", n, len(ps))
		}
	}
	return sql, ps, nil
}
