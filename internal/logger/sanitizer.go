package logger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/qb/internal/core"
	"github.com/coregx/qb/internal/params"
)

// DefaultSensitiveFields are masked when NewSanitizer gets no fields.
var DefaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "secret",
	"authorization", "credit_card", "card_number", "cvv",
	"ssn", "private_key",
}

// Mask replaces a sensitive value in log output.
const Mask = "***REDACTED***"

// compared column immediately before a placeholder, e.g. "users.password = "
// or "token IN (?, ".
var columnBeforeMarker = regexp.MustCompile(
	`(?i)([a-z_][a-z0-9_.]*)\s*(?:=|<>|!=|<=|>=|<|>|\blike\b|\bin\s*\((?:\s*\?\s*,)*)\s*$`)

// Sanitizer masks bound values that belong to sensitive columns before a
// statement is logged.
//
// A value is masked when its parameter name, or the column it is compared
// with or assigned to, contains a sensitive field. A positional value that
// cannot be attributed to a column (an INSERT row, a function argument) is
// masked whenever the statement mentions a sensitive field at all.
type Sanitizer struct {
	fields    []string
	mentioned *regexp.Regexp
}

// NewSanitizer returns a sanitizer for fields, or DefaultSensitiveFields.
func NewSanitizer(fields ...string) *Sanitizer {
	if len(fields) == 0 {
		fields = DefaultSensitiveFields
	}
	lower := make([]string, len(fields))
	quoted := make([]string, len(fields))
	for i, f := range fields {
		lower[i] = strings.ToLower(f)
		quoted[i] = regexp.QuoteMeta(lower[i])
	}
	return &Sanitizer{
		fields:    lower,
		mentioned: regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`),
	}
}

func (s *Sanitizer) sensitive(name string) bool {
	name = strings.ToLower(name)
	for _, f := range s.fields {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// MaskParams returns the values of ps in order with sensitive ones replaced
// by Mask. sql is the statement text before placeholder rewriting.
func (s *Sanitizer) MaskParams(sql string, ps params.Set) []any {
	out := ps.Values()
	if len(out) == 0 || !s.mentioned.MatchString(sql) {
		return out
	}

	if ps.Named() {
		for i, p := range ps {
			if s.sensitive(p.Name) {
				out[i] = Mask
			}
		}
		byName := make(map[string]int, len(ps))
		for i, p := range ps {
			byName[p.Name] = i
		}
		s.walk(sql, core.TokenNamed, func(name, column string, known bool) {
			i, ok := byName[name]
			if ok && (!known || s.sensitive(column)) {
				out[i] = Mask
			}
		})
		return out
	}

	n := 0
	s.walk(sql, core.TokenPositional, func(_, column string, known bool) {
		if n < len(out) && (!known || s.sensitive(column)) {
			out[n] = Mask
		}
		n++
	})
	return out
}

// walk calls fn for every marker of kind in sql with the column it follows,
// if any. Other markers are literal text.
func (s *Sanitizer) walk(sql string, kind core.TokenKind, fn func(name, column string, known bool)) {
	var before strings.Builder
	for _, tok := range core.Tokenize(sql) {
		if tok.Kind != kind {
			before.WriteString(tok.String())
			continue
		}
		m := columnBeforeMarker.FindStringSubmatch(before.String())
		if m != nil {
			fn(tok.Text, m[1], true)
		} else {
			fn(tok.Text, "", false)
		}
		before.WriteString("?")
	}
}

// FormatParams renders values for a log line, truncating long ones.
func FormatParams(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	const maxLen = 100
	str := fmt.Sprintf("%v", v)
	if b, ok := v.([]byte); ok {
		str = fmt.Sprintf("<%d bytes>", len(b))
	}
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
