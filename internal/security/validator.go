// Package security screens rendered statements and their bound values for
// common injection payloads before the runner sends them to the database.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coregx/qb/internal/params"
)

// ErrSuspicious is returned for a statement or value that looks like an
// injection attempt.
var ErrSuspicious = errors.New("suspicious SQL")

// Statement patterns. UNION is absent: set operations are built on purpose.
var statementPatterns = []string{
	`;\s*(DROP|DELETE|TRUNCATE|ALTER|CREATE|GRANT)\s`,
	`\bXP_CMDSHELL\b`,
	`\bSP_EXECUTESQL\b`,
	`\bEXEC(UTE)?\s*\(`,
	`\bPG_SLEEP\s*\(`,
	`\bBENCHMARK\s*\(`,
	`\bWAITFOR\s+DELAY\b`,
	`\bINFORMATION_SCHEMA\b`,
}

// Extra statement patterns for strict mode. Comments are legal SQL, so they
// are only rejected here.
var strictPatterns = []string{
	`--\s`,
	`/\*`,
	`\s+OR\s+'?1'?\s*=\s*'?1'?`,
	`\s+AND\s+1\s*=\s*0\b`,
}

// Payload fragments that have no business inside a bound string value.
var valueIndicators = []string{"'--", "';", "' OR ", "' AND ", "/*", "*/", "' UNION ", "' DROP ", "XP_"}

// Validator checks statements and bound values.
type Validator struct {
	patterns []*regexp.Regexp
}

// Option configures a Validator.
type Option func(*[]string)

// WithStrict also rejects comments and tautologies in the statement text.
func WithStrict() Option {
	return func(p *[]string) { *p = append(*p, strictPatterns...) }
}

// NewValidator returns a validator with the default patterns.
func NewValidator(opts ...Option) *Validator {
	src := append([]string(nil), statementPatterns...)
	for _, opt := range opts {
		opt(&src)
	}
	v := &Validator{patterns: make([]*regexp.Regexp, len(src))}
	for i, p := range src {
		v.patterns[i] = regexp.MustCompile(`(?i)` + p)
	}
	return v
}

// Validate checks sql and every String-typed value of ps.
func (v *Validator) Validate(sql string, ps params.Set) error {
	for _, re := range v.patterns {
		if re.MatchString(sql) {
			return fmt.Errorf("%w: statement matches %s", ErrSuspicious, re.String())
		}
	}
	for i, p := range ps {
		if p.Type != params.String {
			continue
		}
		s, ok := p.Value.(string)
		if !ok || !injected(s) {
			continue
		}
		label := p.Name
		if label == "" {
			label = "#" + strconv.Itoa(i+1)
		}
		return fmt.Errorf("%w: parameter %s", ErrSuspicious, label)
	}
	return nil
}

func injected(value string) bool {
	upper := strings.ToUpper(value)
	for _, ind := range valueIndicators {
		if strings.Contains(upper, ind) {
			return true
		}
	}
	return false
}
