package dialects

import "strings"

// MySQL uses backtick quoting and "?" placeholders.
type MySQL struct{}

// Name returns "mysql".
func (MySQL) Name() string { return "mysql" }

// QuoteIdentifier quotes each part of ident with backticks.
func (MySQL) QuoteIdentifier(ident string) string {
	return quoteParts(ident, func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	})
}

// Placeholder returns "?".
func (MySQL) Placeholder(_ int) string { return "?" }

func init() {
	Register("mysql", MySQL{})
}
