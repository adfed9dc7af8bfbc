package dialects

import "strings"

// SQLite uses double-quote quoting and "?" placeholders.
type SQLite struct{}

// Name returns "sqlite".
func (SQLite) Name() string { return "sqlite" }

// QuoteIdentifier quotes each part of ident with double quotes.
func (SQLite) QuoteIdentifier(ident string) string {
	return quoteParts(ident, func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	})
}

// Placeholder returns "?".
func (SQLite) Placeholder(_ int) string { return "?" }

func init() {
	Register("sqlite", SQLite{})
	Register("sqlite3", SQLite{})
}
