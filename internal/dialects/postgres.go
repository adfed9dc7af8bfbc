package dialects

import (
	"strconv"

	"github.com/lib/pq"
)

// Postgres uses double-quote quoting and numbered "$n" placeholders.
type Postgres struct{}

// Name returns "postgres".
func (Postgres) Name() string { return "postgres" }

// QuoteIdentifier quotes each part of ident the way lib/pq does.
func (Postgres) QuoteIdentifier(ident string) string {
	return quoteParts(ident, pq.QuoteIdentifier)
}

// Placeholder returns "$index".
func (Postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

func init() {
	Register("postgres", Postgres{})
	Register("postgresql", Postgres{})
	Register("pgx", Postgres{})
}
