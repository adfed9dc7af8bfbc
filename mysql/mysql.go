// Package mysql provides statement builders with MySQL syntax.
//
// The builders wrap the generic ones from the root package and add
// modifier slots, locking reads, UNION, ON DUPLICATE KEY UPDATE and the
// LIMIT clause:
//
//	sql, args, err := mysql.New().Select("id", "name").
//		From("users").
//		Where("status = ?", "active").
//		Limit(10).
//		Lock(mysql.ForUpdate, mysql.SkipLocked).
//		ToSQL()
package mysql

import (
	"strconv"

	"github.com/coregx/qb/internal/dialects"
)

// Quote quotes a possibly schema-qualified identifier with backticks.
func Quote(ident string) string {
	return dialects.MySQL{}.QuoteIdentifier(ident)
}

func limitClause(limit, offset int) string {
	switch {
	case limit >= 0 && offset >= 0:
		return "LIMIT " + strconv.Itoa(offset) + ", " + strconv.Itoa(limit)
	case limit >= 0:
		return "LIMIT " + strconv.Itoa(limit)
	case offset >= 0:
		// MySQL has no OFFSET without LIMIT.
		return "LIMIT " + strconv.Itoa(offset) + ", 18446744073709551615"
	}
	return ""
}
