package analyzer

import (
	"context"
	"fmt"
	"strings"
)

func explainSQLite(ctx context.Context, q Querier, query string, args []any) (*Plan, error) {
	rows, err := q.QueryContext(ctx, "EXPLAIN QUERY PLAN "+query, args...)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	defer rows.Close()

	var details []string
	for rows.Next() {
		var id, parent, unused int
		var detail string
		if err := rows.Scan(&id, &parent, &unused, &detail); err != nil {
			return nil, fmt.Errorf("explain: scan: %w", err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	plan := parseSQLite(details)
	plan.Raw = strings.Join(details, "\n")
	return plan, nil
}

// parseSQLite reads EXPLAIN QUERY PLAN detail lines such as
// "SCAN users" or "SEARCH users USING INDEX idx_email (email=?)".
func parseSQLite(details []string) *Plan {
	plan := &Plan{}
	for _, d := range details {
		upper := strings.ToUpper(d)
		switch {
		case strings.Contains(upper, "USING INTEGER PRIMARY KEY"):
			plan.noteIndex("PRIMARY KEY")
		case strings.Contains(upper, "USING AUTOMATIC"):
			plan.noteIndex("AUTOMATIC INDEX")
		case strings.Contains(upper, "INDEX "):
			plan.noteIndex(indexAfter(d, upper))
		case strings.HasPrefix(upper, "SCAN "):
			plan.FullScan = true
		}
	}
	return plan
}

func indexAfter(detail, upper string) string {
	i := strings.Index(upper, "INDEX ")
	name := strings.TrimSpace(detail[i+len("INDEX "):])
	if j := strings.IndexAny(name, " ("); j >= 0 {
		name = name[:j]
	}
	return name
}
