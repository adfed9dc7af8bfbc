// Package optimizer turns execution plans and timings into index and tuning
// suggestions.
package optimizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/coregx/qb/internal/analyzer"
)

// DefaultSlowThreshold is used when New gets a non-positive threshold.
const DefaultSlowThreshold = 100 * time.Millisecond

// SuggestionType categorizes a suggestion.
type SuggestionType string

const (
	SuggestionSlowQuery      SuggestionType = "slow_query"
	SuggestionFullScan       SuggestionType = "full_scan"
	SuggestionIndexMissing   SuggestionType = "index_missing"
	SuggestionCompositeIndex SuggestionType = "composite_index"
	SuggestionAnalyze        SuggestionType = "analyze"
	SuggestionIndexHint      SuggestionType = "index_hint"
	SuggestionParallel       SuggestionType = "parallel"
	SuggestionWAL            SuggestionType = "wal"
)

// Severity is the importance of a suggestion.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Suggestion is one recommendation. SQL, when set, is a statement that
// applies it.
type Suggestion struct {
	Type     SuggestionType
	Severity Severity
	Message  string
	SQL      string
}

func (s Suggestion) String() string {
	if s.SQL != "" {
		return fmt.Sprintf("%s: %s\n  Fix: %s", s.Severity, s.Message, s.SQL)
	}
	return fmt.Sprintf("%s: %s", s.Severity, s.Message)
}

// Index is a recommended index.
type Index struct {
	Table   string
	Columns []string
}

// Name returns idx_<table>_<col1>_<col2>...
func (i Index) Name() string {
	return "idx_" + strings.Join(append([]string{i.Table}, i.Columns...), "_")
}

// SQL returns the CREATE INDEX statement.
func (i Index) SQL() string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", i.Name(), i.Table, strings.Join(i.Columns, ", "))
}

// Advisor produces suggestions.
type Advisor struct {
	slow time.Duration
}

// New returns an advisor that flags statements slower than slow.
func New(slow time.Duration) *Advisor {
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return &Advisor{slow: slow}
}

// Threshold returns the slow statement threshold.
func (a *Advisor) Threshold() time.Duration { return a.slow }

// Slow reports whether elapsed exceeds the threshold and describes it.
func (a *Advisor) Slow(elapsed time.Duration) (Suggestion, bool) {
	if elapsed <= a.slow {
		return Suggestion{}, false
	}
	return Suggestion{
		Type:     SuggestionSlowQuery,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("statement took %v (threshold %v)", elapsed, a.slow),
	}, true
}

// Advise inspects plan for query, the statement text before placeholder
// rewriting. elapsed may be zero when the statement was only explained.
func (a *Advisor) Advise(plan *analyzer.Plan, query string, elapsed time.Duration) []Suggestion {
	var out []Suggestion
	if s, ok := a.Slow(elapsed); ok {
		out = append(out, s)
	}
	if plan == nil {
		return out
	}

	idx, found := MissingIndex(query)
	if plan.FullScan {
		out = append(out, Suggestion{
			Type:     SuggestionFullScan,
			Severity: SeverityWarning,
			Message:  "statement performs a full table scan",
		})
		if found {
			typ := SuggestionIndexMissing
			if len(idx.Columns) > 1 {
				typ = SuggestionCompositeIndex
			}
			out = append(out, Suggestion{
				Type:     typ,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("consider an index on %s (%s) for the WHERE filter", idx.Table, strings.Join(idx.Columns, ", ")),
				SQL:      idx.SQL(),
			})
		}
	}
	return append(out, dialectHints(plan, idx, found)...)
}

func dialectHints(plan *analyzer.Plan, idx Index, found bool) []Suggestion {
	var out []Suggestion
	switch plan.Dialect {
	case "postgres":
		if plan.FullScan && found {
			out = append(out, Suggestion{
				Type:     SuggestionAnalyze,
				Severity: SeverityInfo,
				Message:  "planner chose a sequential scan, table statistics may be stale",
				SQL:      "ANALYZE " + idx.Table,
			})
		}
		if plan.EstimatedRows > 100_000 {
			out = append(out, Suggestion{
				Type:     SuggestionParallel,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("%d estimated rows, check that parallel query is enabled", plan.EstimatedRows),
			})
		}
	case "mysql":
		if plan.FullScan && found {
			out = append(out, Suggestion{
				Type:     SuggestionIndexHint,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("after creating the index, USE INDEX (%s) forces it if the optimizer ignores it", idx.Name()),
			})
		}
	case "sqlite":
		if plan.FullScan {
			out = append(out, Suggestion{
				Type:     SuggestionAnalyze,
				Severity: SeverityInfo,
				Message:  "run ANALYZE so the planner has table statistics",
				SQL:      "ANALYZE",
			})
		}
		if plan.EstimatedRows > 10_000 {
			out = append(out, Suggestion{
				Type:     SuggestionWAL,
				Severity: SeverityInfo,
				Message:  "large dataset, WAL mode improves read concurrency",
				SQL:      "PRAGMA journal_mode = WAL",
			})
		}
	}
	return out
}

var (
	fromTable = regexp.MustCompile(`(?i)\bfrom\s+([a-z_][a-z0-9_]*)`)
	whereEnd  = regexp.MustCompile(`(?i)\b(group\s+by|order\s+by|having|limit|offset|fetch|for\s+update|union|intersect|except|returning)\b`)
	filterCol = regexp.MustCompile(`(?i)\b([a-z_][a-z0-9_]*\.)?([a-z_][a-z0-9_]*)\s*(?:=|<>|!=|<=|>=|<|>|\blike\b|\bin\b|\bbetween\b|\bis\b)`)
)

var notColumns = map[string]bool{
	"and": true, "or": true, "not": true, "null": true, "true": true, "false": true,
	"case": true, "when": true, "then": true, "else": true, "end": true, "exists": true,
}

// MissingIndex extracts the first FROM table and the columns filtered in the
// WHERE clause of query.
func MissingIndex(query string) (Index, bool) {
	m := fromTable.FindStringSubmatch(query)
	if m == nil {
		return Index{}, false
	}
	table := strings.ToLower(m[1])

	lower := strings.ToLower(query)
	at := strings.Index(lower, "where")
	if at < 0 {
		return Index{}, false
	}
	where := query[at+len("where"):]
	if loc := whereEnd.FindStringIndex(where); loc != nil {
		where = where[:loc[0]]
	}

	var cols []string
	seen := make(map[string]bool)
	for _, m := range filterCol.FindAllStringSubmatch(where, -1) {
		col := strings.ToLower(m[2])
		if notColumns[col] || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return Index{}, false
	}
	return Index{Table: table, Columns: cols}, true
}
