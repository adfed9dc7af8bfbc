package analyzer

import (
	"encoding/json"
	"strconv"
)

type myTable struct {
	AccessType string `json:"access_type"`
	Key        string `json:"key"`
	Rows       int64  `json:"rows_examined_per_scan"`
}

// myBlock covers the nodes that may hold table accesses: the query block
// itself and its grouping and ordering wrappers.
type myBlock struct {
	CostInfo struct {
		QueryCost string `json:"query_cost"`
	} `json:"cost_info"`
	Table      *myTable `json:"table"`
	NestedLoop []struct {
		Table *myTable `json:"table"`
	} `json:"nested_loop"`
	Grouping *myBlock `json:"grouping_operation"`
	Ordering *myBlock `json:"ordering_operation"`
}

func parseMySQL(raw string) (*Plan, error) {
	var out struct {
		QueryBlock myBlock `json:"query_block"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	plan := &Plan{}
	if cost, err := strconv.ParseFloat(out.QueryBlock.CostInfo.QueryCost, 64); err == nil {
		plan.Cost = cost
	}
	walkMySQL(&out.QueryBlock, plan)
	return plan, nil
}

func walkMySQL(b *myBlock, plan *Plan) {
	if b == nil {
		return
	}
	tables := []*myTable{b.Table}
	for _, nl := range b.NestedLoop {
		tables = append(tables, nl.Table)
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		if t.Key != "" {
			plan.noteIndex(t.Key)
		}
		if t.AccessType == "ALL" {
			plan.FullScan = true
		}
		plan.EstimatedRows += t.Rows
	}
	walkMySQL(b.Grouping, plan)
	walkMySQL(b.Ordering, plan)
}
