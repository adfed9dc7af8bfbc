package analyzer

import (
	"encoding/json"
	"errors"
	"strings"
)

type pgNode struct {
	NodeType  string   `json:"Node Type"`
	IndexName string   `json:"Index Name"`
	TotalCost float64  `json:"Total Cost"`
	PlanRows  int64    `json:"Plan Rows"`
	Plans     []pgNode `json:"Plans"`
}

func parsePostgres(raw string) (*Plan, error) {
	var out []struct {
		Plan pgNode `json:"Plan"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("empty plan")
	}
	root := out[0].Plan
	plan := &Plan{Cost: root.TotalCost, EstimatedRows: root.PlanRows}
	walkPostgres(&root, plan)
	return plan, nil
}

func walkPostgres(n *pgNode, plan *Plan) {
	switch {
	case n.NodeType == "Seq Scan":
		plan.FullScan = true
	case strings.Contains(n.NodeType, "Index"):
		plan.noteIndex(n.IndexName)
	}
	for i := range n.Plans {
		walkPostgres(&n.Plans[i], plan)
	}
}
