// Package nutriagent wires an LLM-driven nutrition assistant: tools that
// resolve foods, track per-user ledgers, and compute guideline analysis, plus
// the coordinator loop that lets a model drive them.
package nutriagent

import (
	"context"
	"net/http"

	"nutriagent/tools"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

type Coordinator interface {
	Run(ctx context.Context, task string) (string, error)
}

// DailyReport is the final structure the coordinator expects from the LLM:
// one user's day, summarized after the tools have run.
type DailyReport struct {
	User     string             `json:"user"`
	Date     string             `json:"date"`
	Summary  string             `json:"summary"`
	Totals   map[string]float64 `json:"totals"`
	Analysis map[string]string  `json:"analysis,omitempty"`
	Trends   string             `json:"trends,omitempty"`
}

// IsValid checks the report meets the basic shape requirements before the
// coordinator cross-checks it against the ledger.
func (r *DailyReport) IsValid() bool {
	if r.User == "" || r.Date == "" || r.Summary == "" {
		return false
	}

	// Totals must cover the four tracked nutrients with non-negative values.
	if len(r.Totals) == 0 {
		return false
	}
	for _, key := range []string{"calories", "protein", "carbs", "fat"} {
		v, ok := r.Totals[key]
		if !ok || v < 0 {
			return false
		}
	}

	return true
}
