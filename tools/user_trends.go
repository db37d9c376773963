package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutriagent/ledger"
	"nutriagent/nutrition"
)

// UserTrends computes min/avg/max per nutrient across a user's tracked days
// and, when a summarizer is wired, appends a short generated narrative. A
// summarizer failure degrades to statistics only.
type UserTrends struct {
	svc        *ledger.Service
	summarizer nutrition.TrendSummarizer
}

func NewUserTrends(svc *ledger.Service, summarizer nutrition.TrendSummarizer) *UserTrends {
	return &UserTrends{svc: svc, summarizer: summarizer}
}

func (t *UserTrends) Name() string  { return "user_trends" }
func (t *UserTrends) Title() string { return "User Trends" }
func (t *UserTrends) Description() string {
	return "Analyze a user's historical nutrition data for long-term trends. Requires at " +
		"least 2 tracked days."
}

func (t *UserTrends) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user": {
				Type:        "string",
				Description: "User name whose history to analyze.",
			},
		},
		Required: []string{"user"},
	}
}

func (t *UserTrends) OutputSchema() *jsonschema.Schema {
	stats := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"avg": {Type: "number"},
			"min": {Type: "number"},
			"max": {Type: "number"},
		},
		Required: []string{"avg", "min", "max"},
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"days":     {Type: "integer"},
			"calories": stats,
			"protein":  stats,
			"carbs":    stats,
			"fat":      stats,
			"summary":  {Type: "string"},
			"message":  {Type: "string"},
		},
	}
}

func (t *UserTrends) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	user := stringArg(input, "user")

	l, err := t.svc.Get(ctx, user)
	if err != nil {
		return nil, err
	}

	history := l.DayTotals()
	report, err := nutrition.AnalyzeTrend(history)
	if errors.Is(err, nutrition.ErrInsufficientHistory) {
		// Expected for new users, not a failure.
		return map[string]any{"message": "Not enough history to analyze trends."}, nil
	}
	if err != nil {
		return nil, err
	}

	summary := report.Summary()
	if t.summarizer != nil {
		narrative, serr := t.summarizer.Summarize(ctx, report, history)
		if serr != nil {
			slog.Warn("TRENDS: narrative generation failed, returning statistics only", "user", user, "error", serr)
		} else if narrative != "" {
			summary += "\n" + narrative
		}
	}

	out := asMap(report)
	out["summary"] = summary
	return out, nil
}
