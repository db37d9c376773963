package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutriagent/ledger"
	"nutriagent/nutrition"
)

// DeficitCalculator checks a day's totals against the user's personalized
// guideline targets and records the analysis on that day's ledger entry. The
// user must already exist with complete demographics.
type DeficitCalculator struct {
	svc *ledger.Service
}

func NewDeficitCalculator(svc *ledger.Service) *DeficitCalculator {
	return &DeficitCalculator{svc: svc}
}

func (t *DeficitCalculator) Name() string  { return "deficit_calculator" }
func (t *DeficitCalculator) Title() string { return "Deficit Calculator" }
func (t *DeficitCalculator) Description() string {
	return "Check nutrition totals against personalized daily guidelines and log the " +
		"deficit/surplus analysis for the given date."
}

func (t *DeficitCalculator) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {
				Type:        "string",
				Description: "User whose stored demographics set the targets.",
			},
			"totals": {
				Type:        "object",
				Description: "Daily totals: calories, protein, carbs, fat.",
			},
			"log_date": {
				Type:        "string",
				Description: "Date (YYYY-MM-DD) the analysis applies to.",
			},
		},
		Required: []string{"name", "totals", "log_date"},
	}
}

func (t *DeficitCalculator) OutputSchema() *jsonschema.Schema {
	verdict := &jsonschema.Schema{Type: "string"}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"targets": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"calories": {Type: "integer"},
					"protein":  {Type: "integer"},
					"carbs":    {Type: "integer"},
					"fat":      {Type: "integer"},
				},
			},
			"analysis": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"calories": verdict,
					"protein":  verdict,
					"carbs":    verdict,
					"fat":      verdict,
				},
				Required: []string{"calories", "protein", "carbs", "fat"},
			},
		},
		Required: []string{"targets", "analysis"},
	}
}

func (t *DeficitCalculator) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	name := stringArg(input, "name")
	date := stringArg(input, "log_date")
	totals, ok := totalsArg(input, "totals")
	if !ok {
		return nil, &nutrition.ValidationError{Field: "totals", Reason: "must be an object of nutrient values"}
	}

	l, err := t.svc.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !l.Complete() {
		return nil, &nutrition.ValidationError{Field: "name", Reason: fmt.Sprintf("profile for %q is missing demographics", name)}
	}

	targets, err := nutrition.ComputeTargets(l.Subject())
	if err != nil {
		return nil, err
	}

	analysis := nutrition.FormatAnalysis(totals, targets)
	if _, err := t.svc.AttachAnalysis(ctx, name, date, analysis); err != nil {
		return nil, fmt.Errorf("attach analysis: %w", err)
	}

	out := struct {
		Targets  nutrition.Targets             `json:"targets"`
		Analysis map[nutrition.Nutrient]string `json:"analysis"`
	}{Targets: targets, Analysis: analysis}
	return asMap(out), nil
}
