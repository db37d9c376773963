package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutriagent/nutrition"
)

// ReportGenerator assembles the final human-readable nutrition report from
// whichever sections are available. Purely presentational.
type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

func (t *ReportGenerator) Name() string  { return "report_generator" }
func (t *ReportGenerator) Title() string { return "Report Generator" }
func (t *ReportGenerator) Description() string {
	return "Generate a full nutrition report with user info, totals, deficits, and trends, " +
		"with any errors noted at the end. Sections without data are omitted."
}

func (t *ReportGenerator) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user_info": {
				Type:        "string",
				Description: "One-line user description (name, age, weight, height, gender).",
			},
			"totals": {
				Type:        "object",
				Description: "Daily nutrition totals (calories, macros).",
			},
			"deficits": {
				Type:        "string",
				Description: "Deficit/surplus analysis text.",
			},
			"trends": {
				Type:        "string",
				Description: "Long-term trend insights.",
			},
			"errors": {
				Type:        "string",
				Description: "Any unexpected results encountered along the way.",
			},
		},
	}
}

func (t *ReportGenerator) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"report": {Type: "string"},
		},
		Required: []string{"report"},
	}
}

func (t *ReportGenerator) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	params := nutrition.ReportParams{
		UserInfo: stringArg(input, "user_info"),
		Deficits: stringArg(input, "deficits"),
		Trends:   stringArg(input, "trends"),
		Errors:   stringArg(input, "errors"),
	}
	if totals, ok := totalsArg(input, "totals"); ok {
		params.Totals = &totals
	}

	return map[string]any{"report": nutrition.AssembleReport(params)}, nil
}
