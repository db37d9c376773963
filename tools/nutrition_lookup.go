package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutriagent/ledger"
	"nutriagent/nutrition"
)

// NutritionLookup resolves free-text foods through the nutrition data
// provider and logs the result into the user's ledger for the given date.
type NutritionLookup struct {
	resolver FoodResolver
	svc      *ledger.Service
}

func NewNutritionLookup(resolver FoodResolver, svc *ledger.Service) *NutritionLookup {
	return &NutritionLookup{resolver: resolver, svc: svc}
}

func (t *NutritionLookup) Name() string  { return "nutrition_lookup" }
func (t *NutritionLookup) Title() string { return "Nutrition Lookup" }
func (t *NutritionLookup) Description() string {
	return "Get nutrition facts for a list of food items and log them for a user and date. " +
		"Returns summed calories, protein, carbs, and fat. Re-logging the same date appends " +
		"the foods and replaces that day's totals."
}

func (t *NutritionLookup) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"food": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "Free-text food descriptions, e.g. \"2 eggs\".",
			},
			"name": {
				Type:        "string",
				Description: "User name to log the foods under.",
			},
			"log_date": {
				Type:        "string",
				Description: "Date (YYYY-MM-DD) for the entry.",
			},
		},
		Required: []string{"food", "name", "log_date"},
	}
}

func (t *NutritionLookup) OutputSchema() *jsonschema.Schema {
	minVal := 0.0
	totalsSchema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"calories": {Type: "number", Minimum: &minVal},
			"protein":  {Type: "number", Minimum: &minVal},
			"carbs":    {Type: "number", Minimum: &minVal},
			"fat":      {Type: "number", Minimum: &minVal},
		},
		Required: []string{"calories", "protein", "carbs", "fat"},
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"foods": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
			"items": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":     {Type: "string"},
						"calories": {Type: "number"},
						"protein":  {Type: "number"},
						"carbs":    {Type: "number"},
						"fat":      {Type: "number"},
						"serving":  {Type: "string"},
					},
					Required: []string{"name"},
				},
			},
			"totals": totalsSchema,
		},
		Required: []string{"foods", "totals"},
	}
}

func (t *NutritionLookup) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	foods := stringSliceArg(input, "food")
	name := stringArg(input, "name")
	date := stringArg(input, "log_date")

	res, err := t.resolver.Resolve(ctx, foods)
	if err != nil {
		return nil, err
	}

	type outItem struct {
		Name     string  `json:"name"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Serving  string  `json:"serving,omitempty"`
	}
	out := struct {
		Foods  []string         `json:"foods"`
		Items  []outItem        `json:"items"`
		Totals nutrition.Totals `json:"totals"`
	}{
		Foods:  make([]string, 0, len(res.Items)),
		Items:  make([]outItem, 0, len(res.Items)),
		Totals: res.Totals,
	}
	for _, item := range res.Items {
		out.Foods = append(out.Foods, item.Name)
		out.Items = append(out.Items, outItem{
			Name:     item.Name,
			Calories: item.Calories,
			Protein:  item.Protein,
			Carbs:    item.Carbs,
			Fat:      item.Fat,
			Serving:  item.Serving(),
		})
	}

	if _, err := t.svc.LogFoods(ctx, name, date, out.Foods, res.Totals); err != nil {
		return nil, fmt.Errorf("log foods: %w", err)
	}

	return asMap(out), nil
}
