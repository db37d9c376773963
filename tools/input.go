package tools

import (
	"context"
	"encoding/json"

	"nutriagent/nutrition"
	"nutriagent/nutritionix"
)

// FoodResolver is the nutrition data provider port the lookup tool depends on.
type FoodResolver interface {
	Resolve(ctx context.Context, items []string) (nutritionix.Resolution, error)
}

// Tool inputs arrive as map[string]any decoded from model JSON, so arguments
// are pulled out defensively rather than trusted.

func stringArg(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

func stringSliceArg(input map[string]any, key string) []string {
	raw, ok := input[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numberArg(input map[string]any, key string) (float64, bool) {
	v, ok := input[key].(float64)
	return v, ok
}

func totalsArg(input map[string]any, key string) (nutrition.Totals, bool) {
	raw, ok := input[key].(map[string]any)
	if !ok {
		return nutrition.Totals{}, false
	}
	var t nutrition.Totals
	for k, v := range raw {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		switch nutrition.Nutrient(k) {
		case nutrition.Calories:
			t.Calories = f
		case nutrition.Protein:
			t.Protein = f
		case nutrition.Carbs:
			t.Carbs = f
		case nutrition.Fat:
			t.Fat = f
		}
	}
	return t, true
}

// asMap round-trips a typed value through JSON to keep tool outputs uniform.
func asMap(v any) map[string]any {
	b, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
