package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutriagent/ledger"
	"nutriagent/nutrition"
)

// UserTracker saves or retrieves a user's demographics and history. Save only
// overwrites demographic fields that actually changed, and merges any
// supplied foods/totals into today's entry. Save always acknowledges, even
// when it created a brand-new ledger.
type UserTracker struct {
	svc *ledger.Service

	// now is swappable in tests; saves without an explicit date log to "today".
	now func() time.Time
}

func NewUserTracker(svc *ledger.Service) *UserTracker {
	return &UserTracker{svc: svc, now: time.Now}
}

func (t *UserTracker) Name() string  { return "user_tracker" }
func (t *UserTracker) Title() string { return "User Tracker" }
func (t *UserTracker) Description() string {
	return "Save or retrieve user info (name, age, weight, height, gender, food history)."
}

func (t *UserTracker) InputSchema() *jsonschema.Schema {
	minVal := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"action": {
				Type:        "string",
				Enum:        []any{"save", "retrieve"},
				Description: "Whether to save or retrieve user data.",
			},
			"data": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name":   {Type: "string"},
					"age":    {Type: "integer", Minimum: &minVal},
					"weight": {Type: "number", Minimum: &minVal, Description: "kg"},
					"height": {Type: "number", Minimum: &minVal, Description: "cm"},
					"gender": {Type: "string", Enum: []any{"male", "female"}},
					"foods":  {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					"totals": {Type: "object"},
				},
				Required: []string{"name"},
			},
		},
		Required: []string{"action", "data"},
	}
}

func (t *UserTracker) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"message": {Type: "string"},
			"user":    {Type: "object"},
		},
	}
}

func (t *UserTracker) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	action := strings.ToLower(strings.TrimSpace(stringArg(input, "action")))
	data, _ := input["data"].(map[string]any)
	if data == nil {
		return nil, &nutrition.ValidationError{Field: "data", Reason: "user data object is required"}
	}
	name := stringArg(data, "name")

	switch action {
	case "retrieve":
		l, err := t.svc.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		return map[string]any{"user": asMap(l)}, nil

	case "save":
		update := ledger.ProfileUpdate{Name: name}
		if age, ok := numberArg(data, "age"); ok {
			v := int(age)
			update.Age = &v
		}
		if weight, ok := numberArg(data, "weight"); ok {
			update.WeightKg = &weight
		}
		if height, ok := numberArg(data, "height"); ok {
			update.HeightCm = &height
		}
		if g := stringArg(data, "gender"); g != "" {
			gender, err := nutrition.ParseGender(g)
			if err != nil {
				return nil, err
			}
			update.Gender = &gender
		}

		if _, err := t.svc.SaveProfile(ctx, update); err != nil {
			return nil, err
		}

		// Same-day foods/totals may ride along with a profile save.
		foods := stringSliceArg(data, "foods")
		totals, hasTotals := totalsArg(data, "totals")
		if len(foods) > 0 || hasTotals {
			date := t.now().Format("2006-01-02")
			if !hasTotals {
				// Foods without totals extend the day while keeping its sums.
				if l, err := t.svc.Get(ctx, name); err == nil {
					if e := l.Entry(date); e != nil {
						totals = e.Totals
					}
				}
			}
			if _, err := t.svc.LogFoods(ctx, name, date, foods, totals); err != nil {
				return nil, err
			}
		}

		return map[string]any{"message": fmt.Sprintf("User data saved for %s", name)}, nil
	}

	return nil, &nutrition.ValidationError{Field: "action", Reason: "must be one of: save, retrieve"}
}
