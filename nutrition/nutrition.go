// Package nutrition holds the pure calculation core: daily guideline targets,
// deficit/surplus classification, and multi-day trend statistics. Nothing in
// this package touches storage or the network.
package nutrition

import (
	"fmt"
	"strings"
)

// Nutrient identifies one of the tracked nutrition dimensions.
type Nutrient string

const (
	Calories Nutrient = "calories"
	Protein  Nutrient = "protein"
	Carbs    Nutrient = "carbs"
	Fat      Nutrient = "fat"
)

// AllNutrients returns the tracked nutrients in report order.
func AllNutrients() []Nutrient {
	return []Nutrient{Calories, Protein, Carbs, Fat}
}

// Totals is one day's summed intake. Calories are kcal, the macros are grams.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Get returns the value for a single nutrient.
func (t Totals) Get(n Nutrient) float64 {
	switch n {
	case Calories:
		return t.Calories
	case Protein:
		return t.Protein
	case Carbs:
		return t.Carbs
	case Fat:
		return t.Fat
	}
	return 0
}

// Add accumulates another day's (or item's) totals in place.
func (t *Totals) Add(o Totals) {
	t.Calories += o.Calories
	t.Protein += o.Protein
	t.Carbs += o.Carbs
	t.Fat += o.Fat
}

func (t Totals) String() string {
	return fmt.Sprintf("%.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat",
		t.Calories, t.Protein, t.Carbs, t.Fat)
}

// DayTotals pairs a calendar date with that day's totals.
type DayTotals struct {
	Date   string `json:"date"`
	Totals Totals `json:"totals"`
}

// Gender selects the BMR formula branch. Only the two values the
// Mifflin-St Jeor equation defines are accepted.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender normalizes and validates a gender string.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", &ValidationError{Field: "gender", Reason: fmt.Sprintf("%q is not supported (male or female)", s)}
}

// Subject carries the demographic inputs the guideline formulas need.
type Subject struct {
	Age      int
	WeightKg float64
	HeightCm float64
	Gender   Gender
}

// ValidationError reports a malformed or missing required input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
