package nutrition

import (
	"fmt"
	"math"
)

// Fixed guideline assumptions: sedentary activity, 0.8 g protein per kg body
// weight, 55% of calories from carbs at 4 kcal/g, 30% from fat at 9 kcal/g.
const (
	activityFactor   = 1.2
	proteinPerKg     = 0.8
	carbCalorieShare = 0.55
	fatCalorieShare  = 0.30
	kcalPerGramCarb  = 4
	kcalPerGramFat   = 9
)

// Targets are the personalized daily guideline values, rounded to whole units.
type Targets struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Get returns the target for a single nutrient.
func (t Targets) Get(n Nutrient) int {
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

// ComputeTargets derives daily calorie and macro targets from demographics
// using the Mifflin-St Jeor BMR equation. An unrecognized gender is a
// validation error, never a silent default.
func ComputeTargets(s Subject) (Targets, error) {
	if s.Age <= 0 {
		return Targets{}, &ValidationError{Field: "age", Reason: "must be a positive number of years"}
	}
	if s.WeightKg <= 0 {
		return Targets{}, &ValidationError{Field: "weight", Reason: "must be positive kilograms"}
	}
	if s.HeightCm <= 0 {
		return Targets{}, &ValidationError{Field: "height", Reason: "must be positive centimeters"}
	}

	var bmr float64
	switch s.Gender {
	case Male:
		bmr = 10*s.WeightKg + 6.25*s.HeightCm - 5*float64(s.Age) + 5
	case Female:
		bmr = 10*s.WeightKg + 6.25*s.HeightCm - 5*float64(s.Age) - 161
	default:
		return Targets{}, &ValidationError{Field: "gender", Reason: fmt.Sprintf("%q is not supported (male or female)", s.Gender)}
	}

	calories := math.Round(bmr * activityFactor)
	return Targets{
		Calories: int(calories),
		Protein:  int(math.Round(s.WeightKg * proteinPerKg)),
		Carbs:    int(math.Round(calories * carbCalorieShare / kcalPerGramCarb)),
		Fat:      int(math.Round(calories * fatCalorieShare / kcalPerGramFat)),
	}, nil
}

// Classification is the per-nutrient verdict of actual intake against target.
type Classification string

const (
	Deficit  Classification = "Deficit"
	Balanced Classification = "Balanced"
	Surplus  Classification = "Surplus"
)

// Tolerance band around the target within which intake counts as balanced.
const toleranceBand = 0.1

// Classify compares actual totals against targets per nutrient. Intake below
// 90% of target is a deficit, above 110% a surplus, anything between balanced.
func Classify(totals Totals, targets Targets) map[Nutrient]Classification {
	out := make(map[Nutrient]Classification, len(AllNutrients()))
	for _, n := range AllNutrients() {
		actual := totals.Get(n)
		target := float64(targets.Get(n))
		switch {
		case actual < target*(1-toleranceBand):
			out[n] = Deficit
		case actual > target*(1+toleranceBand):
			out[n] = Surplus
		default:
			out[n] = Balanced
		}
	}
	return out
}

// FormatAnalysis renders the classification as the "Deficit: 40.0 vs 48"
// strings stored in the ledger's daily analysis.
func FormatAnalysis(totals Totals, targets Targets) map[Nutrient]string {
	verdicts := Classify(totals, targets)
	out := make(map[Nutrient]string, len(verdicts))
	for n, v := range verdicts {
		out[n] = fmt.Sprintf("%s: %.1f vs %d", v, totals.Get(n), targets.Get(n))
	}
	return out
}
