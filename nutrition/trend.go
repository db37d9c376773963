package nutrition

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientHistory signals fewer than two tracked days. It is a normal,
// expected outcome rather than a failure.
var ErrInsufficientHistory = errors.New("not enough history to analyze trends")

// NutrientStats are the per-nutrient extrema and mean across tracked days.
type NutrientStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TrendReport is pure multi-day statistics for the four tracked nutrients.
type TrendReport struct {
	Days     int           `json:"days"`
	Calories NutrientStats `json:"calories"`
	Protein  NutrientStats `json:"protein"`
	Carbs    NutrientStats `json:"carbs"`
	Fat      NutrientStats `json:"fat"`
}

// Get returns the stats for a single nutrient.
func (r TrendReport) Get(n Nutrient) NutrientStats {
	switch n {
	case Calories:
		return r.Calories
	case Protein:
		return r.Protein
	case Carbs:
		return r.Carbs
	case Fat:
		return r.Fat
	}
	return NutrientStats{}
}

// AnalyzeTrend computes min/avg/max per nutrient across a user's daily
// history. Days without totals count as zero. Histories shorter than two
// entries return ErrInsufficientHistory.
func AnalyzeTrend(history []DayTotals) (TrendReport, error) {
	if len(history) < 2 {
		return TrendReport{}, ErrInsufficientHistory
	}

	report := TrendReport{Days: len(history)}
	report.Calories = statsFor(history, Calories)
	report.Protein = statsFor(history, Protein)
	report.Carbs = statsFor(history, Carbs)
	report.Fat = statsFor(history, Fat)
	return report, nil
}

func statsFor(history []DayTotals, n Nutrient) NutrientStats {
	stats := NutrientStats{Min: history[0].Totals.Get(n), Max: history[0].Totals.Get(n)}
	var sum float64
	for _, day := range history {
		v := day.Totals.Get(n)
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Avg = sum / float64(len(history))
	return stats
}

// Summary renders the statistics as the fixed multi-line text block that
// precedes any generated narrative.
func (r TrendReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Over the past %d days:\n", r.Days)
	fmt.Fprintf(&b, "- Calories averaged %.0f kcal/day (range %.0f-%.0f).\n",
		r.Calories.Avg, r.Calories.Min, r.Calories.Max)
	fmt.Fprintf(&b, "- Protein averaged %.1f g/day (range %.1f-%.1f).\n",
		r.Protein.Avg, r.Protein.Min, r.Protein.Max)
	fmt.Fprintf(&b, "- Carbs averaged %.1f g/day (range %.1f-%.1f).\n",
		r.Carbs.Avg, r.Carbs.Min, r.Carbs.Max)
	fmt.Fprintf(&b, "- Fat averaged %.1f g/day (range %.1f-%.1f).\n",
		r.Fat.Avg, r.Fat.Min, r.Fat.Max)
	return b.String()
}

// TrendSummarizer turns trend statistics plus the raw history into a short
// natural-language synthesis. Implementations call an external model; a
// failure must not suppress the numeric report, so callers treat errors as
// a missing narrative.
type TrendSummarizer interface {
	Summarize(ctx context.Context, report TrendReport, history []DayTotals) (string, error)
}
