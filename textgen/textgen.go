// Package textgen provides TrendSummarizer implementations backed by external
// text-generation providers. Both are optional collaborators: callers treat
// any error as "no narrative" and keep the numeric trend report.
package textgen

import (
	"encoding/json"
	"fmt"

	"nutriagent/nutrition"
)

const systemPrompt = "You are a helpful nutrition assistant."

// buildPrompt asks for a short synthesis grounded in the statistics and the
// raw daily history.
func buildPrompt(report nutrition.TrendReport, history []nutrition.DayTotals) string {
	stats, _ := json.MarshalIndent(report, "", "  ")
	days, _ := json.MarshalIndent(history, "", "  ")
	return fmt.Sprintf(
		"Based on these statistics and the user's daily history, write a concise summary "+
			"of the user's nutrition trends in 3 sentences or less. Be specific but encouraging.\n\n"+
			"Stats: %s\nHistory: %s\nDays tracked: %d",
		stats, days, report.Days,
	)
}
