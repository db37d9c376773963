package nutrition

import (
	"fmt"
	"strings"
)

// ReportParams are the optional sections of an assembled report. Empty or nil
// fields are omitted entirely; no section header is ever emitted without a
// body.
type ReportParams struct {
	UserInfo string
	Totals   *Totals
	Deficits string
	Trends   string
	Errors   string
}

// AssembleReport concatenates the supplied sections in fixed order: header,
// user info, daily totals, deficits/surpluses, long-term trends, errors.
// Purely presentational.
func AssembleReport(p ReportParams) string {
	lines := []string{"--- Nutrition Report ---"}

	if p.UserInfo != "" {
		lines = append(lines, fmt.Sprintf("User Info: %s", p.UserInfo))
	}
	if p.Totals != nil {
		lines = append(lines, fmt.Sprintf("Daily Totals: %s", p.Totals))
	}
	if p.Deficits != "" {
		lines = append(lines, fmt.Sprintf("Deficits/Surpluses:\n%s", p.Deficits))
	}
	if p.Trends != "" {
		lines = append(lines, fmt.Sprintf("Long-Term Trends:\n%s", p.Trends))
	}
	if p.Errors != "" {
		lines = append(lines, fmt.Sprintf("Errors:\n%s", p.Errors))
	}
	return strings.Join(lines, "\n")
}
