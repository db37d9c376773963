// Package ledger owns the durable per-user nutrition record: demographics
// plus the ordered daily history of foods, totals, and analysis.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"nutriagent/nutrition"
)

// Profile is one user's demographics. Fields other than Name may be absent
// until the user supplies them; guideline computation requires all of them.
type Profile struct {
	Name     string           `json:"name"`
	Age      int              `json:"age,omitempty"`
	WeightKg float64          `json:"weight,omitempty"`
	HeightCm float64          `json:"height,omitempty"`
	Gender   nutrition.Gender `json:"gender,omitempty"`
}

// Complete reports whether every demographic field needed by the guideline
// formulas is present.
func (p Profile) Complete() bool {
	return p.Name != "" && p.Age > 0 && p.WeightKg > 0 && p.HeightCm > 0 && p.Gender != ""
}

// Subject adapts the profile to the guideline engine's input.
func (p Profile) Subject() nutrition.Subject {
	return nutrition.Subject{
		Age:      p.Age,
		WeightKg: p.WeightKg,
		HeightCm: p.HeightCm,
		Gender:   p.Gender,
	}
}

// Describe renders the profile as the single-line form used in reports.
func (p Profile) Describe() string {
	return fmt.Sprintf("Name: %s, Age: %d, Weight: %g kg, Height: %g cm, Gender: %s",
		p.Name, p.Age, p.WeightKg, p.HeightCm, p.Gender)
}

// DailyEntry is one calendar day of a user's history. The date is the primary
// key within a history: re-logging the same date replaces totals but appends
// foods. Analysis stays nil until the guideline engine has run for that day.
type DailyEntry struct {
	Date     string                        `json:"date"`
	Foods    []string                      `json:"foods"`
	Totals   nutrition.Totals              `json:"totals"`
	Analysis map[nutrition.Nutrient]string `json:"analysis,omitempty"`
}

// UserLedger is the whole per-user record as persisted: profile fields plus
// the ordered daily history.
type UserLedger struct {
	Profile
	History []DailyEntry `json:"history"`
}

// Entry returns a pointer to the history entry for the given date, or nil.
func (l *UserLedger) Entry(date string) *DailyEntry {
	for i := range l.History {
		if l.History[i].Date == date {
			return &l.History[i]
		}
	}
	return nil
}

// DayTotals projects the history onto the trend analyzer's input, preserving
// order. Days without totals project as zero.
func (l *UserLedger) DayTotals() []nutrition.DayTotals {
	out := make([]nutrition.DayTotals, 0, len(l.History))
	for _, e := range l.History {
		out = append(out, nutrition.DayTotals{Date: e.Date, Totals: e.Totals})
	}
	return out
}

// Key is the case-insensitive storage identifier for a user name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Store is the persistence port. Implementations load and rewrite one user's
// whole record; there are no partial updates. Load returns ErrNotFound for an
// unknown user and storage faults as *StorageError.
type Store interface {
	Load(ctx context.Context, name string) (*UserLedger, error)
	Save(ctx context.Context, l *UserLedger) error
}
