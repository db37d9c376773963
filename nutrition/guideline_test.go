package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTargets(t *testing.T) {
	tests := []struct {
		name     string
		subject  Subject
		expected Targets
	}{
		{
			name:    "female reference subject",
			subject: Subject{Age: 30, WeightKg: 60, HeightCm: 165, Gender: Female},
			// BMR = 10*60 + 6.25*165 - 5*30 - 161 = 1320.25
			expected: Targets{Calories: 1584, Protein: 48, Carbs: 218, Fat: 53},
		},
		{
			name:    "male reference subject",
			subject: Subject{Age: 40, WeightKg: 80, HeightCm: 180, Gender: Male},
			// BMR = 10*80 + 6.25*180 - 5*40 + 5 = 1730
			expected: Targets{Calories: 2076, Protein: 64, Carbs: 285, Fat: 69},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTargets(tt.subject)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeTargetsValidation(t *testing.T) {
	tests := []struct {
		name    string
		subject Subject
	}{
		{name: "unknown gender", subject: Subject{Age: 30, WeightKg: 60, HeightCm: 165, Gender: "other"}},
		{name: "empty gender", subject: Subject{Age: 30, WeightKg: 60, HeightCm: 165}},
		{name: "zero age", subject: Subject{WeightKg: 60, HeightCm: 165, Gender: Female}},
		{name: "negative weight", subject: Subject{Age: 30, WeightKg: -1, HeightCm: 165, Gender: Female}},
		{name: "zero height", subject: Subject{Age: 30, WeightKg: 60, Gender: Female}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTargets(tt.subject)
			require.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestClassify(t *testing.T) {
	targets := Targets{Calories: 1584, Protein: 48, Carbs: 218, Fat: 53}
	totals := Totals{Calories: 1500, Protein: 40, Carbs: 100, Fat: 30}

	got := Classify(totals, targets)

	assert.Equal(t, Balanced, got[Calories]) // 1500 within 1425.6-1742.4
	assert.Equal(t, Deficit, got[Protein])   // 40 < 43.2
	assert.Equal(t, Deficit, got[Carbs])
	assert.Equal(t, Deficit, got[Fat])
}

func TestClassifyBand(t *testing.T) {
	targets := Targets{Calories: 1000, Protein: 100, Carbs: 100, Fat: 100}

	tests := []struct {
		name     string
		actual   float64
		expected Classification
	}{
		{name: "well below", actual: 500, expected: Deficit},
		{name: "lower band edge", actual: 900, expected: Balanced},
		{name: "exact target", actual: 1000, expected: Balanced},
		{name: "upper band edge", actual: 1100, expected: Balanced},
		{name: "just above band", actual: 1100.5, expected: Surplus},
		{name: "well above", actual: 2000, expected: Surplus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Totals{Calories: tt.actual}, targets)
			assert.Equal(t, tt.expected, got[Calories])
		})
	}
}

// Scaling intake upward against a fixed target may only move the verdict
// toward surplus, never back toward deficit.
func TestClassifyMonotone(t *testing.T) {
	targets := Targets{Calories: 2000, Protein: 150, Carbs: 250, Fat: 70}
	rank := map[Classification]int{Deficit: 0, Balanced: 1, Surplus: 2}

	prev := -1
	for _, scale := range []float64{0.1, 0.5, 0.9, 1.0, 1.1, 1.5, 3.0} {
		totals := Totals{
			Calories: float64(targets.Calories) * scale,
			Protein:  float64(targets.Protein) * scale,
			Carbs:    float64(targets.Carbs) * scale,
			Fat:      float64(targets.Fat) * scale,
		}
		got := rank[Classify(totals, targets)[Calories]]
		require.GreaterOrEqual(t, got, prev, "scale %.2f moved classification backwards", scale)
		prev = got
	}
}

func TestFormatAnalysis(t *testing.T) {
	targets := Targets{Calories: 1584, Protein: 48, Carbs: 218, Fat: 53}
	totals := Totals{Calories: 1500, Protein: 40, Carbs: 100, Fat: 30}

	got := FormatAnalysis(totals, targets)

	assert.Equal(t, "Balanced: 1500.0 vs 1584", got[Calories])
	assert.Equal(t, "Deficit: 40.0 vs 48", got[Protein])
	assert.Equal(t, "Deficit: 100.0 vs 218", got[Carbs])
	assert.Equal(t, "Deficit: 30.0 vs 53", got[Fat])
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender("  Female ")
	require.NoError(t, err)
	assert.Equal(t, Female, g)

	_, err = ParseGender("unknown")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gender", verr.Field)
}
