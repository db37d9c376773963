package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/ledger"
	"nutriagent/ledger/storage"
	"nutriagent/nutrition"
)

type fakeSummarizer struct {
	text string
	err  error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, report nutrition.TrendReport, history []nutrition.DayTotals) (string, error) {
	return f.text, f.err
}

func seedHistory(t *testing.T, svc *ledger.Service) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.LogFoods(ctx, "Bob", "2025-09-14", []string{"rice"},
		nutrition.Totals{Calories: 2000, Protein: 50, Carbs: 250, Fat: 60})
	require.NoError(t, err)
	_, err = svc.LogFoods(ctx, "Bob", "2025-09-15", []string{"pasta"},
		nutrition.Totals{Calories: 2200, Protein: 55, Carbs: 270, Fat: 65})
	require.NoError(t, err)
}

func TestUserTrends_Run(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	seedHistory(t, svc)
	tool := NewUserTrends(svc, &fakeSummarizer{text: "Intake is fairly balanced with a slight upward drift."})

	out, err := tool.Run(context.Background(), map[string]any{"user": "Bob"})
	require.NoError(t, err)

	assert.Equal(t, 2.0, out["days"])
	calories, ok := out["calories"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2100.0, calories["avg"])
	assert.Equal(t, 2000.0, calories["min"])
	assert.Equal(t, 2200.0, calories["max"])

	summary, ok := out["summary"].(string)
	require.True(t, ok)
	assert.Contains(t, summary, "Over the past 2 days:")
	assert.Contains(t, summary, "Intake is fairly balanced")
}

func TestUserTrends_SummarizerFailureKeepsStatistics(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	seedHistory(t, svc)
	tool := NewUserTrends(svc, &fakeSummarizer{err: errors.New("model offline")})

	out, err := tool.Run(context.Background(), map[string]any{"user": "Bob"})
	require.NoError(t, err)

	summary, ok := out["summary"].(string)
	require.True(t, ok)
	assert.Contains(t, summary, "Over the past 2 days:")
	assert.NotContains(t, summary, "model offline")
}

func TestUserTrends_NoSummarizer(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	seedHistory(t, svc)
	tool := NewUserTrends(svc, nil)

	out, err := tool.Run(context.Background(), map[string]any{"user": "Bob"})
	require.NoError(t, err)
	assert.Contains(t, out["summary"], "Calories averaged 2100 kcal/day")
}

func TestUserTrends_InsufficientHistory(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	ctx := context.Background()
	_, err := svc.LogFoods(ctx, "Newbie", "2025-09-14", []string{"toast"}, nutrition.Totals{Calories: 300})
	require.NoError(t, err)

	tool := NewUserTrends(svc, nil)
	out, err := tool.Run(ctx, map[string]any{"user": "Newbie"})
	require.NoError(t, err)
	assert.Equal(t, "Not enough history to analyze trends.", out["message"])
}

func TestUserTrends_UnknownUser(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	tool := NewUserTrends(svc, nil)

	_, err := tool.Run(context.Background(), map[string]any{"user": "ghost"})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
