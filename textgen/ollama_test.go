package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/nutrition"
)

func TestOllamaSummarize(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": " Intake is steady and balanced. "}}`))
	}))
	defer ts.Close()

	s := NewOllama(ts.URL, "llama3.2", ts.Client())

	report := nutrition.TrendReport{Days: 2, Calories: nutrition.NutrientStats{Avg: 2100, Min: 2000, Max: 2200}}
	history := []nutrition.DayTotals{
		{Date: "2025-09-14", Totals: nutrition.Totals{Calories: 2000}},
		{Date: "2025-09-15", Totals: nutrition.Totals{Calories: 2200}},
	}

	got, err := s.Summarize(context.Background(), report, history)
	require.NoError(t, err)
	assert.Equal(t, "Intake is steady and balanced.", got)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Days tracked: 2")
	assert.False(t, gotReq.Stream)
}

func TestOllamaSummarizeErrorStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	s := NewOllama(ts.URL, "missing", ts.Client())

	_, err := s.Summarize(context.Background(), nutrition.TrendReport{Days: 2}, nil)
	assert.Error(t, err)
}
