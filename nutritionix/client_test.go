package nutritionix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/nutrition"
)

func TestResolveSumsNutrients(t *testing.T) {
	t.Parallel()

	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/natural/nutrients", r.URL.Path)
		assert.Equal(t, "demo-id", r.Header.Get("x-app-id"))
		assert.Equal(t, "demo-key", r.Header.Get("x-app-key"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotQuery = payload["query"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "foods": [
    {"food_name": "apple", "nf_calories": 95, "nf_protein": 0.5, "nf_total_carbohydrate": 25, "nf_total_fat": 0.3, "serving_qty": 1, "serving_unit": "medium"},
    {"food_name": "egg", "nf_calories": 78, "nf_protein": 6, "nf_total_carbohydrate": 0.6, "nf_total_fat": 5, "serving_qty": 1, "serving_unit": "large"}
  ]
}`))
	}))
	defer ts.Close()

	c := NewClient("demo-id", "demo-key", ts.URL, ts.Client())

	res, err := c.Resolve(context.Background(), []string{"1 apple", "1 egg"})
	require.NoError(t, err)

	assert.Equal(t, "1 apple, 1 egg", gotQuery)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "apple", res.Items[0].Name)
	assert.Equal(t, "1 medium", res.Items[0].Serving())
	assert.InDelta(t, 173, res.Totals.Calories, 1e-9)
	assert.InDelta(t, 6.5, res.Totals.Protein, 1e-9)
	assert.InDelta(t, 25.6, res.Totals.Carbs, 1e-9)
	assert.InDelta(t, 5.3, res.Totals.Fat, 1e-9)
}

func TestResolveNullNutrientsCountAsZero(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foods": [{"food_name": "mystery broth", "nf_calories": null, "nf_protein": 2}]}`))
	}))
	defer ts.Close()

	c := NewClient("id", "key", ts.URL, ts.Client())

	res, err := c.Resolve(context.Background(), []string{"mystery broth"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Zero(t, res.Items[0].Calories)
	assert.InDelta(t, 2, res.Totals.Protein, 1e-9)
}

func TestResolveUnmatchedTextYieldsNoRecords(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foods": []}`))
	}))
	defer ts.Close()

	c := NewClient("id", "key", ts.URL, ts.Client())

	res, err := c.Resolve(context.Background(), []string{"qwzxyblorp"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, nutrition.Totals{}, res.Totals)
}

func TestResolveErrorStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient("id", "key", ts.URL, ts.Client())

	_, err := c.Resolve(context.Background(), []string{"toast"})
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadGateway, rerr.StatusCode)
	assert.NotContains(t, rerr.Error(), "key")
}

func TestResolveProviderUnreachable(t *testing.T) {
	t.Parallel()

	c := NewClient("id", "key", "http://127.0.0.1:1", &http.Client{})

	_, err := c.Resolve(context.Background(), []string{"toast"})
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Zero(t, rerr.StatusCode)
	assert.Equal(t, "nutrition provider unreachable", rerr.Error())
}

func TestResolveValidation(t *testing.T) {
	t.Parallel()

	c := NewClient("id", "key", "", failingDoer{})

	var verr *nutrition.ValidationError
	_, err := c.Resolve(context.Background(), nil)
	require.ErrorAs(t, err, &verr)

	_, err = c.Resolve(context.Background(), []string{"apple", "   "})
	require.ErrorAs(t, err, &verr)
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("must not be called")
}
