// Package nutritionix resolves free-text food descriptions through the
// Nutritionix natural-language nutrients endpoint.
package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"nutriagent/nutrition"
)

const defaultBaseURL = "https://trackapi.nutritionix.com"

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Food is one resolved food record with its nutrient fields and serving size.
type Food struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingQty  float64 `json:"serving_qty"`
	ServingUnit string  `json:"serving_unit"`
}

// Serving describes the matched portion, e.g. "1 medium".
func (f Food) Serving() string {
	if f.ServingUnit == "" {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%g %s", f.ServingQty, f.ServingUnit))
}

// Resolution is the per-item breakdown plus the arithmetic sum across items.
type Resolution struct {
	Items  []Food           `json:"items"`
	Totals nutrition.Totals `json:"totals"`
}

// ResolutionError reports an unreachable provider or a non-success status.
// The underlying cause stays wrapped; the message never carries credentials
// or raw transport detail.
type ResolutionError struct {
	StatusCode int // zero when the provider was unreachable
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("nutrition provider returned status %d", e.StatusCode)
	}
	return "nutrition provider unreachable"
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Client calls the Nutritionix API. Credentials are sent as the x-app-id and
// x-app-key headers.
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient doer
}

func NewClient(appID, appKey, baseURL string, httpClient doer) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		appID:      appID,
		appKey:     appKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type wireFood struct {
	FoodName     string   `json:"food_name"`
	Calories     *float64 `json:"nf_calories"`
	Protein      *float64 `json:"nf_protein"`
	Carbohydrate *float64 `json:"nf_total_carbohydrate"`
	Fat          *float64 `json:"nf_total_fat"`
	ServingQty   float64  `json:"serving_qty"`
	ServingUnit  string   `json:"serving_unit"`
}

type wireResponse struct {
	Foods []wireFood `json:"foods"`
}

// Resolve maps free-text food descriptions to resolved records and sums their
// nutrients. Unmatched text simply yields no records; null nutrient fields
// count as zero. The query is pure, persistence is the caller's concern.
func (c *Client) Resolve(ctx context.Context, items []string) (Resolution, error) {
	if len(items) == 0 {
		return Resolution{}, &nutrition.ValidationError{Field: "food", Reason: "at least one food description is required"}
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return Resolution{}, &nutrition.ValidationError{Field: "food", Reason: "food descriptions must be non-empty"}
		}
	}

	payload, err := json.Marshal(map[string]string{"query": strings.Join(items, ", ")})
	if err != nil {
		return Resolution{}, fmt.Errorf("marshal nutrients query: %w", err)
	}

	url := c.baseURL + "/v2/natural/nutrients"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Resolution{}, fmt.Errorf("create nutrients request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Resolution{}, &ResolutionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Resolution{}, &ResolutionError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Resolution{}, &ResolutionError{StatusCode: resp.StatusCode}
	}

	var parsed wireResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Resolution{}, fmt.Errorf("decode nutrients response: %w", err)
	}

	out := Resolution{Items: make([]Food, 0, len(parsed.Foods))}
	for _, f := range parsed.Foods {
		food := Food{
			Name:        f.FoodName,
			Calories:    orZero(f.Calories),
			Protein:     orZero(f.Protein),
			Carbs:       orZero(f.Carbohydrate),
			Fat:         orZero(f.Fat),
			ServingQty:  f.ServingQty,
			ServingUnit: f.ServingUnit,
		}
		if food.Name == "" {
			food.Name = "Unknown"
		}
		out.Items = append(out.Items, food)
		out.Totals.Add(nutrition.Totals{
			Calories: food.Calories,
			Protein:  food.Protein,
			Carbs:    food.Carbs,
			Fat:      food.Fat,
		})
	}
	return out, nil
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
