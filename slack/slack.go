package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"nutriagent"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostReport formats a daily report into a short message and posts it.
func (c *Client) PostReport(ctx context.Context, channel string, report nutriagent.DailyReport) error {
	msg := fmt.Sprintf("Nutrition report for %s (%s): %s", report.User, report.Date, report.Summary)
	if len(report.Totals) > 0 {
		msg += fmt.Sprintf("\nTotals: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat",
			report.Totals["calories"], report.Totals["protein"], report.Totals["carbs"], report.Totals["fat"])
	}
	if report.Trends != "" {
		msg += "\n" + report.Trends
	}
	return c.PostMessage(ctx, channel, msg)
}
