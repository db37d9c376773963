package textgen

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

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Ollama generates trend narratives through an Ollama chat endpoint.
type Ollama struct {
	endpoint   string
	model      string
	httpClient doer
}

func NewOllama(baseEndpoint, model string, httpClient doer) *Ollama {
	return &Ollama{
		endpoint:   strings.TrimRight(baseEndpoint, "/") + "/api/chat",
		model:      model,
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (o *Ollama) Summarize(ctx context.Context, report nutrition.TrendReport, history []nutrition.DayTotals) (string, error) {
	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(report, history)},
		},
		Stream: false,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation failed: %s", resp.Status)
	}

	var wire chatResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", fmt.Errorf("decode text generation response: %w", err)
	}
	return strings.TrimSpace(wire.Message.Content), nil
}
