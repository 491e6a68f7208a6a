package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paperscraper/internal/config"
	"paperscraper/internal/ports"
)

// abstractLimit bounds how much abstract text is sent per request.
const abstractLimit = 4000

// OpenAIClient implements ports.Summarizer backed by OpenAI-compatible APIs.
type OpenAIClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Summarizer = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.SummaryConfig) *OpenAIClient {
	return &OpenAIClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Summarize posts a bounded prefix of the abstract and returns the
// completion text.
func (c *OpenAIClient) Summarize(ctx context.Context, abstract string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("summarizer client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("summarizer client misconfigured")
	}
	if abstract == "" {
		return "", nil
	}

	if runes := []rune(abstract); len(runes) > abstractLimit {
		abstract = string(runes[:abstractLimit])
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": c.systemPrompt},
			{"role": "user", "content": abstract},
		},
		"max_tokens":  300,
		"temperature": 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("marshal summary payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("summarizer error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode summary response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summary response has no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
