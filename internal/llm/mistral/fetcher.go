package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/llm"
	"inkwell/internal/port"
)

const apiURL = "https://api.mistral.ai/v1/chat/completions"

// Fetcher implements port.CompletionFetcher with a direct HTTP call to a
// chat-completions endpoint.
type Fetcher struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewFetcher creates a direct-HTTP completion fetcher from a provider config.
func NewFetcher(cfg *config.LLMProviderConfig) *Fetcher {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = cfg.BaseURL
	}
	return newFetcher(cfg, endpoint)
}

// NewFetcherWithEndpoint creates a fetcher pointing at a custom API endpoint
// (for testing).
func NewFetcherWithEndpoint(cfg *config.LLMProviderConfig, endpoint string) *Fetcher {
	return newFetcher(cfg, endpoint)
}

func newFetcher(cfg *config.LLMProviderConfig, endpoint string) *Fetcher {
	model := cfg.DefaultModel
	if model == "" {
		model = "mistral-small-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Fetcher{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Model reports the fetcher's configured model identifier.
func (f *Fetcher) Model() string {
	return f.model
}

func (f *Fetcher) Complete(ctx context.Context, input port.CompletionInput) (string, error) {
	model := input.Model
	if model == "" {
		model = f.model
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": input.SystemInstruction},
			{"role": "user", "content": input.UserContent},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling chat API: %v", domain.ErrCompletionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrCompletionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("%w: chat API status %d: %s", domain.ErrCompletionFailed, resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", llm.NewRateLimitError("mistral", baseErr, retryAfter)
		}
		return "", baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the chat-completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshaling response: %v", domain.ErrCompletionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from API: no choices", domain.ErrCompletionFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
