package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/port"
)

// Fetcher implements port.CompletionFetcher through the official Gemini SDK.
// It is the delegated-provider strategy: when configured, it supplies both
// the credentials and the model selection in place of the direct HTTP path.
type Fetcher struct {
	apiKey string
	model  string
}

// NewFetcher creates a Gemini-backed completion fetcher.
func NewFetcher(cfg *config.LLMProviderConfig) *Fetcher {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Fetcher{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
	}
}

// Model reports the provider's currently configured model identifier.
func (f *Fetcher) Model() string {
	return f.model
}

func (f *Fetcher) Complete(ctx context.Context, input port.CompletionInput) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("%w: gemini api key is not configured", domain.ErrCompletionFailed)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(f.apiKey))
	if err != nil {
		return "", fmt.Errorf("%w: creating gemini client: %v", domain.ErrCompletionFailed, err)
	}
	defer func() { _ = client.Close() }()

	model := input.Model
	if model == "" {
		model = f.model
	}

	m := client.GenerativeModel(model)
	m.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(input.SystemInstruction)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(input.UserContent))
	if err != nil {
		return "", fmt.Errorf("%w: calling gemini API: %v", domain.ErrCompletionFailed, err)
	}

	return extractText(resp)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response from API: no candidates", domain.ErrCompletionFailed)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty response from API: no text parts", domain.ErrCompletionFailed)
	}
	return b.String(), nil
}
