package mistral_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/llm"
	"inkwell/internal/llm/mistral"
	"inkwell/internal/port"
)

func testLLMConfig() *config.LLMProviderConfig {
	return &config.LLMProviderConfig{
		Provider:     "mistral",
		APIKey:       "test-llm-key",
		DefaultModel: "mistral-small-latest",
		TimeoutSecs:  30,
	}
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"role": "assistant", "content": content}},
		},
	}
}

func TestComplete_SendsChatRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-llm-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "mistral-small-latest", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		system := messages[0].(map[string]interface{})
		assert.Equal(t, "system", system["role"])
		assert.Equal(t, "be helpful", system["content"])
		user := messages[1].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		assert.Equal(t, "raw ocr text", user["content"])

		_ = json.NewEncoder(w).Encode(successResponse(`{"formatted_markdown":"done"}`))
	}))
	defer server.Close()

	f := mistral.NewFetcherWithEndpoint(testLLMConfig(), server.URL)
	content, err := f.Complete(context.Background(), port.CompletionInput{
		SystemInstruction: "be helpful",
		UserContent:       "raw ocr text",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"formatted_markdown":"done"}`, content)
}

func TestComplete_ModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "mistral-large-latest", reqBody["model"])
		_ = json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	f := mistral.NewFetcherWithEndpoint(testLLMConfig(), server.URL)
	_, err := f.Complete(context.Background(), port.CompletionInput{
		Model:             "mistral-large-latest",
		SystemInstruction: "sys",
		UserContent:       "usr",
	})
	require.NoError(t, err)
}

func TestComplete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"slow down"}`))
	}))
	defer server.Close()

	f := mistral.NewFetcherWithEndpoint(testLLMConfig(), server.URL)
	_, err := f.Complete(context.Background(), port.CompletionInput{UserContent: "x"})

	require.Error(t, err)
	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "mistral", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
}

func TestComplete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	f := mistral.NewFetcherWithEndpoint(testLLMConfig(), server.URL)
	_, err := f.Complete(context.Background(), port.CompletionInput{UserContent: "x"})

	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
	assert.Contains(t, err.Error(), "upstream broke")
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	f := mistral.NewFetcherWithEndpoint(testLLMConfig(), server.URL)
	_, err := f.Complete(context.Background(), port.CompletionInput{UserContent: "x"})

	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
}

func TestModel_ReportsConfiguredModel(t *testing.T) {
	f := mistral.NewFetcherWithEndpoint(testLLMConfig(), "http://unused")
	assert.Equal(t, "mistral-small-latest", f.Model())
}
