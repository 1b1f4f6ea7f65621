package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/config"
	"docketflow/internal/extractor"
	claude "docketflow/internal/extractor/claude"
	"docketflow/internal/port"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	cfg := &config.ProviderConfig{
		Name:        "claude",
		Provider:    "claude",
		APIKey:      "test-anthropic-key",
		TimeoutSecs: 30,
	}
	return claude.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(text string, inputTokens, outputTokens int) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
		"usage": map[string]interface{}{
			"input_tokens":  inputTokens,
			"output_tokens": outputTokens,
		},
	}
}

func TestExtract_Success(t *testing.T) {
	llmJSON := `[{"incident_id": "1"}]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-anthropic-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "claude-3-5-sonnet-20241022", reqBody["model"])
		assert.Equal(t, extractor.SystemInstruction, reqBody["system"])
		assert.Equal(t, float64(0), reqBody["temperature"])
		assert.Equal(t, float64(16384), reqBody["max_tokens"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON, 100, 50))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{Prompt: "extract"})

	require.NoError(t, err)
	assert.Equal(t, llmJSON, out.Content)
	assert.Equal(t, 150, out.Tokens)
	assert.Equal(t, "claude-3-5-sonnet-20241022", out.Model)
}

func TestExtract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "20")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{Prompt: "p"})

	var rl *extractor.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 20*time.Second, rl.RetryAfter)
}

func TestExtract_Overloaded_IsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{Prompt: "p"})

	require.Error(t, err)
	_, transient := extractor.IsTransient(err)
	assert.True(t, transient)
}

func TestExtract_Truncated(t *testing.T) {
	resp := successResponse("partial", 100, 16384)
	resp["stop_reason"] = "max_tokens"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestExtract_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content": [], "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content blocks")
}
