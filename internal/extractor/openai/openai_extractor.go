package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docketflow/internal/config"
	"docketflow/internal/extractor"
	"docketflow/internal/port"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	// hfRouterURL serves the llama and deepseek backends through the same
	// chat-completions wire format.
	hfRouterURL = "https://router.huggingface.co/v1"
)

func init() {
	extractor.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return NewExtractor(cfg), nil
	})
	extractor.RegisterProvider("llama", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return newRouted(cfg, "meta-llama/Llama-3.3-70B-Instruct"), nil
	})
	extractor.RegisterProvider("deepseek", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return newRouted(cfg, "deepseek-ai/DeepSeek-V3.2"), nil
	})
}

// Extractor implements port.Extractor against any OpenAI-compatible chat
// completions endpoint.
type Extractor struct {
	provider  string
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewExtractor creates an OpenAI-backed complaint extractor from a provider config.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, "gpt-4o-mini", "")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API
// endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	e := newExtractor(cfg, "gpt-4o-mini", "")
	e.endpoint = endpoint
	return e
}

// newRouted builds an extractor for the open-weight backends served through
// the Hugging Face router.
func newRouted(cfg *config.ProviderConfig, defaultModel string) *Extractor {
	return newExtractor(cfg, defaultModel, hfRouterURL)
}

func newExtractor(cfg *config.ProviderConfig, defaultModel, defaultBase string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultBase
	}
	if base == "" {
		base = defaultBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 16384
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Provider
	}
	return &Extractor{
		provider:  name,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		endpoint:  base + "/chat/completions",
		client:    &http.Client{Timeout: timeout},
	}
}

// Model returns the model identifier used in artifact names.
func (e *Extractor) Model() string {
	return e.model
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	reqBody := map[string]interface{}{
		"model": e.model,
		"messages": []map[string]interface{}{
			{"role": "system", "content": extractor.SystemInstruction},
			{"role": "user", "content": input.Prompt},
		},
		"temperature": 0,
		"max_tokens":  e.maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, extractor.NewTransientError(e.provider, fmt.Errorf("calling %s API: %w", e.provider, err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, extractor.NewTransientError(e.provider, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("%s API error (status %d): %s", e.provider, resp.StatusCode, string(respBody))
		return nil, extractor.ClassifyStatus(e.provider, resp.StatusCode, resp.Header.Get("Retry-After"), baseErr)
	}

	return parseResponse(respBody, e.model)
}

// apiResponse models the chat completions response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return &port.ExtractOutput{
		Content: resp.Choices[0].Message.Content,
		Tokens:  resp.Usage.TotalTokens,
		Model:   model,
	}, nil
}
