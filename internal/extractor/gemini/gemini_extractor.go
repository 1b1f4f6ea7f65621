package gemini

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

const baseURL = "https://generativelanguage.googleapis.com/v1beta/models"

func init() {
	extractor.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.Extractor using the Gemini generateContent API.
type Extractor struct {
	provider  string
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewExtractor creates a Gemini-backed complaint extractor from a provider config.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	e := newExtractor(cfg)
	e.endpoint = fmt.Sprintf("%s/%s:generateContent", baseURL, e.model)
	return e
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API
// endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	e := newExtractor(cfg)
	e.endpoint = endpoint
	return e
}

func newExtractor(cfg *config.ProviderConfig) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-lite"
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
		name = "gemini"
	}
	return &Extractor{
		provider:  name,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

// Complaint text routinely describes violence; without these overrides the
// safety filter blocks legitimate extractions.
var safetySettings = []map[string]interface{}{
	{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_NONE"},
	{"category": "HARM_CATEGORY_HATE_SPEECH", "threshold": "BLOCK_NONE"},
	{"category": "HARM_CATEGORY_SEXUALLY_EXPLICIT", "threshold": "BLOCK_NONE"},
	{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "threshold": "BLOCK_NONE"},
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	// Gemini has no dedicated system slot in this API shape; prepend it.
	fullPrompt := extractor.SystemInstruction + "\n\n" + input.Prompt

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": fullPrompt},
				},
			},
		},
		"safetySettings": safetySettings,
		"generationConfig": map[string]interface{}{
			"temperature":     0,
			"topP":            1,
			"topK":            1,
			"maxOutputTokens": e.maxTokens,
		},
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
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, extractor.NewTransientError(e.provider, fmt.Errorf("calling gemini API: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, extractor.NewTransientError(e.provider, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		return nil, extractor.ClassifyStatus(e.provider, resp.StatusCode, resp.Header.Get("Retry-After"), baseErr)
	}

	return parseResponse(respBody, e.model)
}

// apiResponse models the generateContent response.
type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}

	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, fmt.Errorf("output truncated (finishReason: MAX_TOKENS): response exceeded output token limit")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	return &port.ExtractOutput{
		Content: text,
		Tokens:  resp.UsageMetadata.PromptTokenCount + resp.UsageMetadata.CandidatesTokenCount,
		Model:   model,
	}, nil
}
