package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/config"
	"docketflow/internal/domain"
	"docketflow/internal/extractor"
	_ "docketflow/internal/extractor/claude"
	_ "docketflow/internal/extractor/gemini"
	_ "docketflow/internal/extractor/openai"
)

func TestNewExtractor_RegisteredProviders(t *testing.T) {
	for _, provider := range []string{"openai", "claude", "gemini", "llama", "deepseek"} {
		t.Run(provider, func(t *testing.T) {
			ext, err := extractor.NewExtractor(&config.ProviderConfig{
				Provider: provider,
				APIKey:   "test-key",
			})
			require.NoError(t, err)
			assert.NotNil(t, ext)
		})
	}
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := extractor.NewExtractor(&config.ProviderConfig{Provider: "mistral"})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
	assert.Contains(t, err.Error(), "mistral")
}

func TestRenderPrompt(t *testing.T) {
	out := extractor.RenderPrompt("before {complaint_text} after", "THE COMPLAINT")
	assert.Equal(t, "before THE COMPLAINT after", out)
}

func TestDefaultPromptTemplate_CarriesPlaceholder(t *testing.T) {
	rendered := extractor.RenderPrompt(extractor.DefaultPromptTemplate, "UNIQUE-COMPLAINT-BODY")
	assert.Contains(t, rendered, "UNIQUE-COMPLAINT-BODY")
	assert.NotContains(t, rendered, "{complaint_text}")
}
