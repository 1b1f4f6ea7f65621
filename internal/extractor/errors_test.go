package extractor_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/extractor"
)

func TestNewRateLimitError_DefaultsRetryAfter(t *testing.T) {
	err := extractor.NewRateLimitError("openai", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)

	err = extractor.NewRateLimitError("openai", errors.New("429"), 30)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
}

func TestIsTransient(t *testing.T) {
	base := errors.New("boom")

	wait, ok := extractor.IsTransient(extractor.NewRateLimitError("claude", base, 15))
	assert.True(t, ok)
	assert.Equal(t, 15*time.Second, wait)

	wait, ok = extractor.IsTransient(extractor.NewTransientError("claude", base))
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), wait)

	_, ok = extractor.IsTransient(base)
	assert.False(t, ok)
}

func TestIsTransient_Wrapped(t *testing.T) {
	inner := extractor.NewRateLimitError("gemini", errors.New("quota"), 5)
	wrapped := fmt.Errorf("dispatching: %w", inner)

	wait, ok := extractor.IsTransient(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, wait)
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("api error")

	err := extractor.ClassifyStatus("openai", 429, "7", base)
	var rl *extractor.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.Equal(t, "openai", rl.Provider)

	err = extractor.ClassifyStatus("openai", 503, "", base)
	var tr *extractor.TransientError
	require.ErrorAs(t, err, &tr)

	// 4xx other than 429 stays terminal.
	err = extractor.ClassifyStatus("openai", 401, "", base)
	assert.Equal(t, base, err)
	_, ok := extractor.IsTransient(err)
	assert.False(t, ok)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
	assert.Equal(t, 12, extractor.ParseRetryAfterHeader("12"))
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("root cause")
	assert.ErrorIs(t, extractor.NewRateLimitError("p", base, 1), base)
	assert.ErrorIs(t, extractor.NewTransientError("p", base), base)
}
