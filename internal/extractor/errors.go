package extractor

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimitError indicates an extraction provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// TransientError indicates a failure that is eligible for retry: a 5xx
// response, a timeout, or a dropped connection. Auth and malformed-request
// failures stay plain errors and are never retried.
type TransientError struct {
	Err      error
	Provider string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps a retryable provider failure.
func NewTransientError(provider string, err error) *TransientError {
	return &TransientError{Err: err, Provider: provider}
}

// IsTransient reports whether err is retryable, and the backoff hint when the
// provider supplied one via Retry-After.
func IsTransient(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	var tr *TransientError
	if errors.As(err, &tr) {
		return 0, true
	}
	return 0, false
}

// ClassifyStatus wraps a non-200 provider response into the failure taxonomy:
// 429 becomes a RateLimitError, 5xx a TransientError, everything else stays
// terminal.
func ClassifyStatus(provider string, status int, retryAfterHeader string, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return NewRateLimitError(provider, err, ParseRetryAfterHeader(retryAfterHeader))
	case status >= 500:
		return NewTransientError(provider, err)
	default:
		return err
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
