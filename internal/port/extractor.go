package port

import "context"

// ExtractInput carries the fully rendered prompt for one complaint document.
type ExtractInput struct {
	Prompt string
}

// ExtractOutput contains the raw model response and its usage counters. The
// response text is persisted verbatim as the job artifact; downstream parsing
// never trusts it to be valid JSON.
type ExtractOutput struct {
	Content string
	Tokens  int
	Model   string
}

// Extractor abstracts a single LLM backend. Implementations classify
// failures: rate limits and 5xx responses surface as typed transient errors,
// anything else is terminal. Callers never branch on backend identity.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
