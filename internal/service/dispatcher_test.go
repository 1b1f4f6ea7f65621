package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/artifact/local"
	"docketflow/internal/domain"
	"docketflow/internal/extractor"
	"docketflow/internal/port"
	"docketflow/internal/service"
)

const (
	fileA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	fileB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// fakeExtractor returns scripted responses per call, in order. Once the
// script runs out the last entry repeats.
type fakeExtractor struct {
	mu      sync.Mutex
	script  []fakeResult
	calls   int
	prompts []string
}

type fakeResult struct {
	out *port.ExtractOutput
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, input.Prompt)
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	r := f.script[i]
	return r.out, r.err
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okResult(content string, tokens int) fakeResult {
	return fakeResult{out: &port.ExtractOutput{Content: content, Tokens: tokens, Model: "fake-model"}}
}

func testConfig() service.DispatchConfig {
	return service.DispatchConfig{Concurrency: 4, MaxAttempts: 3}
}

func testDocs() []domain.Document {
	return []domain.Document{
		{FileID: fileA, Text: "complaint text a"},
		{FileID: fileB, Text: "complaint text b"},
	}
}

func TestDispatcher_Run_WritesArtifactsAndSummaries(t *testing.T) {
	store := local.NewStore(t.TempDir())
	fake := &fakeExtractor{script: []fakeResult{okResult(`[{"incident_id": 1}]`, 100)}}
	d := service.NewDispatcher(store, "extract: {complaint_text}", testConfig())

	combined := d.Run(context.Background(), []service.ProviderStream{
		{Name: "claude", Model: "fake-model", Extractor: fake},
	}, testDocs())

	require.Contains(t, combined.Providers, "claude")
	s := combined.Providers["claude"]
	assert.Equal(t, 2, s.SuccessCount)
	assert.Zero(t, s.ErrorCount)
	assert.Equal(t, 200, s.TotalTokens)

	ctx := context.Background()
	ns := service.Namespace("claude")
	runDate := time.Now().Format("20060102")

	data, err := store.Read(ctx, ns, service.ArtifactName(fileA, "fake-model", runDate))
	require.NoError(t, err)
	assert.Equal(t, `[{"incident_id": 1}]`, string(data))

	// Per-stream and combined summaries are persisted alongside the outputs.
	_, err = store.Read(ctx, ns, "summary_"+runDate+".json")
	assert.NoError(t, err)
	_, err = store.Read(ctx, "", "combined_summary_"+runDate+".json")
	assert.NoError(t, err)

	// The prompt template was rendered with each document's text.
	assert.Contains(t, fake.prompts[0], "complaint text")
}

func TestDispatcher_ResumeSkipsExistingArtifacts(t *testing.T) {
	store := local.NewStore(t.TempDir())
	ctx := context.Background()
	ns := service.Namespace("openai")

	// A prior run already produced fileA's artifact, under a different date.
	require.NoError(t, store.Put(ctx, ns, service.ArtifactName(fileA, "gpt-4o-mini", "20250101"), []byte("[]")))

	fake := &fakeExtractor{script: []fakeResult{okResult("[]", 10)}}
	d := service.NewDispatcher(store, "{complaint_text}", testConfig())

	combined := d.Run(ctx, []service.ProviderStream{
		{Name: "openai", Model: "gpt-4o-mini", Extractor: fake},
	}, testDocs())

	s := combined.Providers["openai"]
	assert.Equal(t, 1, s.SuccessCount)
	assert.Equal(t, 1, s.SkippedCount)
	assert.Equal(t, 1, fake.callCount())

	var skipped *domain.JobResult
	for i := range s.Results {
		if s.Results[i].Status == domain.JobStatusSkipped {
			skipped = &s.Results[i]
		}
	}
	require.NotNil(t, skipped)
	assert.Equal(t, fileA, skipped.FileID)
	assert.Equal(t, domain.SkipReasonAlreadySaved, skipped.Reason)
}

func TestDispatcher_SkipsEmptyText(t *testing.T) {
	store := local.NewStore(t.TempDir())
	fake := &fakeExtractor{script: []fakeResult{okResult("[]", 10)}}
	d := service.NewDispatcher(store, "{complaint_text}", testConfig())

	docs := []domain.Document{{FileID: fileA, Text: "   \n "}}
	combined := d.Run(context.Background(), []service.ProviderStream{
		{Name: "claude", Model: "m", Extractor: fake},
	}, docs)

	s := combined.Providers["claude"]
	assert.Equal(t, 1, s.SkippedCount)
	assert.Zero(t, fake.callCount())
	assert.Equal(t, domain.SkipReasonEmptyText, s.Results[0].Reason)
}

func TestDispatcher_RetriesTransientThenSucceeds(t *testing.T) {
	store := local.NewStore(t.TempDir())
	fake := &fakeExtractor{script: []fakeResult{
		{err: extractor.NewRateLimitError("claude", errors.New("429"), 1)},
		okResult("[]", 50),
	}}
	cfg := testConfig()
	d := service.NewDispatcher(store, "{complaint_text}", cfg)

	docs := []domain.Document{{FileID: fileA, Text: "text"}}
	combined := d.Run(context.Background(), []service.ProviderStream{
		{Name: "claude", Model: "m", Extractor: fake},
	}, docs)

	s := combined.Providers["claude"]
	assert.Equal(t, 1, s.SuccessCount)
	assert.Zero(t, s.ErrorCount)
	assert.Equal(t, 2, fake.callCount())
	assert.Equal(t, 2, s.Results[0].Attempts)
}

func TestDispatcher_TransientExhausted(t *testing.T) {
	store := local.NewStore(t.TempDir())
	fake := &fakeExtractor{script: []fakeResult{
		{err: extractor.NewTransientError("claude", errors.New("502"))},
	}}
	cfg := service.DispatchConfig{Concurrency: 1, MaxAttempts: 2}
	d := service.NewDispatcher(store, "{complaint_text}", cfg)

	docs := []domain.Document{{FileID: fileA, Text: "text"}}
	combined := d.Run(context.Background(), []service.ProviderStream{
		{Name: "claude", Model: "m", Extractor: fake},
	}, docs)

	s := combined.Providers["claude"]
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 1, s.TransientExhausted)
	assert.Zero(t, s.TerminalCount)
	assert.Equal(t, 2, fake.callCount())
	assert.Equal(t, domain.FailureTransientExhausted, s.Results[0].Failure)
	assert.Equal(t, 2, s.Results[0].Attempts)
}

func TestDispatcher_TerminalFailureNotRetried(t *testing.T) {
	store := local.NewStore(t.TempDir())
	fake := &fakeExtractor{script: []fakeResult{
		{err: errors.New("api error (status 401): invalid key")},
	}}
	d := service.NewDispatcher(store, "{complaint_text}", testConfig())

	docs := []domain.Document{{FileID: fileA, Text: "text"}}
	combined := d.Run(context.Background(), []service.ProviderStream{
		{Name: "claude", Model: "m", Extractor: fake},
	}, docs)

	s := combined.Providers["claude"]
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 1, s.TerminalCount)
	assert.Equal(t, 1, fake.callCount())
	assert.Equal(t, domain.FailureTerminal, s.Results[0].Failure)
	assert.Equal(t, 1, s.Results[0].Attempts)
}

func TestDispatcher_FailureIsolation(t *testing.T) {
	store := local.NewStore(t.TempDir())
	fake := &fakeExtractor{script: []fakeResult{
		{err: errors.New("terminal")},
		okResult("[]", 10),
	}}
	cfg := service.DispatchConfig{Concurrency: 1, MaxAttempts: 1}
	d := service.NewDispatcher(store, "{complaint_text}", cfg)

	combined := d.Run(context.Background(), []service.ProviderStream{
		{Name: "claude", Model: "m", Extractor: fake},
	}, testDocs())

	s := combined.Providers["claude"]
	assert.Equal(t, 1, s.SuccessCount)
	assert.Equal(t, 1, s.ErrorCount)
}

func TestArtifactName_FlattensModelSlashes(t *testing.T) {
	name := service.ArtifactName(fileA, "meta-llama/Llama-3.3-70B-Instruct", "20260901")
	assert.Equal(t, fileA+"_meta-llama-Llama-3.3-70B-Instruct_20260901.txt", name)
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "claude_extracted_text", service.Namespace("claude"))
}
