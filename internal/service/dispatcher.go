package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"docketflow/internal/domain"
	"docketflow/internal/extractor"
	"docketflow/internal/port"
)

// backoffBase is the starting backoff for transient failures without a
// Retry-After hint; it doubles per attempt.
const backoffBase = 2 * time.Second

// DispatchConfig holds settings shared by all provider streams.
type DispatchConfig struct {
	Concurrency int
	BatchDelay  time.Duration
	MaxAttempts int
}

// ProviderStream is one independent dispatch stream: a named provider with
// its extractor. Streams share nothing but the artifact store, where each
// writes under its own namespace.
type ProviderStream struct {
	Name      string
	Model     string
	Extractor port.Extractor
}

// Namespace returns the artifact namespace for a provider stream.
func Namespace(provider string) string {
	return provider + "_extracted_text"
}

// ArtifactName builds the output artifact name for one job. Slashes in model
// names (open-weight models are namespaced) are flattened.
func ArtifactName(fileID, model, runDate string) string {
	return fmt.Sprintf("%s_%s_%s.txt", fileID, strings.ReplaceAll(model, "/", "-"), runDate)
}

// Dispatcher fans documents out across provider streams with bounded
// concurrency per stream, pacing between batches, and artifact-existence
// resume: a job whose artifact already exists is never re-sent.
type Dispatcher struct {
	store    port.ArtifactStore
	template string
	cfg      DispatchConfig
}

// NewDispatcher creates a Dispatcher. promptTemplate must contain the
// complaint placeholder understood by extractor.RenderPrompt.
func NewDispatcher(store port.ArtifactStore, promptTemplate string, cfg DispatchConfig) *Dispatcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Dispatcher{store: store, template: promptTemplate, cfg: cfg}
}

// Run dispatches all documents to every provider stream in parallel and
// returns the combined summary. Per-job failures never abort the run; they
// are recorded in the stream's summary.
func (d *Dispatcher) Run(ctx context.Context, streams []ProviderStream, docs []domain.Document) *domain.CombinedSummary {
	runDate := time.Now().Format("20060102")
	overallStart := time.Now()

	var (
		mu        sync.Mutex
		summaries []*domain.RunSummary
		wg        sync.WaitGroup
	)

	for i := range streams {
		stream := streams[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary := d.runStream(ctx, stream, docs, runDate)
			if summary == nil {
				return
			}
			if err := WriteRunSummary(ctx, d.store, Namespace(stream.Name), summary); err != nil {
				log.Printf("dispatcher.Run: writing summary for %s: %v", stream.Name, err)
			}
			mu.Lock()
			summaries = append(summaries, summary)
			mu.Unlock()
		}()
	}
	wg.Wait()

	combined := BuildCombinedSummary(runDate, time.Since(overallStart), summaries)
	if err := WriteCombinedSummary(ctx, d.store, combined); err != nil {
		log.Printf("dispatcher.Run: writing combined summary: %v", err)
	}
	return combined
}

// runStream dispatches every document to one provider with bounded
// concurrency and inter-batch pacing.
func (d *Dispatcher) runStream(ctx context.Context, stream ProviderStream, docs []domain.Document, runDate string) *domain.RunSummary {
	ns := Namespace(stream.Name)
	existing, err := d.existingFileIDs(ctx, ns)
	if err != nil {
		log.Printf("dispatcher.runStream: [%s] listing existing artifacts: %v", stream.Name, err)
		return nil
	}

	log.Printf("dispatcher.runStream: [%s] starting, %d documents, %d already saved", stream.Name, len(docs), len(existing))
	start := time.Now()

	sem := make(chan struct{}, d.cfg.Concurrency)
	results := make([]domain.JobResult, len(docs))
	var wg sync.WaitGroup

	for i := range docs {
		if i > 0 && i%d.cfg.Concurrency == 0 && d.cfg.BatchDelay > 0 {
			time.Sleep(d.cfg.BatchDelay)
		}
		doc := docs[i]
		idx := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = d.processDocument(ctx, stream, ns, existing, doc, runDate)
		}()
	}
	wg.Wait()

	summary := BuildRunSummary(stream.Name, stream.Model, runDate, time.Since(start), results)
	log.Printf("dispatcher.runStream: [%s] done in %.2fs: %d success, %d error, %d skipped, %d tokens",
		stream.Name, summary.TotalRuntime, summary.SuccessCount, summary.ErrorCount, summary.SkippedCount, summary.TotalTokens)
	return summary
}

// processDocument runs one extraction job, retrying transient failures with
// backoff up to the attempt limit.
func (d *Dispatcher) processDocument(ctx context.Context, stream ProviderStream, ns string, existing map[string]bool, doc domain.Document, runDate string) domain.JobResult {
	if existing[doc.FileID] {
		return domain.JobResult{
			Status: domain.JobStatusSkipped, FileID: doc.FileID,
			Provider: stream.Name, Reason: domain.SkipReasonAlreadySaved,
		}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return domain.JobResult{
			Status: domain.JobStatusSkipped, FileID: doc.FileID,
			Provider: stream.Name, Reason: domain.SkipReasonEmptyText,
		}
	}

	prompt := extractor.RenderPrompt(d.template, doc.Text)
	start := time.Now()

	var lastErr error
	sawTransient := false
	attempts := 0
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		out, err := stream.Extractor.Extract(ctx, port.ExtractInput{Prompt: prompt})
		if err == nil {
			model := out.Model
			if model == "" {
				model = stream.Model
			}
			name := ArtifactName(doc.FileID, model, runDate)
			if putErr := d.store.Put(ctx, ns, name, []byte(out.Content)); putErr != nil {
				log.Printf("dispatcher.processDocument: [%s] %s saving artifact: %v", stream.Name, doc.FileID, putErr)
				return domain.JobResult{
					Status: domain.JobStatusError, FileID: doc.FileID,
					Provider: stream.Name, Model: model,
					Elapsed: time.Since(start).Seconds(),
					Error:   putErr.Error(), Failure: domain.FailureTerminal,
					Attempts: attempt,
				}
			}
			log.Printf("dispatcher.processDocument: [%s] %s completed in %.2fs (%d tokens)",
				stream.Name, doc.FileID, time.Since(start).Seconds(), out.Tokens)
			return domain.JobResult{
				Status: domain.JobStatusSuccess, FileID: doc.FileID,
				Provider: stream.Name, Model: model,
				Elapsed: time.Since(start).Seconds(), Tokens: out.Tokens,
				Attempts: attempt,
			}
		}

		lastErr = err
		wait, transient := extractor.IsTransient(err)
		if !transient {
			break
		}
		sawTransient = true
		if attempt == d.cfg.MaxAttempts {
			break
		}
		if wait == 0 {
			wait = backoffBase << (attempt - 1)
		}
		log.Printf("dispatcher.processDocument: [%s] %s attempt %d failed, retrying in %s: %v",
			stream.Name, doc.FileID, attempt, wait, err)
		if !sleepContext(ctx, wait) {
			lastErr = ctx.Err()
			break
		}
	}

	failure := domain.FailureTerminal
	if sawTransient {
		failure = domain.FailureTransientExhausted
	}
	log.Printf("dispatcher.processDocument: [%s] %s error: %v", stream.Name, doc.FileID, lastErr)
	return domain.JobResult{
		Status: domain.JobStatusError, FileID: doc.FileID,
		Provider: stream.Name, Elapsed: time.Since(start).Seconds(),
		Error: lastErr.Error(), Failure: failure,
		Attempts: attempts,
	}
}

// sleepContext waits for d or until ctx is canceled. Returns false on cancel.
func sleepContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// existingFileIDs loads the resume set: file ids that already have an output
// artifact in the namespace. Artifact content is never inspected.
func (d *Dispatcher) existingFileIDs(ctx context.Context, ns string) (map[string]bool, error) {
	names, err := d.store.List(ctx, ns)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		fileID, _, ok := strings.Cut(name, "_")
		if ok && fileID != "" {
			existing[fileID] = true
		}
	}
	return existing, nil
}
