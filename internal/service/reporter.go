package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docketflow/internal/domain"
	"docketflow/internal/port"
)

// BuildRunSummary aggregates one provider stream's job results.
func BuildRunSummary(provider, model, runDate string, elapsed time.Duration, results []domain.JobResult) *domain.RunSummary {
	s := &domain.RunSummary{
		Provider:     provider,
		Model:        model,
		Timestamp:    runDate,
		TotalRuntime: elapsed.Seconds(),
		Results:      results,
	}

	var successTime float64
	for _, r := range results {
		switch r.Status {
		case domain.JobStatusSuccess:
			s.SuccessCount++
			s.TotalTokens += r.Tokens
			successTime += r.Elapsed
		case domain.JobStatusError:
			s.ErrorCount++
			switch r.Failure {
			case domain.FailureTransientExhausted:
				s.TransientExhausted++
			default:
				s.TerminalCount++
			}
		case domain.JobStatusSkipped:
			s.SkippedCount++
		}
	}
	if s.SuccessCount > 0 {
		s.AvgTimePerRequest = successTime / float64(s.SuccessCount)
	}
	return s
}

// BuildCombinedSummary aggregates all provider stream summaries of one run.
func BuildCombinedSummary(runDate string, elapsed time.Duration, summaries []*domain.RunSummary) *domain.CombinedSummary {
	combined := &domain.CombinedSummary{
		Timestamp:    runDate,
		TotalRuntime: elapsed.Seconds(),
		Providers:    make(map[string]domain.RunSummary, len(summaries)),
	}
	for _, s := range summaries {
		if s == nil {
			continue
		}
		combined.Providers[s.Provider] = *s
	}
	return combined
}

// WriteRunSummary persists a provider summary as a JSON artifact next to the
// stream's extraction outputs.
func WriteRunSummary(ctx context.Context, store port.ArtifactStore, namespace string, s *domain.RunSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	name := fmt.Sprintf("summary_%s.json", s.Timestamp)
	if err := store.Put(ctx, namespace, name, data); err != nil {
		return fmt.Errorf("writing run summary: %w", err)
	}
	return nil
}

// SummarySaver is the slice of the table repository summary persistence needs.
type SummarySaver interface {
	SaveRunSummary(ctx context.Context, s *domain.RunSummary) error
}

// PersistRunSummaries stores each provider summary of a run through the
// repository so the report API can serve past runs.
func PersistRunSummaries(ctx context.Context, repo SummarySaver, combined *domain.CombinedSummary) error {
	for name := range combined.Providers {
		s := combined.Providers[name]
		if err := repo.SaveRunSummary(ctx, &s); err != nil {
			return fmt.Errorf("persisting run summary for %s: %w", name, err)
		}
	}
	return nil
}

// WriteCombinedSummary persists the cross-provider summary at the store root.
func WriteCombinedSummary(ctx context.Context, store port.ArtifactStore, c *domain.CombinedSummary) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling combined summary: %w", err)
	}
	name := fmt.Sprintf("combined_summary_%s.json", c.Timestamp)
	if err := store.Put(ctx, "", name, data); err != nil {
		return fmt.Errorf("writing combined summary: %w", err)
	}
	return nil
}
