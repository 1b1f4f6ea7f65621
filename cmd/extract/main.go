// Command extract runs LLM extraction over the prepared complaint documents.
// Each enabled provider gets its own dispatch stream; output artifacts land in
// the configured artifact store under <provider>_extracted_text/. Jobs whose
// artifact already exists are skipped, so an interrupted run can be restarted.
// Usage: go run ./cmd/extract [-persist]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"docketflow/internal/artifact"
	"docketflow/internal/config"
	"docketflow/internal/docsource"
	"docketflow/internal/extractor"
	_ "docketflow/internal/extractor/claude"
	_ "docketflow/internal/extractor/gemini"
	_ "docketflow/internal/extractor/openai"
	"docketflow/internal/repository/postgres"
	"docketflow/internal/service"
)

func main() {
	persist := flag.Bool("persist", false, "store run summaries in Postgres for the report API")
	flag.Parse()

	if err := run(*persist); err != nil {
		log.Fatal(err)
	}
}

func run(persist bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	source := docsource.NewCSVSource(cfg.Source.DocumentsFile, cfg.Source.SampleSize)
	docs, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading documents from %s: %w", cfg.Source.DocumentsFile, err)
	}
	log.Printf("loaded %d documents from %s", len(docs), cfg.Source.DocumentsFile)

	template, err := extractor.LoadTemplate(cfg.Extract.PromptFile)
	if err != nil {
		return fmt.Errorf("loading prompt template: %w", err)
	}

	store, err := artifact.NewStore(&cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("initializing artifact store: %w", err)
	}

	enabled := cfg.Extract.EnabledProviders()
	if len(enabled) == 0 {
		return fmt.Errorf("no providers enabled in extract.providers")
	}

	streams := make([]service.ProviderStream, 0, len(enabled))
	for i := range enabled {
		p := enabled[i]
		ext, err := extractor.NewExtractor(&p)
		if err != nil {
			return fmt.Errorf("initializing provider %s: %w", p.Name, err)
		}
		name := p.Name
		if name == "" {
			name = p.Provider
		}
		streams = append(streams, service.ProviderStream{
			Name:      name,
			Model:     p.Model,
			Extractor: ext,
		})
	}

	dispatcher := service.NewDispatcher(store, template, service.DispatchConfig{
		Concurrency: cfg.Dispatch.Concurrency,
		BatchDelay:  time.Duration(cfg.Dispatch.BatchDelayMS) * time.Millisecond,
		MaxAttempts: cfg.Dispatch.MaxAttempts,
	})

	combined := dispatcher.Run(ctx, streams, docs)

	if persist {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()
		repo := postgres.NewTableRepo(db)
		if err := service.PersistRunSummaries(ctx, repo, combined); err != nil {
			return err
		}
		log.Printf("persisted %d run summaries", len(combined.Providers))
	}

	fmt.Printf("\nRun complete in %.2fs\n", combined.TotalRuntime)
	for name, s := range combined.Providers {
		fmt.Printf("  %-12s %d success, %d error (%d transient, %d terminal), %d skipped, %d tokens\n",
			name, s.SuccessCount, s.ErrorCount, s.TransientExhausted, s.TerminalCount, s.SkippedCount, s.TotalTokens)
	}
	return nil
}
