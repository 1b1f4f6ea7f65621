// Command reconstruct parses one provider's extraction artifacts into the six
// relational tables and writes them as CSV files. Optionally also writes an
// XLSX workbook and loads the tables into PostgreSQL.
// Usage: go run ./cmd/reconstruct -provider claude [-out output] [-xlsx tables.xlsx] [-load]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"docketflow/internal/artifact"
	"docketflow/internal/config"
	"docketflow/internal/csvexport"
	"docketflow/internal/docsource"
	"docketflow/internal/repository/postgres"
	"docketflow/internal/service"
	"docketflow/internal/tabulate"
	"docketflow/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	provider := flag.String("provider", "", "provider whose artifacts to reconstruct (required)")
	outDir := flag.String("out", "output", "directory for the CSV tables")
	xlsxPath := flag.String("xlsx", "", "also write an XLSX workbook at this path")
	load := flag.Bool("load", false, "also load the tables into PostgreSQL")
	flag.Parse()

	if *provider == "" {
		flag.Usage()
		return fmt.Errorf("-provider is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	source := docsource.NewCSVSource(cfg.Source.DocumentsFile, 0)
	docs, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading documents from %s: %w", cfg.Source.DocumentsFile, err)
	}

	store, err := artifact.NewStore(&cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("initializing artifact store: %w", err)
	}

	ns := service.Namespace(*provider)
	ts, report, err := tabulate.BuildFromStore(ctx, store, ns, docs)
	if err != nil {
		return fmt.Errorf("reconstructing tables from %s: %w", ns, err)
	}

	if err := csvexport.WriteDir(*outDir, ts); err != nil {
		return fmt.Errorf("writing CSV tables: %w", err)
	}
	log.Printf("wrote CSV tables to %s", *outDir)

	if *xlsxPath != "" {
		f, err := xlsxexport.BuildWorkbook(ts, nil)
		if err != nil {
			return fmt.Errorf("building workbook: %w", err)
		}
		if err := f.SaveAs(*xlsxPath); err != nil {
			return fmt.Errorf("saving workbook: %w", err)
		}
		log.Printf("wrote workbook to %s", *xlsxPath)
	}

	if *load {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer func() { _ = db.Close() }()

		repo := postgres.NewTableRepo(db)
		if err := repo.InsertTableSet(ctx, ts); err != nil {
			return fmt.Errorf("loading tables into database: %w", err)
		}
		log.Printf("loaded tables into database %s", cfg.DB.Name)
	}

	fmt.Printf("\nReconstruction complete\n")
	fmt.Printf("  artifacts parsed:     %d\n", report.ArtifactsParsed)
	fmt.Printf("  parse failures:       %d\n", len(report.ParseFailures))
	fmt.Printf("  missing incident ids: %d\n", report.IncidentsMissingID)
	fmt.Printf("  incidents:            %d\n", len(ts.Incidents))
	fmt.Printf("  plaintiffs:           %d\n", len(ts.Plaintiffs))
	fmt.Printf("  defendants:           %d\n", len(ts.Defendants))
	fmt.Printf("  harms:                %d\n", len(ts.Harms))
	fmt.Printf("  harm_plaintiffs:      %d (%d unresolved)\n", len(ts.HarmPlaintiffs), report.UnresolvedPlaintiffRefs)
	fmt.Printf("  harm_defendants:      %d (%d unresolved)\n", len(ts.HarmDefendants), report.UnresolvedDefendantRefs)
	for _, pf := range report.ParseFailures {
		log.Printf("parse failure: %s: %s", pf.File, pf.Error)
	}
	return nil
}
