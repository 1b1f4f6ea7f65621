package main

import (
	"fmt"
	"log"

	"docketflow/internal/artifact"
	"docketflow/internal/config"
	"docketflow/internal/handler"
	"docketflow/internal/repository/postgres"
	"docketflow/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tableRepo := postgres.NewTableRepo(db)

	store, err := artifact.NewStore(&cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	healthH := handler.NewHealthHandler(db, store)
	runH := handler.NewRunHandler(tableRepo)
	exportH := handler.NewExportHandler(tableRepo)

	r := router.Setup(healthH, runH, exportH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
