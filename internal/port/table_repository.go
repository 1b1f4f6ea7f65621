package port

import (
	"context"

	"docketflow/internal/domain"
)

// TableRepository persists the relational tables and run summaries for the
// report API.
type TableRepository interface {
	// InsertTableSet loads all six tables in a single transaction.
	InsertTableSet(ctx context.Context, ts *domain.TableSet) error

	// SaveRunSummary stores one provider run summary.
	SaveRunSummary(ctx context.Context, s *domain.RunSummary) error

	// ListRunSummaries returns stored run summaries, newest first.
	ListRunSummaries(ctx context.Context) ([]domain.RunSummary, error)

	// Stats returns row counts and unresolved-reference counts.
	Stats(ctx context.Context) (*domain.TableStats, error)

	// FetchTableSet reads all six tables back for export.
	FetchTableSet(ctx context.Context) (*domain.TableSet, error)
}
