package port

import (
	"context"

	"docketflow/internal/domain"
)

// DocumentSource supplies the complaint documents to extract, with their
// upstream-derived identifiers.
type DocumentSource interface {
	Load(ctx context.Context) ([]domain.Document, error)
}
