package docsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"docketflow/internal/domain"
	"docketflow/internal/port"
)

// CSVSource reads complaint documents from the delimited-text file produced
// by the upstream data preparation stage. The header row names the columns;
// file_id, document_id, case_id, and text_content are picked out by name so
// extra columns pass through harmlessly.
type CSVSource struct {
	path       string
	sampleSize int
}

// NewCSVSource creates a CSVSource. sampleSize caps the number of documents
// loaded; 0 means all.
func NewCSVSource(path string, sampleSize int) *CSVSource {
	return &CSVSource{path: path, sampleSize: sampleSize}
}

func (s *CSVSource) Load(ctx context.Context) ([]domain.Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csvSource.Load: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csvSource.Load: reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"file_id", "text_content"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csvSource.Load: missing %q column", required)
		}
	}

	var docs []domain.Document
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvSource.Load: reading row: %w", err)
		}
		docs = append(docs, domain.Document{
			FileID:     field(record, cols, "file_id"),
			DocumentID: field(record, cols, "document_id"),
			CaseID:     field(record, cols, "case_id"),
			Text:       field(record, cols, "text_content"),
		})
		if s.sampleSize > 0 && len(docs) >= s.sampleSize {
			break
		}
	}

	if len(docs) == 0 {
		return nil, domain.ErrNoDocuments
	}
	return docs, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

var _ port.DocumentSource = (*CSVSource)(nil)
