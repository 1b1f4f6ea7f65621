package tabulate

import (
	"context"
	"log"
	"strings"

	"docketflow/internal/domain"
	"docketflow/internal/port"
)

// ParseFailure records one artifact excluded from the tables.
type ParseFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Report accounts for everything the reconstruction pass excluded or could
// not resolve, so data completeness stays auditable.
type Report struct {
	ArtifactsParsed         int            `json:"artifacts_parsed"`
	ParseFailures           []ParseFailure `json:"parse_failures"`
	IncidentsMissingID      int            `json:"incidents_missing_id"`
	UnresolvedPlaintiffRefs int            `json:"unresolved_plaintiff_refs"`
	UnresolvedDefendantRefs int            `json:"unresolved_defendant_refs"`
}

// Builder reconstructs the relational tables from extraction artifacts. It is
// a single-threaded batch pass: all inputs are immutable by the time it runs.
type Builder struct {
	meta   map[string]domain.Document
	tables domain.TableSet
	report Report
	done   bool
}

// NewBuilder creates a Builder. docs supplies the document_id/case_id linkage
// joined onto every row via the artifact's file id.
func NewBuilder(docs []domain.Document) *Builder {
	meta := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		meta[d.FileID] = d
	}
	return &Builder{meta: meta}
}

// AddArtifact parses one raw artifact and appends its rows to the tables. A
// malformed artifact is excluded and counted; it never stops the pass.
// Incidents without a local incident_id are excluded individually.
func (b *Builder) AddArtifact(name string, data []byte) {
	incidents, err := ParseRecord(data)
	if err != nil {
		log.Printf("tabulate.AddArtifact: %s excluded: %v", name, err)
		b.report.ParseFailures = append(b.report.ParseFailures, ParseFailure{File: name, Error: err.Error()})
		return
	}
	b.report.ArtifactsParsed++

	fileID := FileIDFromArtifact(name)
	meta := rowMeta{sourceFile: name, fileID: fileID}
	if doc, ok := b.meta[fileID]; ok {
		meta.documentID = doc.DocumentID
		meta.caseID = doc.CaseID
	}

	for _, inc := range incidents {
		if inc.IncidentID == nil || inc.IncidentID.IsZero() {
			log.Printf("tabulate.AddArtifact: %s: incident without incident_id excluded", name)
			b.report.IncidentsMissingID++
			continue
		}
		normalizeIncident(&b.tables, meta, inc)
	}
}

// Finish builds the junction tables and returns the result. Call once after
// all artifacts are added.
func (b *Builder) Finish() (*domain.TableSet, *Report) {
	if !b.done {
		b.report.UnresolvedPlaintiffRefs, b.report.UnresolvedDefendantRefs = buildJunctions(&b.tables)
		b.done = true
	}
	return &b.tables, &b.report
}

// BuildFromStore reconstructs the tables from every extraction artifact in
// one provider namespace. Summary JSON artifacts alongside the outputs are
// ignored.
func BuildFromStore(ctx context.Context, store port.ArtifactStore, namespace string, docs []domain.Document) (*domain.TableSet, *Report, error) {
	names, err := store.List(ctx, namespace)
	if err != nil {
		return nil, nil, err
	}

	b := NewBuilder(docs)
	for _, name := range names {
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		data, err := store.Read(ctx, namespace, name)
		if err != nil {
			log.Printf("tabulate.BuildFromStore: reading %s: %v", name, err)
			b.report.ParseFailures = append(b.report.ParseFailures, ParseFailure{File: name, Error: err.Error()})
			continue
		}
		b.AddArtifact(name, data)
	}

	ts, report := b.Finish()
	return ts, report, nil
}
