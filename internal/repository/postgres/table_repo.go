package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docketflow/internal/domain"
	"docketflow/internal/port"
)

type tableRepo struct {
	db *sqlx.DB
}

// NewTableRepo creates a PostgreSQL-backed TableRepository.
func NewTableRepo(db *sqlx.DB) port.TableRepository {
	return &tableRepo{db: db}
}

// InsertTableSet loads all six tables in one transaction so a failed load
// never leaves a partially-written table behind.
func (r *tableRepo) InsertTableSet(ctx context.Context, ts *domain.TableSet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertIncidents(ctx, tx, ts.Incidents); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: %w", err)
	}
	if err := insertPlaintiffs(ctx, tx, ts.Plaintiffs); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: %w", err)
	}
	if err := insertDefendants(ctx, tx, ts.Defendants); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: %w", err)
	}
	if err := insertHarms(ctx, tx, ts.Harms); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: %w", err)
	}
	if err := insertHarmPlaintiffs(ctx, tx, ts.HarmPlaintiffs); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: %w", err)
	}
	if err := insertHarmDefendants(ctx, tx, ts.HarmDefendants); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tableRepo.InsertTableSet: commit: %w", err)
	}
	return nil
}

func insertIncidents(ctx context.Context, tx *sqlx.Tx, rows []domain.Incident) error {
	const query = `INSERT INTO incidents (
		incident_uuid, source_file, file_id, document_id, case_id,
		incident_id, location_street, location_city, location_county,
		location_state, location_zip, location_type
	) VALUES (
		:incident_uuid, :source_file, :file_id, :document_id, :case_id,
		:incident_id, :location_street, :location_city, :location_county,
		:location_state, :location_zip, :location_type
	)`
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, query, &rows[i]); err != nil {
			return fmt.Errorf("inserting incident %s: %w", rows[i].IncidentUUID, err)
		}
	}
	return nil
}

func insertPlaintiffs(ctx context.Context, tx *sqlx.Tx, rows []domain.Plaintiff) error {
	const query = `INSERT INTO plaintiffs (
		plaintiff_uuid, incident_uuid, source_file, file_id, document_id, case_id,
		plaintiff_id, name, race, gender, disability_status, immigration_status
	) VALUES (
		:plaintiff_uuid, :incident_uuid, :source_file, :file_id, :document_id, :case_id,
		:plaintiff_id, :name, :race, :gender, :disability_status, :immigration_status
	)`
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, query, &rows[i]); err != nil {
			return fmt.Errorf("inserting plaintiff %s: %w", rows[i].PlaintiffUUID, err)
		}
	}
	return nil
}

func insertDefendants(ctx context.Context, tx *sqlx.Tx, rows []domain.Defendant) error {
	const query = `INSERT INTO defendants (
		defendant_uuid, incident_uuid, source_file, file_id, document_id, case_id,
		defendant_id, name, race, gender, doe_status, entity_type,
		agency, agency_type, role_in_incident
	) VALUES (
		:defendant_uuid, :incident_uuid, :source_file, :file_id, :document_id, :case_id,
		:defendant_id, :name, :race, :gender, :doe_status, :entity_type,
		:agency, :agency_type, :role_in_incident
	)`
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, query, &rows[i]); err != nil {
			return fmt.Errorf("inserting defendant %s: %w", rows[i].DefendantUUID, err)
		}
	}
	return nil
}

func insertHarms(ctx context.Context, tx *sqlx.Tx, rows []domain.Harm) error {
	const query = `INSERT INTO harms (
		harm_uuid, incident_uuid, source_file, file_id, document_id, case_id,
		harm_type, associated_plaintiff_ids, associated_defendant_ids
	) VALUES (
		:harm_uuid, :incident_uuid, :source_file, :file_id, :document_id, :case_id,
		:harm_type, :associated_plaintiff_ids, :associated_defendant_ids
	)`
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, query, &rows[i]); err != nil {
			return fmt.Errorf("inserting harm %s: %w", rows[i].HarmUUID, err)
		}
	}
	return nil
}

func insertHarmPlaintiffs(ctx context.Context, tx *sqlx.Tx, rows []domain.HarmPlaintiff) error {
	const query = `INSERT INTO harm_plaintiffs (
		harm_uuid, incident_uuid, source_file, file_id, document_id, case_id,
		harm_type, plaintiff_id, plaintiff_uuid, plaintiff_name, plaintiff_race,
		plaintiff_gender, plaintiff_disability_status, plaintiff_immigration_status
	) VALUES (
		:harm_uuid, :incident_uuid, :source_file, :file_id, :document_id, :case_id,
		:harm_type, :plaintiff_id, :plaintiff_uuid, :plaintiff_name, :plaintiff_race,
		:plaintiff_gender, :plaintiff_disability_status, :plaintiff_immigration_status
	)`
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, query, &rows[i]); err != nil {
			return fmt.Errorf("inserting harm_plaintiff for %s: %w", rows[i].HarmUUID, err)
		}
	}
	return nil
}

func insertHarmDefendants(ctx context.Context, tx *sqlx.Tx, rows []domain.HarmDefendant) error {
	const query = `INSERT INTO harm_defendants (
		harm_uuid, incident_uuid, source_file, file_id, document_id, case_id,
		harm_type, defendant_id, defendant_uuid, defendant_name, defendant_race,
		defendant_gender, defendant_doe_status, defendant_entity_type,
		defendant_agency, defendant_agency_type, defendant_role_in_incident
	) VALUES (
		:harm_uuid, :incident_uuid, :source_file, :file_id, :document_id, :case_id,
		:harm_type, :defendant_id, :defendant_uuid, :defendant_name, :defendant_race,
		:defendant_gender, :defendant_doe_status, :defendant_entity_type,
		:defendant_agency, :defendant_agency_type, :defendant_role_in_incident
	)`
	for i := range rows {
		if _, err := tx.NamedExecContext(ctx, query, &rows[i]); err != nil {
			return fmt.Errorf("inserting harm_defendant for %s: %w", rows[i].HarmUUID, err)
		}
	}
	return nil
}

func (r *tableRepo) SaveRunSummary(ctx context.Context, s *domain.RunSummary) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO run_summaries (
		id, provider, model, run_date, total_runtime,
		success_count, error_count, transient_exhausted, terminal_count,
		skipped_count, avg_time_per_request, total_tokens, created_at
	) VALUES (
		:id, :provider, :model, :run_date, :total_runtime,
		:success_count, :error_count, :transient_exhausted, :terminal_count,
		:skipped_count, :avg_time_per_request, :total_tokens, :created_at
	)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("tableRepo.SaveRunSummary: %w", err)
	}
	return nil
}

func (r *tableRepo) ListRunSummaries(ctx context.Context) ([]domain.RunSummary, error) {
	const query = `SELECT id, provider, model, run_date, total_runtime,
		success_count, error_count, transient_exhausted, terminal_count,
		skipped_count, avg_time_per_request, total_tokens, created_at
	FROM run_summaries ORDER BY created_at DESC`
	var summaries []domain.RunSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("tableRepo.ListRunSummaries: %w", err)
	}
	return summaries, nil
}

func (r *tableRepo) Stats(ctx context.Context) (*domain.TableStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM incidents)        AS incidents,
		(SELECT COUNT(*) FROM plaintiffs)       AS plaintiffs,
		(SELECT COUNT(*) FROM defendants)       AS defendants,
		(SELECT COUNT(*) FROM harms)            AS harms,
		(SELECT COUNT(*) FROM harm_plaintiffs)  AS harm_plaintiffs,
		(SELECT COUNT(*) FROM harm_defendants)  AS harm_defendants,
		(SELECT COUNT(*) FROM harm_plaintiffs WHERE plaintiff_uuid IS NULL) AS unresolved_plaintiffs,
		(SELECT COUNT(*) FROM harm_defendants WHERE defendant_uuid IS NULL) AS unresolved_defendants`
	stats := &domain.TableStats{}
	if err := r.db.GetContext(ctx, stats, query); err != nil {
		return nil, fmt.Errorf("tableRepo.Stats: %w", err)
	}
	return stats, nil
}

func (r *tableRepo) FetchTableSet(ctx context.Context) (*domain.TableSet, error) {
	ts := &domain.TableSet{}
	steps := []struct {
		dest  interface{}
		query string
	}{
		{&ts.Incidents, `SELECT * FROM incidents ORDER BY source_file, incident_uuid`},
		{&ts.Plaintiffs, `SELECT * FROM plaintiffs ORDER BY source_file, plaintiff_uuid`},
		{&ts.Defendants, `SELECT * FROM defendants ORDER BY source_file, defendant_uuid`},
		{&ts.Harms, `SELECT * FROM harms ORDER BY source_file, harm_uuid`},
		{&ts.HarmPlaintiffs, `SELECT * FROM harm_plaintiffs ORDER BY source_file, harm_uuid`},
		{&ts.HarmDefendants, `SELECT * FROM harm_defendants ORDER BY source_file, harm_uuid`},
	}
	for _, step := range steps {
		if err := r.db.SelectContext(ctx, step.dest, step.query); err != nil {
			return nil, fmt.Errorf("tableRepo.FetchTableSet: %w", err)
		}
	}
	return ts, nil
}
