package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is one legal complaint supplied by the upstream data preparation
// stage. The identifiers are opaque content hashes; the core never validates
// their derivation.
type Document struct {
	FileID     string `db:"file_id" json:"file_id"`
	DocumentID string `db:"document_id" json:"document_id"`
	CaseID     string `db:"case_id" json:"case_id"`
	Text       string `db:"text_content" json:"text_content"`
}

// Incident is one discrete event extracted from a single document.
type Incident struct {
	IncidentUUID   uuid.UUID `db:"incident_uuid" json:"incident_uuid"`
	SourceFile     string    `db:"source_file" json:"source_file"`
	FileID         string    `db:"file_id" json:"file_id"`
	DocumentID     string    `db:"document_id" json:"document_id"`
	CaseID         string    `db:"case_id" json:"case_id"`
	IncidentID     LocalID   `db:"incident_id" json:"incident_id"`
	LocationStreet string    `db:"location_street" json:"location_street"`
	LocationCity   string    `db:"location_city" json:"location_city"`
	LocationCounty string    `db:"location_county" json:"location_county"`
	LocationState  string    `db:"location_state" json:"location_state"`
	LocationZip    string    `db:"location_zip" json:"location_zip"`
	LocationType   string    `db:"location_type" json:"location_type"`
}

// Plaintiff is one party harmed in an incident. PlaintiffID is the
// model-assigned local id, unique only within the enclosing document.
type Plaintiff struct {
	PlaintiffUUID     uuid.UUID `db:"plaintiff_uuid" json:"plaintiff_uuid"`
	IncidentUUID      uuid.UUID `db:"incident_uuid" json:"incident_uuid"`
	SourceFile        string    `db:"source_file" json:"source_file"`
	FileID            string    `db:"file_id" json:"file_id"`
	DocumentID        string    `db:"document_id" json:"document_id"`
	CaseID            string    `db:"case_id" json:"case_id"`
	PlaintiffID       LocalID   `db:"plaintiff_id" json:"plaintiff_id"`
	Name              string    `db:"name" json:"name"`
	Race              string    `db:"race" json:"race"`
	Gender            string    `db:"gender" json:"gender"`
	DisabilityStatus  string    `db:"disability_status" json:"disability_status"`
	ImmigrationStatus string    `db:"immigration_status" json:"immigration_status"`
}

// Defendant is one party accused in an incident.
type Defendant struct {
	DefendantUUID  uuid.UUID `db:"defendant_uuid" json:"defendant_uuid"`
	IncidentUUID   uuid.UUID `db:"incident_uuid" json:"incident_uuid"`
	SourceFile     string    `db:"source_file" json:"source_file"`
	FileID         string    `db:"file_id" json:"file_id"`
	DocumentID     string    `db:"document_id" json:"document_id"`
	CaseID         string    `db:"case_id" json:"case_id"`
	DefendantID    LocalID   `db:"defendant_id" json:"defendant_id"`
	Name           string    `db:"name" json:"name"`
	Race           string    `db:"race" json:"race"`
	Gender         string    `db:"gender" json:"gender"`
	DoeStatus      string    `db:"doe_status" json:"doe_status"`
	EntityType     string    `db:"entity_type" json:"entity_type"`
	Agency         string    `db:"agency" json:"agency"`
	AgencyType     string    `db:"agency_type" json:"agency_type"`
	RoleInIncident string    `db:"role_in_incident" json:"role_in_incident"`
}

// Harm is one harm type within an incident, carrying the model's
// semicolon-delimited local-id lists of the parties it associates.
type Harm struct {
	HarmUUID               uuid.UUID `db:"harm_uuid" json:"harm_uuid"`
	IncidentUUID           uuid.UUID `db:"incident_uuid" json:"incident_uuid"`
	SourceFile             string    `db:"source_file" json:"source_file"`
	FileID                 string    `db:"file_id" json:"file_id"`
	DocumentID             string    `db:"document_id" json:"document_id"`
	CaseID                 string    `db:"case_id" json:"case_id"`
	HarmType               string    `db:"harm_type" json:"harm_type"`
	AssociatedPlaintiffIDs string    `db:"associated_plaintiff_ids" json:"associated_plaintiff_ids"`
	AssociatedDefendantIDs string    `db:"associated_defendant_ids" json:"associated_defendant_ids"`
}

// HarmPlaintiff is one (harm, plaintiff) association. PlaintiffUUID is nil
// when the local id did not resolve to any plaintiff in the harm's incident.
type HarmPlaintiff struct {
	HarmUUID                   uuid.UUID  `db:"harm_uuid" json:"harm_uuid"`
	IncidentUUID               uuid.UUID  `db:"incident_uuid" json:"incident_uuid"`
	SourceFile                 string     `db:"source_file" json:"source_file"`
	FileID                     string     `db:"file_id" json:"file_id"`
	DocumentID                 string     `db:"document_id" json:"document_id"`
	CaseID                     string     `db:"case_id" json:"case_id"`
	HarmType                   string     `db:"harm_type" json:"harm_type"`
	PlaintiffID                LocalID    `db:"plaintiff_id" json:"plaintiff_id"`
	PlaintiffUUID              *uuid.UUID `db:"plaintiff_uuid" json:"plaintiff_uuid"`
	PlaintiffName              string     `db:"plaintiff_name" json:"plaintiff_name"`
	PlaintiffRace              string     `db:"plaintiff_race" json:"plaintiff_race"`
	PlaintiffGender            string     `db:"plaintiff_gender" json:"plaintiff_gender"`
	PlaintiffDisabilityStatus  string     `db:"plaintiff_disability_status" json:"plaintiff_disability_status"`
	PlaintiffImmigrationStatus string     `db:"plaintiff_immigration_status" json:"plaintiff_immigration_status"`
}

// HarmDefendant is one (harm, defendant) association. DefendantUUID is nil
// when the local id did not resolve.
type HarmDefendant struct {
	HarmUUID                uuid.UUID  `db:"harm_uuid" json:"harm_uuid"`
	IncidentUUID            uuid.UUID  `db:"incident_uuid" json:"incident_uuid"`
	SourceFile              string     `db:"source_file" json:"source_file"`
	FileID                  string     `db:"file_id" json:"file_id"`
	DocumentID              string     `db:"document_id" json:"document_id"`
	CaseID                  string     `db:"case_id" json:"case_id"`
	HarmType                string     `db:"harm_type" json:"harm_type"`
	DefendantID             LocalID    `db:"defendant_id" json:"defendant_id"`
	DefendantUUID           *uuid.UUID `db:"defendant_uuid" json:"defendant_uuid"`
	DefendantName           string     `db:"defendant_name" json:"defendant_name"`
	DefendantRace           string     `db:"defendant_race" json:"defendant_race"`
	DefendantGender         string     `db:"defendant_gender" json:"defendant_gender"`
	DefendantDoeStatus      string     `db:"defendant_doe_status" json:"defendant_doe_status"`
	DefendantEntityType     string     `db:"defendant_entity_type" json:"defendant_entity_type"`
	DefendantAgency         string     `db:"defendant_agency" json:"defendant_agency"`
	DefendantAgencyType     string     `db:"defendant_agency_type" json:"defendant_agency_type"`
	DefendantRoleInIncident string     `db:"defendant_role_in_incident" json:"defendant_role_in_incident"`
}

// TableSet is the full relational output of one reconstruction pass.
type TableSet struct {
	Incidents      []Incident      `json:"incidents"`
	Plaintiffs     []Plaintiff     `json:"plaintiffs"`
	Defendants     []Defendant     `json:"defendants"`
	Harms          []Harm          `json:"harms"`
	HarmPlaintiffs []HarmPlaintiff `json:"harm_plaintiffs"`
	HarmDefendants []HarmDefendant `json:"harm_defendants"`
}

// JobResult is the outcome of one (document, provider) extraction job.
type JobResult struct {
	Status   JobStatus   `json:"status"`
	FileID   string      `json:"file_id"`
	Provider string      `json:"provider"`
	Model    string      `json:"model,omitempty"`
	Elapsed  float64     `json:"time,omitempty"`
	Tokens   int         `json:"tokens,omitempty"`
	Error    string      `json:"error,omitempty"`
	Failure  FailureKind `json:"failure_kind,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	Attempts int         `json:"attempts,omitempty"`
}

// RunSummary aggregates job outcomes for a single provider stream.
type RunSummary struct {
	ID                 uuid.UUID   `db:"id" json:"-"`
	Provider           string      `db:"provider" json:"provider"`
	Model              string      `db:"model" json:"model_name"`
	Timestamp          string      `db:"run_date" json:"timestamp"`
	TotalRuntime       float64     `db:"total_runtime" json:"total_runtime"`
	SuccessCount       int         `db:"success_count" json:"success_count"`
	ErrorCount         int         `db:"error_count" json:"error_count"`
	TransientExhausted int         `db:"transient_exhausted" json:"transient_exhausted_count"`
	TerminalCount      int         `db:"terminal_count" json:"terminal_count"`
	SkippedCount       int         `db:"skipped_count" json:"skipped_count"`
	AvgTimePerRequest  float64     `db:"avg_time_per_request" json:"avg_time_per_request"`
	TotalTokens        int         `db:"total_tokens" json:"total_tokens"`
	Results            []JobResult `db:"-" json:"results,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"-"`
}

// CombinedSummary aggregates all provider streams of one run.
type CombinedSummary struct {
	Timestamp    string                `json:"timestamp"`
	TotalRuntime float64               `json:"total_runtime"`
	Providers    map[string]RunSummary `json:"providers"`
}

// TableStats holds row counts and resolution-failure counts for the loaded
// relational tables.
type TableStats struct {
	Incidents            int `db:"incidents" json:"incidents"`
	Plaintiffs           int `db:"plaintiffs" json:"plaintiffs"`
	Defendants           int `db:"defendants" json:"defendants"`
	Harms                int `db:"harms" json:"harms"`
	HarmPlaintiffs       int `db:"harm_plaintiffs" json:"harm_plaintiffs"`
	HarmDefendants       int `db:"harm_defendants" json:"harm_defendants"`
	UnresolvedPlaintiffs int `db:"unresolved_plaintiffs" json:"unresolved_plaintiffs"`
	UnresolvedDefendants int `db:"unresolved_defendants" json:"unresolved_defendants"`
}
