package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"docketflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Column orders for the six tables.
var (
	IncidentColumns = []string{
		"incident_uuid", "source_file", "file_id", "document_id", "case_id",
		"incident_id", "location_street", "location_city", "location_county",
		"location_state", "location_zip", "location_type",
	}
	PlaintiffColumns = []string{
		"plaintiff_uuid", "incident_uuid", "source_file", "file_id", "document_id", "case_id",
		"plaintiff_id", "name", "race", "gender", "disability_status", "immigration_status",
	}
	DefendantColumns = []string{
		"defendant_uuid", "incident_uuid", "source_file", "file_id", "document_id", "case_id",
		"defendant_id", "name", "race", "gender", "doe_status", "entity_type",
		"agency", "agency_type", "role_in_incident",
	}
	HarmColumns = []string{
		"harm_uuid", "incident_uuid", "source_file", "file_id", "document_id", "case_id",
		"harm_type", "associated_plaintiff_ids", "associated_defendant_ids",
	}
	HarmPlaintiffColumns = []string{
		"harm_uuid", "incident_uuid", "source_file", "file_id", "document_id", "case_id",
		"harm_type", "plaintiff_id", "plaintiff_uuid", "plaintiff_name", "plaintiff_race",
		"plaintiff_gender", "plaintiff_disability_status", "plaintiff_immigration_status",
	}
	HarmDefendantColumns = []string{
		"harm_uuid", "incident_uuid", "source_file", "file_id", "document_id", "case_id",
		"harm_type", "defendant_id", "defendant_uuid", "defendant_name", "defendant_race",
		"defendant_gender", "defendant_doe_status", "defendant_entity_type",
		"defendant_agency", "defendant_agency_type", "defendant_role_in_incident",
	}
)

// IncidentRow converts one incident to its CSV row.
func IncidentRow(r *domain.Incident) []string {
	return []string{
		r.IncidentUUID.String(), r.SourceFile, r.FileID, r.DocumentID, r.CaseID,
		r.IncidentID.String(), r.LocationStreet, r.LocationCity, r.LocationCounty,
		r.LocationState, r.LocationZip, r.LocationType,
	}
}

// PlaintiffRow converts one plaintiff to its CSV row.
func PlaintiffRow(r *domain.Plaintiff) []string {
	return []string{
		r.PlaintiffUUID.String(), r.IncidentUUID.String(), r.SourceFile, r.FileID, r.DocumentID, r.CaseID,
		r.PlaintiffID.String(), r.Name, r.Race, r.Gender, r.DisabilityStatus, r.ImmigrationStatus,
	}
}

// DefendantRow converts one defendant to its CSV row.
func DefendantRow(r *domain.Defendant) []string {
	return []string{
		r.DefendantUUID.String(), r.IncidentUUID.String(), r.SourceFile, r.FileID, r.DocumentID, r.CaseID,
		r.DefendantID.String(), r.Name, r.Race, r.Gender, r.DoeStatus, r.EntityType,
		r.Agency, r.AgencyType, r.RoleInIncident,
	}
}

// HarmRow converts one harm to its CSV row.
func HarmRow(r *domain.Harm) []string {
	return []string{
		r.HarmUUID.String(), r.IncidentUUID.String(), r.SourceFile, r.FileID, r.DocumentID, r.CaseID,
		r.HarmType, r.AssociatedPlaintiffIDs, r.AssociatedDefendantIDs,
	}
}

// HarmPlaintiffRow converts one harm-plaintiff association to its CSV row.
// An unresolved plaintiff reference leaves the uuid and attribute cells empty.
func HarmPlaintiffRow(r *domain.HarmPlaintiff) []string {
	return []string{
		r.HarmUUID.String(), r.IncidentUUID.String(), r.SourceFile, r.FileID, r.DocumentID, r.CaseID,
		r.HarmType, r.PlaintiffID.String(), formatUUIDPtr(r.PlaintiffUUID), r.PlaintiffName, r.PlaintiffRace,
		r.PlaintiffGender, r.PlaintiffDisabilityStatus, r.PlaintiffImmigrationStatus,
	}
}

// HarmDefendantRow converts one harm-defendant association to its CSV row.
func HarmDefendantRow(r *domain.HarmDefendant) []string {
	return []string{
		r.HarmUUID.String(), r.IncidentUUID.String(), r.SourceFile, r.FileID, r.DocumentID, r.CaseID,
		r.HarmType, r.DefendantID.String(), formatUUIDPtr(r.DefendantUUID), r.DefendantName, r.DefendantRace,
		r.DefendantGender, r.DefendantDoeStatus, r.DefendantEntityType,
		r.DefendantAgency, r.DefendantAgencyType, r.DefendantRoleInIncident,
	}
}

func formatUUIDPtr(u *uuid.UUID) string {
	if u == nil {
		return ""
	}
	return u.String()
}

// writeTable writes a header plus rows to w.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes one of the six tables to w by name.
func WriteTable(w io.Writer, name domain.TableName, ts *domain.TableSet) error {
	header, rows, err := TableRows(name, ts)
	if err != nil {
		return err
	}
	return writeTable(w, header, rows)
}

// TableRows returns the header and string rows of one table.
func TableRows(name domain.TableName, ts *domain.TableSet) ([]string, [][]string, error) {
	switch name {
	case domain.TableIncidents:
		rows := make([][]string, 0, len(ts.Incidents))
		for i := range ts.Incidents {
			rows = append(rows, IncidentRow(&ts.Incidents[i]))
		}
		return IncidentColumns, rows, nil
	case domain.TablePlaintiffs:
		rows := make([][]string, 0, len(ts.Plaintiffs))
		for i := range ts.Plaintiffs {
			rows = append(rows, PlaintiffRow(&ts.Plaintiffs[i]))
		}
		return PlaintiffColumns, rows, nil
	case domain.TableDefendants:
		rows := make([][]string, 0, len(ts.Defendants))
		for i := range ts.Defendants {
			rows = append(rows, DefendantRow(&ts.Defendants[i]))
		}
		return DefendantColumns, rows, nil
	case domain.TableHarms:
		rows := make([][]string, 0, len(ts.Harms))
		for i := range ts.Harms {
			rows = append(rows, HarmRow(&ts.Harms[i]))
		}
		return HarmColumns, rows, nil
	case domain.TableHarmPlaintiffs:
		rows := make([][]string, 0, len(ts.HarmPlaintiffs))
		for i := range ts.HarmPlaintiffs {
			rows = append(rows, HarmPlaintiffRow(&ts.HarmPlaintiffs[i]))
		}
		return HarmPlaintiffColumns, rows, nil
	case domain.TableHarmDefendants:
		rows := make([][]string, 0, len(ts.HarmDefendants))
		for i := range ts.HarmDefendants {
			rows = append(rows, HarmDefendantRow(&ts.HarmDefendants[i]))
		}
		return HarmDefendantColumns, rows, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnknownTable, name)
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a table or export name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized download filename.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}

// WriteDir writes all six tables as <table>.csv files under dir. Files are
// written whole: a failed run never leaves a partially-written table behind
// under its final name.
func WriteDir(dir string, ts *domain.TableSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	for _, name := range domain.AllTables {
		path := filepath.Join(dir, string(name)+".csv")
		tmp := path + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("creating %s: %w", tmp, err)
		}
		if _, err := f.Write(BOM); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", tmp, err)
		}
		if err := WriteTable(f, name, ts); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", tmp, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", tmp, err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("renaming %s: %w", tmp, err)
		}
	}
	return nil
}
