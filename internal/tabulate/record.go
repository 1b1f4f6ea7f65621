package tabulate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"docketflow/internal/domain"
)

// RawIncident is the extraction record shape for one incident as the model
// emits it. IncidentID is a pointer so a missing id can be told apart from a
// present-but-empty one; both exclude the incident. All other absent fields
// decode to their explicit empty value, never a guess.
type RawIncident struct {
	IncidentID     *domain.LocalID `json:"incident_id"`
	LocationStreet string          `json:"location_street"`
	LocationCity   string          `json:"location_city"`
	LocationCounty string          `json:"location_county"`
	LocationState  string          `json:"location_state"`
	LocationZip    string          `json:"location_zip"`
	LocationType   string          `json:"location_type"`
	Plaintiffs     []RawPlaintiff  `json:"plaintiffs"`
	Defendants     []RawDefendant  `json:"defendants"`
	Harms          []RawHarm       `json:"harms"`
}

// RawPlaintiff is one plaintiff as extracted.
type RawPlaintiff struct {
	PlaintiffID       domain.LocalID `json:"plaintiff_id"`
	Name              string         `json:"name"`
	Race              string         `json:"race"`
	Gender            string         `json:"gender"`
	DisabilityStatus  string         `json:"disability_status"`
	ImmigrationStatus string         `json:"immigration_status"`
}

// RawDefendant is one defendant as extracted.
type RawDefendant struct {
	DefendantID    domain.LocalID `json:"defendant_id"`
	Name           string         `json:"name"`
	Race           string         `json:"race"`
	Gender         string         `json:"gender"`
	DoeStatus      string         `json:"doe_status"`
	EntityType     string         `json:"entity_type"`
	Agency         string         `json:"agency"`
	AgencyType     string         `json:"agency_type"`
	RoleInIncident string         `json:"role_in_incident"`
}

// RawHarm is one harm record as extracted. Type may itself be a
// semicolon-delimited list of harm types. The associated id fields are
// semicolon-delimited local-id lists; some models emit a bare number for a
// single id, so they decode through flexString.
type RawHarm struct {
	Type                   string     `json:"type"`
	AssociatedPlaintiffIDs flexString `json:"associated_plaintiff_ids"`
	AssociatedDefendantIDs flexString `json:"associated_defendant_ids"`
}

// flexString accepts a JSON string, number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
	// Artifact names start with the 32-hex content hash of the source file.
	fileIDPattern = regexp.MustCompile(`^[a-f0-9]{32}`)
)

// FileIDFromArtifact extracts the leading file id from an artifact name.
// Returns "" when the name does not carry one.
func FileIDFromArtifact(name string) string {
	return fileIDPattern.FindString(name)
}

// ParseRecord decodes one raw extraction artifact into incident records.
// Markdown code fences around the JSON are stripped; a single incident object
// is accepted in place of an array. Anything else malformed is a parse error:
// the artifact is excluded, never coerced.
func ParseRecord(raw []byte) ([]RawIncident, error) {
	s := strings.TrimSpace(string(raw))
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if s == "" {
		return nil, fmt.Errorf("empty artifact")
	}

	if s[0] == '{' {
		var inc RawIncident
		if err := json.Unmarshal([]byte(s), &inc); err != nil {
			return nil, fmt.Errorf("decoding incident object: %w", err)
		}
		return []RawIncident{inc}, nil
	}

	var incidents []RawIncident
	if err := json.Unmarshal([]byte(s), &incidents); err != nil {
		return nil, fmt.Errorf("decoding incident array: %w", err)
	}
	return incidents, nil
}
