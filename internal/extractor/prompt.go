package extractor

import (
	"fmt"
	"os"
	"strings"

	"docketflow/internal/domain"
)

// SystemInstruction is sent as the system message (or prepended for backends
// without a system slot).
const SystemInstruction = "You are a legal data extraction system. Respond ONLY with valid JSON."

// complaintPlaceholder marks where the complaint text goes in a template.
const complaintPlaceholder = "{complaint_text}"

// DefaultPromptTemplate is used when no prompt file is configured. The schema
// mirrors the relational tables downstream: ids here are document-local
// integers the model assigns, and the harm association lists reference them.
const DefaultPromptTemplate = `Extract every discrete incident from the legal complaint below.

IMPORTANT INSTRUCTIONS:
- Assign each incident an integer incident_id starting from 1.
- Assign each plaintiff and defendant an integer id unique within this document.
- Record ONLY what the complaint states. If a field is absent, use an empty string. Never infer or guess.
- A harm's associated id lists reference the plaintiff and defendant ids above, separated by ";".
- Multiple harm types for the same parties are separated by ";" in "type".

Return ONLY a valid JSON array with no markdown formatting, no code fences, no explanation. Each element must follow this schema:
{
  "incident_id": 1,
  "location_street": "",
  "location_city": "",
  "location_county": "",
  "location_state": "",
  "location_zip": "",
  "location_type": "",
  "plaintiffs": [
    {
      "plaintiff_id": 1,
      "name": "",
      "race": "",
      "gender": "",
      "disability_status": "",
      "immigration_status": ""
    }
  ],
  "defendants": [
    {
      "defendant_id": 1,
      "name": "",
      "race": "",
      "gender": "",
      "doe_status": "",
      "entity_type": "",
      "agency": "",
      "agency_type": "",
      "role_in_incident": ""
    }
  ],
  "harms": [
    {
      "type": "",
      "associated_plaintiff_ids": "1;2",
      "associated_defendant_ids": "1"
    }
  ]
}

COMPLAINT TEXT:
` + complaintPlaceholder + `
`

// RenderPrompt substitutes the complaint text into a prompt template.
func RenderPrompt(template, complaintText string) string {
	return strings.ReplaceAll(template, complaintPlaceholder, complaintText)
}

// LoadTemplate reads a prompt template from path, falling back to
// DefaultPromptTemplate when no path is configured. A blank template is
// rejected with domain.ErrMissingPrompt rather than sent to providers.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultPromptTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt template: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrMissingPrompt)
	}
	return string(data), nil
}
