package tabulate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/tabulate"
)

func TestParseRecord_Array(t *testing.T) {
	raw := []byte(`[{"incident_id": 1, "location_city": "Chicago"}, {"incident_id": 2}]`)
	incidents, err := tabulate.ParseRecord(raw)
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, "1", incidents[0].IncidentID.String())
	assert.Equal(t, "Chicago", incidents[0].LocationCity)
	assert.Equal(t, "2", incidents[1].IncidentID.String())
}

func TestParseRecord_SingleObject(t *testing.T) {
	raw := []byte(`{"incident_id": "1", "location_state": "IL"}`)
	incidents, err := tabulate.ParseRecord(raw)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "IL", incidents[0].LocationState)
}

func TestParseRecord_StripsMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n[{\"incident_id\": 1}]\n```"},
		{"bare fence", "```\n[{\"incident_id\": 1}]\n```"},
		{"fence with whitespace", "  ```json\n[{\"incident_id\": 1}]\n```  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incidents, err := tabulate.ParseRecord([]byte(tt.raw))
			require.NoError(t, err)
			require.Len(t, incidents, 1)
			assert.Equal(t, "1", incidents[0].IncidentID.String())
		})
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n  "},
		{"truncated json", `[{"incident_id": 1, "plain`},
		{"prose", "I could not find any incidents in this complaint."},
		{"fences around prose", "```\nnot json\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tabulate.ParseRecord([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseRecord_MixedIDTypes(t *testing.T) {
	raw := []byte(`[{
		"incident_id": 1,
		"plaintiffs": [{"plaintiff_id": "1", "name": "P One"}],
		"harms": [{"type": "assault", "associated_plaintiff_ids": 1, "associated_defendant_ids": "1; 2"}]
	}]`)
	incidents, err := tabulate.ParseRecord(raw)
	require.NoError(t, err)
	require.Len(t, incidents, 1)

	inc := incidents[0]
	require.Len(t, inc.Plaintiffs, 1)
	assert.Equal(t, "1", inc.Plaintiffs[0].PlaintiffID.String())
	require.Len(t, inc.Harms, 1)
	// A bare number decodes to the same token a quoted one would.
	assert.Equal(t, "1", string(inc.Harms[0].AssociatedPlaintiffIDs))
	assert.Equal(t, "1; 2", string(inc.Harms[0].AssociatedDefendantIDs))
}

func TestParseRecord_NullAssociations(t *testing.T) {
	raw := []byte(`[{"incident_id": 1, "harms": [{"type": "neglect", "associated_plaintiff_ids": null}]}]`)
	incidents, err := tabulate.ParseRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "", string(incidents[0].Harms[0].AssociatedPlaintiffIDs))
}

func TestFileIDFromArtifact(t *testing.T) {
	fileID := "0123456789abcdef0123456789abcdef"
	assert.Equal(t, fileID, tabulate.FileIDFromArtifact(fileID+"_gpt-4o-mini_20260901.txt"))
	assert.Equal(t, "", tabulate.FileIDFromArtifact("summary_20260901.json"))
}
