package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/csvexport"
	"docketflow/internal/domain"
)

func sampleTableSet() *domain.TableSet {
	incidentUUID := uuid.New()
	plaintiffUUID := uuid.New()
	harmUUID := uuid.New()

	return &domain.TableSet{
		Incidents: []domain.Incident{{
			IncidentUUID: incidentUUID,
			SourceFile:   "a_m_20260901.txt",
			FileID:       "a",
			IncidentID:   "1",
			LocationCity: "Chicago",
		}},
		Plaintiffs: []domain.Plaintiff{{
			PlaintiffUUID: plaintiffUUID,
			IncidentUUID:  incidentUUID,
			PlaintiffID:   "1",
			Name:          "P One",
		}},
		Harms: []domain.Harm{{
			HarmUUID:     harmUUID,
			IncidentUUID: incidentUUID,
			HarmType:     "assault",
		}},
		HarmPlaintiffs: []domain.HarmPlaintiff{
			{
				HarmUUID:      harmUUID,
				IncidentUUID:  incidentUUID,
				HarmType:      "assault",
				PlaintiffID:   "1",
				PlaintiffUUID: &plaintiffUUID,
				PlaintiffName: "P One",
			},
			{
				HarmUUID:     harmUUID,
				IncidentUUID: incidentUUID,
				HarmType:     "assault",
				PlaintiffID:  "99",
			},
		},
	}
}

func TestWriteTable_Incidents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteTable(&buf, domain.TableIncidents, sampleTableSet()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvexport.IncidentColumns, records[0])
	assert.Equal(t, "Chicago", records[1][7])
}

func TestWriteTable_UnresolvedRefIsEmptyCell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteTable(&buf, domain.TableHarmPlaintiffs, sampleTableSet()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	uuidCol := -1
	for i, col := range records[0] {
		if col == "plaintiff_uuid" {
			uuidCol = i
		}
	}
	require.NotEqual(t, -1, uuidCol)
	assert.NotEmpty(t, records[1][uuidCol])
	assert.Empty(t, records[2][uuidCol])
}

func TestWriteTable_UnknownTable(t *testing.T) {
	var buf bytes.Buffer
	err := csvexport.WriteTable(&buf, domain.TableName("bogus"), sampleTableSet())
	assert.ErrorIs(t, err, domain.ErrUnknownTable)
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, csvexport.WriteDir(dir, sampleTableSet()))

	for _, name := range domain.AllTables {
		path := filepath.Join(dir, string(name)+".csv")
		data, err := os.ReadFile(path)
		require.NoError(t, err, "missing %s", name)
		assert.True(t, bytes.HasPrefix(data, csvexport.BOM), "%s missing BOM", name)

		// No temp files left behind.
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	}

	// Empty tables still get a header row.
	data, err := os.ReadFile(filepath.Join(dir, "defendants.csv"))
	require.NoError(t, err)
	content := strings.TrimPrefix(string(data), string(csvexport.BOM))
	assert.Equal(t, strings.Join(csvexport.DefendantColumns, ","), strings.TrimSpace(content))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "harm_plaintiffs", csvexport.SanitizeFilename("harm_plaintiffs"))
	assert.Equal(t, "a_b_c", csvexport.SanitizeFilename("a b/c"))
	assert.Equal(t, "trimmed", csvexport.SanitizeFilename("  trimmed  "))
	long := strings.Repeat("x", 150)
	assert.Len(t, csvexport.SanitizeFilename(long), 100)
}

func TestBuildFilename(t *testing.T) {
	name := csvexport.BuildFilename("incidents", "csv")
	assert.True(t, strings.HasPrefix(name, "incidents_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
