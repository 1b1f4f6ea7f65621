package handler_test

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docketflow/internal/csvexport"
	"docketflow/internal/domain"
	"docketflow/internal/handler"
)

func exportTableSet() *domain.TableSet {
	incidentUUID := uuid.New()
	return &domain.TableSet{
		Incidents: []domain.Incident{{
			IncidentUUID: incidentUUID,
			IncidentID:   "1",
			LocationCity: "Chicago",
		}},
		Plaintiffs: []domain.Plaintiff{{
			PlaintiffUUID: uuid.New(),
			IncidentUUID:  incidentUUID,
			PlaintiffID:   "1",
			Name:          "P One",
		}},
	}
}

func performExport(t *testing.T, h gin.HandlerFunc, url, table string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var err error
	c.Request, err = http.NewRequest(http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	if table != "" {
		c.Params = gin.Params{{Key: "table", Value: table}}
	}
	h(c)
	return w
}

func TestExportHandler_ExportCSV(t *testing.T) {
	repo := &fakeTableRepo{tables: exportTableSet()}
	h := handler.NewExportHandler(repo)

	w := performExport(t, h.ExportCSV, "/api/v1/export/csv/incidents", "incidents")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "incidents_")

	body := w.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, csvexport.BOM))

	records, err := csv.NewReader(bytes.NewReader(body[len(csvexport.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvexport.IncidentColumns, records[0])
}

func TestExportHandler_ExportCSV_UnknownTable(t *testing.T) {
	repo := &fakeTableRepo{tables: exportTableSet()}
	h := handler.NewExportHandler(repo)

	w := performExport(t, h.ExportCSV, "/api/v1/export/csv/bogus", "bogus")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_TABLE")
}

func TestExportHandler_ExportXLSX(t *testing.T) {
	repo := &fakeTableRepo{
		tables:    exportTableSet(),
		summaries: []domain.RunSummary{{Provider: "claude", SuccessCount: 5}},
	}
	h := handler.NewExportHandler(repo)

	w := performExport(t, h.ExportXLSX, "/api/v1/export/xlsx", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Incidents")
	assert.Contains(t, sheets, "Plaintiffs")

	city, err := f.GetCellValue("Incidents", "H2")
	require.NoError(t, err)
	assert.Equal(t, "Chicago", city)
}
