package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docketflow/internal/csvexport"
	"docketflow/internal/domain"
	"docketflow/internal/port"
	"docketflow/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the loaded relational tables as CSV and XLSX downloads.
type ExportHandler struct {
	repo port.TableRepository
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(repo port.TableRepository) *ExportHandler {
	return &ExportHandler{repo: repo}
}

// ExportCSV handles GET /api/v1/export/csv/:table. Streams one table as a
// UTF-8 CSV with a BOM for Excel compatibility.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	name := domain.TableName(c.Param("table"))

	ts, err := h.repo.FetchTableSet(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	if err := csvexport.WriteTable(&buf, name, ts); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(string(name), "csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/export/xlsx. Returns a workbook with one
// sheet per table plus a run-summary sheet.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	ctx := c.Request.Context()

	ts, err := h.repo.FetchTableSet(ctx)
	if err != nil {
		HandleError(c, err)
		return
	}
	summaries, err := h.repo.ListRunSummaries(ctx)
	if err != nil {
		HandleError(c, err)
		return
	}

	f, err := xlsxexport.BuildWorkbook(ts, summaries)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("complaint_tables", "xlsx")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
