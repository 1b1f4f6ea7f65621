package handler

import (
	"github.com/gin-gonic/gin"

	"docketflow/internal/port"
)

// RunHandler serves extraction run summaries and table statistics.
type RunHandler struct {
	repo port.TableRepository
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(repo port.TableRepository) *RunHandler {
	return &RunHandler{repo: repo}
}

// ListRuns handles GET /api/v1/runs. Returns stored run summaries, newest
// first, optionally filtered by ?provider=.
func (h *RunHandler) ListRuns(c *gin.Context) {
	summaries, err := h.repo.ListRunSummaries(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if provider := c.Query("provider"); provider != "" {
		filtered := summaries[:0]
		for _, s := range summaries {
			if s.Provider == provider {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}
	RespondOK(c, summaries)
}

// Stats handles GET /api/v1/stats. Returns row counts per table plus the
// number of junction rows whose party reference did not resolve.
func (h *RunHandler) Stats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
