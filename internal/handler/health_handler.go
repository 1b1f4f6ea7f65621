package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docketflow/internal/port"
)

// Pinger is the slice of the database handle readiness needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports process liveness and dependency readiness.
type HealthHandler struct {
	db    Pinger
	store port.ArtifactStore
}

// NewHealthHandler creates a HealthHandler. store may be nil when the server
// runs without an artifact backend.
func NewHealthHandler(db Pinger, store port.ArtifactStore) *HealthHandler {
	return &HealthHandler{db: db, store: store}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Each dependency is checked and reported by
// name, so a failing probe says which subsystem broke.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	ready := true

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("HealthHandler.Readiness: database ping: %v", err)
		checks["database"] = "unreachable"
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if h.store != nil {
		if _, err := h.store.List(ctx, ""); err != nil {
			log.Printf("HealthHandler.Readiness: artifact store list: %v", err)
			checks["artifact_store"] = "unreachable"
			ready = false
		} else {
			checks["artifact_store"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
