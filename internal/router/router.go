package router

import (
	"github.com/gin-gonic/gin"

	"docketflow/internal/handler"
	"docketflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	healthH *handler.HealthHandler,
	runH *handler.RunHandler,
	exportH *handler.ExportHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.GET("/runs", runH.ListRuns)
	v1.GET("/stats", runH.Stats)

	export := v1.Group("/export")
	export.GET("/csv/:table", exportH.ExportCSV)
	export.GET("/xlsx", exportH.ExportXLSX)

	return r
}
