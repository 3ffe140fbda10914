package router

import (
	"github.com/gin-gonic/gin"

	"inkwell/internal/handler"
	"inkwell/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	documentH *handler.DocumentHandler,
	presetH *handler.PresetHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Document formatting routes
	documents := v1.Group("/documents")
	documents.POST("", documentH.Upload)
	documents.GET("", documentH.List)
	documents.GET("/export", documentH.ExportCSV)
	documents.GET("/:id", documentH.GetByID)
	documents.GET("/:id/markdown", documentH.Markdown)
	documents.GET("/:id/preview", documentH.Preview)
	documents.DELETE("/:id", documentH.Delete)

	// Preset routes
	presets := v1.Group("/presets")
	presets.GET("", presetH.List)
	presets.GET("/:name", presetH.Get)
	presets.PUT("/:name", presetH.Save)
	presets.DELETE("/:name", presetH.Delete)

	return r
}
