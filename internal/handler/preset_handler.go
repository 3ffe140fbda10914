package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/internal/domain"
	"inkwell/internal/service"
)

// PresetHandler handles preset management endpoints.
type PresetHandler struct {
	presetService service.PresetService
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(presetService service.PresetService) *PresetHandler {
	return &PresetHandler{presetService: presetService}
}

// List handles GET /api/v1/presets
func (h *PresetHandler) List(c *gin.Context) {
	presets, err := h.presetService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, presets)
}

// Get handles GET /api/v1/presets/:name
func (h *PresetHandler) Get(c *gin.Context) {
	p, err := h.presetService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

type savePresetRequest struct {
	Body string `json:"body" binding:"required"`
}

// Save handles PUT /api/v1/presets/:name
func (h *PresetHandler) Save(c *gin.Context) {
	var req savePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "body field is required")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "preset body must not be empty")
		return
	}

	p, err := h.presetService.Save(c.Request.Context(), &domain.Preset{
		Name: c.Param("name"),
		Body: req.Body,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// Delete handles DELETE /api/v1/presets/:name
func (h *PresetHandler) Delete(c *gin.Context) {
	if err := h.presetService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "preset deleted"})
}
