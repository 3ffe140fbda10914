package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkwell/internal/csvexport"
	"inkwell/internal/domain"
	"inkwell/internal/render"
	"inkwell/internal/service"
)

// DocumentHandler handles document upload and format job endpoints.
type DocumentHandler struct {
	formatService service.FormatService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(formatService service.FormatService) *DocumentHandler {
	return &DocumentHandler{formatService: formatService}
}

// Upload handles POST /api/v1/documents. By default the document is queued
// for background processing; sync=true runs the pipeline inline and returns
// the formatted result directly.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	preset := c.PostForm("preset")
	model := c.PostForm("model")
	customInstruction := c.PostForm("custom_instruction")

	if c.PostForm("sync") == "true" {
		fileBytes, err := io.ReadAll(file)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
			return
		}
		contentType := http.DetectContentType(fileBytes)
		if _, ok := domain.AllowedContentTypes[contentType]; !ok {
			HandleError(c, domain.ErrUnsupportedFileType)
			return
		}

		result, err := h.formatService.Format(c.Request.Context(), service.FormatInput{
			FileBytes:         fileBytes,
			ContentType:       contentType,
			FileName:          header.Filename,
			Preset:            preset,
			Model:             model,
			CustomInstruction: customInstruction,
		})
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, result)
		return
	}

	job, err := h.formatService.Enqueue(c.Request.Context(), service.EnqueueInput{
		File:              file,
		Header:            header,
		Preset:            preset,
		Model:             model,
		CustomInstruction: customInstruction,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, job)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	jobs, total, err := h.formatService.ListJobs(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, jobs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID")
		return
	}

	job, err := h.formatService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

// Markdown handles GET /api/v1/documents/:id/markdown and returns the raw
// formatted Markdown as text.
func (h *DocumentHandler) Markdown(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID")
		return
	}

	job, err := h.formatService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if job.Status != domain.JobStatusCompleted {
		HandleError(c, domain.ErrJobNotCompleted)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+csvexport.SanitizeFilename(job.OriginalName)+`.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(job.Markdown))
}

// Preview handles GET /api/v1/documents/:id/preview and renders the formatted
// Markdown as an HTML fragment.
func (h *DocumentHandler) Preview(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID")
		return
	}

	job, err := h.formatService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if job.Status != domain.JobStatusCompleted {
		HandleError(c, domain.ErrJobNotCompleted)
		return
	}

	html, err := render.HTML(job.Markdown)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID")
		return
	}

	if err := h.formatService.DeleteJob(c.Request.Context(), jobID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "job deleted"})
}

// ExportCSV handles GET /api/v1/documents/export and streams the job history
// as a CSV download.
func (h *DocumentHandler) ExportCSV(c *gin.Context) {
	const pageSize = 500

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("format_jobs")+`"`)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}

	for offset := 0; ; offset += pageSize {
		jobs, total, err := h.formatService.ListJobs(c.Request.Context(), offset, pageSize)
		if err != nil {
			return
		}
		if err := w.WriteJobs(jobs); err != nil {
			return
		}
		if offset+pageSize >= total || len(jobs) == 0 {
			break
		}
	}
	w.Flush()
}
