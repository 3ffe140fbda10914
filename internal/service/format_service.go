package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/format"
	"inkwell/internal/llm"
	"inkwell/internal/port"
)

// FormatInput is the DTO for a single pipeline run over in-memory file bytes.
type FormatInput struct {
	FileBytes         []byte
	ContentType       string
	FileName          string
	Preset            string
	Model             string
	CustomInstruction string
	JobID             uuid.UUID // zero for ad-hoc runs
}

// EnqueueInput is the DTO for queueing an uploaded document.
type EnqueueInput struct {
	File              multipart.File
	Header            *multipart.FileHeader
	Preset            string
	Model             string
	CustomInstruction string
}

// FormatService defines the document formatting contract.
type FormatService interface {
	// Format runs the full extract-then-reformat pipeline synchronously.
	Format(ctx context.Context, input FormatInput) (*domain.FormatResult, error)
	Enqueue(ctx context.Context, input EnqueueInput) (*domain.FormatJob, error)
	// ProcessJob runs the pipeline for a claimed job. The job must already be
	// in processing status with its attempt counter incremented.
	ProcessJob(ctx context.Context, job *domain.FormatJob, maxRetries int)
	GetJob(ctx context.Context, id uuid.UUID) (*domain.FormatJob, error)
	ListJobs(ctx context.Context, offset, limit int) ([]domain.FormatJob, int, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
}

type formatService struct {
	extractor port.OCRExtractor
	fetcher   port.CompletionFetcher
	delegate  port.CompletionFetcher // optional; takes precedence when set
	presets   port.PresetStore
	storage   port.ObjectStorage
	jobRepo   port.FormatJobRepository
	cfg       *config.Config
}

// NewFormatService creates a new FormatService implementation. delegate may be
// nil; when set it supplies both the completion transport and the model
// selection unless the caller overrides the model explicitly.
func NewFormatService(
	extractor port.OCRExtractor,
	fetcher port.CompletionFetcher,
	delegate port.CompletionFetcher,
	presets port.PresetStore,
	storage port.ObjectStorage,
	jobRepo port.FormatJobRepository,
	cfg *config.Config,
) FormatService {
	return &formatService{
		extractor: extractor,
		fetcher:   fetcher,
		delegate:  delegate,
		presets:   presets,
		storage:   storage,
		jobRepo:   jobRepo,
		cfg:       cfg,
	}
}

// activeFetcher picks the completion strategy: the delegated provider when one
// is configured, the direct path otherwise.
func (s *formatService) activeFetcher() port.CompletionFetcher {
	if s.delegate != nil {
		return s.delegate
	}
	return s.fetcher
}

// resolveModel applies model precedence: an explicit override beats the
// active fetcher's own configured model.
func (s *formatService) resolveModel(override string, fetcher port.CompletionFetcher) string {
	if override != "" {
		return override
	}
	return fetcher.Model()
}

func (s *formatService) Format(ctx context.Context, input FormatInput) (*domain.FormatResult, error) {
	extracted, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   input.FileBytes,
		ContentType: input.ContentType,
		FileName:    input.FileName,
	})
	if err != nil {
		return nil, err
	}

	storedImages := s.persistImages(ctx, input.JobID, extracted.Images)

	systemInstruction := s.buildInstruction(input.Preset, input.CustomInstruction)

	fetcher := s.activeFetcher()
	model := s.resolveModel(input.Model, fetcher)

	raw, err := fetcher.Complete(ctx, port.CompletionInput{
		Model:             model,
		SystemInstruction: systemInstruction,
		UserContent:       extracted.Markdown,
	})
	if err != nil {
		return nil, err
	}

	normalized := format.Normalize(raw)

	return &domain.FormatResult{
		Markdown:   normalized.Markdown,
		ModelUsed:  model,
		Confidence: normalized.Confidence,
		Degraded:   normalized.Degraded,
		Images:     storedImages,
	}, nil
}

// buildInstruction resolves the preset body, falling back to the built-in
// default instruction when the preset cannot be loaded.
func (s *formatService) buildInstruction(presetName, customInstruction string) string {
	if presetName == "" {
		presetName = s.cfg.Format.DefaultPreset
	}

	body := format.DefaultInstruction
	p, err := s.presets.Get(presetName)
	if err != nil {
		log.Printf("formatService.buildInstruction: preset %q unavailable, using built-in default: %v", presetName, err)
	} else {
		body = p.Body
	}

	return format.BuildSystemInstruction(body, customInstruction, s.cfg.Format.TargetLanguage)
}

// persistImages stores recovered page images best-effort: a failed upload is
// logged and skipped, never fatal. Returns image id -> storage key for the
// images that made it to storage.
func (s *formatService) persistImages(ctx context.Context, jobID uuid.UUID, images map[string][]byte) map[string]string {
	if len(images) == 0 {
		return nil
	}

	prefix := "adhoc"
	if jobID != uuid.Nil {
		prefix = jobID.String()
	}

	stored := make(map[string]string, len(images))
	for id, data := range images {
		key := fmt.Sprintf("images/%s/%s", prefix, id)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Storage.Bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: imageContentType(id),
			Size:        int64(len(data)),
		})
		if err != nil {
			log.Printf("formatService.persistImages: failed to store image %s: %v", id, err)
			continue
		}
		stored[id] = key
	}
	return stored
}

func imageContentType(id string) string {
	switch strings.ToLower(filepath.Ext(id)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func (s *formatService) Enqueue(ctx context.Context, input EnqueueInput) (*domain.FormatJob, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.Storage.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	// Seek back to beginning for upload
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	jobID := uuid.New()
	storageKey := fmt.Sprintf("documents/%s/%s", jobID, input.Header.Filename)
	contentType := domain.AllowedFileTypes[fileType]

	log.Printf("formatService.Enqueue: queueing %s (%s, %d bytes) as job %s",
		input.Header.Filename, contentType, input.Header.Size, jobID)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Storage.Bucket,
		Key:         storageKey,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("formatService.Enqueue: storage upload failed for job %s: %v", jobID, err)
		return nil, domain.ErrStorageFailed
	}

	job := &domain.FormatJob{
		ID:                jobID,
		OriginalName:      input.Header.Filename,
		ContentType:       contentType,
		FileSize:          input.Header.Size,
		StorageBucket:     s.cfg.Storage.Bucket,
		StorageKey:        storageKey,
		Preset:            input.Preset,
		Model:             input.Model,
		CustomInstruction: input.CustomInstruction,
		Status:            domain.JobStatusQueued,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating format job: %w", err)
	}
	return job, nil
}

func (s *formatService) ProcessJob(ctx context.Context, job *domain.FormatJob, maxRetries int) {
	fileBytes, err := s.storage.Download(ctx, job.StorageBucket, job.StorageKey)
	if err != nil {
		s.failJob(ctx, job, fmt.Sprintf("downloading document: %v", err))
		return
	}

	result, err := s.Format(ctx, FormatInput{
		FileBytes:         fileBytes,
		ContentType:       job.ContentType,
		FileName:          job.OriginalName,
		Preset:            job.Preset,
		Model:             job.Model,
		CustomInstruction: job.CustomInstruction,
		JobID:             job.ID,
	})
	if err != nil {
		s.handleJobError(ctx, job, err, maxRetries)
		return
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusCompleted
	job.Model = result.ModelUsed
	job.Markdown = result.Markdown
	job.ImageCount = len(result.Images)
	job.Confidence = result.Confidence
	job.Degraded = result.Degraded
	job.ErrorText = ""
	job.CompletedAt = &now

	if err := s.jobRepo.UpdateResult(ctx, job); err != nil {
		log.Printf("formatService.ProcessJob: failed to save results for %s: %v", job.ID, err)
		return
	}
	log.Printf("formatService.ProcessJob: job %s completed (model=%s, images=%d, degraded=%v)",
		job.ID, job.Model, job.ImageCount, job.Degraded)
}

// handleJobError decides between requeueing and permanent failure. Rate limits
// and transient errors requeue while attempts remain; configuration and input
// errors fail immediately since retrying cannot fix them.
func (s *formatService) handleJobError(ctx context.Context, job *domain.FormatJob, procErr error, maxRetries int) {
	var rlErr *llm.RateLimitError
	if errors.As(procErr, &rlErr) && job.Attempts < maxRetries {
		log.Printf("formatService.handleJobError: job %s rate limited by %s, requeueing (attempt %d)",
			job.ID, rlErr.Provider, job.Attempts)
		if err := s.jobRepo.MarkFailed(ctx, job.ID, fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider), true); err != nil {
			log.Printf("formatService.handleJobError: failed to requeue job %s: %v", job.ID, err)
		}
		return
	}

	permanent := errors.Is(procErr, domain.ErrMissingAPIKey) ||
		errors.Is(procErr, domain.ErrEmptyOCRResult) ||
		errors.Is(procErr, domain.ErrUnsupportedFileType)

	if !permanent && job.Attempts < maxRetries {
		log.Printf("formatService.handleJobError: job %s failed transiently, requeueing (attempt %d): %v",
			job.ID, job.Attempts, procErr)
		if err := s.jobRepo.MarkFailed(ctx, job.ID, procErr.Error(), true); err != nil {
			log.Printf("formatService.handleJobError: failed to requeue job %s: %v", job.ID, err)
		}
		return
	}

	s.failJob(ctx, job, procErr.Error())
}

func (s *formatService) failJob(ctx context.Context, job *domain.FormatJob, errMsg string) {
	log.Printf("formatService.failJob: job %s failed: %s", job.ID, errMsg)
	if err := s.jobRepo.MarkFailed(ctx, job.ID, errMsg, false); err != nil {
		log.Printf("formatService.failJob: failed to update status for %s: %v", job.ID, err)
	}
}

func (s *formatService) GetJob(ctx context.Context, id uuid.UUID) (*domain.FormatJob, error) {
	return s.jobRepo.GetByID(ctx, id)
}

func (s *formatService) ListJobs(ctx context.Context, offset, limit int) ([]domain.FormatJob, int, error) {
	return s.jobRepo.List(ctx, offset, limit)
}

func (s *formatService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, job.StorageBucket, job.StorageKey); err != nil {
		log.Printf("formatService.DeleteJob: failed to delete original for %s: %v", id, err)
	}
	return s.jobRepo.Delete(ctx, id)
}
