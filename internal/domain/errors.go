package domain

import "errors"

var (
	ErrMissingAPIKey       = errors.New("ocr api key is not configured")
	ErrUploadFailed        = errors.New("document upload to ocr service failed")
	ErrOCRProcessing       = errors.New("ocr processing failed")
	ErrEmptyOCRResult      = errors.New("ocr produced no text")
	ErrCompletionFailed    = errors.New("completion request failed")
	ErrPresetNotFound      = errors.New("preset not found")
	ErrInvalidPresetName   = errors.New("invalid preset name")
	ErrJobNotFound         = errors.New("format job not found")
	ErrJobNotCompleted     = errors.New("format job has not completed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrStorageFailed       = errors.New("file upload to storage failed")
)
