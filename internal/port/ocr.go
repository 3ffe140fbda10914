package port

import "context"

// ExtractInput carries one document payload for OCR.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
	FileName    string
}

// OCRResult holds the page-joined Markdown plus any embedded images the OCR
// service extracted, keyed by the service-assigned image id.
type OCRResult struct {
	Markdown string
	Images   map[string][]byte
}

// OCRExtractor abstracts OCR text extraction.
type OCRExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*OCRResult, error)
}
