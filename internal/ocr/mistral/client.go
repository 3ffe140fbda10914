package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/ocr"
	"inkwell/internal/port"
)

const apiBaseURL = "https://api.mistral.ai/v1"

// Extractor implements port.OCRExtractor against the Mistral OCR API: upload
// the document with purpose "ocr", exchange the file id for a signed URL,
// then run OCR processing against that URL.
type Extractor struct {
	apiKey        string
	model         string
	baseURL       string
	includeImages bool
	client        *http.Client
}

// NewExtractor creates a Mistral-backed OCR extractor.
func NewExtractor(cfg *config.OCRConfig) *Extractor {
	return newExtractor(cfg, apiBaseURL)
}

// NewExtractorWithBaseURL creates an extractor pointing at a custom API base
// URL (for testing).
func NewExtractorWithBaseURL(cfg *config.OCRConfig, baseURL string) *Extractor {
	return newExtractor(cfg, baseURL)
}

func newExtractor(cfg *config.OCRConfig, baseURL string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "mistral-ocr-latest"
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:        cfg.APIKey,
		model:         model,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		includeImages: cfg.IncludeImages,
		client:        &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.OCRResult, error) {
	if e.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	fileID, err := e.uploadDocument(ctx, input)
	if err != nil {
		return nil, err
	}

	signedURL, err := e.getSignedURL(ctx, fileID)
	if err != nil {
		return nil, err
	}

	resp, err := e.process(ctx, signedURL)
	if err != nil {
		return nil, err
	}

	markdown, images := joinPages(resp.Pages, e.includeImages)
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, domain.ErrEmptyOCRResult
	}

	return &port.OCRResult{Markdown: markdown, Images: images}, nil
}

// uploadResponse models the Mistral file upload response.
type uploadResponse struct {
	ID string `json:"id"`
}

// signedURLResponse models the signed URL exchange response.
type signedURLResponse struct {
	URL string `json:"url"`
}

// ocrResponse models the OCR processing response.
type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int        `json:"index"`
	Markdown string     `json:"markdown"`
	Images   []ocrImage `json:"images"`
}

type ocrImage struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

func (e *Extractor) uploadDocument(ctx context.Context, input port.ExtractInput) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("purpose", "ocr"); err != nil {
		return "", fmt.Errorf("writing purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", synthesizeFileName(input))
	if err != nil {
		return "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(input.FileBytes); err != nil {
		return "", fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/files", body)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	respBody, status, err := e.do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: upload returned status %d: %s", domain.ErrUploadFailed, status, truncate(string(respBody), 500))
	}

	var upload uploadResponse
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return "", fmt.Errorf("%w: unmarshaling upload response: %v", domain.ErrUploadFailed, err)
	}
	if upload.ID == "" {
		return "", fmt.Errorf("%w: upload response carries no file id", domain.ErrUploadFailed)
	}
	return upload.ID, nil
}

func (e *Extractor) getSignedURL(ctx context.Context, fileID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/files/"+fileID+"/url?expiry=24", nil)
	if err != nil {
		return "", fmt.Errorf("creating signed url request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	respBody, status, err := e.do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: signed url exchange returned status %d: %s", domain.ErrUploadFailed, status, truncate(string(respBody), 500))
	}

	var signed signedURLResponse
	if err := json.Unmarshal(respBody, &signed); err != nil {
		return "", fmt.Errorf("%w: unmarshaling signed url response: %v", domain.ErrUploadFailed, err)
	}
	if signed.URL == "" {
		return "", fmt.Errorf("%w: signed url response carries no url", domain.ErrUploadFailed)
	}
	return signed.URL, nil
}

func (e *Extractor) process(ctx context.Context, documentURL string) (*ocrResponse, error) {
	reqBody := map[string]interface{}{
		"model": e.model,
		"document": map[string]interface{}{
			"type":         "document_url",
			"document_url": documentURL,
		},
		"include_image_base64": e.includeImages,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ocr", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	respBody, status, err := e.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRProcessing, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: ocr returned status %d: %s", domain.ErrOCRProcessing, status, truncate(string(respBody), 500))
	}

	var resp ocrResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling ocr response: %v", domain.ErrOCRProcessing, err)
	}
	return &resp, nil
}

func (e *Extractor) do(req *http.Request) ([]byte, int, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// joinPages concatenates page markdown with the page separator inserted
// strictly between pages, and decodes embedded images when requested. Images
// with an empty payload are skipped silently.
func joinPages(pages []ocrPage, includeImages bool) (string, map[string][]byte) {
	var b strings.Builder
	images := make(map[string][]byte)

	for i, page := range pages {
		if i > 0 {
			b.WriteString(ocr.PageSeparator)
		}
		b.WriteString(page.Markdown)

		if !includeImages {
			continue
		}
		for _, img := range page.Images {
			payload := stripDataURLPrefix(img.ImageBase64)
			if payload == "" {
				continue
			}
			decoded, err := base64.StdEncoding.DecodeString(payload)
			if err != nil {
				log.Printf("mistral.Extract: skipping image %s: %v", img.ID, err)
				continue
			}
			images[img.ID] = decoded
		}
	}

	return b.String(), images
}

// stripDataURLPrefix removes a leading data:<mime>;base64, scheme prefix.
func stripDataURLPrefix(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

// synthesizeFileName builds an upload filename from the media type and the
// current time. Uniqueness is best-effort; the name is discarded after upload.
func synthesizeFileName(input port.ExtractInput) string {
	if input.FileName != "" {
		return input.FileName
	}
	ext := ".bin"
	switch input.ContentType {
	case "application/pdf":
		ext = ".pdf"
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	}
	return fmt.Sprintf("upload-%d%s", time.Now().UnixNano(), ext)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
