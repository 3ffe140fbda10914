package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/ocr"
	"inkwell/internal/port"
)

// Extractor implements port.OCRExtractor with a local Tesseract engine.
// PDF payloads are rasterized page by page with MuPDF; image payloads are
// recognized directly. Embedded-image extraction is a remote-provider
// feature and is not available here, so Images is always empty.
type Extractor struct {
	language      string
	clientFactory func() *gosseract.Client
}

// NewExtractor creates a Tesseract-backed OCR extractor.
func NewExtractor(cfg *config.OCRConfig) *Extractor {
	lang := cfg.TessLanguage
	if lang == "" {
		lang = "eng"
	}
	return &Extractor{
		language:      lang,
		clientFactory: gosseract.NewClient,
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.OCRResult, error) {
	var pageImages [][]byte

	if input.ContentType == "application/pdf" {
		imgs, err := rasterize(input.FileBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrOCRProcessing, err)
		}
		pageImages = imgs
	} else {
		pageImages = [][]byte{input.FileBytes}
	}

	texts := make([]string, 0, len(pageImages))
	for i, img := range pageImages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		text, err := e.recognize(img)
		if err != nil {
			return nil, fmt.Errorf("%w: recognizing page %d: %v", domain.ErrOCRProcessing, i, err)
		}
		texts = append(texts, text)
	}

	markdown := strings.TrimSpace(strings.Join(texts, ocr.PageSeparator))
	if markdown == "" {
		return nil, domain.ErrEmptyOCRResult
	}

	return &port.OCRResult{Markdown: markdown, Images: map[string][]byte{}}, nil
}

func (e *Extractor) recognize(imageBytes []byte) (string, error) {
	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	if err := c.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// rasterize renders each PDF page to a PNG image.
func rasterize(pdfBytes []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer func() { _ = doc.Close() }()

	pages := make([][]byte, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", n, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", n, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}
