package mistral_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/ocr/mistral"
	"inkwell/internal/port"
)

func testOCRConfig() *config.OCRConfig {
	return &config.OCRConfig{
		Provider:      "mistral",
		APIKey:        "test-ocr-key",
		Model:         "mistral-ocr-latest",
		IncludeImages: true,
		TimeoutSecs:   30,
	}
}

type fakeAPI struct {
	pages        []map[string]interface{}
	wantImages   bool
	uploadStatus int
	ocrStatus    int
	requests     int32
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.requests, 1)
		assert.Equal(t, "Bearer test-ocr-key", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/files":
			if f.uploadStatus != 0 {
				w.WriteHeader(f.uploadStatus)
				_, _ = w.Write([]byte(`{"message":"upload rejected"}`))
				return
			}
			require.NoError(t, r.ParseMultipartForm(32<<20))
			assert.Equal(t, "ocr", r.FormValue("purpose"))
			_, header, err := r.FormFile("file")
			require.NoError(t, err)
			assert.NotEmpty(t, header.Filename)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "file-123"})

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/files/file-123/url"):
			_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://signed.example/file-123"})

		case r.Method == http.MethodPost && r.URL.Path == "/ocr":
			if f.ocrStatus != 0 {
				w.WriteHeader(f.ocrStatus)
				_, _ = w.Write([]byte(`{"message":"processing failed"}`))
				return
			}
			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "mistral-ocr-latest", req["model"])
			assert.Equal(t, f.wantImages, req["include_image_base64"])
			doc := req["document"].(map[string]interface{})
			assert.Equal(t, "document_url", doc["type"])
			assert.Equal(t, "https://signed.example/file-123", doc["document_url"])
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"pages": f.pages})

		default:
			http.NotFound(w, r)
		}
	}
}

func TestExtract_JoinsPagesWithSeparator(t *testing.T) {
	api := &fakeAPI{wantImages: true, pages: []map[string]interface{}{
		{"index": 0, "markdown": "A"},
		{"index": 1, "markdown": "B"},
		{"index": 2, "markdown": "C"},
	}}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	e := mistral.NewExtractorWithBaseURL(testOCRConfig(), server.URL)
	result, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "A\n\n---\n\nB\n\n---\n\nC", result.Markdown)
	assert.Empty(t, result.Images)
}

func TestExtract_DecodesImagesAndStripsDataURLPrefix(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	api := &fakeAPI{wantImages: true, pages: []map[string]interface{}{
		{
			"index":    0,
			"markdown": "page with ![img-0.png](img-0.png)",
			"images": []map[string]string{
				{"id": "img-0.png", "image_base64": "data:image/png;base64," + payload},
				{"id": "img-1.png", "image_base64": payload},
				{"id": "img-2.png", "image_base64": ""},
			},
		},
	}}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	e := mistral.NewExtractorWithBaseURL(testOCRConfig(), server.URL)
	result, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Len(t, result.Images, 2)
	assert.Equal(t, []byte("png-bytes"), result.Images["img-0.png"])
	assert.Equal(t, []byte("png-bytes"), result.Images["img-1.png"])
	assert.NotContains(t, result.Images, "img-2.png")
}

func TestExtract_SkipsImagesWhenDisabled(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	api := &fakeAPI{pages: []map[string]interface{}{
		{"index": 0, "markdown": "text", "images": []map[string]string{{"id": "img-0", "image_base64": payload}}},
	}}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	cfg := testOCRConfig()
	cfg.IncludeImages = false
	e := mistral.NewExtractorWithBaseURL(cfg, server.URL)
	result, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Images)
}

func TestExtract_MissingAPIKey_NoNetworkCalls(t *testing.T) {
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	cfg := testOCRConfig()
	cfg.APIKey = ""
	e := mistral.NewExtractorWithBaseURL(cfg, server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("data"),
		ContentType: "image/png",
	})

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.requests))
}

func TestExtract_UploadFailure(t *testing.T) {
	api := &fakeAPI{uploadStatus: http.StatusBadRequest}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	e := mistral.NewExtractorWithBaseURL(testOCRConfig(), server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("data"),
		ContentType: "image/png",
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Contains(t, err.Error(), "upload rejected")
}

func TestExtract_UploadWithoutFileID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"object": "file"})
	}))
	defer server.Close()

	e := mistral.NewExtractorWithBaseURL(testOCRConfig(), server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("data"),
		ContentType: "image/png",
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestExtract_ProcessingFailure(t *testing.T) {
	api := &fakeAPI{ocrStatus: http.StatusInternalServerError}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	e := mistral.NewExtractorWithBaseURL(testOCRConfig(), server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("data"),
		ContentType: "image/png",
	})

	assert.ErrorIs(t, err, domain.ErrOCRProcessing)
	assert.Contains(t, err.Error(), "processing failed")
	assert.NotErrorIs(t, err, domain.ErrUploadFailed)
}

func TestExtract_EmptyResult(t *testing.T) {
	api := &fakeAPI{wantImages: true, pages: []map[string]interface{}{
		{"index": 0, "markdown": "   \n\t"},
	}}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	e := mistral.NewExtractorWithBaseURL(testOCRConfig(), server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("data"),
		ContentType: "image/png",
	})

	assert.True(t, errors.Is(err, domain.ErrEmptyOCRResult))
}
