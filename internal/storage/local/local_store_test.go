package local_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/port"
	"inkwell/internal/storage/local"
)

func newStore(t *testing.T) port.ObjectStorage {
	t.Helper()
	s, err := local.NewLocalStore(&config.StorageConfig{LocalRoot: t.TempDir()})
	require.NoError(t, err)
	return s
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, port.UploadInput{
		Bucket:      "documents",
		Key:         "jobs/abc/scan.pdf",
		Body:        strings.NewReader("pdf bytes"),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)

	data, err := s.Download(ctx, "documents", "jobs/abc/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestUpload_OverwritesExisting(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second"} {
		_, err := s.Upload(ctx, port.UploadInput{
			Bucket: "b", Key: "k.txt", Body: strings.NewReader(content),
		})
		require.NoError(t, err)
	}

	data, err := s.Download(ctx, "b", "k.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDownload_Missing(t *testing.T) {
	s := newStore(t)
	_, err := s.Download(context.Background(), "b", "missing.txt")
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
}

func TestDelete_IsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, port.UploadInput{Bucket: "b", Key: "k", Body: strings.NewReader("x")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "b", "k"))
	require.NoError(t, s.Delete(ctx, "b", "k"))

	_, err = s.Download(ctx, "b", "k")
	assert.Error(t, err)
}

func TestGetPresignedURL_ReturnsPath(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, port.UploadInput{Bucket: "b", Key: "img.png", Body: strings.NewReader("png")})
	require.NoError(t, err)

	url, err := s.GetPresignedURL(ctx, "b", "img.png", 3600)
	require.NoError(t, err)
	assert.Contains(t, url, "img.png")

	_, err = s.GetPresignedURL(ctx, "b", "other.png", 3600)
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
}

func TestObjectKeyEscapeRejected(t *testing.T) {
	s := newStore(t)
	_, err := s.Download(context.Background(), "b", "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
}
