package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/port"
)

// localStore is a filesystem-backed ObjectStorage for single-node deployments
// and development. Buckets map to subdirectories under root; presigned URLs
// degrade to plain file paths.
type localStore struct {
	root string
}

// NewLocalStore creates a filesystem-backed ObjectStorage rooted at
// cfg.LocalRoot.
func NewLocalStore(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	root := cfg.LocalRoot
	if root == "" {
		return nil, fmt.Errorf("local storage root is not configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &localStore{root: root}, nil
}

func (s *localStore) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	path, err := s.objectPath(input.Bucket, input.Key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating object directory: %v", domain.ErrStorageFailed, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: creating object file: %v", domain.ErrStorageFailed, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, input.Body); err != nil {
		return nil, fmt.Errorf("%w: writing object: %v", domain.ErrStorageFailed, err)
	}

	return &port.UploadOutput{Location: path}, nil
}

func (s *localStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading object %s: %v", domain.ErrStorageFailed, key, err)
	}
	return data, nil
}

func (s *localStore) Delete(ctx context.Context, bucket, key string) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing object %s: %v", domain.ErrStorageFailed, key, err)
	}
	return nil
}

// GetPresignedURL returns the object's path on disk. There is no access
// control to enforce locally, so the path itself is the handle.
func (s *localStore) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: object %s: %v", domain.ErrStorageFailed, key, err)
	}
	return path, nil
}

// objectPath maps bucket/key onto the filesystem and rejects keys that would
// escape the root.
func (s *localStore) objectPath(bucket, key string) (string, error) {
	path := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	rootPrefix := filepath.Clean(s.root) + string(filepath.Separator)
	if !strings.HasPrefix(filepath.Clean(path), rootPrefix) {
		return "", fmt.Errorf("%w: invalid object key %q", domain.ErrStorageFailed, key)
	}
	return path, nil
}
