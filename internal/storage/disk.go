package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore writes media to a local directory. It is the default backend in
// development and for single-host deployments; the media dir is served by
// the HTTP layer under the configured base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

func (s *DiskStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// objectName comes from ObjectName so it has no path separators, but a
	// filepath.Base here keeps a hostile caller inside the media dir anyway.
	name := filepath.Base(objectName)
	dest := filepath.Join(s.dir, name)

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(dest)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}
