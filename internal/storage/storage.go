// Package storage abstracts where uploaded media bytes land. The server
// picks a backend at startup from config; handlers only see BlobStore.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore persists an uploaded object and returns the URL clients use to
// fetch it back. Implementations must not interpret the object contents.
type BlobStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// ObjectName derives a collision-free object name from an uploaded filename.
// The original base name is kept for debuggability; the uuid prefix carries
// the uniqueness.
func ObjectName(filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return fmt.Sprintf("%s-%s", uuid.NewString(), base)
}
