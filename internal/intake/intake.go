// Package intake accepts uploaded files and hands back stored-file
// descriptors. Estate records embed the descriptor; the bytes live behind a
// BlobStore implementation (local disk or object storage).
package intake

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"legado/pkg/requestcontext"
)

// StoredFile is the descriptor returned after a file is accepted.
type StoredFile struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// BlobStore persists uploaded file content.
type BlobStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error)
}

// objectKey builds the storage name for an upload: epoch millis prefix plus
// the original base name. Collisions within one millisecond are accepted,
// matching the original naming scheme.
func objectKey(now time.Time, originalName string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), filepath.Base(originalName))
}

func nowFromContext(ctx context.Context) time.Time {
	return requestcontext.Now(ctx)
}
