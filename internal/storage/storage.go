// Package storage archives the raw bytes of uploaded documents in an
// S3-compatible object store. The archive is a secondary copy; the
// authoritative payload is the data URI inside the serialized record.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// PutObjectOptions describes an object being written. Size is the exact
// byte count, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an archived object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the archive client. Implementations stream and never touch local disk.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns the object body; the caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// ArchiveKey returns the object key for a document:
// documents/<parentID>/<docID>/<fileName>. Path separators in fileName are
// flattened so a name can never escape its prefix.
func ArchiveKey(parentID, docID, fileName string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return path.Join("documents", parentID, docID, name)
}
