// Package filestore stores uploaded files (documents, templates, work order attachments).
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned (wrapped) when no object exists under a key.
var ErrNotFound = errors.New("file not found")

// Store is a flat object store addressed by slash-separated keys.
type Store interface {
	// Put writes the content of r under key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Open returns a reader for the object under key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by stores that can hand out time-limited download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// NewKey builds a unique key for an uploaded file below prefix, keeping the file's extension.
func NewKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(sanitize(fileName)))
	return prefix + "/" + uuid.New().String() + ext
}

// sanitize reduces an uploaded file name to its last path element.
func sanitize(fileName string) string {
	fileName = strings.ReplaceAll(fileName, `\`, "/")
	base := path.Base(fileName)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// BaseName returns the display name of an uploaded file, without any directory part.
func BaseName(fileName string) string {
	return sanitize(fileName)
}

// validKey rejects keys that could escape the store root.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid file key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid file key %q", key)
		}
	}
	return nil
}
