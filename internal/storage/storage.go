package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrObjectNotFound is returned by BlobStore.Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore keeps attachment payloads addressed by an opaque key.
// Delete must succeed when the key is already gone.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that could escape the backend namespace
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("object key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || filepath.Base(key) != key {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
