package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	valid := []string{"abc_resume.pdf", "0f8c_photo.png"}
	for _, key := range valid {
		assert.NoError(t, ValidateKey(key), key)
	}

	invalid := []string{"", "  ", "..", ".", "../etc/passwd", "dir/file.txt", `dir\file.txt`}
	for _, key := range invalid {
		assert.Error(t, ValidateKey(key), key)
	}
}

func exerciseBlobStore(t *testing.T, store BlobStore) {
	ctx := context.Background()

	payload := []byte{0x00, 0x01, 0xFE, 0xFF, 'h', 'i'}
	require.NoError(t, store.Put(ctx, "k_cv.pdf", payload))

	got, err := store.Get(ctx, "k_cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, store.Put(ctx, "k_cv.pdf", []byte("second")))
	got, err = store.Get(ctx, "k_cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	require.NoError(t, store.Delete(ctx, "k_cv.pdf"))
	require.NoError(t, store.Delete(ctx, "k_cv.pdf"))

	_, err = store.Get(ctx, "k_cv.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.Error(t, store.Put(ctx, "../escape", payload))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseBlobStore(t, store)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreCopiesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "key", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "key")
	require.NoError(t, err)
	got[1] = 'z'

	again, _ := store.Get(ctx, "key")
	assert.Equal(t, []byte("abc"), again)
}

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "files")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	exerciseBlobStore(t, store)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must not be left behind")
}

func TestNewLocalStoreRequiresDir(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Error(t, err)
}

func TestS3ConfigEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws default", S3Config{Provider: S3ProviderAWS, Region: "us-east-1"}, ""},
		{"wasabi region", S3Config{Provider: S3ProviderWasabi, Region: "eu-central-1"}, "https://s3.eu-central-1.wasabisys.com"},
		{"wasabi unknown region", S3Config{Provider: S3ProviderWasabi, Region: "mars-1"}, "https://s3.wasabisys.com"},
		{"explicit host", S3Config{Provider: S3ProviderAWS, Endpoint: "minio.local:9000"}, "https://minio.local:9000"},
		{"explicit url", S3Config{Endpoint: "http://localhost:9000"}, "http://localhost:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.resolveEndpoint())
		})
	}
}
