package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "blob-1", "image/png", bytes.NewReader([]byte("hello"))))

	rc, err := store.Get(ctx, "blob-1")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(ctx, "blob-1"))

	_, err = store.Get(ctx, "blob-1")
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "blob-1"), ErrBlobNotFound)
}

func TestLocalStoreKeySanitization(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	// path-like keys collapse to their base name instead of escaping the dir
	require.NoError(t, store.Put(ctx, "../escape", "text/plain", bytes.NewReader([]byte("x"))))

	rc, err := store.Get(ctx, "escape")
	require.NoError(t, err)
	rc.Close()
}
