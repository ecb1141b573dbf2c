package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	data := []byte(`{"type":"FeatureCollection","features":[]}`)
	require.NoError(t, store.Put(ctx, "vnb/full/a.geojson", data))

	// Verify file exists on disk
	_, err := os.Stat(filepath.Join(tmpDir, "vnb", "full", "a.geojson"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, "vnb/full/a.geojson")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())
	require.NoError(t, blob.Close())

	got, err := ReadAll(ctx, store, "vnb/full/a.geojson")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Put(ctx, "vnb/index.json", []byte("{}")))
	names, err := store.List(ctx, "vnb/")
	require.NoError(t, err)
	assert.Equal(t, []string{"vnb/full/a.geojson", "vnb/index.json"}, names)

	names, err = store.List(ctx, "vnb/full/")
	require.NoError(t, err)
	assert.Equal(t, []string{"vnb/full/a.geojson"}, names)

	require.NoError(t, store.Delete(ctx, "vnb/full/a.geojson"))
	require.NoError(t, store.Delete(ctx, "vnb/full/a.geojson"))

	_, err = store.Open(ctx, "vnb/full/a.geojson")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_OpenDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "admin"), 0o755))

	_, err := NewLocalStore(tmpDir).Open(context.Background(), "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	names, err := NewLocalStore(filepath.Join(t.TempDir(), "nope")).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
