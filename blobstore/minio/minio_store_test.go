package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-vnbgeo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte(`{"vnbs":[],"totalCount":0}`)
	require.NoError(t, store.Put(ctx, "vnb/index.json", data))

	got, err := blobstore.ReadAll(ctx, store, "vnb/index.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "vnb/")
	require.NoError(t, err)
	assert.Contains(t, names, "vnb/index.json")

	require.NoError(t, store.Delete(ctx, "vnb/index.json"))
	_, err = store.Open(ctx, "vnb/index.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/geo+json", contentType("admin/kreise.geojson"))
	assert.Equal(t, "application/json", contentType("vnb/index.json"))
	assert.Equal(t, "application/octet-stream", contentType("x.geojson.gz"))
}
