package testutil

import (
	"context"
	"testing"

	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42).Records(20)
	b := NewRNG(42).Records(20)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), NewRNG(42).Seed())

	for i, r := range a {
		if i%10 == 9 {
			assert.True(t, r.BBox.IsUnknown())
			continue
		}
		require.NoError(t, r.BBox.Validate())
		assert.GreaterOrEqual(t, r.BBox[0], Germany[0])
		assert.LessOrEqual(t, r.BBox[3], Germany[3])
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	records := NewRNG(1).Records(10)
	ms := NewStore(t, records)

	s := spatial.New(ms)
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	data, err := blobstore.ReadAll(ctx, ms, "vnb/full/1.geojson")
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, records[0].Name, fc.Features[0].Properties["vnbName"])

	_, err = blobstore.ReadAll(ctx, ms, "vnb/full/10.geojson")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestAssets(t *testing.T) {
	rng := NewRNG(7)
	for _, c := range asset.Categories {
		records, skipped, err := asset.Decode(codec.Default, "test", c, rng.Assets(c, 25))
		require.NoError(t, err)
		assert.Zero(t, skipped)
		assert.Len(t, records, 25)
	}
}
