package asset

import (
	"testing"

	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			recs, skipped, err := Decode(c, "anlagen/solar.geojson", Solar, []byte(solarFC))
			require.NoError(t, err)
			assert.Equal(t, 1, skipped)
			require.Len(t, recs, 2)

			first := recs[0]
			assert.Equal(t, "SEE1", first.ID)
			assert.Equal(t, Solar, first.Category)
			assert.InDelta(t, 11.57, first.Lon(), 1e-9)
			assert.InDelta(t, 48.14, first.Lat(), 1e-9)
			assert.Nil(t, first.Storage)
			require.NotNil(t, first.Solar)
			require.NotNil(t, first.Solar.ModuleCount)
			assert.Equal(t, 12000.0, *first.Solar.ModuleCount)
			assert.NoError(t, first.Validate())

			assert.Equal(t, "Unnamed", recs[1].Name)
			assert.Nil(t, recs[1].Solar.Type)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, _, err := Decode(nil, "x", Solar, []byte(`{"features":`))
	assert.Error(t, err)

	_, _, err = Decode(nil, "x", Solar, []byte(`{"type":"Feature"}`))
	assert.Error(t, err)
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		err  error
	}{
		{"solar ok", Record{ID: "a", Category: Solar, Solar: &SolarInfo{}}, nil},
		{"bess ok", Record{ID: "b", Category: BESS, Storage: &Storage{}}, nil},
		{"solar without group", Record{ID: "c", Category: Solar}, ErrCategoryGroup},
		{"bess with solar group", Record{ID: "d", Category: BESS, Storage: &Storage{}, Solar: &SolarInfo{}}, ErrCategoryGroup},
		{"unknown category", Record{ID: "e", Category: "wind"}, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	neg := Record{ID: "f", Category: Solar, Solar: &SolarInfo{}, GrossPower: -1}
	assert.Error(t, neg.Validate())
}

func TestRecord_Field(t *testing.T) {
	solar, _, err := Decode(nil, "s", Solar, []byte(solarFC))
	require.NoError(t, err)
	bess, _, err := Decode(nil, "b", BESS, []byte(bessFC))
	require.NoError(t, err)

	v, ok := solar[0].Field("grossPower")
	require.True(t, ok)
	assert.Equal(t, 5000.0, v.Float())

	_, ok = solar[0].Field("storageCapacity")
	assert.False(t, ok)
	_, ok = solar[1].Field("moduleCount")
	assert.False(t, ok)

	v, ok = bess[0].Field("storageTechnology")
	require.True(t, ok)
	assert.Equal(t, "Batterie", v.Text())
	_, ok = bess[0].Field("solarType")
	assert.False(t, ok)

	isEmpty := filter.Rule{Field: "solarType", Operator: filter.IsEmpty}
	assert.False(t, filter.Evaluate(&solar[0], isEmpty))
	assert.True(t, filter.Evaluate(&solar[1], isEmpty))
	assert.True(t, filter.Evaluate(&bess[0], isEmpty))

	capacity := filter.Rule{Field: "storageCapacity", Operator: filter.GTE, Value: filter.Number(10000)}
	assert.True(t, filter.Evaluate(&bess[0], capacity))
	assert.False(t, filter.Evaluate(&solar[0], capacity))
}

func TestRecord_FieldMissingProperty(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"id":"x","type":"bess"}}]}`
	recs, _, err := Decode(nil, "b", BESS, []byte(data))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	_, ok := recs[0].Field("city")
	assert.False(t, ok)
	assert.False(t, filter.Evaluate(&recs[0], filter.Rule{Field: "city", Operator: filter.NotContains, Value: filter.String("x")}))
	assert.True(t, filter.Evaluate(&recs[0], filter.Rule{Field: "city", Operator: filter.IsEmpty}))

	v, ok := recs[0].Field("storageCapacity")
	require.True(t, ok)
	assert.Equal(t, 0.0, v.Float())
}
