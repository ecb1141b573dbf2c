package indexbuild

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, s *blobstore.MemoryStore, name, data string) {
	t.Helper()
	require.NoError(t, s.Put(context.Background(), name, []byte(data)))
}

func TestEntry(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want spatial.Record
	}{
		{
			name: "flat properties and feature bbox",
			file: "a.geojson",
			data: `{"type":"FeatureCollection","features":[{"type":"Feature","id":"F1","bbox":[1,2,3,4],
				"geometry":{"type":"Point","coordinates":[2,3]},
				"properties":{"vnbName":"Ätna Netz","vnbId":"SNB1","voltageTypes":"Mittelspannung, Niederspannung","geometryArea":1500}}]}`,
			want: spatial.Record{ID: "F1", VNBID: "SNB1", Name: "Ätna Netz",
				VoltageTypes: []spatial.Tag{spatial.TagMittelspannung, spatial.TagNiederspannung},
				BBox:         spatial.BBox{1, 2, 3, 4}, Area: 1500, FileName: "a.geojson"},
		},
		{
			name: "prefixed properties and computed bbox",
			file: "b.geojson",
			data: `{"type":"FeatureCollection","features":[{"type":"Feature",
				"geometry":{"type":"Polygon","coordinates":[[[5,6],[7,6],[7,8],[5,6]]]},
				"properties":{"_id":"X9","vnbName":"Netz B","properties.vnbId":"SNB2","properties.voltageTypes":["Niederspannung"],"properties.geometryArea":42}}]}`,
			want: spatial.Record{ID: "X9", VNBID: "SNB2", Name: "Netz B",
				VoltageTypes: []spatial.Tag{spatial.TagNiederspannung},
				BBox:         spatial.BBox{5, 6, 7, 8}, Area: 42, FileName: "b.geojson"},
		},
		{
			name: "fallbacks",
			file: "c.geojson.gz",
			data: `{"type":"FeatureCollection","bbox":[0,1,2,3],"features":[{"type":"Feature","geometry":null,"properties":{}}]}`,
			want: spatial.Record{ID: "c", Name: "Unknown", VoltageTypes: []spatial.Tag{},
				BBox: spatial.BBox{0, 1, 2, 3}, FileName: "c.geojson.gz"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Entry(tt.file, []byte(tt.data))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("Entry() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntry_Errors(t *testing.T) {
	_, err := Entry("x.geojson", []byte(`{"type":"FeatureCollection","features":[]}`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Entry("x.geojson", []byte(`not json`))
	assert.Error(t, err)
}

func TestBuildAndWrite(t *testing.T) {
	ctx := context.Background()
	src := blobstore.NewMemoryStore()
	put(t, src, "vnbs/z.geojson", `{"type":"FeatureCollection","features":[{"type":"Feature","id":"z","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"vnbName":"Zeta","voltageTypes":"Mittelspannung"}}]}`)
	put(t, src, "vnbs/o.geojson", `{"type":"FeatureCollection","features":[{"type":"Feature","id":"o","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"vnbName":"Öko Netz","voltageTypes":"Niederspannung"}}]}`)
	put(t, src, "vnbs/a.geojson", `{"type":"FeatureCollection","features":[{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"vnbName":"Alpha","voltageTypes":"Mittelspannung"}}]}`)
	put(t, src, "vnbs/broken.geojson", `{`)
	put(t, src, "vnbs/readme.txt", `ignored`)

	doc, report, err := Build(ctx, src, "vnbs/", WithConcurrency(2))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Files)
	assert.Equal(t, 3, report.Indexed)
	assert.Contains(t, report.Skipped, "vnbs/broken.geojson")

	names := make([]string, len(doc.VNBs))
	for i, r := range doc.VNBs {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Alpha", "Öko Netz", "Zeta"}, names)
	assert.Equal(t, 3, doc.TotalCount)
	assert.Equal(t, []string{"a", "z"}, doc.ByVoltageType[spatial.TagMittelspannung])
	assert.Equal(t, []string{"o"}, doc.ByVoltageType[spatial.TagNiederspannung])

	for _, name := range []string{"vnb/index.json", "vnb/index.json.zst"} {
		require.NoError(t, Write(ctx, src, name, doc))

		store := spatial.New(src, spatial.WithResource(name))
		records, err := store.Load(ctx)
		require.NoError(t, err, name)
		assert.Len(t, records, 3)
	}
}
