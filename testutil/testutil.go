package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Germany is the rough extent synthetic coordinates are drawn from.
var Germany = spatial.BBox{5.87, 47.27, 15.04, 55.06}

// RNG wraps a seeded random source. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Range returns a pseudo-random float in [minVal,maxVal).
func (r *RNG) Range(minVal, maxVal float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return minVal + r.rand.Float64()*(maxVal-minVal)
}

// Point returns a random point inside Germany.
func (r *RNG) Point() orb.Point {
	return orb.Point{r.Range(Germany[0], Germany[2]), r.Range(Germany[1], Germany[3])}
}

// BBox returns a random box inside Germany at most maxSpan degrees wide.
func (r *RNG) BBox(maxSpan float64) spatial.BBox {
	p := r.Point()
	w, h := r.Range(0.01, maxSpan), r.Range(0.01, maxSpan)
	return spatial.BBox{p[0], p[1], min(p[0]+w, Germany[2]), min(p[1]+h, Germany[3])}
}

// Tags returns one of the four voltage tag combinations.
func (r *RNG) Tags() []spatial.Tag {
	switch r.Intn(4) {
	case 0:
		return []spatial.Tag{spatial.TagMittelspannung, spatial.TagNiederspannung}
	case 1:
		return []spatial.Tag{spatial.TagMittelspannung}
	case 2:
		return []spatial.Tag{spatial.TagNiederspannung}
	default:
		return []spatial.Tag{}
	}
}

// Records returns n index records with ids "1".."n". Every tenth record
// has an unknown bounding box.
func (r *RNG) Records(n int) []spatial.Record {
	out := make([]spatial.Record, n)
	for i := range out {
		id := fmt.Sprint(i + 1)
		rec := spatial.Record{
			ID:           id,
			VNBID:        fmt.Sprintf("SNB%05d", i+1),
			Name:         fmt.Sprintf("Netzbetreiber %04d", i+1),
			VoltageTypes: r.Tags(),
			BBox:         r.BBox(1),
			Area:         r.Range(1e6, 2e9),
			FileName:     id + ".geojson",
		}
		if i%10 == 9 {
			rec.BBox = spatial.BBox{}
		}
		out[i] = rec
	}
	return out
}

// Polygon returns a geometry file holding the rectangle b.
func Polygon(b spatial.BBox, props geojson.Properties) []byte {
	f := geojson.NewFeature(b.Bound().ToPolygon())
	f.Properties = props
	fc := geojson.NewFeatureCollection().Append(f)
	data, err := fc.MarshalJSON()
	if err != nil {
		panic(err)
	}
	return data
}

// Assets returns an asset file with n point features of category c.
func (r *RNG) Assets(c asset.Category, n int) []byte {
	fc := geojson.NewFeatureCollection()
	for i := range n {
		power := r.Range(1, 50000)
		f := geojson.NewFeature(r.Point())
		f.Properties = geojson.Properties{
			"id":         fmt.Sprintf("SEE%09d", i+1),
			"name":       fmt.Sprintf("Anlage %d", i+1),
			"type":       string(c),
			"status":     "In Betrieb",
			"grossPower": power,
			"netPower":   power * 0.95,
			"bundesland": "Bayern",
		}
		switch c {
		case asset.BESS:
			f.Properties["storageTechnology"] = "Batterie"
			f.Properties["storageCapacity"] = power * 2
		case asset.Solar:
			f.Properties["solarType"] = "Freifläche"
			f.Properties["moduleCount"] = float64(r.Intn(20000))
		}
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		panic(err)
	}
	return data
}

// Index encodes records as an index document.
func Index(records []spatial.Record) []byte {
	data, err := json.Marshal(spatial.NewDocument(records))
	if err != nil {
		panic(err)
	}
	return data
}

// NewStore returns a memory store holding the index of records and one
// geometry file per record with a known bounding box.
func NewStore(tb testing.TB, records []spatial.Record) *blobstore.MemoryStore {
	tb.Helper()
	ctx := context.Background()
	ms := blobstore.NewMemoryStore()
	put := func(name string, data []byte) {
		if err := ms.Put(ctx, name, data); err != nil {
			tb.Fatalf("put %s: %v", name, err)
		}
	}

	put(spatial.DefaultResource, Index(records))
	for _, rec := range records {
		if rec.BBox.IsUnknown() {
			continue
		}
		put("vnb/full/"+rec.FileName, Polygon(rec.BBox, geojson.Properties{"vnbName": rec.Name}))
	}
	return ms
}
