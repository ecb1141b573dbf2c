package state

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/hupe1980/vnbgeo/geometry"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb/geojson"
)

const (
	MinZoom     = 0
	MaxZoom     = 18
	DefaultZoom = 6
)

// DefaultCenter is the geographic centroid of Germany.
var DefaultCenter = LatLng{51.1657, 10.4515}

// GermanyBounds is the initial fit rectangle of the map.
var GermanyBounds = LatLngBounds{SouthWest: LatLng{47.27, 5.87}, NorthEast: LatLng{55.1, 15.04}}

// LayerID names a toggleable map layer.
type LayerID string

const (
	LayerVNB           LayerID = "vnb"
	LayerBundeslaender LayerID = LayerID(admin.Bundeslaender)
	LayerKreise        LayerID = LayerID(admin.Kreise)
	LayerGemeinden     LayerID = LayerID(admin.Gemeinden)
	LayerSolar         LayerID = "anlagen_solar"
	LayerBESS          LayerID = "anlagen_bess"
)

// LayerIDs lists all layers.
var LayerIDs = []LayerID{LayerVNB, LayerBundeslaender, LayerKreise, LayerGemeinden, LayerSolar, LayerBESS}

// ErrUnknownLayer is returned for layer ids not in LayerIDs.
var ErrUnknownLayer = errors.New("state: unknown layer")

// AdminLayer returns the boundary layer behind id.
func (id LayerID) AdminLayer() (admin.Layer, bool) {
	l := admin.Layer(id)
	return l, l.Valid()
}

// AssetCategory returns the asset category behind id.
func (id LayerID) AssetCategory() (asset.Category, bool) {
	switch id {
	case LayerSolar:
		return asset.Solar, true
	case LayerBESS:
		return asset.BESS, true
	}
	return "", false
}

// ParseLayerID validates s as a layer id.
func ParseLayerID(s string) (LayerID, error) {
	for _, id := range LayerIDs {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// LatLng is a (lat, lon) pair.
type LatLng [2]float64

// LatLngBounds is a visible map rectangle.
type LatLngBounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// BBox converts b to a (minLon, minLat, maxLon, maxLat) box.
func (b LatLngBounds) BBox() spatial.BBox {
	return spatial.BBox{b.SouthWest[1], b.SouthWest[0], b.NorthEast[1], b.NorthEast[0]}
}

// Viewport is the visible map region.
type Viewport struct {
	Center LatLng        `json:"center"`
	Zoom   int           `json:"zoom"`
	Bounds *LatLngBounds `json:"bounds"`
}

// ViewportUpdate is a partial viewport change; nil fields are kept.
type ViewportUpdate struct {
	Center *LatLng       `json:"center,omitempty"`
	Zoom   *int          `json:"zoom,omitempty"`
	Bounds *LatLngBounds `json:"bounds,omitempty"`
}

// ClampZoom bounds z to [MinZoom, MaxZoom].
func ClampZoom(z int) int {
	return min(max(z, MinZoom), MaxZoom)
}

// Filters are the active record filters.
type Filters struct {
	VoltageTypes []spatial.Tag `json:"voltageTypes"`
	SearchQuery  string        `json:"searchQuery"`
	AssetRules   []filter.Rule `json:"assetRules"`
}

// FiltersUpdate is a partial filter change; nil fields are kept.
type FiltersUpdate struct {
	VoltageTypes *[]spatial.Tag `json:"voltageTypes,omitempty"`
	SearchQuery  *string        `json:"searchQuery,omitempty"`
}

// State is an immutable snapshot. Callers must not modify its maps or slices.
type State struct {
	Viewport   Viewport                                   `json:"viewport"`
	Visibility map[LayerID]bool                           `json:"visibility"`
	Filters    Filters                                    `json:"filters"`
	Selected   string                                     `json:"selected,omitempty"`
	Index      []spatial.Record                           `json:"-"`
	Admin      map[admin.Layer]*geojson.FeatureCollection `json:"-"`
	Assets     map[asset.Category][]asset.Record          `json:"-"`
	Geometry   *geometry.Cache                            `json:"-"`
	Loading    map[string]bool                            `json:"loading"`
}

// Default returns the initial snapshot.
func Default() *State {
	return &State{
		Viewport: Viewport{Center: DefaultCenter, Zoom: DefaultZoom},
		Visibility: map[LayerID]bool{
			LayerVNB:           true,
			LayerBundeslaender: true,
			LayerKreise:        false,
			LayerGemeinden:     false,
			LayerSolar:         true,
			LayerBESS:          true,
		},
		Filters: Filters{VoltageTypes: []spatial.Tag{}, AssetRules: []filter.Rule{}},
		Admin:   map[admin.Layer]*geojson.FeatureCollection{},
		Assets:  map[asset.Category][]asset.Record{},
		Loading: map[string]bool{},
	}
}

// Visible reports the visibility flag of id.
func (s *State) Visible(id LayerID) bool {
	return s.Visibility[id]
}

// AdminVisibility returns the visibility flags of the boundary layers.
func (s *State) AdminVisibility() map[admin.Layer]bool {
	out := make(map[admin.Layer]bool, len(admin.Layers))
	for _, l := range admin.Layers {
		out[l] = s.Visibility[LayerID(l)]
	}
	return out
}

// IsLoading reports the loading flag of a resource.
func (s *State) IsLoading(resource string) bool {
	return s.Loading[resource]
}
