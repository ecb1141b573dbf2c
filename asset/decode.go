package asset

import (
	"fmt"

	"github.com/hupe1980/vnbgeo/codec"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type wireCollection struct {
	Type     string        `json:"type"`
	Features []wireFeature `json:"features"`
}

type wireFeature struct {
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties wireProperties    `json:"properties"`
}

type wireProperties struct {
	ID                *string  `json:"id"`
	Name              *string  `json:"name"`
	Type              *string  `json:"type"`
	Status            *string  `json:"status"`
	GrossPower        *float64 `json:"grossPower"`
	NetPower          *float64 `json:"netPower"`
	Bundesland        *string  `json:"bundesland"`
	City              *string  `json:"city"`
	PostalCode        *string  `json:"postalCode"`
	Operator          *string  `json:"operator"`
	CommissioningDate *string  `json:"commissioningDate"`
	StorageTechnology *string  `json:"storageTechnology"`
	StorageCapacity   *float64 `json:"storageCapacity"`
	SolarType         *string  `json:"solarType"`
	ModuleCount       *float64 `json:"moduleCount"`
}

// Decode parses an asset FeatureCollection. Features are assigned to
// category; features without a point geometry or that fail validation are
// skipped and counted.
func Decode(c codec.Codec, resource string, category Category, data []byte) ([]Record, int, error) {
	var fc wireCollection
	if err := codec.Decode(c, resource, data, &fc); err != nil {
		return nil, 0, err
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, 0, fmt.Errorf("asset: %s: unexpected type %q", resource, fc.Type)
	}

	out := make([]Record, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		rec, ok := f.record(category)
		if !ok || rec.Validate() != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

func (f wireFeature) record(category Category) (Record, bool) {
	if f.Geometry == nil {
		return Record{}, false
	}
	pt, ok := f.Geometry.Coordinates.(orb.Point)
	if !ok {
		return Record{}, false
	}

	p := f.Properties
	absent := make(map[string]bool)
	str := func(key string, v *string) string {
		if v == nil {
			absent[key] = true
			return ""
		}
		return *v
	}
	num := func(key string, v *float64) float64 {
		if v == nil {
			absent[key] = true
			return 0
		}
		return *v
	}

	rec := Record{
		ID:                str("id", p.ID),
		Name:              "Unnamed",
		Category:          category,
		Status:            str("status", p.Status),
		GrossPower:        num("grossPower", p.GrossPower),
		NetPower:          num("netPower", p.NetPower),
		Bundesland:        str("bundesland", p.Bundesland),
		City:              str("city", p.City),
		PostalCode:        str("postalCode", p.PostalCode),
		Operator:          str("operator", p.Operator),
		CommissioningDate: str("commissioningDate", p.CommissioningDate),
		Location:          pt,
	}
	if p.Name != nil && *p.Name != "" {
		rec.Name = *p.Name
	}

	switch category {
	case BESS:
		rec.Storage = &Storage{Technology: p.StorageTechnology}
		if p.StorageCapacity != nil {
			rec.Storage.Capacity = *p.StorageCapacity
		}
	case Solar:
		rec.Solar = &SolarInfo{Type: p.SolarType, ModuleCount: p.ModuleCount}
	}

	if len(absent) > 0 {
		rec.absent = absent
	}
	return rec, true
}
