package asset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vnbgeo/filter"
	"github.com/paulmach/orb"
)

// Category is an asset class.
type Category string

const (
	Solar Category = "solar"
	BESS  Category = "bess"
)

// Categories lists all asset classes.
var Categories = []Category{Solar, BESS}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == Solar || c == BESS
}

// LayerID is the visibility flag name of the category's map layer.
func (c Category) LayerID() string {
	return "anlagen_" + string(c)
}

// Storage holds the fields only battery storage assets carry.
type Storage struct {
	Technology *string `json:"storageTechnology"`
	Capacity   float64 `json:"storageCapacity"`
}

// SolarInfo holds the fields only solar assets carry.
type SolarInfo struct {
	Type        *string  `json:"solarType"`
	ModuleCount *float64 `json:"moduleCount"`
}

// Record is a single power asset.
type Record struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          Category `json:"type"`
	Status            string   `json:"status"`
	GrossPower        float64  `json:"grossPower"`
	NetPower          float64  `json:"netPower"`
	Bundesland        string   `json:"bundesland"`
	City              string   `json:"city"`
	PostalCode        string   `json:"postalCode"`
	Operator          string   `json:"operator"`
	CommissioningDate string   `json:"commissioningDate"`

	Storage *Storage   `json:"storage,omitempty"`
	Solar   *SolarInfo `json:"solar,omitempty"`

	// Location is (lon, lat).
	Location orb.Point `json:"location"`

	absent map[string]bool
}

var (
	ErrInvalidCategory = errors.New("asset: invalid category")
	ErrCategoryGroup   = errors.New("asset: category fields do not match category")
)

// Validate checks that exactly the category's own field group is populated.
func (r *Record) Validate() error {
	switch r.Category {
	case Solar:
		if r.Solar == nil || r.Storage != nil {
			return fmt.Errorf("%w: %s record %s", ErrCategoryGroup, r.Category, r.ID)
		}
	case BESS:
		if r.Storage == nil || r.Solar != nil {
			return fmt.Errorf("%w: %s record %s", ErrCategoryGroup, r.Category, r.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	if r.GrossPower < 0 || r.NetPower < 0 {
		return fmt.Errorf("asset: negative power on %s", r.ID)
	}
	return nil
}

// Field implements filter.Record. Fields of the other category and fields
// missing from the source data are absent.
func (r *Record) Field(key string) (filter.Value, bool) {
	if r.absent[key] {
		return filter.Value{}, false
	}

	switch key {
	case "id":
		return filter.String(r.ID), true
	case "name":
		return filter.String(r.Name), true
	case "type":
		return filter.String(string(r.Category)), true
	case "status":
		return filter.String(r.Status), true
	case "grossPower":
		return filter.Number(r.GrossPower), true
	case "netPower":
		return filter.Number(r.NetPower), true
	case "bundesland":
		return filter.String(r.Bundesland), true
	case "city":
		return filter.String(r.City), true
	case "postalCode":
		return filter.String(r.PostalCode), true
	case "operator":
		return filter.String(r.Operator), true
	case "commissioningDate":
		return filter.String(r.CommissioningDate), true
	case "storageTechnology":
		if r.Storage != nil {
			return optString(r.Storage.Technology)
		}
	case "storageCapacity":
		if r.Storage != nil {
			return filter.Number(r.Storage.Capacity), true
		}
	case "solarType":
		if r.Solar != nil {
			return optString(r.Solar.Type)
		}
	case "moduleCount":
		if r.Solar != nil && r.Solar.ModuleCount != nil {
			return filter.Number(*r.Solar.ModuleCount), true
		}
	}
	return filter.Value{}, false
}

func optString(s *string) (filter.Value, bool) {
	if s == nil {
		return filter.Value{}, false
	}
	return filter.String(*s), true
}

// Lon returns the longitude of the asset.
func (r *Record) Lon() float64 { return r.Location.Lon() }

// Lat returns the latitude of the asset.
func (r *Record) Lat() float64 { return r.Location.Lat() }
