package spatial

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"
)

// Tag is a voltage-class label attached to a record.
type Tag string

const (
	TagMittelspannung Tag = "Mittelspannung"
	TagNiederspannung Tag = "Niederspannung"
)

// Tags is the fixed tag vocabulary in display order.
var Tags = []Tag{TagMittelspannung, TagNiederspannung}

// Valid reports whether t is in the tag vocabulary.
func (t Tag) Valid() bool {
	return slices.Contains(Tags, t)
}

// BBox is an axis-aligned bounding box: minLon, minLat, maxLon, maxLat.
// The zero value [0,0,0,0] is the "unknown" sentinel.
type BBox [4]float64

// IsUnknown reports whether b is the [0,0,0,0] sentinel.
func (b BBox) IsUnknown() bool {
	return b == BBox{}
}

// Validate checks min <= max on both axes. The unknown sentinel is valid.
func (b BBox) Validate() error {
	if b[0] > b[2] || b[1] > b[3] {
		return fmt.Errorf("inverted bbox %v", [4]float64(b))
	}
	return nil
}

// Intersects reports whether b and o overlap (edges included).
func (b BBox) Intersects(o BBox) bool {
	return b[0] <= o[2] && o[0] <= b[2] && b[1] <= o[3] && o[1] <= b[3]
}

// Bound converts b to an orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b[0], b[1]}, Max: orb.Point{b[2], b[3]}}
}

// FromBound converts an orb.Bound to a BBox.
func FromBound(bd orb.Bound) BBox {
	return BBox{bd.Min.Lon(), bd.Min.Lat(), bd.Max.Lon(), bd.Max.Lat()}
}

// Record is the lightweight metadata of one VNB service area.
type Record struct {
	ID           string  `json:"id"`
	VNBID        string  `json:"vnbId"`
	Name         string  `json:"vnbName"`
	VoltageTypes []Tag   `json:"voltageTypes"`
	BBox         BBox    `json:"bbox"`
	Area         float64 `json:"area"`
	FileName     string  `json:"fileName"`
}

// HasTag reports whether the record carries t.
func (r Record) HasTag(t Tag) bool {
	return slices.Contains(r.VoltageTypes, t)
}

// Document is the index resource.
type Document struct {
	VNBs          []Record         `json:"vnbs"`
	TotalCount    int              `json:"totalCount"`
	ByVoltageType map[Tag][]string `json:"byVoltageType"`
}

// NewDocument builds a Document from records, deriving the count and the tag mapping.
func NewDocument(records []Record) *Document {
	doc := &Document{
		VNBs:          records,
		TotalCount:    len(records),
		ByVoltageType: make(map[Tag][]string, len(Tags)),
	}
	if doc.VNBs == nil {
		doc.VNBs = []Record{}
	}
	for _, t := range Tags {
		doc.ByVoltageType[t] = []string{}
	}
	for _, r := range records {
		for _, t := range r.VoltageTypes {
			doc.ByVoltageType[t] = append(doc.ByVoltageType[t], r.ID)
		}
	}
	return doc
}
