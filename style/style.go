package style

import (
	"strings"

	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb/geojson"
)

// PathStyle is the stroke and fill of a polygon.
type PathStyle struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
}

// CircleMarker is the style of an asset point.
type CircleMarker struct {
	PathStyle
	Radius int `json:"radius"`
}

// Interaction is the pointer state of a feature.
type Interaction int

const (
	Normal Interaction = iota
	Hover
	Selected
)

const (
	ColorBoth = "#9b59b6"
	ColorMS   = "#e74c3c"
	ColorNS   = "#3498db"
	ColorNone = "#888888"

	ColorSolar = "#ff9500"
	ColorBESS  = "#a855f7"
)

// VoltageColor returns the fill color of a VNB area by its voltage classes.
func VoltageColor(tags []spatial.Tag) string {
	var ms, ns bool
	for _, t := range tags {
		s := string(t)
		ms = ms || strings.Contains(s, string(spatial.TagMittelspannung))
		ns = ns || strings.Contains(s, string(spatial.TagNiederspannung))
	}
	switch {
	case ms && ns:
		return ColorBoth
	case ms:
		return ColorMS
	case ns:
		return ColorNS
	default:
		return ColorNone
	}
}

// VoltageTags reads the voltage classes of a geometry feature. They are
// stored either as a list or as a comma separated string, under
// "voltageTypes" or the flattened "properties.voltageTypes".
func VoltageTags(props geojson.Properties) []spatial.Tag {
	raw, ok := props["voltageTypes"]
	if !ok || raw == nil {
		raw = props["properties.voltageTypes"]
	}

	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
	}

	tags := make([]spatial.Tag, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, spatial.Tag(p))
		}
	}
	return tags
}

// VNB returns the style of a VNB area.
func VNB(tags []spatial.Tag, in Interaction) PathStyle {
	s := PathStyle{
		Color:       "#2c3e50",
		Weight:      1.5,
		Opacity:     0.8,
		FillColor:   VoltageColor(tags),
		FillOpacity: 0.4,
	}
	switch in {
	case Hover:
		s.Weight = 3
		s.FillOpacity = 0.6
	case Selected:
		s.Weight = 4
		s.Opacity = 1
		s.FillOpacity = 0.6
	}
	return s
}

var adminStyles = map[admin.Layer]PathStyle{
	admin.Bundeslaender: {Color: "#333", Weight: 2, Opacity: 0.8, FillColor: "#ff7800", FillOpacity: 0.1},
	admin.Kreise:        {Color: "#666", Weight: 1, Opacity: 0.6, FillColor: "#27ae60", FillOpacity: 0.05},
	admin.Gemeinden:     {Color: "#999", Weight: 0.5, Opacity: 0.4, FillColor: "#9b59b6", FillOpacity: 0.02},
}

// BundeslandColors assigns each state its own fill color.
var BundeslandColors = map[string]string{
	"Baden-Württemberg":      "#1f77b4",
	"Bayern":                 "#ff7f0e",
	"Berlin":                 "#2ca02c",
	"Brandenburg":            "#d62728",
	"Bremen":                 "#9467bd",
	"Hamburg":                "#8c564b",
	"Hessen":                 "#e377c2",
	"Mecklenburg-Vorpommern": "#7f7f7f",
	"Niedersachsen":          "#bcbd22",
	"Nordrhein-Westfalen":    "#17becf",
	"Rheinland-Pfalz":        "#aec7e8",
	"Saarland":               "#ffbb78",
	"Sachsen":                "#98df8a",
	"Sachsen-Anhalt":         "#ff9896",
	"Schleswig-Holstein":     "#c5b0d5",
	"Thüringen":              "#c49c94",
}

// Admin returns the style of a boundary feature. Bundesländer are filled
// with their own color when name is known.
func Admin(layer admin.Layer, name string, in Interaction) PathStyle {
	s := adminStyles[layer]
	if layer == admin.Bundeslaender {
		if c, ok := BundeslandColors[name]; ok {
			s.FillColor = c
		}
	}
	if in != Normal {
		s.Weight = 2
		if layer == admin.Bundeslaender {
			s.Weight = 3
		}
		s.FillOpacity = 0.3
	}
	return s
}

// MarkerRadius scales an asset marker by gross power in kW.
func MarkerRadius(grossPowerKW float64) int {
	switch {
	case grossPowerKW >= 100000:
		return 15
	case grossPowerKW >= 50000:
		return 12
	case grossPowerKW >= 10000:
		return 10
	case grossPowerKW >= 5000:
		return 8
	default:
		return 6
	}
}

// AssetMarker returns the marker style of an asset.
func AssetMarker(c asset.Category, grossPowerKW float64) CircleMarker {
	fill := ColorSolar
	if c == asset.BESS {
		fill = ColorBESS
	}
	return CircleMarker{
		PathStyle: PathStyle{Color: "#fff", Weight: 1, Opacity: 0.9, FillColor: fill, FillOpacity: 0.7},
		Radius:    MarkerRadius(grossPowerKW),
	}
}

var nameKeys = []string{"vnbName", "name", "gen", "NAME_1", "NAME_2", "NAME_3"}

// FeatureName returns the display name of a feature.
func FeatureName(props geojson.Properties) string {
	for _, k := range nameKeys {
		if s, ok := props[k].(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}
