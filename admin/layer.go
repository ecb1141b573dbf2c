package admin

import "fmt"

// Layer identifies an administrative boundary granularity.
type Layer string

const (
	Bundeslaender Layer = "bundeslaender"
	Kreise        Layer = "kreise"
	Gemeinden     Layer = "gemeinden"
)

// Layers lists all layers, coarsest first.
var Layers = []Layer{Bundeslaender, Kreise, Gemeinden}

// Valid reports whether l is a known layer.
func (l Layer) Valid() bool {
	switch l {
	case Bundeslaender, Kreise, Gemeinden:
		return true
	}
	return false
}

// Threshold holds the minimum zoom levels of a layer.
type Threshold struct {
	Fetch   int
	Display int
}

// DefaultThresholds are the zoom gates per layer.
var DefaultThresholds = map[Layer]Threshold{
	Bundeslaender: {Fetch: 0, Display: 0},
	Kreise:        {Fetch: 7, Display: 6},
	Gemeinden:     {Fetch: 10, Display: 10},
}

// Status is the load state of a layer.
type Status int

const (
	NotRequested Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case NotRequested:
		return "not_requested"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LoadError reports a failed boundary fetch or parse.
type LoadError struct {
	Layer    Layer
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("admin: load %s (%s): %v", e.Layer, e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
