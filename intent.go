package vnbgeo

import "github.com/hupe1980/vnbgeo/spatial"

// Intent is a request to the rendering layer.
type Intent interface {
	intent()
}

// SelectRecord asks the renderer to highlight a VNB area.
type SelectRecord struct {
	ID string `json:"id"`
}

// FitBounds asks the renderer to fit the map to a box.
type FitBounds struct {
	BBox spatial.BBox `json:"bbox"`
	// Padding in pixels.
	Padding int `json:"padding"`
}

// LoadProgress reports geometry batch progress.
type LoadProgress struct {
	Loaded int `json:"loaded"`
	Total  int `json:"total"`
}

func (SelectRecord) intent() {}
func (FitBounds) intent()    {}
func (LoadProgress) intent() {}

// Renderer consumes intents. Dispatch may be called from any goroutine and
// must not block.
type Renderer interface {
	Dispatch(Intent)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Intent)

// Dispatch implements Renderer.
func (f RendererFunc) Dispatch(i Intent) { f(i) }

type noopRenderer struct{}

func (noopRenderer) Dispatch(Intent) {}
