package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRecord is returned for ids that are not in the spatial index.
	ErrUnknownRecord = errors.New("geometry: unknown record")

	// ErrSuperseded is returned by GetBatch when a newer GetBatch call started
	// before it finished.
	ErrSuperseded = errors.New("geometry: batch load superseded")
)

// LoadError reports a failed geometry fetch or parse for one record.
type LoadError struct {
	ID       string
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("geometry: load %s (%s): %v", e.ID, e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
