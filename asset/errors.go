package asset

import "fmt"

// LoadError reports a failed asset fetch or parse.
type LoadError struct {
	Category Category
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: load %s (%s): %v", e.Category, e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
