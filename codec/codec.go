// Package codec centralizes decoding of the JSON documents the engine consumes
// (the VNB index, asset properties) and encoding of the documents it produces
// (the index written by indexbuild, API responses).
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Used by configuration, where the codec is selected with a string.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// OrDefault returns c, or Default if c is nil.
func OrDefault(c Codec) Codec {
	if c == nil {
		return Default
	}
	return c
}

// Decode unmarshals data into v and annotates errors with the codec name and
// the resource the bytes came from.
func Decode(c Codec, resource string, data []byte, v any) error {
	c = OrDefault(c)
	if err := c.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec %s: decode %s: %w", c.Name(), resource, err)
	}
	return nil
}
