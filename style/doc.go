// Package style resolves display styles and labels for the map layers.
// All functions are pure.
package style
