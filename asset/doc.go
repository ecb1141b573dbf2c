// Package asset loads the power asset layers (solar generation and battery
// storage) as point records.
//
// Each category is fetched at most once per Loader, and only while its layer
// is visible. A failed load is terminal; the layer stays empty.
package asset
