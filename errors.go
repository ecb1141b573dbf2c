package vnbgeo

import (
	"errors"

	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/geometry"
	"github.com/hupe1980/vnbgeo/spatial"
)

var (
	// ErrNoStore is returned by Open without a blob store.
	ErrNoStore = errors.New("vnbgeo: blob store is required")

	// ErrUnknownRecord is returned for ids missing from the index.
	ErrUnknownRecord = geometry.ErrUnknownRecord

	// ErrSuperseded is returned by a geometry load replaced by a newer one.
	ErrSuperseded = geometry.ErrSuperseded
)

type (
	// IndexLoadError reports a failed index fetch or parse.
	IndexLoadError = spatial.LoadError
	// GeometryLoadError reports a failed geometry fetch or parse.
	GeometryLoadError = geometry.LoadError
	// BoundaryLoadError reports a failed administrative boundary load.
	BoundaryLoadError = admin.LoadError
	// AssetLoadError reports a failed asset layer load.
	AssetLoadError = asset.LoadError
)
