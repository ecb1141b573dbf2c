// Package testutil provides testing utilities for vnbgeo.
//
// This package is intended for use in tests and benchmarks only.
// It generates seeded synthetic index records, geometry files and asset
// collections, and populates in-memory stores with them.
//
// # Synthetic Data
//
//	rng := testutil.NewRNG(seed)
//	records := rng.Records(1000)
//	store := testutil.NewStore(t, records)
package testutil
