// Package geometry implements the lazy, bounded cache of full VNB service-area
// geometries.
//
// Geometries are fetched from "vnb/full/<fileName>" only when a record becomes
// visible or selected. At most 100 geometries are held; the oldest insertion is
// evicted first and reads do not refresh an entry. Concurrent requests for the
// same id share one fetch.
//
// GetBatch loads many ids in sequential batches of 20 parallel fetches and
// reports progress after every batch. Each call takes a new generation; a newer
// call supersedes all older ones, which stop issuing batches and discard their
// results.
package geometry
