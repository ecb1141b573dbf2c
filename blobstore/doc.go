// Package blobstore provides the resource retrieval boundary of vnbgeo.
//
// Every data file the engine reads (the VNB index, per-record geometry files,
// administrative boundaries, asset layers) is addressed by a slash-separated
// resource name relative to a data root, e.g. "vnb/index.json" or
// "admin/kreise.geojson". A BlobStore maps those names to bytes.
//
// # Built-in Implementations
//
//   - HTTPStore: plain GET against a base URL
//   - LocalStore: local directory
//   - MemoryStore: in-memory map, for tests and embedding
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3
//
// CachingStore puts a whole-blob byte cache in front of any of them; the cache
// is either the in-process LRU or Redis (rediscache.Cache).
//
// ReadAll transparently decompresses resources whose name ends in .gz, .zst
// or .lz4.
package blobstore
