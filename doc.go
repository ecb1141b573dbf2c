// Package vnbgeo is the data engine of a map browser for German distribution
// grid operators (Verteilnetzbetreiber, VNB).
//
// It loads a precomputed index of VNB service areas, fetches their full
// polygons lazily in bounded batches, gates administrative boundary layers by
// zoom level, loads solar and battery storage assets, and filters and
// searches all of it. Rendering is left to the caller: the engine emits
// intents and exposes pure style functions (package style).
//
// # Quick Start
//
//	store, _ := blobstore.NewHTTPStore("https://example.org/data/")
//	b, _ := vnbgeo.Open(ctx, store, vnbgeo.WithLogger(vnbgeo.NewTextLogger(slog.LevelInfo)))
//	defer b.Close()
//
//	// Search and select
//	hits := b.Search(ctx, "stadtwerke münchen", 10)
//	b.Select(ctx, hits[0].Record.ID)
//
//	// Load the polygons of all records passing the current filters
//	res, _ := b.LoadVisibleGeometries(ctx)
//	fmt.Println(len(res.Features.Features))
//
// # Storage Backends
//
// Resources are read through blobstore.BlobStore:
//
//	blobstore.NewHTTPStore(baseURL)        // plain HTTP GET
//	blobstore.NewLocalStore(dir)           // local directory
//	minio.NewStore(client, bucket, prefix) // MinIO
//	s3.New(ctx, bucket, s3.WithPrefix(p))  // AWS S3
//
// Any store can be wrapped in blobstore.NewCachingStore with an in-process
// LRU or a shared Redis cache (blobstore/rediscache).
//
// # Serving
//
// Package server exposes a Browser as a JSON HTTP API on gin; cmd/vnbgeo wraps
// it, the offline index builder (package indexbuild) and one-shot queries in
// a CLI configured through package config.
//
// # Failure Policy
//
// Every load failure is caught at its own loader, logged and recorded as
// Failed. A failed resource stays empty for the lifetime of the Browser; it
// is never retried automatically.
package vnbgeo
