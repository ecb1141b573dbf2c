// Package resource implements the Controller that governs how hard the engine
// leans on its data source and how much memory its byte caches may hold.
//
//	┌───────────────────────────────────────────────────────────┐
//	│                        Controller                         │
//	├──────────────────┬──────────────────┬─────────────────────┤
//	│  Memory budget   │  Fetch slots     │  Request rate       │
//	│  (fail-fast)     │  (semaphore)     │  (token bucket)     │
//	├──────────────────┼──────────────────┼─────────────────────┤
//	│  TryAcquireMem   │  AcquireFetch    │  (inside            │
//	│  ReleaseMemory   │  ReleaseFetch    │   AcquireFetch)     │
//	└──────────────────┴──────────────────┴─────────────────────┘
//
// The geometry batch loader already bounds concurrency per caller to the batch
// size; the Controller bounds it across callers sharing one HTTP store (for
// example several API requests in the server).
//
//	rc := resource.NewController(resource.Config{
//	    MaxInFlightFetches: 32,
//	    FetchesPerSecond:   200,
//	})
//	if err := rc.AcquireFetch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseFetch()
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
