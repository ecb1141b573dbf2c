// Package s3 provides an Amazon S3 implementation of blobstore.WritableStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", s3.WithPrefix("public/data/"), s3.WithRegion("eu-central-1"))
//	b, err := vnbgeo.Open(ctx, store)
//
// Writes go through the multipart upload manager, so large geometry bundles
// produced by the index builder are uploaded in parts.
package s3
