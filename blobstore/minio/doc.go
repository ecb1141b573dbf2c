// Package minio provides a BlobStore implementation using the MinIO client.
//
// It serves a vnbgeo data root from a MinIO bucket or any other S3-compatible
// service (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "geodata", "public/data/")
//	b, err := vnbgeo.Open(ctx, store)
package minio
