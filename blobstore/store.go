package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is the read side of a resource source.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// WritableStore is a BlobStore that also accepts writes.
// The offline index builder and the cache warmers need it; the engine itself only reads.
type WritableStore interface {
	BlobStore

	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReadCloser

	// Size returns the size of the blob in bytes, or -1 if unknown.
	Size() int64
}

// ErrReadOnly is returned by write operations on stores that only support reads.
var ErrReadOnly = errors.New("blobstore: store is read-only")
