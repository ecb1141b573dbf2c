package indexbuild

import (
	"context"
	"fmt"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/spatial"
)

// Write encodes doc and stores it under name, compressed according to the
// name's suffix.
func Write(ctx context.Context, dst blobstore.WritableStore, name string, doc *spatial.Document, optFns ...Option) error {
	opts := newOptions(optFns)

	data, err := opts.codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("indexbuild: encode %s: %w", name, err)
	}
	data, err = blobstore.Compress(blobstore.CompressionFor(name), data)
	if err != nil {
		return fmt.Errorf("indexbuild: compress %s: %w", name, err)
	}
	if err := dst.Put(ctx, name, data); err != nil {
		return fmt.Errorf("indexbuild: write %s: %w", name, err)
	}
	opts.logger.Info("index written", "name", name, "records", len(doc.VNBs), "bytes", len(data))
	return nil
}
