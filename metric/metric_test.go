package metric

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasic(t *testing.T) {
	b := &Basic{}
	var c Collector = b

	c.RecordFetch(KindIndex, time.Millisecond, 100, nil)
	c.RecordFetch(KindGeometry, time.Millisecond, 50, errors.New("boom"))
	c.RecordCacheLookup(KindGeometry, true)
	c.RecordCacheLookup(KindGeometry, false)
	c.RecordCacheLookup(KindGeometry, false)
	c.RecordEviction(KindGeometry)
	c.RecordBatch(20, 137, time.Millisecond)

	s := b.Snapshot()
	assert.Equal(t, int64(2), s.Fetches)
	assert.Equal(t, int64(1), s.FetchErrors)
	assert.Equal(t, int64(150), s.FetchBytes)
	assert.Equal(t, int64(1), s.GeometryFetch)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.Equal(t, int64(2), s.CacheMisses)
	assert.Equal(t, int64(1), s.Evictions)
	assert.Equal(t, int64(1), s.Batches)
	assert.Equal(t, int64(20), b.LastBatchLoad.Load())
	assert.Equal(t, int64(137), b.LastBatchTotal.Load())
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, Noop{}, OrNoop(nil))

	b := &Basic{}
	assert.Same(t, b, OrNoop(b))
}
