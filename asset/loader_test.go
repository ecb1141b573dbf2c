package asset

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/hupe1980/vnbgeo/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*blobstore.MemoryStore
	mu     sync.Mutex
	opened map[string]int
	gate   chan struct{}
}

func (s *countingStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	s.mu.Lock()
	s.opened[name]++
	s.mu.Unlock()
	if s.gate != nil {
		<-s.gate
	}
	return s.MemoryStore.Open(ctx, name)
}

func (s *countingStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened[name]
}

func newStore(t *testing.T) *countingStore {
	t.Helper()
	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(context.Background(), "anlagen/solar.geojson", []byte(solarFC)))
	require.NoError(t, ms.Put(context.Background(), "anlagen/bess.geojson", []byte(bessFC)))
	return &countingStore{MemoryStore: ms, opened: make(map[string]int)}
}

func TestLoader_GatedByVisibility(t *testing.T) {
	src := newStore(t)
	l := New(src)
	ctx := context.Background()

	recs, err := l.EnsureLoaded(ctx, BESS, false)
	require.NoError(t, err)
	assert.Nil(t, recs)
	assert.Equal(t, NotRequested, l.Status(BESS))
	assert.Zero(t, src.count("anlagen/bess.geojson"))

	recs, err = l.EnsureLoaded(ctx, BESS, true)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, Loaded, l.Status(BESS))

	// hiding and showing again never refetches
	_, _ = l.EnsureLoaded(ctx, BESS, false)
	recs, err = l.EnsureLoaded(ctx, BESS, true)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, src.count("anlagen/bess.geojson"))
	assert.Zero(t, src.count("anlagen/solar.geojson"))
}

func TestLoader_FailureIsTerminal(t *testing.T) {
	src := newStore(t)
	require.NoError(t, src.Delete(context.Background(), "anlagen/solar.geojson"))

	var transitions []Status
	m := &metric.Basic{}
	l := New(src, WithMetrics(m), WithOnChange(func(c Category, s Status) {
		transitions = append(transitions, s)
	}))

	_, err := l.EnsureLoaded(context.Background(), Solar, true)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, Solar, le.Category)
	assert.True(t, errors.Is(err, blobstore.ErrNotFound))
	assert.Equal(t, Failed, l.Status(Solar))
	assert.Equal(t, []Status{Loading, Failed}, transitions)

	_, err = l.EnsureLoaded(context.Background(), Solar, true)
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, 1, src.count("anlagen/solar.geojson"))
	assert.Empty(t, l.Records(Solar))
	assert.Equal(t, int64(1), m.FetchErrors.Load())
}

func TestLoader_ConcurrentCallersShareOneFetch(t *testing.T) {
	src := newStore(t)
	src.gate = make(chan struct{})
	l := New(src)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]Record, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = l.EnsureLoaded(context.Background(), Solar, true)
		}()
	}

	require.Eventually(t, func() bool { return src.count("anlagen/solar.geojson") == 1 }, timeout, tick)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, 1, src.count("anlagen/solar.geojson"))
	for _, r := range results {
		assert.Len(t, r, 2)
	}
}

func TestLoader_WaiterHonorsContext(t *testing.T) {
	src := newStore(t)
	src.gate = make(chan struct{})
	l := New(src)

	go func() { _, _ = l.EnsureLoaded(context.Background(), BESS, true) }()
	require.Eventually(t, func() bool { return l.Status(BESS) == Loading }, timeout, tick)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.EnsureLoaded(ctx, BESS, true)
	assert.ErrorIs(t, err, context.Canceled)

	close(src.gate)
	require.Eventually(t, func() bool { return l.Status(BESS) == Loaded }, timeout, tick)
}

func TestLoader_InvalidCategory(t *testing.T) {
	l := New(blobstore.NewMemoryStore())
	_, err := l.EnsureLoaded(context.Background(), "wind", true)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLoader_FilteredRecords(t *testing.T) {
	l := New(newStore(t))
	recs, err := l.EnsureLoaded(context.Background(), Solar, true)
	require.NoError(t, err)

	ptrs := make([]*Record, len(recs))
	for i := range recs {
		ptrs[i] = &recs[i]
	}
	got := filter.Apply(ptrs, []filter.Rule{{Field: "grossPower", Operator: filter.GTE, Value: filter.Number(1000)}})
	require.Len(t, got, 1)
	assert.Equal(t, "SEE1", got[0].ID)
}
