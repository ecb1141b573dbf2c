package spatial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dhconnelly/rtreego"
	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/metric"
)

// Store is the Spatial Index Store. It is loaded at most once and immutable afterwards.
// All methods are safe for concurrent use.
type Store struct {
	src  blobstore.BlobStore
	opts options

	once sync.Once
	mu   sync.RWMutex
	idx  *index
	err  error
}

// New creates a Store that loads its index from src.
func New(src blobstore.BlobStore, optFns ...Option) *Store {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{src: src, opts: opts, idx: emptyIndex()}
}

// NewFromDocument creates an already loaded Store from an in-memory document.
func NewFromDocument(doc *Document, optFns ...Option) (*Store, error) {
	s := New(nil, optFns...)
	idx, err := buildIndex(doc.VNBs)
	if err != nil {
		return nil, err
	}
	s.once.Do(func() {})
	s.idx = idx
	return s, nil
}

// Load fetches and indexes the index resource on the first call. Later calls
// return the cached records without refetching. A failed load leaves the store
// empty and is terminal: every later call returns the same *LoadError.
// Cancellation of ctx is not a load failure: a caller whose ctx is done gets
// ctx.Err() and the fetch runs to completion for later callers.
func (s *Store) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(func() {
		idx, err := s.fetch(context.WithoutCancel(ctx))
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.err = &LoadError{Resource: s.opts.resource, Err: err}
			s.opts.logger.Error("index load failed", "resource", s.opts.resource, "error", err)
			return
		}
		s.idx = idx
		s.opts.logger.Info("index loaded", "resource", s.opts.resource, "records", len(idx.records))
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.records, s.err
}

func (s *Store) fetch(ctx context.Context) (*index, error) {
	if s.src == nil {
		return nil, errors.New("no blob store configured")
	}

	start := time.Now()
	data, err := blobstore.ReadAll(ctx, s.src, s.opts.resource)
	s.opts.metrics.RecordFetch(metric.KindIndex, time.Since(start), len(data), err)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := codec.Decode(s.opts.codec, s.opts.resource, data, &doc); err != nil {
		return nil, err
	}
	if doc.VNBs == nil {
		return nil, fmt.Errorf("decode %s: missing vnbs array", s.opts.resource)
	}
	return buildIndex(doc.VNBs)
}

// Err returns the load error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.current().records)
}

// Records returns all records in index order. The slice must not be modified.
func (s *Store) Records() []Record {
	return s.current().records
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, bool) {
	idx := s.current()
	i, ok := idx.byID[id]
	if !ok {
		return Record{}, false
	}
	return idx.records[i], true
}

// QueryByTags returns records whose tag set intersects tags, in index order.
// An empty tag set returns all records.
func (s *Store) QueryByTags(tags []Tag) []Record {
	idx := s.current()
	bm := idx.tagBitmap(tags)
	if bm == nil {
		return idx.records
	}
	return idx.collect(bm)
}

// QueryBySubstring returns records whose name or secondary identifier contains q,
// case-insensitively, in index order. An empty query returns all records.
func (s *Store) QueryBySubstring(q string) []Record {
	idx := s.current()
	bm := idx.substringBitmap(q)
	if bm == nil {
		return idx.records
	}
	return idx.collect(bm)
}

// QueryByBounds returns records whose bbox intersects b (edges included), in
// index order. Records with the unknown bbox sentinel always match.
func (s *Store) QueryByBounds(b BBox) []Record {
	idx := s.current()
	return idx.collect(idx.boundsBitmap(b))
}

// Query combines a substring, a tag set and an optional bounding box with AND.
type Query struct {
	Search string
	Tags   []Tag
	Bounds *BBox
}

// Query evaluates q. Empty criteria do not restrict the result.
func (s *Store) Query(q Query) []Record {
	idx := s.current()

	var result *roaring.Bitmap
	and := func(bm *roaring.Bitmap) {
		if bm == nil {
			return
		}
		if result == nil {
			result = bm.Clone()
			return
		}
		result.And(bm)
	}

	and(idx.substringBitmap(q.Search))
	and(idx.tagBitmap(q.Tags))
	if q.Bounds != nil {
		and(idx.boundsBitmap(*q.Bounds))
	}

	if result == nil {
		return idx.records
	}
	return idx.collect(result)
}

func (s *Store) current() *index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// index is the immutable query structure built from the records.
type index struct {
	records []Record
	byID    map[string]int
	tags    map[Tag]*roaring.Bitmap
	names   []string // lowercased "name\x00vnbId" per record
	unknown *roaring.Bitmap
	rtree   *rtreego.Rtree
}

func emptyIndex() *index {
	return &index{
		records: []Record{},
		byID:    map[string]int{},
		tags:    map[Tag]*roaring.Bitmap{},
		unknown: roaring.New(),
		rtree:   rtreego.NewTree(2, 25, 50),
	}
}

func buildIndex(records []Record) (*index, error) {
	idx := emptyIndex()
	idx.records = make([]Record, len(records))
	copy(idx.records, records)
	idx.names = make([]string, len(records))

	for i, r := range idx.records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: empty id", i)
		}
		if _, dup := idx.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate record id %q", r.ID)
		}
		if err := r.BBox.Validate(); err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}

		idx.byID[r.ID] = i
		idx.names[i] = strings.ToLower(r.Name) + "\x00" + strings.ToLower(r.VNBID)

		for _, t := range r.VoltageTypes {
			bm, ok := idx.tags[t]
			if !ok {
				bm = roaring.New()
				idx.tags[t] = bm
			}
			bm.Add(uint32(i))
		}

		if r.BBox.IsUnknown() {
			idx.unknown.Add(uint32(i))
		} else {
			idx.rtree.Insert(&entry{ord: uint32(i), rect: toRect(r.BBox)})
		}
	}
	return idx, nil
}

// tagBitmap returns nil when tags do not restrict the result.
func (idx *index) tagBitmap(tags []Tag) *roaring.Bitmap {
	if len(tags) == 0 {
		return nil
	}
	bms := make([]*roaring.Bitmap, 0, len(tags))
	for _, t := range tags {
		if bm, ok := idx.tags[t]; ok {
			bms = append(bms, bm)
		}
	}
	if len(bms) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(bms...)
}

// substringBitmap returns nil when q does not restrict the result.
func (idx *index) substringBitmap(q string) *roaring.Bitmap {
	if q == "" {
		return nil
	}
	q = strings.ToLower(q)
	bm := roaring.New()
	for i, n := range idx.names {
		name, vnbID, _ := strings.Cut(n, "\x00")
		if strings.Contains(name, q) || strings.Contains(vnbID, q) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

func (idx *index) boundsBitmap(b BBox) *roaring.Bitmap {
	bm := idx.unknown.Clone()
	// rtreego treats touching rectangles as disjoint; pad the query so edges count.
	q := BBox{b[0] - minExtent, b[1] - minExtent, b[2] + minExtent, b[3] + minExtent}
	for _, sp := range idx.rtree.SearchIntersect(toRect(q)) {
		bm.Add(sp.(*entry).ord)
	}
	return bm
}

func (idx *index) collect(bm *roaring.Bitmap) []Record {
	out := make([]Record, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, idx.records[it.Next()])
	}
	return out
}

// entry is an R-tree leaf.
type entry struct {
	ord  uint32
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// minExtent keeps degenerate (point or line) boxes representable; rtreego
// rejects zero-length sides.
const minExtent = 1e-9

func toRect(b BBox) rtreego.Rect {
	point := rtreego.Point{b[0], b[1]}
	lengths := []float64{
		max(b[2]-b[0], minExtent),
		max(b[3]-b[1], minExtent),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}
