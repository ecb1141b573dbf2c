package vnbgeo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/hupe1980/vnbgeo/fuzzy"
	"github.com/hupe1980/vnbgeo/geometry"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/hupe1980/vnbgeo/state"
	"github.com/paulmach/orb/geojson"
)

// Browser wires the index, geometry cache, boundary and asset loaders to a
// shared state store. It is safe for concurrent use.
type Browser struct {
	opts   options
	logger *Logger

	state    *state.Store
	index    *spatial.Store
	geometry *geometry.Cache
	admin    *admin.Loader
	assets   *asset.Loader
	search   atomic.Pointer[fuzzy.Index]

	// batches counts running geometry loads; vnb/full is loading while it
	// is positive.
	batchMu sync.Mutex
	batches int

	wg sync.WaitGroup
}

// Open creates a Browser over src and loads the index. A failed index load
// is logged and leaves the browser without polygons; it is reported by
// IndexErr, not returned.
func Open(ctx context.Context, src blobstore.BlobStore, optFns ...Option) (*Browser, error) {
	if src == nil {
		return nil, ErrNoStore
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	b := &Browser{
		opts:   opts,
		logger: opts.logger,
		state:  state.New(),
	}
	slogger := opts.logger.Logger

	b.index = spatial.New(src,
		spatial.WithCodec(opts.codec),
		spatial.WithLogger(slogger),
		spatial.WithMetrics(opts.metrics),
	)

	b.geometry = geometry.New(src, b.index,
		geometry.WithCapacity(opts.cacheCapacity),
		geometry.WithBatchSize(opts.batchSize),
		geometry.WithLogger(slogger),
		geometry.WithMetrics(opts.metrics),
		geometry.WithProgress(func(p geometry.Progress) {
			opts.renderer.Dispatch(LoadProgress{Loaded: p.Loaded, Total: p.Total})
		}),
	)

	adminOpts := []admin.Option{
		admin.WithLogger(slogger),
		admin.WithMetrics(opts.metrics),
		admin.WithOnChange(b.onBoundaryChange),
	}
	if opts.thresholds != nil {
		adminOpts = append(adminOpts, admin.WithThresholds(opts.thresholds))
	}
	if opts.synchronous {
		adminOpts = append(adminOpts, admin.WithSynchronous())
	}
	b.admin = admin.New(src, adminOpts...)

	b.assets = asset.New(src,
		asset.WithCodec(opts.codec),
		asset.WithLogger(slogger),
		asset.WithMetrics(opts.metrics),
		asset.WithOnChange(b.onAssetChange),
	)

	b.state.SetGeometryCache(b.geometry)
	b.search.Store(fuzzy.New(nil))

	b.state.SetLoading(spatial.DefaultResource, true)
	records, err := b.index.Load(ctx)
	b.state.SetLoading(spatial.DefaultResource, false)
	b.logger.LogIndexLoad(ctx, len(records), err)
	if err == nil {
		b.state.SetIndex(records)
		b.search.Store(fuzzy.New(records))
	}

	b.sync(ctx)
	return b, nil
}

func (b *Browser) onBoundaryChange(layer admin.Layer, s admin.Status) {
	b.state.SetLoading(b.admin.Resource(layer), s == admin.Loading)
	if s == admin.Loaded {
		b.state.SetAdminData(layer, b.admin.Data(layer))
	}
}

func (b *Browser) onAssetChange(c asset.Category, s asset.Status) {
	b.state.SetLoading(b.assets.Resource(c), s == asset.Loading)
	if s == asset.Loaded {
		b.state.SetAssetData(c, b.assets.Records(c))
	}
}

const geometryResource = "vnb/full"

// sync starts the boundary and asset loads the current state allows.
func (b *Browser) sync(ctx context.Context) {
	st := b.state.Get()
	b.admin.Sync(ctx, st.Viewport.Zoom, st.AdminVisibility())

	for _, c := range asset.Categories {
		if !st.Visible(state.LayerID(c.LayerID())) || b.assets.Status(c) != asset.NotRequested {
			continue
		}
		if b.opts.synchronous {
			_, _ = b.assets.EnsureLoaded(ctx, c, true)
			continue
		}
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			_, _ = b.assets.EnsureLoaded(context.WithoutCancel(ctx), c, true)
		}()
	}
}

// Wait blocks until background boundary and asset loads have settled.
func (b *Browser) Wait() {
	b.admin.Wait()
	b.wg.Wait()
}

// Close stops the current geometry load and waits for background loads.
func (b *Browser) Close() error {
	if b == nil {
		return nil
	}
	b.geometry.Cancel()
	b.Wait()
	return nil
}

// State returns the current state snapshot.
func (b *Browser) State() *state.State {
	return b.state.Get()
}

// Store returns the underlying state store, for subscriptions and rule edits.
func (b *Browser) Store() *state.Store {
	return b.state
}

// IndexErr returns the index load error, if any.
func (b *Browser) IndexErr() error {
	return b.index.Err()
}

// Index returns the spatial index.
func (b *Browser) Index() *spatial.Store {
	return b.index
}

// Stats summarizes the index.
func (b *Browser) Stats() spatial.Stats {
	return b.index.Stats()
}

// SetViewport updates the viewport and starts the loads it unlocks.
func (b *Browser) SetViewport(ctx context.Context, u state.ViewportUpdate) state.Viewport {
	b.state.SetViewport(u)
	b.sync(ctx)
	return b.state.Get().Viewport
}

// ToggleLayer flips a layer's visibility and starts the loads it unlocks.
// Hiding the VNB layer stops the running geometry load.
func (b *Browser) ToggleLayer(ctx context.Context, id state.LayerID) (bool, error) {
	visible, err := b.state.ToggleLayer(id)
	if err != nil {
		return false, err
	}
	if id == state.LayerVNB && !visible {
		b.geometry.Cancel()
	}
	b.sync(ctx)
	return visible, nil
}

// SetFilters updates the VNB filters.
func (b *Browser) SetFilters(u state.FiltersUpdate) {
	b.state.SetFilters(u)
}

// VisibleRecords returns the index records passing the current search query
// and voltage filter, restricted to the map bounds when viewport filtering
// is enabled.
func (b *Browser) VisibleRecords() []spatial.Record {
	st := b.state.Get()
	q := spatial.Query{Search: st.Filters.SearchQuery, Tags: st.Filters.VoltageTypes}
	if b.opts.viewportFilter && st.Viewport.Bounds != nil {
		bbox := st.Viewport.Bounds.BBox()
		q.Bounds = &bbox
	}
	return b.index.Query(q)
}

// LoadVisibleGeometries loads the geometries of VisibleRecords in batches.
// With the VNB layer hidden it stops any running load and returns nil.
func (b *Browser) LoadVisibleGeometries(ctx context.Context) (*geometry.BatchResult, error) {
	if !b.state.Get().Visible(state.LayerVNB) {
		b.geometry.Cancel()
		return nil, nil
	}

	records := b.VisibleRecords()
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	b.trackBatch(1)
	res, err := b.geometry.GetBatch(ctx, ids)
	b.trackBatch(-1)

	failed := 0
	if res != nil {
		failed = len(res.Failed)
	}
	b.logger.LogBatchLoad(ctx, len(ids), failed, err)
	return res, err
}

// trackBatch adjusts the running load count. A superseded load clears the
// flag only when no newer load is still running.
func (b *Browser) trackBatch(delta int) {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()
	b.batches += delta
	b.state.SetLoading(geometryResource, b.batches > 0)
}

// Geometry returns the geometry of one record.
func (b *Browser) Geometry(ctx context.Context, id string) (*geometry.Record, error) {
	return b.geometry.Get(ctx, id)
}

// Features returns the merged features of the latest geometry load.
func (b *Browser) Features() *geojson.FeatureCollection {
	return b.geometry.Features()
}

// Progress returns the progress of the current geometry load.
func (b *Browser) Progress() geometry.Progress {
	return b.geometry.Progress()
}

// Search runs a fuzzy search over names and VNB ids.
func (b *Browser) Search(ctx context.Context, q string, limit int) []fuzzy.Result {
	res := b.search.Load().Search(q, limit)
	b.logger.LogSearch(ctx, q, len(res))
	return res
}

// Select marks a record as selected, asks the renderer to highlight it and
// fit its bounding box, and preloads its geometry. A failed preload is
// logged; the selection stands.
func (b *Browser) Select(ctx context.Context, id string) (spatial.Record, error) {
	rec, ok := b.index.Get(id)
	if !ok {
		b.logger.LogSelect(ctx, id, ErrUnknownRecord)
		return spatial.Record{}, ErrUnknownRecord
	}

	b.state.SetSelected(id)
	b.opts.renderer.Dispatch(SelectRecord{ID: id})
	if !rec.BBox.IsUnknown() {
		b.opts.renderer.Dispatch(FitBounds{BBox: rec.BBox, Padding: DefaultFitPadding})
	}

	_, err := b.geometry.Get(ctx, id)
	b.logger.LogSelect(ctx, id, err)
	return rec, nil
}

// Deselect clears the selection.
func (b *Browser) Deselect() {
	b.state.SetSelected("")
}

// Boundaries returns the boundary layers to display at the current zoom.
func (b *Browser) Boundaries() map[admin.Layer]*geojson.FeatureCollection {
	st := b.state.Get()
	return b.admin.Displayable(st.Viewport.Zoom, st.AdminVisibility())
}

// BoundaryStatus returns the load state of a boundary layer.
func (b *Browser) BoundaryStatus(layer admin.Layer) admin.Status {
	return b.admin.Status(layer)
}

// AssetStatus returns the load state of an asset category.
func (b *Browser) AssetStatus(c asset.Category) asset.Status {
	return b.assets.Status(c)
}

// Assets returns the records of category that pass the active rule set.
// The category is loaded first if its layer is visible. A hidden layer
// returns nil.
func (b *Browser) Assets(ctx context.Context, c asset.Category) ([]asset.Record, error) {
	return b.AssetsMatching(ctx, c, b.state.Get().Filters.AssetRules)
}

// AssetsMatching is Assets with an explicit rule set.
func (b *Browser) AssetsMatching(ctx context.Context, c asset.Category, rules []filter.Rule) ([]asset.Record, error) {
	if !c.Valid() {
		return nil, asset.ErrInvalidCategory
	}
	visible := b.state.Get().Visible(state.LayerID(c.LayerID()))

	records, err := b.assets.EnsureLoaded(ctx, c, visible)
	if err != nil || !visible {
		return nil, err
	}

	ptrs := make([]*asset.Record, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	matched := filter.Apply(ptrs, rules)

	out := make([]asset.Record, len(matched))
	for i, r := range matched {
		out[i] = *r
	}
	return out, nil
}
