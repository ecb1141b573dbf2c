package state

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/hupe1980/vnbgeo/geometry"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb/geojson"
)

// Listener observes a state change.
type Listener func(prev, next *State)

// Store is the application state container. Reads are lock-free; mutations
// are serialized. Listeners run outside the writer lock, so they may mutate
// the store themselves, and see changes in mutation order: a mutation made
// while another goroutine is notifying is delivered by that goroutine.
type Store struct {
	cur atomic.Pointer[State]

	mu         sync.Mutex
	nextID     int
	listeners  map[int]Listener
	pending    []notification
	delivering bool
}

type notification struct {
	prev, next *State
	listeners  []Listener
}

// New creates a Store holding Default().
func New() *Store {
	s := &Store{listeners: make(map[int]Listener)}
	s.cur.Store(Default())
	return s
}

// Get returns the current snapshot.
func (s *Store) Get() *State {
	return s.cur.Load()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// update applies fn to a shallow copy of the current snapshot. fn returns
// false to abandon the change.
func (s *Store) update(fn func(next *State) bool) bool {
	s.mu.Lock()
	prev := s.cur.Load()
	next := *prev
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	s.cur.Store(&next)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		listeners = append(listeners, s.listeners[id])
	}
	s.pending = append(s.pending, notification{prev: prev, next: &next, listeners: listeners})
	if s.delivering {
		s.mu.Unlock()
		return true
	}
	s.delivering = true
	s.mu.Unlock()

	s.deliver()
	return true
}

// deliver runs queued notifications in order until the queue is empty.
func (s *Store) deliver() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		n := s.pending[0]
		s.pending[0] = notification{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, l := range n.listeners {
			l(n.prev, n.next)
		}
	}
}

// SetViewport merges u into the viewport. Zoom is clamped.
func (s *Store) SetViewport(u ViewportUpdate) {
	s.update(func(st *State) bool {
		vp := st.Viewport
		if u.Center != nil {
			vp.Center = *u.Center
		}
		if u.Zoom != nil {
			vp.Zoom = ClampZoom(*u.Zoom)
		}
		if u.Bounds != nil {
			b := *u.Bounds
			vp.Bounds = &b
		}
		st.Viewport = vp
		return true
	})
}

// ToggleLayer flips the visibility of id and returns the new value.
func (s *Store) ToggleLayer(id LayerID) (bool, error) {
	if _, err := ParseLayerID(string(id)); err != nil {
		return false, err
	}
	var visible bool
	s.update(func(st *State) bool {
		visible = !st.Visibility[id]
		st.Visibility = with(st.Visibility, id, visible)
		return true
	})
	return visible, nil
}

// SetLayerVisible sets the visibility of id.
func (s *Store) SetLayerVisible(id LayerID, visible bool) error {
	if _, err := ParseLayerID(string(id)); err != nil {
		return err
	}
	s.update(func(st *State) bool {
		if st.Visibility[id] == visible {
			return false
		}
		st.Visibility = with(st.Visibility, id, visible)
		return true
	})
	return nil
}

// SetFilters merges u into the filters.
func (s *Store) SetFilters(u FiltersUpdate) {
	s.update(func(st *State) bool {
		if u.VoltageTypes != nil {
			st.Filters.VoltageTypes = slices.Clone(*u.VoltageTypes)
		}
		if u.SearchQuery != nil {
			st.Filters.SearchQuery = *u.SearchQuery
		}
		return true
	})
}

// AddFilterRule appends r to the asset rules.
func (s *Store) AddFilterRule(r filter.Rule) {
	s.setRules(func(rules []filter.Rule) []filter.Rule {
		return append(slices.Clone(rules), r)
	})
}

// UpdateFilterRule applies fn to a copy of the rule with id. It reports
// whether the rule exists.
func (s *Store) UpdateFilterRule(id string, fn func(*filter.Rule)) bool {
	return s.update(func(st *State) bool {
		i := slices.IndexFunc(st.Filters.AssetRules, func(r filter.Rule) bool { return r.ID == id })
		if i < 0 {
			return false
		}
		rules := slices.Clone(st.Filters.AssetRules)
		fn(&rules[i])
		rules[i].ID = id
		st.Filters.AssetRules = rules
		return true
	})
}

// RemoveFilterRule deletes the rule with id. It reports whether it existed.
func (s *Store) RemoveFilterRule(id string) bool {
	return s.update(func(st *State) bool {
		rules := slices.DeleteFunc(slices.Clone(st.Filters.AssetRules), func(r filter.Rule) bool { return r.ID == id })
		if len(rules) == len(st.Filters.AssetRules) {
			return false
		}
		st.Filters.AssetRules = rules
		return true
	})
}

// ClearFilterRules removes all asset rules.
func (s *Store) ClearFilterRules() {
	s.setRules(func([]filter.Rule) []filter.Rule { return []filter.Rule{} })
}

// SetFilterRules replaces the asset rules.
func (s *Store) SetFilterRules(rules []filter.Rule) {
	s.setRules(func([]filter.Rule) []filter.Rule { return slices.Clone(rules) })
}

func (s *Store) setRules(fn func([]filter.Rule) []filter.Rule) {
	s.update(func(st *State) bool {
		st.Filters.AssetRules = fn(st.Filters.AssetRules)
		if st.Filters.AssetRules == nil {
			st.Filters.AssetRules = []filter.Rule{}
		}
		return true
	})
}

// SetSelected sets the selected record id; "" clears the selection.
func (s *Store) SetSelected(id string) {
	s.update(func(st *State) bool {
		if st.Selected == id {
			return false
		}
		st.Selected = id
		return true
	})
}

// SetIndex publishes the loaded index records.
func (s *Store) SetIndex(records []spatial.Record) {
	s.update(func(st *State) bool {
		st.Index = records
		return true
	})
}

// SetAdminData publishes a loaded boundary layer.
func (s *Store) SetAdminData(layer admin.Layer, fc *geojson.FeatureCollection) {
	s.update(func(st *State) bool {
		st.Admin = with(st.Admin, layer, fc)
		return true
	})
}

// SetAssetData publishes the loaded records of an asset category.
func (s *Store) SetAssetData(c asset.Category, records []asset.Record) {
	s.update(func(st *State) bool {
		st.Assets = with(st.Assets, c, records)
		return true
	})
}

// SetGeometryCache publishes the geometry cache.
func (s *Store) SetGeometryCache(c *geometry.Cache) {
	s.update(func(st *State) bool {
		st.Geometry = c
		return true
	})
}

// SetLoading sets the loading flag of a resource.
func (s *Store) SetLoading(resource string, loading bool) {
	s.update(func(st *State) bool {
		if st.Loading[resource] == loading {
			return false
		}
		st.Loading = with(st.Loading, resource, loading)
		return true
	})
}

func with[K comparable, V any](m map[K]V, k K, v V) map[K]V {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[K]V, 1)
	}
	out[k] = v
	return out
}
