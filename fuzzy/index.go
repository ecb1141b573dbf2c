package fuzzy

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/hupe1980/vnbgeo/spatial"
)

const (
	// DefaultThreshold is the largest accepted score.
	DefaultThreshold = 0.3
	// DefaultMinQueryLength is the shortest query that is searched.
	DefaultMinQueryLength = 2
	// MaxResults caps every result list.
	MaxResults = 20
)

type options struct {
	threshold float64
	minQuery  int
}

// Option configures an Index.
type Option func(*options)

// WithThreshold sets the largest accepted score.
func WithThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// WithMinQueryLength sets the shortest query, in runes, that is searched.
func WithMinQueryLength(n int) Option {
	return func(o *options) { o.minQuery = n }
}

type entry struct {
	record spatial.Record
	keys   [][]rune
}

// Index is an immutable fuzzy index. It is safe for concurrent use.
type Index struct {
	opts    options
	entries []entry
}

// Result is a single search hit.
type Result struct {
	Record spatial.Record `json:"record"`
	Score  float64        `json:"score"`
	Prefix bool           `json:"prefix"`
	Exact  bool           `json:"exact"`
}

// New builds an index over the name and secondary identifier of records.
func New(records []spatial.Record, optFns ...Option) *Index {
	opts := options{threshold: DefaultThreshold, minQuery: DefaultMinQueryLength}
	for _, fn := range optFns {
		fn(&opts)
	}

	entries := make([]entry, len(records))
	for i, r := range records {
		e := entry{record: r}
		for _, k := range []string{r.Name, r.VNBID} {
			if k != "" {
				e.keys = append(e.keys, []rune(strings.ToLower(k)))
			}
		}
		entries[i] = e
	}
	return &Index{opts: opts, entries: entries}
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search returns up to limit records matching q, best first. Ties rank exact
// matches first, then prefix matches, then index order. A non-positive limit or one above
// MaxResults is treated as MaxResults.
func (idx *Index) Search(q string, limit int) []Result {
	query := []rune(strings.ToLower(strings.TrimSpace(q)))
	if len(query) < idx.opts.minQuery {
		return nil
	}
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	type hit struct {
		Result
		ord int
	}
	var hits []hit
	for i, e := range idx.entries {
		m, ok := idx.match(query, e.keys)
		if !ok {
			continue
		}
		hits = append(hits, hit{Result{Record: e.record, Score: m.score, Prefix: m.prefix, Exact: m.exact}, i})
	}

	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		if c := compareBool(a.Exact, b.Exact); c != 0 {
			return c
		}
		if c := compareBool(a.Prefix, b.Prefix); c != 0 {
			return c
		}
		return cmp.Compare(a.ord, b.ord)
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = h.Result
	}
	return out
}

// Records is Search without scores.
func (idx *Index) Records(q string, limit int) []spatial.Record {
	res := idx.Search(q, limit)
	out := make([]spatial.Record, len(res))
	for i, r := range res {
		out[i] = r.Record
	}
	return out
}

// compareBool orders true before false.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

type match struct {
	score  float64
	prefix bool
	exact  bool
}

func (m match) better(o match) bool {
	if m.score != o.score {
		return m.score < o.score
	}
	if m.exact != o.exact {
		return m.exact
	}
	return m.prefix && !o.prefix
}

// match returns the best match of query over keys.
func (idx *Index) match(query []rune, keys [][]rune) (match, bool) {
	var best match
	found := false
	for _, key := range keys {
		s := Score(query, key)
		if s > idx.opts.threshold {
			continue
		}
		m := match{score: s, prefix: hasPrefix(key, query), exact: slices.Equal(key, query)}
		if !found || m.better(best) {
			best, found = m, true
		}
	}
	return best, found
}

// Score returns the normalized edit distance between query and its
// best-aligned window in key.
func Score(query, key []rune) float64 {
	if len(query) == 0 {
		return 0
	}
	if len(key) <= len(query) {
		d := levenshtein.ComputeDistance(string(query), string(key))
		return float64(d) / float64(len(query))
	}

	q := string(query)
	best := len(query)
	for i := 0; i+len(query) <= len(key); i++ {
		d := levenshtein.ComputeDistance(q, string(key[i:i+len(query)]))
		if d < best {
			best = d
			if d == 0 {
				break
			}
		}
	}
	return float64(best) / float64(len(query))
}

func hasPrefix(key, prefix []rune) bool {
	return len(key) >= len(prefix) && slices.Equal(key[:len(prefix)], prefix)
}
