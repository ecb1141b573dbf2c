package indexbuild

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultConcurrency bounds parallel file reads.
const DefaultConcurrency = 8

// ErrEmpty marks a geometry file without features.
var ErrEmpty = errors.New("indexbuild: no features")

type options struct {
	concurrency int
	logger      *slog.Logger
	codec       codec.Codec
}

// Option configures Build and Write.
type Option func(*options)

// WithConcurrency bounds parallel file reads.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCodec sets the codec used by Write.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = codec.OrDefault(c) }
}

func newOptions(optFns []Option) options {
	o := options{
		concurrency: DefaultConcurrency,
		logger:      slog.New(slog.DiscardHandler),
		codec:       codec.Default,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Report summarizes a build.
type Report struct {
	Files   int               `json:"files"`
	Indexed int               `json:"indexed"`
	Skipped map[string]string `json:"skipped,omitempty"`
}

// Build reads every *.geojson file under prefix in src and returns the index
// document. Files that cannot be read or parsed, or that hold no features,
// are skipped and listed in the report.
func Build(ctx context.Context, src blobstore.WritableStore, prefix string, optFns ...Option) (*spatial.Document, *Report, error) {
	opts := newOptions(optFns)

	names, err := src.List(ctx, prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("indexbuild: list %s: %w", prefix, err)
	}
	names = slices.DeleteFunc(names, func(n string) bool {
		return !strings.HasSuffix(stripCompression(n), ".geojson")
	})

	records := make([]*spatial.Record, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, name := range names {
		g.Go(func() error {
			data, err := blobstore.ReadAll(gctx, src, name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				errs[i] = err
				return nil
			}
			rec, err := Entry(path.Base(name), data)
			if err != nil {
				errs[i] = err
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &Report{Files: len(names)}
	out := make([]spatial.Record, 0, len(names))
	for i, name := range names {
		if errs[i] != nil {
			if report.Skipped == nil {
				report.Skipped = make(map[string]string)
			}
			report.Skipped[name] = errs[i].Error()
			opts.logger.Warn("skipping geometry file", "file", name, "error", errs[i])
			continue
		}
		out = append(out, *records[i])
	}
	report.Indexed = len(out)

	SortByName(out)
	opts.logger.Info("index built", "files", report.Files, "indexed", report.Indexed, "skipped", len(report.Skipped))
	return spatial.NewDocument(out), report, nil
}

// SortByName orders records by name using German collation.
func SortByName(records []spatial.Record) {
	c := collate.New(language.German)
	slices.SortStableFunc(records, func(a, b spatial.Record) int {
		return c.CompareString(a.Name, b.Name)
	})
}

// Entry derives the index record of one geometry file.
func Entry(fileName string, data []byte) (*spatial.Record, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("indexbuild: parse %s: %w", fileName, err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, fileName)
	}

	f := fc.Features[0]
	props := f.Properties

	rec := &spatial.Record{
		ID:           featureID(f, fileName),
		VNBID:        firstString(props, "vnbId", "properties.vnbId"),
		Name:         firstString(props, "vnbName"),
		VoltageTypes: parseVoltageTypes(props),
		BBox:         bbox(fc),
		Area:         firstNumber(props, "properties.geometryArea", "geometryArea"),
		FileName:     fileName,
	}
	if rec.Name == "" {
		rec.Name = "Unknown"
	}
	return rec, nil
}

func featureID(f *geojson.Feature, fileName string) string {
	switch id := f.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprint(id)
	}
	if s := firstString(f.Properties, "_id"); s != "" {
		return s
	}
	return strings.TrimSuffix(stripCompression(fileName), ".geojson")
}

func firstString(props geojson.Properties, keys ...string) string {
	for _, k := range keys {
		switch v := props[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprint(v)
		}
	}
	return ""
}

func firstNumber(props geojson.Properties, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := props[k].(float64); ok && v != 0 {
			return v
		}
	}
	return 0
}

func parseVoltageTypes(props geojson.Properties) []spatial.Tag {
	raw := props["voltageTypes"]
	if raw == nil {
		raw = props["properties.voltageTypes"]
	}
	s := fmt.Sprint(raw)
	if raw == nil {
		s = ""
	}

	tags := []spatial.Tag{}
	for _, t := range spatial.Tags {
		if strings.Contains(s, string(t)) {
			tags = append(tags, t)
		}
	}
	return tags
}

func bbox(fc *geojson.FeatureCollection) spatial.BBox {
	if b, ok := fromGeoJSON(fc.Features[0].BBox); ok {
		return b
	}
	if b, ok := fromGeoJSON(fc.BBox); ok {
		return b
	}

	var bound orb.Bound
	found := false
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if !found {
			bound, found = f.Geometry.Bound(), true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	if !found {
		return spatial.BBox{}
	}
	return spatial.FromBound(bound)
}

func fromGeoJSON(b geojson.BBox) (spatial.BBox, bool) {
	if len(b) != 4 {
		return spatial.BBox{}, false
	}
	out := spatial.BBox{b[0], b[1], b[2], b[3]}
	return out, out.Validate() == nil
}

// stripCompression removes a compression suffix.
func stripCompression(name string) string {
	for _, ext := range []string{".gz", ".zst", ".lz4"} {
		if s, ok := strings.CutSuffix(name, ext); ok {
			return s
		}
	}
	return name
}
