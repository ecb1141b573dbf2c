package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/vnbgeo"
	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexJSON = `{"vnbs":[
 {"id":"1","vnbId":"SNB1","vnbName":"Stadtwerke München","voltageTypes":["Mittelspannung","Niederspannung"],"bbox":[11.3,48.0,11.8,48.3],"area":310000000,"fileName":"1.geojson"},
 {"id":"2","vnbId":"SNB2","vnbName":"Netze BW","voltageTypes":["Mittelspannung"],"bbox":[7.5,47.5,10.5,49.8],"area":35000000000,"fileName":"2.geojson"},
 {"id":"3","vnbId":"SNB3","vnbName":"Dorfnetz","voltageTypes":["Niederspannung"],"bbox":[0,0,0,0],"area":0,"fileName":"missing.geojson"}
],"totalCount":3,"byVoltageType":{}}`

const polygonFC = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[11,48],[12,48],[12,49],[11,48]]]},"properties":{"vnbName":"X"}}]}`

const boundaryFC = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[10,51]},"properties":{"gen":"X"}}]}`

const bessFC = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[13.4,52.5]},"properties":{"id":"B1","name":"Groß","type":"bess","status":"In Betrieb","grossPower":20000,"netPower":20000,"storageTechnology":"Batterie","storageCapacity":40000}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[9.1,48.7]},"properties":{"id":"B2","name":"Klein","type":"bess","status":"In Planung","grossPower":50,"netPower":50,"storageTechnology":"Batterie","storageCapacity":100}}
]}`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) (*gin.Engine, *vnbgeo.Browser) {
	t.Helper()
	ctx := context.Background()
	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "vnb/index.json", []byte(indexJSON)))
	require.NoError(t, ms.Put(ctx, "vnb/full/1.geojson", []byte(polygonFC)))
	require.NoError(t, ms.Put(ctx, "vnb/full/2.geojson", []byte(polygonFC)))
	for _, l := range admin.Layers {
		require.NoError(t, ms.Put(ctx, "admin/"+string(l)+".geojson", []byte(boundaryFC)))
	}
	require.NoError(t, ms.Put(ctx, "anlagen/bess.geojson", []byte(bessFC)))

	b, err := vnbgeo.Open(ctx, ms, vnbgeo.WithSynchronousLoads())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	return NewRouter(b, WithMetricsHandler(metrics)), b
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 3, health["records"])

	w = do(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# metrics")

	w = do(t, r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[ErrorResponse](t, w).Code)
}

func TestListVNBs(t *testing.T) {
	r, _ := newTestRouter(t)

	type list struct {
		VNBs  []VNBItem `json:"vnbs"`
		Count int       `json:"count"`
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"1", "2", "3"}},
		{"substring", "?q=netz", []string{"2", "3"}},
		{"tag", "?tags=Niederspannung", []string{"1", "3"}},
		{"substring and tags", "?q=netz&tags=Mittelspannung", []string{"2"}},
		{"no match", "?q=xyz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/api/vnbs"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			got := decode[list](t, w)
			ids := []string{}
			for _, v := range got.VNBs {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), got.Count)
		})
	}

	w := do(t, r, http.MethodGet, "/api/vnbs?tags=Hochspannung", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TAGS", decode[ErrorResponse](t, w).Code)
}

func TestGetVNB(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/vnbs/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	item := decode[VNBItem](t, w)
	assert.Equal(t, "Stadtwerke München", item.Name)
	assert.Equal(t, "#9b59b6", item.Color)
	assert.Equal(t, "310 km²", item.AreaLabel)

	w = do(t, r, http.MethodGet, "/api/vnbs/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGeometry(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/vnbs/1/geometry", "")
	require.Equal(t, http.StatusOK, w.Code)
	fc := decode[map[string]any](t, w)
	assert.Equal(t, "FeatureCollection", fc["type"])

	w = do(t, r, http.MethodGet, "/api/vnbs/99/geometry", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/vnbs/3/geometry", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "GEOMETRY_UNAVAILABLE", decode[ErrorResponse](t, w).Code)
}

func TestSelect(t *testing.T) {
	r, b := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/vnbs/2/select", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", b.State().Selected)

	w = do(t, r, http.MethodPost, "/api/vnbs/99/select", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "2", b.State().Selected)

	w = do(t, r, http.MethodDelete, "/api/selection", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, b.State().Selected)
}

func TestSearch(t *testing.T) {
	r, _ := newTestRouter(t)

	type result struct {
		Results []SearchHit `json:"results"`
		Count   int         `json:"count"`
	}

	w := do(t, r, http.MethodGet, "/api/search?q=netze&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[result](t, w)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "2", got.Results[0].ID)
	assert.Zero(t, got.Results[0].Score)

	w = do(t, r, http.MethodGet, "/api/search?q=n", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[result](t, w).Count)

	w = do(t, r, http.MethodGet, "/api/search?q=netze&limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.EqualValues(t, 3, stats["totalCount"])
	assert.EqualValues(t, 1, stats["both"])
}

func TestListAssets(t *testing.T) {
	r, b := newTestRouter(t)

	type list struct {
		Status string      `json:"status"`
		Assets []AssetItem `json:"assets"`
		Count  int         `json:"count"`
	}

	w := do(t, r, http.MethodGet, "/api/assets/bess", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[list](t, w)
	assert.Equal(t, "loaded", got.Status)
	assert.Equal(t, 2, got.Count)

	rules := url.QueryEscape(`[{"field":"grossPower","operator":"gte","value":1000}]`)
	w = do(t, r, http.MethodGet, "/api/assets/bess?rules="+rules, "")
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[list](t, w)
	require.Len(t, got.Assets, 1)
	assert.Equal(t, "B1", got.Assets[0].ID)
	assert.Equal(t, "20.0 MW", got.Assets[0].PowerLabel)
	assert.Equal(t, "#a855f7", got.Assets[0].Marker.FillColor)
	assert.Empty(t, b.State().Filters.AssetRules)

	w = do(t, r, http.MethodGet, "/api/assets/bess?rules="+url.QueryEscape(`[{"field":"color","operator":"equals","value":"x"}]`), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/assets/wind", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/assets/solar", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPutRules(t *testing.T) {
	r, b := newTestRouter(t)

	w := do(t, r, http.MethodPut, "/api/filters/rules", `[{"field":"status","operator":"equals","value":"In Planung"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	rules := b.State().Filters.AssetRules
	require.Len(t, rules, 1)
	assert.NotEmpty(t, rules[0].ID)

	w = do(t, r, http.MethodGet, "/api/assets/bess", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["count"])

	w = do(t, r, http.MethodPut, "/api/filters/rules", `[{"field":"status","operator":"gt","value":"x"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, b.State().Filters.AssetRules, 1)

	w = do(t, r, http.MethodGet, "/api/filters/fields", "")
	require.Equal(t, http.StatusOK, w.Code)
	fields := decode[[]FieldInfo](t, w)
	require.NotEmpty(t, fields)
	assert.Equal(t, "id", fields[0].Key)
}

func TestViewportAndLayers(t *testing.T) {
	r, b := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/boundaries/kreise", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["displayed"])

	w = do(t, r, http.MethodPost, "/api/layers/kreise/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["visible"])

	w = do(t, r, http.MethodPost, "/api/viewport", `{"zoom":30}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.MaxZoom, decode[state.Viewport](t, w).Zoom)
	b.Wait()

	w = do(t, r, http.MethodGet, "/api/boundaries/kreise", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, true, got["displayed"])
	assert.Equal(t, "loaded", got["status"])

	w = do(t, r, http.MethodPost, "/api/layers/roads/toggle", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/viewport", `{"zoom":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[map[string]any](t, w)
	assert.Contains(t, st, "viewport")
	assert.Contains(t, st, "visibility")
}
