package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hupe1980/vnbgeo"
	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/asset"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/filter"
	"github.com/hupe1980/vnbgeo/fuzzy"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/hupe1980/vnbgeo/state"
	"github.com/hupe1980/vnbgeo/style"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: msg})
}

// VNBItem is an index record with its display attributes.
type VNBItem struct {
	spatial.Record
	Color     string `json:"color"`
	AreaLabel string `json:"areaLabel"`
}

func vnbItem(r spatial.Record) VNBItem {
	return VNBItem{Record: r, Color: style.VoltageColor(r.VoltageTypes), AreaLabel: style.FormatArea(r.Area)}
}

// AssetItem is an asset record with its marker style.
type AssetItem struct {
	asset.Record
	Marker     style.CircleMarker `json:"marker"`
	PowerLabel string             `json:"powerLabel"`
}

type handlers struct {
	b     *vnbgeo.Browser
	codec codec.Codec
}

func (h *handlers) health(c *gin.Context) {
	status := "ok"
	if h.b.IndexErr() != nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "records": h.b.Index().Len()})
}

func (h *handlers) listVNBs(c *gin.Context) {
	tags, err := parseTags(c.Query("tags"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_TAGS", err.Error())
		return
	}

	records := h.b.Index().Query(spatial.Query{Search: c.Query("q"), Tags: tags})
	items := make([]VNBItem, len(records))
	for i, r := range records {
		items[i] = vnbItem(r)
	}
	c.JSON(http.StatusOK, gin.H{"vnbs": items, "count": len(items)})
}

func parseTags(s string) ([]spatial.Tag, error) {
	if s == "" {
		return nil, nil
	}
	var tags []spatial.Tag
	for _, part := range strings.Split(s, ",") {
		t := spatial.Tag(strings.TrimSpace(part))
		if !t.Valid() {
			return nil, errors.New("unknown voltage type " + strconv.Quote(string(t)))
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (h *handlers) getVNB(c *gin.Context) {
	r, ok := h.b.Index().Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "unknown vnb "+strconv.Quote(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, vnbItem(r))
}

func (h *handlers) getGeometry(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.b.Geometry(c.Request.Context(), id)
	switch {
	case errors.Is(err, vnbgeo.ErrUnknownRecord):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "unknown vnb "+strconv.Quote(id))
		return
	case err != nil:
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "GEOMETRY_UNAVAILABLE", err.Error())
		return
	}
	c.JSON(http.StatusOK, rec.Collection)
}

func (h *handlers) selectVNB(c *gin.Context) {
	r, err := h.b.Select(c.Request.Context(), c.Param("id"))
	if errors.Is(err, vnbgeo.ErrUnknownRecord) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "unknown vnb "+strconv.Quote(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, vnbItem(r))
}

func (h *handlers) deselect(c *gin.Context) {
	h.b.Deselect()
	c.Status(http.StatusNoContent)
}

// SearchHit is one fuzzy search result.
type SearchHit struct {
	VNBItem
	Score float64 `json:"score"`
}

func (h *handlers) search(c *gin.Context) {
	limit := fuzzy.MaxResults
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	results := h.b.Search(c.Request.Context(), c.Query("q"), limit)
	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{VNBItem: vnbItem(r.Record), Score: r.Score}
	}
	c.JSON(http.StatusOK, gin.H{"results": hits, "count": len(hits)})
}

func (h *handlers) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.b.Stats())
}

func (h *handlers) listAssets(c *gin.Context) {
	cat := asset.Category(c.Param("category"))
	if !cat.Valid() {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "unknown asset category "+strconv.Quote(string(cat)))
		return
	}

	rules := h.b.State().Filters.AssetRules
	if raw := c.Query("rules"); raw != "" {
		var err error
		if rules, err = h.decodeRules([]byte(raw)); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_RULES", err.Error())
			return
		}
	}

	records, err := h.b.AssetsMatching(c.Request.Context(), cat, rules)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "ASSETS_UNAVAILABLE", err.Error())
		return
	}

	items := make([]AssetItem, len(records))
	for i, r := range records {
		items[i] = AssetItem{
			Record:     r,
			Marker:     style.AssetMarker(r.Category, r.GrossPower),
			PowerLabel: style.FormatPower(r.GrossPower),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"category": cat,
		"status":   h.b.AssetStatus(cat),
		"assets":   items,
		"count":    len(items),
	})
}

// decodeRules parses a JSON rule list. Rules without an id get one.
func (h *handlers) decodeRules(data []byte) ([]filter.Rule, error) {
	var rules []filter.Rule
	if err := h.codec.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return normalizeRules(rules)
}

func normalizeRules(rules []filter.Rule) ([]filter.Rule, error) {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, err
		}
		if rules[i].ID == "" {
			rules[i].ID = uuid.NewString()
		}
	}
	return rules, nil
}

// FieldInfo describes a filterable field and the operators it accepts.
type FieldInfo struct {
	filter.FieldSpec
	Operators       []filter.OperatorSpec `json:"operators"`
	DefaultOperator filter.Operator       `json:"defaultOperator"`
}

func (h *handlers) filterFields(c *gin.Context) {
	out := make([]FieldInfo, len(filter.Fields))
	for i, f := range filter.Fields {
		out[i] = FieldInfo{FieldSpec: f, Operators: filter.OperatorsFor(f.Kind), DefaultOperator: filter.DefaultOperator(f.Kind)}
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) putRules(c *gin.Context) {
	var rules []filter.Rule
	if err := c.ShouldBindJSON(&rules); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_RULES", err.Error())
		return
	}
	rules, err := normalizeRules(rules)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_RULES", err.Error())
		return
	}
	h.b.Store().SetFilterRules(rules)
	c.JSON(http.StatusOK, h.b.State().Filters)
}

func (h *handlers) getBoundary(c *gin.Context) {
	layer := admin.Layer(c.Param("layer"))
	if !layer.Valid() {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "unknown boundary layer "+strconv.Quote(string(layer)))
		return
	}

	fc, ok := h.b.Boundaries()[layer]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"layer": layer, "status": h.b.BoundaryStatus(layer), "displayed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"layer": layer, "status": h.b.BoundaryStatus(layer), "displayed": true, "data": fc})
}

func (h *handlers) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.b.State())
}

func (h *handlers) setViewport(c *gin.Context) {
	var u state.ViewportUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_VIEWPORT", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.b.SetViewport(c.Request.Context(), u))
}

func (h *handlers) toggleLayer(c *gin.Context) {
	id, err := state.ParseLayerID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	visible, err := h.b.ToggleLayer(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_LAYER", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"layer": id, "visible": visible})
}
