package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridalpha/internal/config"
	"gridalpha/internal/data"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load("")
	require.NoError(t, err)
	demo, err := data.NewDemoSource(nil)
	require.NoError(t, err)
	h := NewDemoHandler(cfg, demo, nil)

	r := gin.New()
	r.GET("/health", h.Health)
	api := r.Group("/api/v1")
	{
		api.GET("/lmp", h.GetLMP)
		api.GET("/spark-spread", h.GetSparkSpread)
		api.GET("/battery-arbitrage", h.GetArbitrage)
		api.GET("/convergence", h.GetConvergence)
		api.GET("/resource-gap", h.GetResourceGap)
		api.GET("/marginal-fuel", h.GetMarginalFuel)
		api.GET("/weather", h.GetWeather)
	}
	return r
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w, body
}

func requireDemoMeta(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok, "response must carry a meta block")
	assert.Equal(t, "1.0", meta["api_version"])
	assert.Equal(t, true, meta["is_demo"])
	assert.Equal(t, "DEMO", meta["data_quality"])
	assert.Equal(t, "America/New_York", meta["timezone"])
	return meta
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "demo", body["mode"])
}

func TestGetLMP(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/lmp?zone=BGE")
	require.Equal(t, http.StatusOK, w.Code)

	meta := requireDemoMeta(t, body)
	assert.Equal(t, "BGE", meta["zone"])

	records := body["data"].([]any)
	require.NotEmpty(t, records)
	first := records[0].(map[string]any)
	total := first["total"].(float64)
	sum := first["energy"].(float64) + first["congestion"].(float64) + first["loss"].(float64)
	assert.InDelta(t, total, sum, 1e-4)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(len(records)), summary["total_hours"])
}

func TestGetLMPUnknownZone(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/lmp?zone=ERCOT")
	assert.Equal(t, http.StatusNotFound, w.Code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "ZONE_NOT_FOUND", errBody["code"])
}

func TestGetSparkSpreadValidation(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/spark-spread?heat_rate=99")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
}

func TestGetSparkSpreadAllZones(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/spark-spread")
	require.Equal(t, http.StatusOK, w.Code)
	requireDemoMeta(t, body)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, 28.0, summary["gas_cost"])
	assert.NotEmpty(t, body["data"])
}

func TestGetArbitrage(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/battery-arbitrage?efficiency=0.9&cycling_cost=5")
	require.Equal(t, http.StatusOK, w.Code)

	results := body["data"].([]any)
	require.NotEmpty(t, results)
	prev := results[0].(map[string]any)["gross_spread_per_mwh"].(float64)
	for _, raw := range results[1:] {
		cur := raw.(map[string]any)["gross_spread_per_mwh"].(float64)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestGetArbitrageBadEfficiency(t *testing.T) {
	r := newTestRouter(t)
	w, _ := get(t, r, "/api/v1/battery-arbitrage?efficiency=1.5")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetConvergence(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/convergence?zone=COMED")
	require.Equal(t, http.StatusOK, w.Code)

	summary := body["summary"].(map[string]any)
	assert.Contains(t, []string{"VIRTUAL_SELLER", "VIRTUAL_BUYER", "MIXED"}, summary["dominant_signal"])
	assert.NotEmpty(t, summary["market_narrative"])
	assert.Equal(t, float64(24), summary["total_hours"])
}

func TestGetResourceGap(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/resource-gap")
	require.Equal(t, http.StatusOK, w.Code)

	results := body["data"].([]any)
	assert.Len(t, results, 21)
	summary := body["summary"].(map[string]any)
	assert.NotEmpty(t, summary["most_at_risk_zone"])
}

func TestGetResourceGapUnknownZone(t *testing.T) {
	r := newTestRouter(t)
	w, _ := get(t, r, "/api/v1/resource-gap?zone=NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMarginalFuel(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/marginal-fuel?zone=PSEG&date=2026-02-19&hour=14")
	require.Equal(t, http.StatusOK, w.Code)

	results := body["data"].([]any)
	require.Len(t, results, 1)
	snap := results[0].(map[string]any)
	assert.Equal(t, "PSEG", snap["zone"])
	assert.Len(t, snap["timeline_24h"].([]any), 24)

	// Same query must reproduce the same timeline.
	_, body2 := get(t, r, "/api/v1/marginal-fuel?zone=PSEG&date=2026-02-19&hour=14")
	assert.Equal(t, body["data"], body2["data"])
}

func TestGetMarginalFuelBadHour(t *testing.T) {
	r := newTestRouter(t)
	w, _ := get(t, r, "/api/v1/marginal-fuel?hour=27")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWeather(t *testing.T) {
	r := newTestRouter(t)
	w, body := get(t, r, "/api/v1/weather?zone=COMED")
	require.Equal(t, http.StatusOK, w.Code)

	records := body["data"].([]any)
	require.NotEmpty(t, records)
	first := records[0].(map[string]any)
	assert.Equal(t, "COMED", first["zone"])
	assert.Equal(t, "KORD", first["station_id"])

	summary := body["summary"].(map[string]any)
	station := summary["station"].(map[string]any)
	assert.Equal(t, "KORD", station["station_id"])
}
