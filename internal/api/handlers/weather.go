package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
	"gridalpha/internal/data"
)

// WeatherSummary extends the joined-window summary with the observation
// station serving the zone.
type WeatherSummary struct {
	analysis.WeatherLoadSummary
	Station data.StationInfo `json:"station"`
}

// GetWeather handles GET /api/v1/weather. Temperature observations for
// the zone's station are joined with actual load and a persistence
// forecast over the window.
func (h *Handler) GetWeather(c *gin.Context) {
	var q models.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	zone, err := h.zoneOrDefault(q.Zone)
	if err != nil {
		writeError(c, err)
		return
	}

	start, end := h.window(q.Hours)
	ctx := c.Request.Context()

	station, err := h.weather.Station(ctx, zone)
	if err != nil {
		writeError(c, err)
		return
	}
	obs, err := h.weather.Observations(ctx, station.ID, start)
	if err != nil {
		writeError(c, err)
		return
	}

	load, err := h.market.HourlyLoad(ctx, zone, start, end)
	if err != nil {
		// Load is an enrichment; weather is still useful without it.
		h.log.WithError(err).Warn("weather: load join degraded, serving temperatures only")
		load = nil
	}

	records, summary := analysis.JoinWeatherLoad(zone, station.ID, obs, load)
	meta := h.meta(zone, start, end, "degF, MW")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, records, WeatherSummary{
		WeatherLoadSummary: summary,
		Station:            station,
	}))
}
