package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
	"gridalpha/internal/model"
)

// GetSparkSpread handles GET /api/v1/spark-spread. An empty zone ranks
// every zone in the feed; heat rate and gas price fall back to the
// configured or benchmark defaults.
func (h *Handler) GetSparkSpread(c *gin.Context) {
	var q models.SparkSpreadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	heatRate := q.HeatRate
	if heatRate == 0 {
		heatRate = h.cfg.Defaults.HeatRate
	}
	gasPrice := q.GasPrice
	if gasPrice == 0 {
		gasPrice = h.cfg.Defaults.GasPrice
	}
	calc, err := analysis.NewSparkSpreadCalc(heatRate, gasPrice)
	if err != nil {
		writeError(c, err)
		return
	}

	start, end := h.window(q.Hours)
	series, err := h.rtSeries(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	zone := ""
	if q.Zone != "" {
		zone, err = h.zoneOrDefault(q.Zone)
		if err != nil {
			writeError(c, err)
			return
		}
		series = filterZone(series, zone)
	}

	hours, summary := calc.Run(series)
	meta := h.meta(zone, start, end, "$/MWh")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, hours, summary))
}

// filterZone narrows a series map to one zone (possibly empty).
func filterZone(series map[string]model.ZoneTimeSeries, zone string) map[string]model.ZoneTimeSeries {
	out := map[string]model.ZoneTimeSeries{}
	for name, s := range series {
		if strings.EqualFold(name, zone) {
			out[name] = s
		}
	}
	return out
}
