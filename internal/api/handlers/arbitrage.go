package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
	"gridalpha/internal/model"
)

// GetArbitrage handles GET /api/v1/battery-arbitrage. Query parameters
// overlay the configured battery defaults; an empty zone ranks all
// zones by gross spread.
func (h *Handler) GetArbitrage(c *gin.Context) {
	var q models.ArbitrageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	cfg := model.MergeBatteryConfig(h.cfg.Defaults.Battery, model.BatteryConfig{
		Efficiency:     q.Efficiency,
		ChargeHours:    q.ChargeHours,
		DischargeHours: q.DischargeHours,
		CyclingCost:    q.CyclingCost,
		WindowHours:    q.Hours,
	})
	opt, err := analysis.NewArbitrageOptimizer(cfg)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}})
		return
	}

	start, end := h.window(cfg.WindowHours)
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

	results, summary := opt.Run(series)
	meta := h.meta(zone, start, end, "$/MWh")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, results, summary))
}
