package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
	"gridalpha/internal/model"
)

// GetConvergence handles GET /api/v1/convergence. It joins the DA and
// RT feeds for one zone and reports the spread, event flags, and the
// session's dominant virtual trading signal.
func (h *Handler) GetConvergence(c *gin.Context) {
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

	daRows, err := h.market.DALMP(ctx, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	rtRows, err := h.market.RTLMP(ctx, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	daSeries := model.BuildZoneSeries(daRows)[zone]
	rtSeries := model.BuildZoneSeries(rtRows)[zone]
	result := analysis.AnalyzeConvergence(zone, daSeries.Points(), rtSeries.Points())

	meta := h.meta(zone, start, end, "$/MWh")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, result.Records, convergenceSummary(result)))
}

// ConvergenceSummary is the envelope summary for the convergence
// endpoint: the result minus its record slice, which rides in data.
type ConvergenceSummary struct {
	AvgSpread       float64 `json:"avg_spread"`
	MaxSpread       float64 `json:"max_spread"`
	MinSpread       float64 `json:"min_spread"`
	ScarcityHours   int     `json:"scarcity_hours"`
	OversupplyHours int     `json:"oversupply_hours"`
	TotalHours      int     `json:"total_hours"`
	DominantSignal  string  `json:"dominant_signal"`
	MarketNarrative string  `json:"market_narrative"`
}

func convergenceSummary(r analysis.ConvergenceResult) ConvergenceSummary {
	return ConvergenceSummary{
		AvgSpread:       r.AvgSpread,
		MaxSpread:       r.MaxSpread,
		MinSpread:       r.MinSpread,
		ScarcityHours:   r.ScarcityHours,
		OversupplyHours: r.OversupplyHours,
		TotalHours:      r.TotalHours,
		DominantSignal:  r.DominantSignal,
		MarketNarrative: r.MarketNarrative,
	}
}
