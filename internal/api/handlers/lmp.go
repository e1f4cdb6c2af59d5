package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
)

// GetLMP handles GET /api/v1/lmp. It returns the decomposed real-time
// LMP series for one zone over the requested window.
func (h *Handler) GetLMP(c *gin.Context) {
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
	series, err := h.rtSeries(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	records, summary := analysis.DecomposeLMP(series[zone])
	meta := h.meta(zone, start, end, "$/MWh")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, records, summary))
}
