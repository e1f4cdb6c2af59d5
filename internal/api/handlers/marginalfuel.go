package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
	"gridalpha/internal/data"
)

// GetMarginalFuel handles GET /api/v1/marginal-fuel. Date and hour
// default to now (EPT); the same date and hour always reproduce the
// same simulated timeline.
func (h *Handler) GetMarginalFuel(c *gin.Context) {
	var q models.MarginalFuelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	now := h.lastUpdated()
	dateStr := q.Date
	if dateStr == "" {
		dateStr = now.Format("2006-01-02")
	} else if _, err := time.ParseInLocation("2006-01-02", dateStr, data.EPT()); err != nil {
		writeBindError(c, err)
		return
	}
	hour := now.Hour()
	if q.Hour != nil {
		hour = *q.Hour
	}

	results, summary := analysis.SimulateMarginalFuel(q.Zone, dateStr, hour)
	if q.Zone != "" && len(results) == 0 {
		writeError(c, analysis.ErrZoneNotFound)
		return
	}

	meta := h.meta(q.Zone, now, now, "")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, results, summary))
}
