package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
)

// GetResourceGap handles GET /api/v1/resource-gap. The adequacy scorer
// runs on curated zone profiles rather than a live feed, so the window
// metadata covers the assessment moment only.
func (h *Handler) GetResourceGap(c *gin.Context) {
	var q models.ResourceGapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	rate := q.SuccessRate
	if rate == 0 {
		rate = h.cfg.Defaults.QueueSuccessRate
	}
	scorer, err := analysis.NewAdequacyScorer(rate)
	if err != nil {
		writeError(c, err)
		return
	}

	results, summary, err := scorer.Score(q.Zone)
	if err != nil {
		writeError(c, err)
		return
	}

	now := h.lastUpdated()
	meta := h.meta(q.Zone, now, now, "MW")
	c.JSON(http.StatusOK, models.NewEnvelope(meta, results, summary))
}
