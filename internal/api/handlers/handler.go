package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gridalpha/internal/analysis"
	"gridalpha/internal/api/models"
	"gridalpha/internal/config"
	"gridalpha/internal/data"
	"gridalpha/internal/model"
	"gridalpha/internal/refdata"
)

// Handler carries the shared dependencies of every endpoint. In demo
// mode both sources are backed by the bundled snapshot and responses
// are flagged accordingly.
type Handler struct {
	cfg     *config.Config
	market  data.MarketSource
	weather data.WeatherSource
	log     *logrus.Logger
	demo    bool

	// capturedAt is the snapshot timestamp in demo mode.
	capturedAt time.Time
}

// NewHandler wires the endpoint set against live sources.
func NewHandler(cfg *config.Config, market data.MarketSource, weather data.WeatherSource, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{cfg: cfg, market: market, weather: weather, log: log}
}

// NewDemoHandler wires the endpoint set against a snapshot.
func NewDemoHandler(cfg *config.Config, demo *data.DemoSource, log *logrus.Logger) *Handler {
	h := NewHandler(cfg, demo, demo, log)
	h.demo = true
	h.capturedAt = demo.CapturedAt()
	return h
}

// Demo reports whether the handler serves snapshot data.
func (h *Handler) Demo() bool {
	return h.demo
}

// window converts an hour count into a concrete EPT window ending now.
// In demo mode the window ends at the snapshot capture time so the
// metadata matches the data served.
func (h *Handler) window(hours int) (time.Time, time.Time) {
	if hours <= 0 {
		hours = h.cfg.Defaults.WindowHours
	}
	end := time.Now().In(data.EPT())
	if h.demo {
		end = h.capturedAt
	}
	return end.Add(-time.Duration(hours) * time.Hour), end
}

func (h *Handler) lastUpdated() time.Time {
	if h.demo {
		return h.capturedAt
	}
	return time.Now().In(data.EPT())
}

func (h *Handler) meta(zone string, start, end time.Time, units string) models.Meta {
	return models.NewMeta(zone, start, end, h.lastUpdated(), units, h.demo)
}

// zoneOrDefault normalizes the zone parameter, falling back to the
// configured default. Returns ErrZoneNotFound for names outside the
// PJM footprint.
func (h *Handler) zoneOrDefault(zone string) (string, error) {
	if zone == "" {
		zone = h.cfg.Defaults.Zone
	}
	zone = strings.ToUpper(zone)
	if !refdata.IsZone(zone) {
		return "", analysis.ErrZoneNotFound
	}
	return zone, nil
}

// rtSeries fetches and normalizes real-time LMPs for a window.
func (h *Handler) rtSeries(ctx context.Context, start, end time.Time) (map[string]model.ZoneTimeSeries, error) {
	rows, err := h.market.RTLMP(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return model.BuildZoneSeries(rows), nil
}

// writeError maps domain errors onto HTTP status codes and the uniform
// error body.
func writeError(c *gin.Context, err error) {
	var ve *analysis.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: ve.Error(),
			Details: map[string]interface{}{"param": ve.Param, "domain": ve.Domain},
		}})
		return
	}
	if errors.Is(err, analysis.ErrZoneNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "ZONE_NOT_FOUND",
			Message: err.Error(),
		}})
		return
	}
	var pe *data.PJMError
	if errors.As(err, &pe) {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "UPSTREAM_ERROR",
			Message: pe.Message,
			Details: map[string]interface{}{"upstream_status": pe.StatusCode, "upstream_code": pe.Code},
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	}})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	}})
}

// Health reports service status and mode.
func (h *Handler) Health(c *gin.Context) {
	mode := "live"
	if h.demo {
		mode = "demo"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
}
