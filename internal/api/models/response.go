package models

import "time"

// APIVersion reported in every response envelope.
const APIVersion = "1.0"

// Data quality labels.
const (
	QualityLive = "LIVE"
	QualityDemo = "DEMO"
)

// Meta describes the provenance of a response: which zone and window it
// covers and whether it was computed from live feeds or the bundled
// demo snapshot.
type Meta struct {
	APIVersion     string    `json:"api_version"`
	IsDemo         bool      `json:"is_demo"`
	Zone           string    `json:"zone,omitempty"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Timezone       string    `json:"timezone"`
	LastUpdatedEPT time.Time `json:"last_updated_ept"`
	Units          string    `json:"units,omitempty"`
	DataQuality    string    `json:"data_quality"`
}

// NewMeta builds a response Meta for a window.
func NewMeta(zone string, start, end, updated time.Time, units string, demo bool) Meta {
	quality := QualityLive
	if demo {
		quality = QualityDemo
	}
	return Meta{
		APIVersion:     APIVersion,
		IsDemo:         demo,
		Zone:           zone,
		Start:          start,
		End:            end,
		Timezone:       "America/New_York",
		LastUpdatedEPT: updated,
		Units:          units,
		DataQuality:    quality,
	}
}

// Envelope is the uniform response shape: metadata, a record slice, and
// an endpoint-specific summary.
type Envelope[D any, S any] struct {
	Meta    Meta `json:"meta"`
	Data    []D  `json:"data"`
	Summary S    `json:"summary"`
}

// NewEnvelope wraps records and a summary. A nil data slice is
// normalized to empty so responses always carry a JSON array.
func NewEnvelope[D any, S any](meta Meta, data []D, summary S) Envelope[D, S] {
	if data == nil {
		data = []D{}
	}
	return Envelope[D, S]{Meta: meta, Data: data, Summary: summary}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
