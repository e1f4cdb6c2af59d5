package analysis

import (
	"time"

	"gridalpha/internal/model"
)

// LMPComponents is one hour of decomposed locational marginal price.
// energy + congestion + loss reconstructs total within 1e-4.
type LMPComponents struct {
	Zone       string    `json:"zone"`
	HourEPT    time.Time `json:"hour_ept"`
	Total      float64   `json:"total"`
	Energy     float64   `json:"energy"`
	Congestion float64   `json:"congestion"`
	Loss       float64   `json:"loss"`
}

// LMPSummary aggregates a decomposed series.
type LMPSummary struct {
	AvgTotal      float64 `json:"avg_total"`
	MaxTotal      float64 `json:"max_total"`
	MinTotal      float64 `json:"min_total"`
	AvgCongestion float64 `json:"avg_congestion"`
	AvgLoss       float64 `json:"avg_loss"`
	TotalHours    int     `json:"total_hours"`
}

// DecomposeLMP recovers the energy component of every hour in a zone
// series. An empty series yields an empty slice and a zeroed summary.
func DecomposeLMP(series model.ZoneTimeSeries) ([]LMPComponents, LMPSummary) {
	if len(series.Records) == 0 {
		return []LMPComponents{}, LMPSummary{}
	}

	out := make([]LMPComponents, len(series.Records))
	var sumTotal, sumCong, sumLoss float64
	maxTotal, minTotal := series.Records[0].Total, series.Records[0].Total
	for i, rec := range series.Records {
		out[i] = LMPComponents{
			Zone:       rec.Zone,
			HourEPT:    rec.HourEPT,
			Total:      rec.Total,
			Energy:     rec.Energy(),
			Congestion: rec.Congestion,
			Loss:       rec.Loss,
		}
		sumTotal += rec.Total
		sumCong += rec.Congestion
		sumLoss += rec.Loss
		if rec.Total > maxTotal {
			maxTotal = rec.Total
		}
		if rec.Total < minTotal {
			minTotal = rec.Total
		}
	}

	n := float64(len(out))
	summary := LMPSummary{
		AvgTotal:      model.Round4(sumTotal / n),
		MaxTotal:      model.Round4(maxTotal),
		MinTotal:      model.Round4(minTotal),
		AvgCongestion: model.Round4(sumCong / n),
		AvgLoss:       model.Round4(sumLoss / n),
		TotalHours:    len(out),
	}
	return out, summary
}
