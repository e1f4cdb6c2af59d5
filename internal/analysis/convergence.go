package analysis

import (
	"sort"
	"time"

	"gridalpha/internal/model"
)

// Event thresholds for the DA/RT convergence spread (RT - DA, $/MWh).
// Exactly +50 or -50 is still Normal.
const (
	ScarcityThreshold   = 50.0
	OversupplyThreshold = -50.0
)

// NarrativeThreshold is the fraction of hours that must share a direction
// before a dominant virtual trading signal is declared.
const NarrativeThreshold = 0.60

// Dominant signal labels.
const (
	SignalVirtualSeller = "VIRTUAL_SELLER"
	SignalVirtualBuyer  = "VIRTUAL_BUYER"
	SignalMixed         = "MIXED"
)

// Narrative strings for each dominant signal.
const (
	NarrativeVirtualSeller = "Wind and solar suppressed Real-Time prices below Day-Ahead forecasts" +
		" — virtual sellers who sold RT and bought DA were profitable."
	NarrativeVirtualBuyer = "Demand exceeded forecasts and pushed Real-Time prices above" +
		" Day-Ahead commitments — virtual buyers were profitable."
	NarrativeMixed = "Mixed convergence signals" +
		" — no dominant virtual trading direction today."
)

// ConvergencePoint is the DA/RT spread for one aligned hour.
type ConvergencePoint struct {
	HourEPT   time.Time `json:"hour_ept"`
	DAPrice   float64   `json:"da_price"`
	RTPrice   float64   `json:"rt_price"`
	Spread    float64   `json:"spread"`
	EventFlag string    `json:"event_flag"` // "Scarcity" | "Oversupply" | "Normal"
}

// ConvergenceResult is the full analysis for one zone and window.
type ConvergenceResult struct {
	Zone            string             `json:"zone"`
	Records         []ConvergencePoint `json:"records"`
	AvgSpread       float64            `json:"avg_spread"`
	MaxSpread       float64            `json:"max_spread"`
	MinSpread       float64            `json:"min_spread"`
	ScarcityHours   int                `json:"scarcity_hours"`
	OversupplyHours int                `json:"oversupply_hours"`
	TotalHours      int                `json:"total_hours"`
	DominantSignal  string             `json:"dominant_signal"`
	MarketNarrative string             `json:"market_narrative"`
}

// AnalyzeConvergence inner-joins DA and RT price streams on the exact hour
// and computes the convergence spread for each aligned hour. Hours present
// in only one feed are dropped. An empty join is a MIXED/neutral result,
// not an error.
func AnalyzeConvergence(zone string, da, rt []model.PricePoint) ConvergenceResult {
	empty := ConvergenceResult{
		Zone:            zone,
		Records:         []ConvergencePoint{},
		DominantSignal:  SignalMixed,
		MarketNarrative: NarrativeMixed,
	}

	if len(da) == 0 || len(rt) == 0 {
		return empty
	}

	daByHour := make(map[int64]float64, len(da))
	for _, p := range da {
		daByHour[p.HourEPT.Unix()] = p.Price
	}

	var records []ConvergencePoint
	for _, p := range rt {
		daPrice, ok := daByHour[p.HourEPT.Unix()]
		if !ok {
			continue
		}
		spread := model.Round4(p.Price - daPrice)
		records = append(records, ConvergencePoint{
			HourEPT:   p.HourEPT,
			DAPrice:   model.Round4(daPrice),
			RTPrice:   model.Round4(p.Price),
			Spread:    spread,
			EventFlag: eventFlag(spread),
		})
	}
	if len(records) == 0 {
		return empty
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].HourEPT.Before(records[j].HourEPT)
	})

	var sum float64
	maxSpread, minSpread := records[0].Spread, records[0].Spread
	scarcity, oversupply, below, above := 0, 0, 0, 0
	for _, r := range records {
		sum += r.Spread
		if r.Spread > maxSpread {
			maxSpread = r.Spread
		}
		if r.Spread < minSpread {
			minSpread = r.Spread
		}
		switch r.EventFlag {
		case "Scarcity":
			scarcity++
		case "Oversupply":
			oversupply++
		}
		if r.Spread < 0 {
			below++
		}
		if r.Spread > 0 {
			above++
		}
	}

	signal, narrative := dominantSignal(below, above, len(records))

	return ConvergenceResult{
		Zone:            zone,
		Records:         records,
		AvgSpread:       model.Round4(sum / float64(len(records))),
		MaxSpread:       maxSpread,
		MinSpread:       minSpread,
		ScarcityHours:   scarcity,
		OversupplyHours: oversupply,
		TotalHours:      len(records),
		DominantSignal:  signal,
		MarketNarrative: narrative,
	}
}

func eventFlag(spread float64) string {
	if spread > ScarcityThreshold {
		return "Scarcity"
	}
	if spread < OversupplyThreshold {
		return "Oversupply"
	}
	return "Normal"
}

// dominantSignal declares the session's virtual trading direction.
// RT below DA means virtual sellers profited; RT above DA means virtual
// buyers profited. Neither side clearing 60% of hours is MIXED.
func dominantSignal(below, above, total int) (string, string) {
	if total == 0 {
		return SignalMixed, NarrativeMixed
	}
	sellerFraction := float64(below) / float64(total)
	buyerFraction := float64(above) / float64(total)
	if sellerFraction > NarrativeThreshold {
		return SignalVirtualSeller, NarrativeVirtualSeller
	}
	if buyerFraction > NarrativeThreshold {
		return SignalVirtualBuyer, NarrativeVirtualBuyer
	}
	return SignalMixed, NarrativeMixed
}
