package analysis

import (
	"sort"
	"time"

	"gridalpha/internal/model"
)

// ArbitrageOptimizer models a grid-scale battery charging in a window's
// cheapest hours and discharging in its most expensive, subject to a
// per-hour dispatch gate:
//
//	discharge_lmp x efficiency - charge_price > cycling_cost
//
// Hours that fail the gate stay idle; the battery does not cycle when it
// is uneconomic to do so.
type ArbitrageOptimizer struct {
	cfg model.BatteryConfig
}

// ZoneArbitrage is the arbitrage outcome for one zone over one window.
type ZoneArbitrage struct {
	Zone                string      `json:"zone"`
	ChargeHours         []time.Time `json:"charge_hours"`
	DischargeHours      []time.Time `json:"discharge_hours"`
	ChargePrice         float64     `json:"charge_price"`
	DischargePrice      float64     `json:"discharge_price"`
	RoundTripEfficiency float64     `json:"round_trip_efficiency"`
	CyclingCost         float64     `json:"cycling_cost"`
	GrossSpread         float64     `json:"gross_spread_per_mwh"`
	TotalCyclingCost    float64     `json:"total_cycling_costs"`
	NetProfit           float64     `json:"net_profit_per_mwh"`
	IsProfitable        bool        `json:"is_profitable"`
	HoursAvailable      int         `json:"hours_available"`
	ChargeHoursUsed     int         `json:"charge_hours_used"`
	DischargeHoursUsed  int         `json:"discharge_hours_used"`
	HoursGatedOut       int         `json:"hours_gated_out"`
	WindowEnd           time.Time   `json:"window_end"`
}

// ArbitrageSummary aggregates a run across zones.
type ArbitrageSummary struct {
	ProfitableZones int     `json:"profitable_zones"`
	TotalZones      int     `json:"total_zones"`
	AvgGrossSpread  float64 `json:"avg_gross_spread"`
	AvgNetProfit    float64 `json:"avg_net_profit"`
	BestZone        string  `json:"best_zone"`
	BestGrossSpread float64 `json:"best_gross_spread"`
}

// NewArbitrageOptimizer validates the battery configuration.
func NewArbitrageOptimizer(cfg model.BatteryConfig) (*ArbitrageOptimizer, error) {
	checked, err := model.NewBatteryConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &ArbitrageOptimizer{cfg: checked}, nil
}

// Run evaluates every zone series, returning results sorted by gross
// spread descending. Empty input yields empty results.
func (o *ArbitrageOptimizer) Run(series map[string]model.ZoneTimeSeries) ([]ZoneArbitrage, ArbitrageSummary) {
	var out []ZoneArbitrage
	for _, s := range series {
		if len(s.Records) == 0 {
			continue
		}
		out = append(out, o.runZone(s))
	}
	if len(out) == 0 {
		return []ZoneArbitrage{}, ArbitrageSummary{}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].GrossSpread != out[j].GrossSpread {
			return out[i].GrossSpread > out[j].GrossSpread
		}
		return out[i].Zone < out[j].Zone
	})

	var sumGross, sumNet float64
	profitable := 0
	for _, r := range out {
		sumGross += r.GrossSpread
		sumNet += r.NetProfit
		if r.IsProfitable {
			profitable++
		}
	}
	n := float64(len(out))
	summary := ArbitrageSummary{
		ProfitableZones: profitable,
		TotalZones:      len(out),
		AvgGrossSpread:  model.Round4(sumGross / n),
		AvgNetProfit:    model.Round4(sumNet / n),
		BestZone:        out[0].Zone,
		BestGrossSpread: out[0].GrossSpread,
	}
	return out, summary
}

func (o *ArbitrageOptimizer) runZone(s model.ZoneTimeSeries) ZoneArbitrage {
	cfg := o.cfg

	recs := make([]model.HourlyPriceRecord, len(s.Records))
	copy(recs, s.Records)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Total < recs[j].Total })
	n := len(recs)

	// Charge selection: cheapest N hours, at most half the window.
	nCharge := n / 2
	if nCharge < 1 {
		nCharge = 1
	}
	if cfg.ChargeHours < nCharge {
		nCharge = cfg.ChargeHours
	}
	chargeRecs := recs[:nCharge]

	var chargeSum float64
	for _, r := range chargeRecs {
		chargeSum += r.Total
	}
	// The unrounded mean feeds the dispatch gate; the rounded value is
	// what gets reported.
	chargeRaw := chargeSum / float64(nCharge)
	chargePrice := model.Round4(chargeRaw)

	// Dispatch gate over the remaining hours.
	candidates := recs[nCharge:]
	var qualifying []model.HourlyPriceRecord
	for _, r := range candidates {
		if r.Total*cfg.Efficiency-chargeRaw > cfg.CyclingCost {
			qualifying = append(qualifying, r)
		}
	}
	gatedOut := len(candidates) - len(qualifying)

	// Discharge selection: up to N most expensive qualifying hours.
	// Tie-break on price descending, then hour ascending.
	sort.SliceStable(qualifying, func(i, j int) bool {
		if qualifying[i].Total != qualifying[j].Total {
			return qualifying[i].Total > qualifying[j].Total
		}
		return qualifying[i].HourEPT.Before(qualifying[j].HourEPT)
	})
	nDischarge := cfg.DischargeHours
	if len(qualifying) < nDischarge {
		nDischarge = len(qualifying)
	}
	dischargeRecs := qualifying[:nDischarge]

	dischargePrice := 0.0
	if nDischarge > 0 {
		var sum float64
		for _, r := range dischargeRecs {
			sum += r.Total
		}
		dischargePrice = model.Round4(sum / float64(nDischarge) * cfg.Efficiency)
	}

	grossSpread := model.Round4(dischargePrice - chargePrice)
	totalCycling := model.Round4(cfg.CyclingCost * float64(nDischarge))
	netProfit := model.Round4(grossSpread - cfg.CyclingCost)

	chargeHours := make([]time.Time, len(chargeRecs))
	for i, r := range chargeRecs {
		chargeHours[i] = r.HourEPT
	}
	dischargeHours := make([]time.Time, len(dischargeRecs))
	for i, r := range dischargeRecs {
		dischargeHours[i] = r.HourEPT
	}

	windowEnd := recs[0].HourEPT
	for _, r := range recs {
		if r.HourEPT.After(windowEnd) {
			windowEnd = r.HourEPT
		}
	}

	return ZoneArbitrage{
		Zone:                s.Zone,
		ChargeHours:         chargeHours,
		DischargeHours:      dischargeHours,
		ChargePrice:         chargePrice,
		DischargePrice:      dischargePrice,
		RoundTripEfficiency: cfg.Efficiency,
		CyclingCost:         cfg.CyclingCost,
		GrossSpread:         grossSpread,
		TotalCyclingCost:    totalCycling,
		NetProfit:           netProfit,
		IsProfitable:        netProfit > 0,
		HoursAvailable:      n,
		ChargeHoursUsed:     nCharge,
		DischargeHoursUsed:  nDischarge,
		HoursGatedOut:       gatedOut,
		WindowEnd:           windowEnd,
	}
}
