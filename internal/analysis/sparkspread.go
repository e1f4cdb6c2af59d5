package analysis

import (
	"sort"
	"time"

	"gridalpha/internal/model"
)

// Spark spread parameter domains and defaults. 7.0 MMBtu/MWh is the
// benchmark combined-cycle heat rate; $4.00/MMBtu is a representative
// Henry Hub price after the winter spike subsided.
const (
	DefaultHeatRate = 7.0
	DefaultGasPrice = 4.00

	MinHeatRate = 5.0
	MaxHeatRate = 15.0
	MinGasPrice = 0.5
	MaxGasPrice = 20.0
)

// SparkSpreadCalc applies the spark spread formula:
//
//	gas_cost ($/MWh) = gas_price ($/MMBtu) x heat_rate (MMBtu/MWh)
//	spread   ($/MWh) = lmp - gas_cost
//
// A positive spread only covers variable fuel cost; fixed costs are out.
type SparkSpreadCalc struct {
	HeatRate float64
	GasPrice float64
}

// SparkSpreadHour is the spread for one zone-hour.
type SparkSpreadHour struct {
	Zone     string    `json:"zone"`
	HourEPT  time.Time `json:"hour_ept"`
	LMP      float64   `json:"lmp"`
	GasCost  float64   `json:"gas_cost"`
	Spread   float64   `json:"spark_spread"`
	Economic bool      `json:"economic"`
}

// SparkSpreadSummary aggregates a spread run.
type SparkSpreadSummary struct {
	GasCost       float64 `json:"gas_cost"`
	AvgSpread     float64 `json:"avg_spread"`
	EconomicHours int     `json:"economic_hours"`
	TotalHours    int     `json:"total_hours"`
	BestZone      string  `json:"best_zone"`
	BestSpread    float64 `json:"best_spread"`
}

// NewSparkSpreadCalc validates parameters against their domains. Zero
// values select the defaults.
func NewSparkSpreadCalc(heatRate, gasPrice float64) (*SparkSpreadCalc, error) {
	if heatRate == 0 {
		heatRate = DefaultHeatRate
	}
	if gasPrice == 0 {
		gasPrice = DefaultGasPrice
	}
	if heatRate < MinHeatRate || heatRate > MaxHeatRate {
		return nil, validationErr("heat_rate", heatRate, "[5, 15]")
	}
	if gasPrice < MinGasPrice || gasPrice > MaxGasPrice {
		return nil, validationErr("gas_price", gasPrice, "[0.5, 20]")
	}
	return &SparkSpreadCalc{HeatRate: heatRate, GasPrice: gasPrice}, nil
}

// GasCost is the fuel cost per MWh generated; it is the same for every
// zone because it depends only on fuel price and plant efficiency.
func (c *SparkSpreadCalc) GasCost() float64 {
	return model.Round4(c.GasPrice * c.HeatRate)
}

// Run computes spreads for every record of every series, sorted by spread
// descending. Empty input yields empty results and a zeroed summary.
func (c *SparkSpreadCalc) Run(series map[string]model.ZoneTimeSeries) ([]SparkSpreadHour, SparkSpreadSummary) {
	gasCost := c.GasCost()

	var out []SparkSpreadHour
	for _, s := range series {
		for _, rec := range s.Records {
			lmp := model.Round4(rec.Total)
			spread := model.Round4(lmp - gasCost)
			out = append(out, SparkSpreadHour{
				Zone:     rec.Zone,
				HourEPT:  rec.HourEPT,
				LMP:      lmp,
				GasCost:  gasCost,
				Spread:   spread,
				Economic: spread > 0,
			})
		}
	}
	if len(out) == 0 {
		return []SparkSpreadHour{}, SparkSpreadSummary{GasCost: gasCost}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Spread != out[j].Spread {
			return out[i].Spread > out[j].Spread
		}
		if out[i].Zone != out[j].Zone {
			return out[i].Zone < out[j].Zone
		}
		return out[i].HourEPT.Before(out[j].HourEPT)
	})

	var sum float64
	economic := 0
	for _, h := range out {
		sum += h.Spread
		if h.Economic {
			economic++
		}
	}
	summary := SparkSpreadSummary{
		GasCost:       gasCost,
		AvgSpread:     model.Round4(sum / float64(len(out))),
		EconomicHours: economic,
		TotalHours:    len(out),
		BestZone:      out[0].Zone,
		BestSpread:    out[0].Spread,
	}
	return out, summary
}
