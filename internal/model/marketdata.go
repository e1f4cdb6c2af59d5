package model

import (
	"sort"
	"time"
)

// RawPriceRow is one row as it arrives from a PJM LMP feed (or a bundled
// snapshot). Price components are pointers because the upstream feed can
// omit or null any of them; normalization coerces missing values to 0.0.
type RawPriceRow struct {
	Zone       string    `json:"zone"`
	HourEPT    time.Time `json:"hour_ept"`
	Total      *float64  `json:"total"`
	Congestion *float64  `json:"congestion"`
	Loss       *float64  `json:"loss"`
}

// HourlyPriceRecord is a fully normalized hourly LMP observation.
// All prices in $/MWh.
type HourlyPriceRecord struct {
	Zone       string    `json:"zone"`
	HourEPT    time.Time `json:"hour_ept"`
	Total      float64   `json:"total"`
	Congestion float64   `json:"congestion"`
	Loss       float64   `json:"loss"`
}

// Energy returns the energy component recovered from the LMP identity:
// total = energy + congestion + loss.
func (r HourlyPriceRecord) Energy() float64 {
	return Round6(r.Total - r.Congestion - r.Loss)
}

// ZoneTimeSeries holds one zone's hourly records in ascending hour order.
type ZoneTimeSeries struct {
	Zone    string              `json:"zone"`
	Records []HourlyPriceRecord `json:"records"`
}

// PricePoint is a bare (hour, price) pair, used by the convergence and
// spark spread calculators which only need a single price stream.
type PricePoint struct {
	HourEPT time.Time `json:"hour_ept"`
	Price   float64   `json:"price"`
}

// Points projects the series onto its total LMP.
func (s ZoneTimeSeries) Points() []PricePoint {
	pts := make([]PricePoint, len(s.Records))
	for i, r := range s.Records {
		pts[i] = PricePoint{HourEPT: r.HourEPT, Price: r.Total}
	}
	return pts
}

// LoadRow is one hour of metered and forecast load for a zone, in MW.
type LoadRow struct {
	HourEPT    time.Time `json:"hour_ept"`
	ActualMW   float64   `json:"actual_mw"`
	ForecastMW float64   `json:"forecast_mw"`
}

// TempObservation is one hourly temperature observation, in Celsius.
type TempObservation struct {
	HourEPT time.Time `json:"hour_ept"`
	TempC   float64   `json:"temp_c"`
}

// BuildZoneSeries normalizes raw feed rows into per-zone time series.
//
// Rules:
//   - missing (nil) price components become 0.0
//   - duplicate (zone, hour) rows collapse to one record, last row wins
//   - records are sorted ascending by hour
//   - gaps are left as gaps; no interpolation
//
// An empty input yields an empty map.
func BuildZoneSeries(rows []RawPriceRow) map[string]ZoneTimeSeries {
	type key struct {
		zone string
		hour int64
	}
	byKey := map[key]HourlyPriceRecord{}
	for _, row := range rows {
		if row.Zone == "" || row.HourEPT.IsZero() {
			continue
		}
		rec := HourlyPriceRecord{
			Zone:       row.Zone,
			HourEPT:    row.HourEPT,
			Total:      deref(row.Total),
			Congestion: deref(row.Congestion),
			Loss:       deref(row.Loss),
		}
		byKey[key{zone: row.Zone, hour: row.HourEPT.Unix()}] = rec
	}

	out := map[string]ZoneTimeSeries{}
	for k, rec := range byKey {
		s := out[k.zone]
		s.Zone = k.zone
		s.Records = append(s.Records, rec)
		out[k.zone] = s
	}
	for zone, s := range out {
		sort.Slice(s.Records, func(i, j int) bool {
			return s.Records[i].HourEPT.Before(s.Records[j].HourEPT)
		})
		out[zone] = s
	}
	return out
}

func deref(p *float64) float64 {
	if p == nil {
		return 0.0
	}
	return *p
}
