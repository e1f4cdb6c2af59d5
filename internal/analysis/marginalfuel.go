package analysis

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"

	"gridalpha/internal/refdata"
)

// The marginal fuel is the unit type dispatched (or curtailed) next if
// load moved by 1 MWh; it sets the real-time price. PJM publishes no
// direct marginal-fuel feed, so this simulator synthesizes a realistic
// approximation from hour-of-day dispatch curves, zone fuel bias, and
// fuel persistence, seeded per (zone, date) so a day's timeline is stable
// within the day and changes day to day.

// TimelineEntry is the marginal fuel for a single hour (0-23).
type TimelineEntry struct {
	Hour     int    `json:"hour"`
	FuelType string `json:"fuel_type"`
}

// MarginalFuelSnapshot is the marginal fuel state for one zone.
type MarginalFuelSnapshot struct {
	Zone           string          `json:"zone"`
	CurrentFuel    string          `json:"current_fuel"`
	IsFossil       bool            `json:"is_fossil"`
	SignalStrength int             `json:"signal_strength"`
	MarketNote     string          `json:"market_note"`
	Timeline24h    []TimelineEntry `json:"timeline_24h"`
}

// MarginalFuelSummary aggregates a simulation run.
type MarginalFuelSummary struct {
	FossilZones    int `json:"fossil_zones"`
	RenewableZones int `json:"renewable_zones"`
	TotalZones     int `json:"total_zones"`
}

// SimulateMarginalFuel generates per-zone marginal fuel snapshots for the
// given EPT calendar date ("2006-01-02") and current hour. A non-empty
// zoneFilter restricts output to that zone; an unknown zone yields an
// empty slice. Results sort by zone ascending.
func SimulateMarginalFuel(zoneFilter, dateStr string, currentHour int) ([]MarginalFuelSnapshot, MarginalFuelSummary) {
	zones := refdata.AllZones
	if zoneFilter != "" {
		z := strings.ToUpper(zoneFilter)
		if !refdata.IsZone(z) {
			return []MarginalFuelSnapshot{}, MarginalFuelSummary{}
		}
		zones = []string{z}
	}
	if currentHour < 0 {
		currentHour = 0
	}
	if currentHour > 23 {
		currentHour = 23
	}

	results := make([]MarginalFuelSnapshot, 0, len(zones))
	for _, z := range zones {
		rng := zoneRNG(z, dateStr)
		timeline := generateTimeline(z, rng)
		fuel := timeline[currentHour].FuelType
		signal := computeSignal(fuel, timeline, currentHour, rng)
		period := refdata.PeriodLabel(currentHour)

		note := refdata.MarketNotes[fuel][period]
		if note == "" {
			note = fmt.Sprintf("%s is currently setting the marginal price in %s.", fuel, z)
		}

		results = append(results, MarginalFuelSnapshot{
			Zone:           z,
			CurrentFuel:    fuel,
			IsFossil:       refdata.FossilFuels[fuel],
			SignalStrength: signal,
			MarketNote:     note,
			Timeline24h:    timeline,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Zone < results[j].Zone })

	summary := MarginalFuelSummary{TotalZones: len(results)}
	for _, r := range results {
		if r.IsFossil {
			summary.FossilZones++
		} else {
			summary.RenewableZones++
		}
	}
	return results, summary
}

// zoneRNG returns a deterministic RNG seeded on zone + calendar date.
func zoneRNG(zone, dateStr string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(zone + "|" + dateStr))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// generateTimeline builds a 24-hour marginal fuel timeline. The previous
// hour's fuel gets a 2x weight boost so fuel regimes persist for several
// hours, matching real dispatch.
func generateTimeline(zone string, rng *rand.Rand) []TimelineEntry {
	bias := refdata.ZoneFuelBias[zone]
	entries := make([]TimelineEntry, 0, 24)
	prevFuel := ""

	for hour := 0; hour < 24; hour++ {
		weights := refdata.BaseHourWeights(hour)

		for fuel, mult := range bias {
			if _, ok := weights[fuel]; ok {
				weights[fuel] *= mult
			}
		}

		// No solar outside the daylight window.
		if hour < 7 || hour >= 20 {
			weights["Solar"] = 0.0
		}

		if prevFuel != "" && weights[prevFuel] > 0 {
			weights[prevFuel] *= 2.0
		}

		chosen := weightedChoice(rng, weights)
		entries = append(entries, TimelineEntry{Hour: hour, FuelType: chosen})
		prevFuel = chosen
	}
	return entries
}

// weightedChoice draws one fuel proportionally to its weight, iterating
// in the fixed FuelOrder so a given seed reproduces the same draw.
func weightedChoice(rng *rand.Rand, weights map[string]float64) string {
	var total float64
	for _, fuel := range refdata.FuelOrder {
		total += weights[fuel]
	}
	if total <= 0 {
		return refdata.FuelOrder[0]
	}
	target := rng.Float64() * total
	var cum float64
	for _, fuel := range refdata.FuelOrder {
		cum += weights[fuel]
		if target < cum {
			return fuel
		}
	}
	return refdata.FuelOrder[len(refdata.FuelOrder)-1]
}

// computeSignal scores signal strength 0-100. The base range is
// fuel-specific; consecutive same-fuel hours within 3h of the current
// hour add a stability bonus of up to 15 points.
func computeSignal(fuel string, timeline []TimelineEntry, currentHour int, rng *rand.Rand) int {
	band, ok := refdata.SignalRanges[fuel]
	if !ok {
		band = refdata.DefaultSignalRange
	}

	consecutive := 1
	for i := currentHour - 1; i >= 0 && i >= currentHour-3; i-- {
		if timeline[i].FuelType != fuel {
			break
		}
		consecutive++
	}
	for i := currentHour + 1; i < 24 && i <= currentHour+3; i++ {
		if timeline[i].FuelType != fuel {
			break
		}
		consecutive++
	}

	bonus := consecutive * 3
	if bonus > 15 {
		bonus = 15
	}
	raw := band.Min + rng.Intn(band.Max-band.Min+1) + bonus
	if raw > 100 {
		raw = 100
	}
	return raw
}
