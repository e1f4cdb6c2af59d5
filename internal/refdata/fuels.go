package refdata

// AllZones lists the 22 PJM transmission zones (21 LBAs plus the PJM-RTO
// aggregate node).
var AllZones = []string{
	"AECO", "AEP", "APS", "ATSI", "BGE", "COMED", "DAY", "DEOK",
	"DOM", "DPL", "DUQ", "EKPC", "JCPL", "METED", "OVEC", "PECO",
	"PENELEC", "PEPCO", "PJM-RTO", "PPL", "PSEG", "RECO",
}

// IsZone reports whether name is a known PJM zone.
func IsZone(name string) bool {
	for _, z := range AllZones {
		if z == name {
			return true
		}
	}
	return false
}

// FossilFuels is the set of fuel types counted as fossil generation.
var FossilFuels = map[string]bool{
	"Gas-CC": true,
	"Gas-CT": true,
	"Coal":   true,
	"Oil":    true,
}

// FuelOrder fixes the iteration order for the weighted marginal-fuel draw
// so a given seed always reproduces the same timeline.
var FuelOrder = []string{"Nuclear", "Coal", "Gas-CC", "Gas-CT", "Wind", "Solar", "Hydro"}

// SignalRange is the signal-strength band for a marginal fuel.
type SignalRange struct {
	Min, Max int
}

// SignalRanges maps each fuel to its stability band. Baseload fuels hold
// the margin longer and score higher than intermittent ones.
var SignalRanges = map[string]SignalRange{
	"Nuclear": {82, 95},
	"Coal":    {68, 85},
	"Gas-CC":  {58, 80},
	"Hydro":   {55, 75},
	"Gas-CT":  {38, 65},
	"Wind":    {28, 60},
	"Solar":   {22, 55},
}

// DefaultSignalRange applies to fuels missing from SignalRanges.
var DefaultSignalRange = SignalRange{40, 70}

// ZoneFuelBias multiplies the base hour weight for a fuel in a zone.
// Omitted fuels use 1.0. Regional generation mixes are well documented:
// COMED is a wind+nuclear corridor, AEP/DOM sit on Appalachian coal, the
// NJ/SE-PA zones run on coastal gas.
var ZoneFuelBias = map[string]map[string]float64{
	"COMED":   {"Wind": 2.8, "Nuclear": 1.6, "Coal": 0.6},
	"ATSI":    {"Wind": 1.6, "Gas-CC": 1.2},
	"DAY":     {"Coal": 1.6, "Wind": 1.4},
	"AEP":     {"Coal": 2.1, "Gas-CT": 0.6},
	"DOM":     {"Coal": 1.9, "Gas-CC": 1.2},
	"EKPC":    {"Coal": 2.3, "Gas-CT": 0.5},
	"OVEC":    {"Coal": 2.1},
	"DEOK":    {"Coal": 1.6},
	"METED":   {"Coal": 1.5, "Gas-CC": 1.1},
	"PENELEC": {"Coal": 1.6, "Hydro": 1.4},
	"PSEG":    {"Gas-CC": 1.9, "Coal": 0.4},
	"RECO":    {"Gas-CC": 2.0, "Wind": 1.5},
	"AECO":    {"Gas-CC": 1.8, "Wind": 1.3},
	"JCPL":    {"Gas-CC": 1.7, "Nuclear": 1.3},
	"DPL":     {"Gas-CC": 1.5, "Solar": 1.4},
	"BGE":     {"Gas-CC": 1.5, "Nuclear": 1.4},
	"PEPCO":   {"Gas-CC": 1.6, "Nuclear": 1.3},
	"PECO":    {"Gas-CC": 1.5, "Nuclear": 1.4},
	"PPL":     {"Gas-CC": 1.3, "Coal": 1.2},
	"APS":     {"Gas-CC": 1.3, "Coal": 1.1},
	"DUQ":     {"Gas-CC": 1.2, "Hydro": 1.5},
	"PJM-RTO": {"Gas-CC": 1.5, "Wind": 1.2},
}

// BaseHourWeights returns per-fuel dispatch probability weights for an
// hour of day, derived from published PJM system lambda and dispatch
// stack analysis.
func BaseHourWeights(hour int) map[string]float64 {
	switch {
	case hour <= 5: // deep off-peak: baseload dominates
		return map[string]float64{"Nuclear": 3.0, "Coal": 2.5, "Wind": 2.2, "Gas-CC": 1.5,
			"Hydro": 1.0, "Gas-CT": 0.2, "Solar": 0.0}
	case hour <= 8: // morning ramp: gas picks up
		return map[string]float64{"Gas-CC": 3.0, "Coal": 2.0, "Nuclear": 1.5, "Wind": 1.0,
			"Hydro": 0.8, "Gas-CT": 0.6, "Solar": 0.3}
	case hour <= 11: // late morning: gas + solar beginning
		return map[string]float64{"Gas-CC": 3.5, "Coal": 1.5, "Solar": 1.5, "Wind": 1.0,
			"Hydro": 0.7, "Nuclear": 0.8, "Gas-CT": 0.5}
	case hour <= 15: // midday: solar near peak, gas moderated
		return map[string]float64{"Gas-CC": 2.5, "Solar": 2.2, "Coal": 1.5, "Wind": 1.0,
			"Hydro": 0.8, "Nuclear": 0.5, "Gas-CT": 0.7}
	case hour <= 19: // evening peak: peakers dispatched
		return map[string]float64{"Gas-CC": 3.5, "Gas-CT": 2.2, "Coal": 1.5, "Wind": 0.8,
			"Hydro": 0.7, "Nuclear": 0.5, "Solar": 0.3}
	case hour <= 21: // post-peak step-down
		return map[string]float64{"Gas-CC": 3.0, "Coal": 2.0, "Wind": 1.8, "Gas-CT": 1.0,
			"Nuclear": 1.0, "Hydro": 0.8, "Solar": 0.0}
	default: // late night shoulder
		return map[string]float64{"Gas-CC": 2.5, "Coal": 2.5, "Nuclear": 2.0, "Wind": 1.8,
			"Hydro": 1.0, "Gas-CT": 0.3, "Solar": 0.0}
	}
}

// PeriodLabel buckets an hour of day into a market note period.
func PeriodLabel(hour int) string {
	switch {
	case hour <= 5:
		return "offpeak"
	case hour <= 9:
		return "morning"
	case hour <= 15:
		return "midday"
	case hour <= 19:
		return "peak"
	case hour <= 21:
		return "evening"
	default:
		return "offpeak"
	}
}

// MarketNotes maps fuel -> period -> one-sentence market commentary.
var MarketNotes = map[string]map[string]string{
	"Gas-CC": {
		"offpeak": "Gas combined cycle is on the margin during overnight shoulder hours as baseload carries the load.",
		"morning": "Natural gas combined cycle is ramping up to meet the morning load increase.",
		"midday":  "Gas combined cycle is setting the price under moderate midday demand conditions.",
		"evening": "Natural gas is currently setting the price due to high evening load.",
		"peak":    "Gas combined cycle is the price-setting fuel as demand reaches its daily peak.",
	},
	"Gas-CT": {
		"offpeak": "Gas combustion turbines are cycling at the margin during light off-peak hours.",
		"morning": "Gas combustion turbines are supplementing combined cycle during the morning ramp.",
		"midday":  "Peaker units are on the margin due to unexpectedly elevated midday demand.",
		"evening": "Gas peakers have been dispatched to meet the steep evening demand ramp.",
		"peak":    "Gas combustion turbine peakers are setting the price as demand spikes above baseload capacity.",
	},
	"Coal": {
		"offpeak": "Coal generation is on the margin as off-peak demand is met at lower variable cost.",
		"morning": "Coal is setting the price during the early-morning low-demand period.",
		"midday":  "Coal units remain on the margin in this zone due to the regional generation mix.",
		"evening": "Coal generation is setting the price as higher-cost gas units are backed off.",
		"peak":    "Coal is contributing to peak supply and setting the marginal price in this zone.",
	},
	"Nuclear": {
		"offpeak": "Nuclear baseload is on the margin during deep off-peak hours with minimal demand.",
		"morning": "Nuclear is setting the price in the early hours before morning load picks up.",
		"midday":  "Nuclear baseload is on the margin as solar generation suppresses midday prices.",
		"evening": "Nuclear is holding the margin as the evening demand ramp moderates.",
		"peak":    "Nuclear baseload remains on the margin in this zone due to surplus low-cost capacity.",
	},
	"Wind": {
		"offpeak": "High overnight wind generation is driving prices low and setting the marginal fuel.",
		"morning": "Wind output is suppressing prices and setting the margin during early morning hours.",
		"midday":  "Wind generation is on the margin as solar peaks and residual load moderates.",
		"evening": "The evening wind ramp is setting the marginal price in this zone.",
		"peak":    "Strong wind output is partially displacing thermal generation at the margin.",
	},
	"Solar": {
		"offpeak": "Residual solar capacity is at the margin during low-demand hours in this zone.",
		"morning": "Solar is ramping up and beginning to set the marginal fuel.",
		"midday":  "Solar generation is suppressing midday prices and setting the marginal fuel.",
		"evening": "Solar output is declining and transitioning from solar to gas at the margin.",
		"peak":    "Solar is on the margin as high generation depresses afternoon prices.",
	},
	"Hydro": {
		"offpeak": "Hydro generation is providing low-cost baseload and setting the marginal price.",
		"morning": "Hydro is setting the price during the morning hours in this zone.",
		"midday":  "Hydro dispatch is setting the marginal price during midday hours.",
		"evening": "Hydro is supplementing thermal generation at the margin during the evening.",
		"peak":    "Hydro is being dispatched to help meet peak demand at the margin.",
	},
}
