package refdata

// QueueSuccessRate is the fraction of queued nameplate MW that historically
// reaches commercial operation (PJM IMM 2023 State of the Market).
const QueueSuccessRate = 0.174

// ELCCDefault applies to fuel types missing from the ELCC table.
const ELCCDefault = 0.50

// ELCC holds Effective Load Carrying Capability accreditation factors from
// PJM's 2024/25 Reliability Pricing Model study. Renewables cannot
// substitute 1:1 for dispatchable capacity at peak hours.
var ELCC = map[string]float64{
	"Solar":         0.19,
	"Wind_Onshore":  0.13,
	"Wind_Offshore": 0.25,
	"Storage":       0.91, // 4-hour Li-ion BESS
	"Gas_CC":        0.95,
	"Gas_CT":        0.85,
	"Nuclear":       0.95,
	"Other":         0.50,
}

// ELCCFactor returns the accreditation factor for a fuel type, falling back
// to ELCCDefault for unknown fuels.
func ELCCFactor(fuel string) float64 {
	if f, ok := ELCC[fuel]; ok {
		return f
	}
	return ELCCDefault
}
