package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gridalpha/internal/model"
	"gridalpha/internal/refdata"
)

// AdequacyScorer computes zone-level resource adequacy gaps: retiring
// dependable capacity versus queue additions derated by historical queue
// success and fuel-specific ELCC accreditation.
type AdequacyScorer struct {
	SuccessRate float64
}

// AdequacyResult is the resource gap analysis for one PJM zone.
type AdequacyResult struct {
	Zone             string   `json:"zone"`
	RetiringMW       float64  `json:"retiring_mw"`
	TotalQueueMW     float64  `json:"total_queue_mw"`
	AdjustedQueueMW  float64  `json:"adjusted_queue_mw"`
	AvgELCC          float64  `json:"avg_elcc"`
	ELCCAdjustedMW   float64  `json:"elcc_adjusted_mw"`
	DeficitMW        float64  `json:"retirement_deficit_mw"`
	ReliabilityScore int      `json:"reliability_score"` // 1-10, 10 = highest risk
	InvestmentSignal string   `json:"investment_signal"`
	KeyRetirements   []string `json:"key_retirements"`
	QueueSuccessRate float64  `json:"queue_success_rate"`
}

// AdequacySummary aggregates an adequacy run.
type AdequacySummary struct {
	CriticalZones  int     `json:"critical_zones"` // score >= 7
	TotalDeficitMW float64 `json:"total_deficit_mw"`
	MostAtRisk     string  `json:"most_at_risk_zone"`
	SystemScore    int     `json:"system_score"`
	TotalZones     int     `json:"total_zones"`
}

// NewAdequacyScorer validates the queue success rate. A zero rate selects
// the published default.
func NewAdequacyScorer(successRate float64) (*AdequacyScorer, error) {
	if successRate == 0 {
		successRate = refdata.QueueSuccessRate
	}
	if successRate <= 0 || successRate > 1 {
		return nil, validationErr("queue_success_rate", successRate, "(0, 1]")
	}
	return &AdequacyScorer{SuccessRate: successRate}, nil
}

// Score analyses all profiled zones, or a single zone when the filter is
// non-empty. Results sort by reliability score descending (zone ascending
// on ties). An unknown zone filter returns ErrZoneNotFound.
func (s *AdequacyScorer) Score(zoneFilter string) ([]AdequacyResult, AdequacySummary, error) {
	profiles, err := refdata.ZoneProfiles()
	if err != nil {
		return nil, AdequacySummary{}, err
	}

	zones := make([]string, 0, len(profiles))
	if zoneFilter != "" {
		z := strings.ToUpper(zoneFilter)
		if _, ok := profiles[z]; !ok {
			return nil, AdequacySummary{}, fmt.Errorf("adequacy: %q: %w", zoneFilter, ErrZoneNotFound)
		}
		zones = append(zones, z)
	} else {
		for z := range profiles {
			zones = append(zones, z)
		}
	}

	results := make([]AdequacyResult, 0, len(zones))
	for _, z := range zones {
		results = append(results, s.scoreZone(z, profiles[z]))
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].ReliabilityScore != results[j].ReliabilityScore {
			return results[i].ReliabilityScore > results[j].ReliabilityScore
		}
		return results[i].Zone < results[j].Zone
	})

	return results, s.summarize(results), nil
}

func (s *AdequacyScorer) scoreZone(zone string, p refdata.ZoneProfile) AdequacyResult {
	var weighted float64
	for fuel, frac := range p.QueueMix {
		weighted += frac * refdata.ELCCFactor(fuel)
	}
	avgELCC := model.Round4(weighted)

	adjQueue := model.Round1(p.QueueMW * s.SuccessRate)
	elccAdj := model.Round1(adjQueue * avgELCC)
	deficit := model.Round1(p.RetiringMW - elccAdj)
	score := reliabilityScore(deficit, p.PeakLoadMW, p.RetiringMW)
	signal := investmentSignal(zone, score, deficit, p.RetiringMW, p.KeyRetirements)

	return AdequacyResult{
		Zone:             zone,
		RetiringMW:       p.RetiringMW,
		TotalQueueMW:     p.QueueMW,
		AdjustedQueueMW:  adjQueue,
		AvgELCC:          avgELCC,
		ELCCAdjustedMW:   elccAdj,
		DeficitMW:        deficit,
		ReliabilityScore: score,
		InvestmentSignal: signal,
		KeyRetirements:   append([]string(nil), p.KeyRetirements...),
		QueueSuccessRate: s.SuccessRate,
	}
}

func (s *AdequacyScorer) summarize(results []AdequacyResult) AdequacySummary {
	if len(results) == 0 {
		return AdequacySummary{SystemScore: 1}
	}
	critical := 0
	var totalDeficit, scoreSum float64
	systemScore := 0
	for _, r := range results {
		if r.ReliabilityScore >= 7 {
			critical++
		}
		if r.DeficitMW > 0 {
			totalDeficit += r.DeficitMW
		}
		scoreSum += float64(r.ReliabilityScore)
		if r.Zone == "PJM-RTO" {
			systemScore = r.ReliabilityScore
		}
	}
	if systemScore == 0 {
		systemScore = int(math.Round(scoreSum / float64(len(results))))
	}
	return AdequacySummary{
		CriticalZones:  critical,
		TotalDeficitMW: model.Round1(totalDeficit),
		MostAtRisk:     results[0].Zone,
		SystemScore:    systemScore,
		TotalZones:     len(results),
	}
}

// reliabilityScore maps the adequacy gap to a 1-10 risk score.
// Primary driver (70%): deficit as a fraction of zone peak load.
// Secondary driver (30%): raw retirement magnitude versus peak load.
// Calibration: risk index >= 0.30 scores 10; zero risk scores 1.
func reliabilityScore(deficitMW, peakLoadMW, retiringMW float64) int {
	deficitRatio := math.Max(0, deficitMW) / peakLoadMW
	retirementRatio := retiringMW / peakLoadMW
	riskIndex := deficitRatio*0.70 + retirementRatio*0.30
	raw := 1.0 + 9.0*math.Min(riskIndex/0.30, 1.0)
	score := int(math.Round(raw))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

func investmentSignal(zone string, score int, deficit, retiringMW float64, keyRetirements []string) string {
	lead := "major coal retirements"
	if len(keyRetirements) > 0 {
		lead = keyRetirements[0]
	}
	surplus := math.Abs(deficit)

	switch {
	case score >= 9:
		return fmt.Sprintf(
			"CRITICAL — %s faces a %s MW dependable capacity shortfall with %s MW deactivating. "+
				"%s creates an acute need for dispatchable peaking resources, long-duration storage, "+
				"or demand response. New investment here carries the highest reliability premium in PJM.",
			zone, commaMW(deficit), commaMW(retiringMW), lead)
	case score >= 7:
		return fmt.Sprintf(
			"HIGH — %s drives a %s MW gap in %s after ELCC adjustment. Dispatchable capacity "+
				"(gas peaker, 4-hour+ BESS, or import rights) earns a significant capacity market "+
				"premium. Shortage hours risk is elevated.",
			lead, commaMW(deficit), zone)
	case score >= 5:
		return fmt.Sprintf(
			"MODERATE — %s is transitioning away from coal (%s MW retiring) with a %s MW residual "+
				"gap after ELCC-adjusted queue additions. Storage and firm capacity investments offer "+
				"attractive risk-adjusted returns.",
			zone, commaMW(retiringMW), commaMW(deficit))
	case score >= 3:
		return fmt.Sprintf(
			"LOW — %s shows a %s MW capacity gap, partially offset by a large interconnection queue. "+
				"Targeted peaker or storage investments remain opportunistic as %s clears the system.",
			zone, commaMW(deficit), lead)
	default:
		return fmt.Sprintf(
			"MINIMAL — %s has a %s MW dependable capacity surplus after ELCC-adjusted queue additions. "+
				"Transmission upgrades and ancillary services are higher-value investments than new "+
				"generation capacity in this zone.",
			zone, commaMW(surplus))
	}
}

// commaMW renders a MW figure with thousands separators and no decimals.
func commaMW(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		s = s + "," + strings.Join(parts, ",")
	}
	if neg {
		s = "-" + s
	}
	return s
}
