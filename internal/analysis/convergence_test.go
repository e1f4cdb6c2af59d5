package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridalpha/internal/model"
)

func pts(prices map[int]float64) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(prices))
	for h, p := range prices {
		out = append(out, model.PricePoint{
			HourEPT: time.Date(2026, 2, 20, h, 0, 0, 0, time.UTC),
			Price:   p,
		})
	}
	return out
}

func TestConvergenceInnerJoin(t *testing.T) {
	da := pts(map[int]float64{1: 40, 2: 45, 3: 50})
	rt := pts(map[int]float64{2: 47, 3: 44, 4: 60})

	res := AnalyzeConvergence("BGE", da, rt)
	require.Len(t, res.Records, 2)

	assert.Equal(t, 2, res.Records[0].HourEPT.Hour())
	assert.Equal(t, 2.0, res.Records[0].Spread)
	assert.Equal(t, 3, res.Records[1].HourEPT.Hour())
	assert.Equal(t, -6.0, res.Records[1].Spread)
	assert.Equal(t, 2, res.TotalHours)
	assert.Equal(t, model.Round4((2.0-6.0)/2), res.AvgSpread)
	assert.Equal(t, 2.0, res.MaxSpread)
	assert.Equal(t, -6.0, res.MinSpread)
}

func TestConvergenceEventFlagBoundaries(t *testing.T) {
	tests := []struct {
		spread float64
		flag   string
	}{
		{50.0, "Normal"},
		{50.01, "Scarcity"},
		{-50.0, "Normal"},
		{-50.01, "Oversupply"},
		{0.0, "Normal"},
	}
	for _, tt := range tests {
		da := pts(map[int]float64{1: 100})
		rt := pts(map[int]float64{1: 100 + tt.spread})
		res := AnalyzeConvergence("PSEG", da, rt)
		require.Len(t, res.Records, 1)
		assert.Equal(t, tt.flag, res.Records[0].EventFlag, "spread %v", tt.spread)
	}
}

func TestConvergenceDominantSeller(t *testing.T) {
	// 7 of 10 hours RT below DA: sellers cleared the 60% bar.
	da := map[int]float64{}
	rt := map[int]float64{}
	for h := 0; h < 10; h++ {
		da[h] = 50
		if h < 7 {
			rt[h] = 45
		} else {
			rt[h] = 55
		}
	}
	res := AnalyzeConvergence("COMED", pts(da), pts(rt))
	assert.Equal(t, SignalVirtualSeller, res.DominantSignal)
	assert.Equal(t, NarrativeVirtualSeller, res.MarketNarrative)
}

func TestConvergenceDominantBuyer(t *testing.T) {
	da := map[int]float64{}
	rt := map[int]float64{}
	for h := 0; h < 10; h++ {
		da[h] = 50
		rt[h] = 58
	}
	res := AnalyzeConvergence("COMED", pts(da), pts(rt))
	assert.Equal(t, SignalVirtualBuyer, res.DominantSignal)
}

func TestConvergenceExactSixtyPercentIsMixed(t *testing.T) {
	// Exactly 60% below does not clear the strict threshold.
	da := map[int]float64{}
	rt := map[int]float64{}
	for h := 0; h < 10; h++ {
		da[h] = 50
		if h < 6 {
			rt[h] = 45
		} else {
			rt[h] = 55
		}
	}
	res := AnalyzeConvergence("DOM", pts(da), pts(rt))
	assert.Equal(t, SignalMixed, res.DominantSignal)
}

func TestConvergenceEmptyJoin(t *testing.T) {
	res := AnalyzeConvergence("BGE", pts(map[int]float64{1: 40}), pts(map[int]float64{5: 44}))
	assert.Empty(t, res.Records)
	assert.Equal(t, SignalMixed, res.DominantSignal)
	assert.Equal(t, NarrativeMixed, res.MarketNarrative)

	res = AnalyzeConvergence("BGE", nil, nil)
	assert.Empty(t, res.Records)
	assert.Equal(t, SignalMixed, res.DominantSignal)
}

func TestConvergenceScarcityCount(t *testing.T) {
	da := pts(map[int]float64{1: 50, 2: 50, 3: 50})
	rt := pts(map[int]float64{1: 150, 2: 45, 3: -20})
	res := AnalyzeConvergence("PEPCO", da, rt)
	assert.Equal(t, 1, res.ScarcityHours)
	assert.Equal(t, 1, res.OversupplyHours)
}
