package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneProfilesLoad(t *testing.T) {
	profiles, err := ZoneProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 21)

	bge, ok := profiles["BGE"]
	require.True(t, ok)
	assert.Equal(t, 1816.0, bge.RetiringMW)
	assert.Equal(t, 10400.0, bge.QueueMW)
	assert.Equal(t, 7800.0, bge.PeakLoadMW)
	require.NotEmpty(t, bge.KeyRetirements)
	assert.Contains(t, bge.KeyRetirements[0], "Brandon Shores")

	rto, ok := profiles["PJM-RTO"]
	require.True(t, ok)
	assert.Equal(t, 13200.0, rto.RetiringMW)
	assert.Equal(t, 221000.0, rto.QueueMW)
}

func TestQueueMixesSumToOne(t *testing.T) {
	profiles, err := ZoneProfiles()
	require.NoError(t, err)
	for zone, p := range profiles {
		var sum float64
		for _, frac := range p.QueueMix {
			sum += frac
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "queue mix for %s", zone)
	}
}

func TestELCCFactorFallback(t *testing.T) {
	assert.Equal(t, 0.19, ELCCFactor("Solar"))
	assert.Equal(t, 0.91, ELCCFactor("Storage"))
	assert.Equal(t, ELCCDefault, ELCCFactor("Fusion"))
}

func TestBaseHourWeightsCoverAllFuels(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		weights := BaseHourWeights(hour)
		require.Len(t, weights, len(FuelOrder), "hour %d", hour)
		for _, fuel := range FuelOrder {
			_, ok := weights[fuel]
			assert.True(t, ok, "hour %d missing %s", hour, fuel)
		}
	}
}

func TestPeriodLabels(t *testing.T) {
	assert.Equal(t, "offpeak", PeriodLabel(0))
	assert.Equal(t, "offpeak", PeriodLabel(5))
	assert.Equal(t, "morning", PeriodLabel(6))
	assert.Equal(t, "morning", PeriodLabel(9))
	assert.Equal(t, "midday", PeriodLabel(10))
	assert.Equal(t, "midday", PeriodLabel(15))
	assert.Equal(t, "peak", PeriodLabel(16))
	assert.Equal(t, "peak", PeriodLabel(19))
	assert.Equal(t, "evening", PeriodLabel(20))
	assert.Equal(t, "evening", PeriodLabel(21))
	assert.Equal(t, "offpeak", PeriodLabel(23))
}

func TestMarketNotesCoverEveryFuelAndPeriod(t *testing.T) {
	periods := []string{"offpeak", "morning", "midday", "peak", "evening"}
	for _, fuel := range FuelOrder {
		notes, ok := MarketNotes[fuel]
		require.True(t, ok, "fuel %s", fuel)
		for _, p := range periods {
			assert.NotEmpty(t, notes[p], "%s/%s", fuel, p)
		}
	}
}

func TestIsZone(t *testing.T) {
	assert.True(t, IsZone("COMED"))
	assert.True(t, IsZone("PJM-RTO"))
	assert.False(t, IsZone("ERCOT"))
}
