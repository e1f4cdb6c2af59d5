package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridalpha/internal/refdata"
)

func TestAdequacyScorerDefaults(t *testing.T) {
	s, err := NewAdequacyScorer(0)
	require.NoError(t, err)
	assert.Equal(t, refdata.QueueSuccessRate, s.SuccessRate)
}

func TestAdequacyScorerRejectsBadRate(t *testing.T) {
	_, err := NewAdequacyScorer(-0.1)
	assert.Error(t, err)
	_, err = NewAdequacyScorer(1.5)
	assert.Error(t, err)
	_, err = NewAdequacyScorer(1.0)
	assert.NoError(t, err)
}

func TestAdequacyScoreAllZones(t *testing.T) {
	s, err := NewAdequacyScorer(0)
	require.NoError(t, err)

	results, summary, err := s.Score("")
	require.NoError(t, err)
	require.Len(t, results, 21)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].ReliabilityScore, results[i].ReliabilityScore,
			"results must sort by score descending")
	}
	for _, r := range results {
		assert.GreaterOrEqual(t, r.ReliabilityScore, 1)
		assert.LessOrEqual(t, r.ReliabilityScore, 10)
		assert.NotEmpty(t, r.InvestmentSignal)
	}

	assert.Equal(t, results[0].Zone, summary.MostAtRisk)
	assert.Equal(t, 21, summary.TotalZones)
	assert.GreaterOrEqual(t, summary.SystemScore, 1)
	assert.LessOrEqual(t, summary.SystemScore, 10)
}

func TestAdequacySingleZone(t *testing.T) {
	s, err := NewAdequacyScorer(0)
	require.NoError(t, err)

	results, summary, err := s.Score("bge")
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "BGE", r.Zone)
	assert.Equal(t, 1816.0, r.RetiringMW)
	assert.Equal(t, 10400.0, r.TotalQueueMW)
	// 10400 * 0.174 = 1809.6
	assert.Equal(t, 1809.6, r.AdjustedQueueMW)
	assert.InDelta(t, r.AdjustedQueueMW*r.AvgELCC, r.ELCCAdjustedMW, 0.05)
	assert.InDelta(t, r.RetiringMW-r.ELCCAdjustedMW, r.DeficitMW, 0.05)
	assert.Equal(t, refdata.QueueSuccessRate, r.QueueSuccessRate)
	assert.Equal(t, 1, summary.TotalZones)
}

func TestAdequacyUnknownZone(t *testing.T) {
	s, err := NewAdequacyScorer(0)
	require.NoError(t, err)

	_, _, err = s.Score("NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZoneNotFound))
}

func TestAdequacySystemScoreFromRTO(t *testing.T) {
	s, err := NewAdequacyScorer(0)
	require.NoError(t, err)

	results, summary, err := s.Score("")
	require.NoError(t, err)

	var rtoScore int
	for _, r := range results {
		if r.Zone == "PJM-RTO" {
			rtoScore = r.ReliabilityScore
		}
	}
	require.NotZero(t, rtoScore, "PJM-RTO must be profiled")
	assert.Equal(t, rtoScore, summary.SystemScore)
}

func TestAdequacyHigherSuccessRateShrinksDeficit(t *testing.T) {
	low, err := NewAdequacyScorer(0.1)
	require.NoError(t, err)
	high, err := NewAdequacyScorer(0.9)
	require.NoError(t, err)

	lowRes, _, err := low.Score("BGE")
	require.NoError(t, err)
	highRes, _, err := high.Score("BGE")
	require.NoError(t, err)

	assert.Greater(t, lowRes[0].DeficitMW, highRes[0].DeficitMW)
}

func TestReliabilityScoreBounds(t *testing.T) {
	assert.Equal(t, 1, reliabilityScore(-5000, 10000, 0))
	assert.Equal(t, 10, reliabilityScore(10000, 10000, 10000))
}

func TestCommaMW(t *testing.T) {
	assert.Equal(t, "1,816", commaMW(1816))
	assert.Equal(t, "950", commaMW(950))
	assert.Equal(t, "13,200", commaMW(13200.4))
	assert.Equal(t, "-1,250", commaMW(-1250))
	assert.Equal(t, "0", commaMW(0))
}
