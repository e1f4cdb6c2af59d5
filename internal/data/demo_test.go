package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridalpha/internal/model"
)

func TestDefaultSnapshotLoads(t *testing.T) {
	snap, err := DefaultSnapshot()
	require.NoError(t, err)

	assert.NotEmpty(t, snap.RTRows)
	assert.NotEmpty(t, snap.DARows)
	assert.NotEmpty(t, snap.LoadByZone)
	assert.NotEmpty(t, snap.ObsByStation)
	assert.False(t, snap.CapturedAtEPT.IsZero())

	// The snapshot must normalize cleanly into per-zone series.
	series := model.BuildZoneSeries(snap.RTRows)
	require.NotEmpty(t, series)
	for zone, s := range series {
		assert.Equal(t, 24, len(s.Records), "zone %s should carry a full day", zone)
	}
}

func TestDemoSourceServesSnapshot(t *testing.T) {
	demo, err := NewDemoSource(nil)
	require.NoError(t, err)
	ctx := context.Background()

	// The requested window is irrelevant for a fixed snapshot.
	rt, err := demo.RTLMP(ctx, time.Now(), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, rt)

	da, err := demo.DALMP(ctx, time.Now(), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, da)

	load, err := demo.HourlyLoad(ctx, "BGE", time.Now(), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, load)

	// Zones without bundled load fall back to the RTO aggregate.
	rto, err := demo.HourlyLoad(ctx, "RECO", time.Now(), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, rto)
}

func TestDemoSourceWeather(t *testing.T) {
	demo, err := NewDemoSource(nil)
	require.NoError(t, err)
	ctx := context.Background()

	st, err := demo.Station(ctx, "COMED")
	require.NoError(t, err)
	assert.Equal(t, "KORD", st.ID)

	obs, err := demo.Observations(ctx, st.ID, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, obs)
}

func TestParseSnapshotRejectsGarbage(t *testing.T) {
	_, err := ParseSnapshot([]byte("not json"))
	assert.Error(t, err)
}
