package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridalpha/internal/model"
)

func obsAt(h int, tempC float64) model.TempObservation {
	return model.TempObservation{
		HourEPT: time.Date(2026, 2, 20, h, 0, 0, 0, time.UTC),
		TempC:   tempC,
	}
}

func loadAt(h int, actual, forecast float64) model.LoadRow {
	return model.LoadRow{
		HourEPT:    time.Date(2026, 2, 20, h, 0, 0, 0, time.UTC),
		ActualMW:   actual,
		ForecastMW: forecast,
	}
}

func TestJoinWeatherLoad(t *testing.T) {
	obs := []model.TempObservation{obsAt(1, 10.0), obsAt(2, 20.0)}
	load := []model.LoadRow{loadAt(1, 10500, 10000), loadAt(2, 9800, 10000)}

	records, summary := JoinWeatherLoad("BGE", "KPHL", obs, load)
	require.Len(t, records, 2)

	assert.Equal(t, 50.0, records[0].TemperatureF)
	assert.Equal(t, 10.0, records[0].TemperatureC)
	assert.Equal(t, 10500.0, records[0].ActualLoadMW)
	assert.Equal(t, 10000.0, records[0].LoadForecastMW)
	assert.Equal(t, 5.0, records[0].LoadDeltaPct)
	assert.Equal(t, "BGE", records[0].Zone)
	assert.Equal(t, "KPHL", records[0].StationID)

	assert.Equal(t, 68.0, records[1].TemperatureF)
	assert.Equal(t, -2.0, records[1].LoadDeltaPct)

	assert.Equal(t, 59.0, summary.AvgTempF)
	assert.Equal(t, 68.0, summary.MaxTempF)
	assert.Equal(t, 50.0, summary.MinTempF)
	assert.Equal(t, 2, summary.TotalHours)
}

func TestWeatherAlertBoundaries(t *testing.T) {
	tests := []struct {
		tempF float64
		alert string
	}{
		{90.0, "Normal"},
		{90.01, "Heat Stress"},
		{20.0, "Normal"},
		{19.99, "Cold Snap"},
		{55.0, "Normal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.alert, weatherAlert(tt.tempF), "temp %v", tt.tempF)
	}
}

func TestJoinWeatherLoadAlertCounts(t *testing.T) {
	// 35C = 95F heat, -10C = 14F cold, 15C = 59F normal.
	obs := []model.TempObservation{obsAt(1, 35.0), obsAt(2, -10.0), obsAt(3, 15.0)}
	records, summary := JoinWeatherLoad("PSEG", "KEWR", obs, nil)
	require.Len(t, records, 3)

	assert.Equal(t, "Heat Stress", records[0].WeatherAlert)
	assert.Equal(t, "Cold Snap", records[1].WeatherAlert)
	assert.Equal(t, "Normal", records[2].WeatherAlert)
	assert.Equal(t, 1, summary.HeatHours)
	assert.Equal(t, 1, summary.ColdHours)
}

func TestJoinWeatherLoadMissingLoad(t *testing.T) {
	obs := []model.TempObservation{obsAt(5, 12.0)}
	records, _ := JoinWeatherLoad("COMED", "KORD", obs, []model.LoadRow{loadAt(9, 9000, 9100)})
	require.Len(t, records, 1)

	assert.Equal(t, 0.0, records[0].ActualLoadMW)
	assert.Equal(t, 0.0, records[0].LoadForecastMW)
	assert.Equal(t, 0.0, records[0].LoadDeltaPct)
}

func TestJoinWeatherLoadZeroForecast(t *testing.T) {
	obs := []model.TempObservation{obsAt(5, 12.0)}
	records, _ := JoinWeatherLoad("COMED", "KORD", obs, []model.LoadRow{loadAt(5, 9000, 0)})
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].LoadDeltaPct)
}

func TestJoinWeatherLoadSortsChronologically(t *testing.T) {
	obs := []model.TempObservation{obsAt(7, 5.0), obsAt(3, 6.0), obsAt(5, 7.0)}
	records, _ := JoinWeatherLoad("AEP", "KPIT", obs, nil)
	require.Len(t, records, 3)
	assert.Equal(t, 3, records[0].HourEPT.Hour())
	assert.Equal(t, 5, records[1].HourEPT.Hour())
	assert.Equal(t, 7, records[2].HourEPT.Hour())
}

func TestJoinWeatherLoadEmpty(t *testing.T) {
	records, summary := JoinWeatherLoad("BGE", "KPHL", nil, nil)
	assert.Empty(t, records)
	assert.Equal(t, WeatherLoadSummary{}, summary)
}
