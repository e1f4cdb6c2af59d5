package analysis

import (
	"sort"
	"time"

	"gridalpha/internal/model"
)

// Weather alert thresholds in degrees Fahrenheit. Exactly 90.0 or 20.0 is
// still Normal.
const (
	HeatStressF = 90.0
	ColdSnapF   = 20.0
)

// WeatherLoadHour is one hour of joined temperature and load data.
type WeatherLoadHour struct {
	HourEPT        time.Time `json:"hour_ept"`
	TemperatureF   float64   `json:"temperature_f"`
	TemperatureC   float64   `json:"temperature_c"`
	Zone           string    `json:"zone"`
	StationID      string    `json:"station_id"`
	LoadForecastMW float64   `json:"load_forecast_mw"`
	ActualLoadMW   float64   `json:"actual_load_mw"`
	LoadDeltaPct   float64   `json:"load_delta_pct"`
	WeatherAlert   string    `json:"weather_alert"` // "Heat Stress" | "Cold Snap" | "Normal"
}

// WeatherLoadSummary aggregates a joined window.
type WeatherLoadSummary struct {
	AvgTempF   float64 `json:"avg_temp_f"`
	MaxTempF   float64 `json:"max_temp_f"`
	MinTempF   float64 `json:"min_temp_f"`
	HeatHours  int     `json:"heat_hours"`
	ColdHours  int     `json:"cold_hours"`
	TotalHours int     `json:"total_hours"`
}

// JoinWeatherLoad left-joins temperature observations with hourly load on
// the hour. Hours without load data carry 0.0 MW; the load delta is only
// computed when the forecast is positive. Records sort chronologically.
// No observations means empty records and a zeroed summary.
func JoinWeatherLoad(zone, stationID string, obs []model.TempObservation, load []model.LoadRow) ([]WeatherLoadHour, WeatherLoadSummary) {
	if len(obs) == 0 {
		return []WeatherLoadHour{}, WeatherLoadSummary{}
	}

	loadByHour := make(map[int64]model.LoadRow, len(load))
	for _, l := range load {
		loadByHour[l.HourEPT.Unix()] = l
	}

	records := make([]WeatherLoadHour, 0, len(obs))
	for _, o := range obs {
		tempF := model.Round2(o.TempC*9/5 + 32)

		var actual, forecast float64
		if l, ok := loadByHour[o.HourEPT.Unix()]; ok {
			actual = l.ActualMW
			forecast = l.ForecastMW
		}

		deltaPct := 0.0
		if forecast > 0 {
			deltaPct = model.Round2((actual - forecast) / forecast * 100)
		}

		records = append(records, WeatherLoadHour{
			HourEPT:        o.HourEPT,
			TemperatureF:   tempF,
			TemperatureC:   model.Round2(o.TempC),
			Zone:           zone,
			StationID:      stationID,
			LoadForecastMW: model.Round1(forecast),
			ActualLoadMW:   model.Round1(actual),
			LoadDeltaPct:   deltaPct,
			WeatherAlert:   weatherAlert(tempF),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].HourEPT.Before(records[j].HourEPT)
	})

	var sum float64
	maxT, minT := records[0].TemperatureF, records[0].TemperatureF
	heat, cold := 0, 0
	for _, r := range records {
		sum += r.TemperatureF
		if r.TemperatureF > maxT {
			maxT = r.TemperatureF
		}
		if r.TemperatureF < minT {
			minT = r.TemperatureF
		}
		switch r.WeatherAlert {
		case "Heat Stress":
			heat++
		case "Cold Snap":
			cold++
		}
	}

	summary := WeatherLoadSummary{
		AvgTempF:   model.Round2(sum / float64(len(records))),
		MaxTempF:   model.Round2(maxT),
		MinTempF:   model.Round2(minT),
		HeatHours:  heat,
		ColdHours:  cold,
		TotalHours: len(records),
	}
	return records, summary
}

func weatherAlert(tempF float64) string {
	if tempF > HeatStressF {
		return "Heat Stress"
	}
	if tempF < ColdSnapF {
		return "Cold Snap"
	}
	return "Normal"
}
