package data

import (
	"context"
	"time"

	"gridalpha/internal/model"
)

// MarketSource supplies PJM market data. The live implementation is
// PJMClient; DemoSource serves a bundled snapshot instead.
type MarketSource interface {
	RTLMP(ctx context.Context, start, end time.Time) ([]model.RawPriceRow, error)
	DALMP(ctx context.Context, start, end time.Time) ([]model.RawPriceRow, error)
	HourlyLoad(ctx context.Context, zone string, start, end time.Time) ([]model.LoadRow, error)
}

// WeatherSource supplies temperature observations. The live
// implementation is NOAAClient.
type WeatherSource interface {
	Station(ctx context.Context, zone string) (StationInfo, error)
	Observations(ctx context.Context, stationID string, start time.Time) ([]model.TempObservation, error)
}

var (
	_ MarketSource  = (*PJMClient)(nil)
	_ WeatherSource = (*NOAAClient)(nil)
	_ MarketSource  = (*DemoSource)(nil)
	_ WeatherSource = (*DemoSource)(nil)
)
