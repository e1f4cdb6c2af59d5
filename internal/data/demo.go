package data

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"gridalpha/internal/model"
)

//go:embed snapshot.json
var embeddedSnapshot []byte

// Snapshot is a captured bundle of raw market and weather inputs. It is
// the demo-mode data source: handlers run the same analysis pipeline
// over it that they run over live feeds, so demo responses differ from
// live ones only in freshness.
type Snapshot struct {
	CapturedAtEPT time.Time                          `json:"captured_at_ept"`
	RTRows        []model.RawPriceRow                `json:"rt_rows"`
	DARows        []model.RawPriceRow                `json:"da_rows"`
	LoadByZone    map[string][]model.LoadRow         `json:"load_by_zone"`
	ObsByStation  map[string][]model.TempObservation `json:"observations_by_station"`
	Stations      map[string]StationInfo             `json:"stations_by_zone"`
}

// LoadSnapshot reads a snapshot file, typically written by the fetch
// command.
func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(raw)
}

// ParseSnapshot decodes snapshot JSON.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

var (
	defaultSnapOnce sync.Once
	defaultSnap     *Snapshot
	defaultSnapErr  error
)

// DefaultSnapshot returns the snapshot bundled into the binary.
func DefaultSnapshot() (*Snapshot, error) {
	defaultSnapOnce.Do(func() {
		defaultSnap, defaultSnapErr = ParseSnapshot(embeddedSnapshot)
	})
	return defaultSnap, defaultSnapErr
}

// DemoSource serves a snapshot through the live source interfaces.
// Requested windows are ignored: a snapshot is a fixed slice of time
// and callers flag the response as demo data.
type DemoSource struct {
	snap *Snapshot
}

// NewDemoSource wraps a snapshot. A nil snapshot selects the bundled one.
func NewDemoSource(snap *Snapshot) (*DemoSource, error) {
	if snap == nil {
		var err error
		snap, err = DefaultSnapshot()
		if err != nil {
			return nil, err
		}
	}
	return &DemoSource{snap: snap}, nil
}

// CapturedAt reports when the snapshot was taken.
func (d *DemoSource) CapturedAt() time.Time {
	return d.snap.CapturedAtEPT
}

func (d *DemoSource) RTLMP(ctx context.Context, start, end time.Time) ([]model.RawPriceRow, error) {
	return d.snap.RTRows, nil
}

func (d *DemoSource) DALMP(ctx context.Context, start, end time.Time) ([]model.RawPriceRow, error) {
	return d.snap.DARows, nil
}

func (d *DemoSource) HourlyLoad(ctx context.Context, zone string, start, end time.Time) ([]model.LoadRow, error) {
	if rows, ok := d.snap.LoadByZone[zone]; ok {
		return rows, nil
	}
	return d.snap.LoadByZone["PJM-RTO"], nil
}

func (d *DemoSource) Station(ctx context.Context, zone string) (StationInfo, error) {
	if st, ok := d.snap.Stations[zone]; ok {
		return st, nil
	}
	grid := ZoneGrid(zone)
	return StationInfo{ID: grid.FallbackStation, City: grid.City}, nil
}

func (d *DemoSource) Observations(ctx context.Context, stationID string, start time.Time) ([]model.TempObservation, error) {
	return d.snap.ObsByStation[stationID], nil
}
