package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"gridalpha/internal/model"
)

// NOAA National Weather Service API. The service is free and keyless
// but rejects requests without a descriptive User-Agent.
const (
	DefaultNOAABaseURL   = "https://api.weather.gov"
	DefaultNOAAUserAgent = "GridAlpha/1.0 (energy-dashboard@psu.edu)"
	observationLimit     = 30
)

// GridInfo locates a zone on the NWS forecast grid. The fallback
// station is a known airport ICAO used when the gridpoints lookup fails.
type GridInfo struct {
	Office          string
	GridX           int
	GridY           int
	City            string
	FallbackStation string
}

// ZoneGridMap assigns each PJM zone a representative NWS grid cell.
// Three metro anchors cover the footprint: Philadelphia for the eastern
// corridor, Chicago for the Midwest, Pittsburgh for the Ohio Valley.
var ZoneGridMap = map[string]GridInfo{
	"BGE":     {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"PECO":    {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"PPL":     {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"PSEG":    {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"PEPCO":   {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"AECO":    {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"JCPL":    {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"RECO":    {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"METED":   {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"DOM":     {"PAX", 96, 70, "Philadelphia", "KPHL"},
	"COMED":   {"LOT", 65, 73, "Chicago", "KORD"},
	"DAY":     {"LOT", 65, 73, "Chicago", "KORD"},
	"EKPC":    {"LOT", 65, 73, "Chicago", "KORD"},
	"AEP":     {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"ATSI":    {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"DPL":     {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"DUQ":     {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"DEOK":    {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"OVEC":    {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"PENELEC": {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"APS":     {"PBZ", 75, 65, "Pittsburgh", "KPIT"},
	"PJM-RTO": {"PAX", 96, 70, "Philadelphia", "KPHL"},
}

// ZoneGrid resolves a zone to its grid cell, defaulting to the system
// anchor for unmapped zones.
func ZoneGrid(zone string) GridInfo {
	if g, ok := ZoneGridMap[zone]; ok {
		return g
	}
	return ZoneGridMap["PJM-RTO"]
}

// StationInfo identifies the observation station chosen for a zone.
type StationInfo struct {
	ID   string `json:"station_id"`
	City string `json:"station_city"`
}

// NOAAClient fetches temperature observations from the NWS API.
type NOAAClient struct {
	http *resty.Client
	log  *logrus.Logger

	mu       sync.Mutex
	stations map[GridInfo]string
}

// NewNOAAClient creates a NOAA client. Empty baseURL and userAgent
// select the public endpoint and the project's default agent string.
func NewNOAAClient(baseURL, userAgent string, log *logrus.Logger) *NOAAClient {
	if baseURL == "" {
		baseURL = DefaultNOAABaseURL
	}
	if userAgent == "" {
		userAgent = DefaultNOAAUserAgent
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(pjmRequestTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/geo+json")

	return &NOAAClient{
		http:     http,
		log:      log,
		stations: make(map[GridInfo]string),
	}
}

type stationsResponse struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
		} `json:"properties"`
	} `json:"features"`
}

// Station resolves the observation station for a zone. The gridpoints
// stations list is queried once per grid cell and cached; failures fall
// back to the known airport station.
func (c *NOAAClient) Station(ctx context.Context, zone string) (StationInfo, error) {
	grid := ZoneGrid(zone)

	c.mu.Lock()
	if id, ok := c.stations[grid]; ok {
		c.mu.Unlock()
		return StationInfo{ID: id, City: grid.City}, nil
	}
	c.mu.Unlock()

	id := grid.FallbackStation
	var list stationsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&list).
		Get(fmt.Sprintf("/gridpoints/%s/%d,%d/stations", grid.Office, grid.GridX, grid.GridY))
	if err == nil && !resp.IsError() && len(list.Features) > 0 {
		id = list.Features[0].Properties.StationIdentifier
		c.log.WithFields(logrus.Fields{
			"grid":    fmt.Sprintf("%s/%d,%d", grid.Office, grid.GridX, grid.GridY),
			"station": id,
		}).Info("noaa: resolved grid to station")
	} else {
		c.log.WithFields(logrus.Fields{
			"grid":     fmt.Sprintf("%s/%d,%d", grid.Office, grid.GridX, grid.GridY),
			"fallback": id,
		}).Warn("noaa: gridpoints lookup failed, using fallback station")
	}

	c.mu.Lock()
	c.stations[grid] = id
	c.mu.Unlock()

	return StationInfo{ID: id, City: grid.City}, nil
}

type observationsResponse struct {
	Features []struct {
		Properties struct {
			Timestamp   string `json:"timestamp"`
			Temperature struct {
				Value *float64 `json:"value"`
			} `json:"temperature"`
		} `json:"properties"`
	} `json:"features"`
}

// Observations fetches temperature readings from a station starting at
// the given time. UTC timestamps are converted to EPT and floored to
// the hour; multiple readings within an hour are averaged. Readings
// without a temperature value are dropped.
func (c *NOAAClient) Observations(ctx context.Context, stationID string, start time.Time) ([]model.TempObservation, error) {
	startUTC := start.UTC().Format("2006-01-02T15:04:05Z")

	c.log.WithFields(logrus.Fields{"station": stationID, "start": startUTC}).
		Info("noaa: fetching observations")

	var body observationsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetQueryParams(map[string]string{
			"start": startUTC,
			"limit": fmt.Sprintf("%d", observationLimit),
		}).
		Get(fmt.Sprintf("/stations/%s/observations", stationID))
	if err != nil {
		return nil, fmt.Errorf("noaa observations: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("noaa observations: station %s returned status %d", stationID, resp.StatusCode())
	}

	sums := map[int64]float64{}
	counts := map[int64]int{}
	hours := map[int64]time.Time{}
	for _, feat := range body.Features {
		p := feat.Properties
		if p.Timestamp == "" || p.Temperature.Value == nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			c.log.WithError(err).Debug("noaa: skipping malformed observation timestamp")
			continue
		}
		hour := ts.In(EPT()).Truncate(time.Hour)
		sums[hour.Unix()] += *p.Temperature.Value
		counts[hour.Unix()]++
		hours[hour.Unix()] = hour
	}

	obs := make([]model.TempObservation, 0, len(sums))
	for unix, sum := range sums {
		obs = append(obs, model.TempObservation{
			HourEPT: hours[unix],
			TempC:   model.Round2(sum / float64(counts[unix])),
		})
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].HourEPT.Before(obs[j].HourEPT) })

	c.log.WithFields(logrus.Fields{"station": stationID, "hours": len(obs)}).
		Info("noaa: observations aggregated")
	return obs, nil
}
