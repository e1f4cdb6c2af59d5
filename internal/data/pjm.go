package data

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"gridalpha/internal/model"
)

// PJM Data Miner 2 endpoints. Data requests go to api.pjm.com; the
// dataminer2 domain only hosts the web UI and the public settings file
// that carries the shared subscription key.
const (
	DefaultPJMBaseURL   = "https://api.pjm.com/api/v1"
	DefaultSettingsURL  = "https://dataminer2.pjm.com/config/settings.json"
	DefaultRowsPerPage  = 100
	LoadRowsPerPage     = 500
	pjmRequestTimeout   = 30 * time.Second
	pjmRetryCount       = 3
	pjmRetryWaitSeconds = 2
)

// PJM feed names.
const (
	FeedRTLMP = "rt_unverified_hrl_lmps"
	FeedDALMP = "da_hrl_lmps"
	FeedLoad  = "inst_load"
)

var (
	eptOnce sync.Once
	eptLoc  *time.Location
)

// EPT returns the PJM market timezone (Eastern Prevailing Time).
func EPT() *time.Location {
	eptOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.FixedZone("EPT", -5*3600)
		}
		eptLoc = loc
	})
	return eptLoc
}

// ZoneLoadArea maps PJM zone names to inst_load area codes. The short
// forms are PJM's internal load balancing area abbreviations.
var ZoneLoadArea = map[string]string{
	"AECO":    "AE",
	"AEP":     "AEP",
	"APS":     "APS",
	"ATSI":    "ATSI",
	"BGE":     "BC",
	"COMED":   "COMED",
	"DAY":     "DAYTON",
	"DEOK":    "DEOK",
	"DOM":     "DOM",
	"DPL":     "DPL",
	"DUQ":     "DUQ",
	"EKPC":    "EKPC",
	"JCPL":    "JC",
	"METED":   "ME",
	"OVEC":    "UG",
	"PECO":    "PE",
	"PENELEC": "PN",
	"PEPCO":   "PEP",
	"PJM-RTO": "PJM RTO",
	"PPL":     "PL",
	"PSEG":    "PS",
	"RECO":    "RECO",
}

// LoadArea resolves a zone to its inst_load area code, defaulting to the
// RTO aggregate for zones without a dedicated area.
func LoadArea(zone string) string {
	if area, ok := ZoneLoadArea[zone]; ok {
		return area
	}
	return "PJM RTO"
}

// PJMError represents an error from the PJM Data Miner 2 API.
type PJMError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *PJMError) Error() string {
	return e.Message
}

// PJMClient wraps the PJM Data Miner 2 REST API. The public feeds need
// no registration: PJM publishes a shared subscription key in its
// front-end settings file, fetched lazily on first use and cached for
// the client's lifetime.
type PJMClient struct {
	http        *resty.Client
	settingsURL string
	rows        int
	log         *logrus.Logger

	mu  sync.Mutex
	key string
}

// NewPJMClient creates a PJM client. Empty baseURL and settingsURL
// select the public endpoints; a non-empty apiKey skips the settings
// fetch entirely.
func NewPJMClient(apiKey, baseURL, settingsURL string, rowsPerPage int, log *logrus.Logger) *PJMClient {
	if baseURL == "" {
		baseURL = DefaultPJMBaseURL
	}
	if settingsURL == "" {
		settingsURL = DefaultSettingsURL
	}
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(pjmRequestTimeout).
		SetRetryCount(pjmRetryCount).
		SetRetryWaitTime(pjmRetryWaitSeconds * time.Second).
		SetHeader("Accept", "application/json")

	return &PJMClient{
		http:        http,
		settingsURL: settingsURL,
		rows:        rowsPerPage,
		log:         log,
		key:         apiKey,
	}
}

// subscriptionKey returns the cached key, fetching the public one from
// the settings endpoint if none was configured.
func (c *PJMClient) subscriptionKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key != "" {
		return c.key, nil
	}

	var settings struct {
		SubscriptionKey string `json:"subscriptionKey"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&settings).
		Get(c.settingsURL)
	if err != nil {
		return "", fmt.Errorf("fetch subscription key: %w", err)
	}
	if resp.IsError() {
		return "", &PJMError{
			StatusCode: resp.StatusCode(),
			Code:       "SETTINGS_UNAVAILABLE",
			Message:    fmt.Sprintf("settings endpoint returned status %d", resp.StatusCode()),
		}
	}
	if settings.SubscriptionKey == "" {
		return "", &PJMError{
			Code:    "MISSING_SUBSCRIPTION_KEY",
			Message: "settings JSON returned no subscriptionKey",
		}
	}

	c.log.WithField("key_len", len(settings.SubscriptionKey)).
		Debug("pjm: public subscription key obtained")
	c.key = settings.SubscriptionKey
	return c.key, nil
}

// pjmPage is the envelope every Data Miner feed returns.
type pjmPage struct {
	Items     []json.RawMessage `json:"items"`
	TotalRows int               `json:"totalRows"`
	Links     []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

// getAllPages fetches every page of a feed, following the rel=next link
// until none remains. The next-page URL already carries all params.
func (c *PJMClient) getAllPages(ctx context.Context, endpoint string, params map[string]string) ([]json.RawMessage, error) {
	key, err := c.subscriptionKey(ctx)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	url := "/" + endpoint
	first := true

	for url != "" {
		req := c.http.R().
			SetContext(ctx).
			SetHeader("Ocp-Apim-Subscription-Key", key).
			SetResult(&pjmPage{})
		if first {
			req.SetQueryParams(params)
		}

		start := time.Now()
		resp, err := req.Get(url)
		if err != nil {
			return nil, fmt.Errorf("pjm request failed: %w", err)
		}

		c.log.WithFields(logrus.Fields{
			"feed":     endpoint,
			"status":   resp.StatusCode(),
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("pjm: response")

		switch resp.StatusCode() {
		case 200:
		case 401, 403:
			return nil, &PJMError{
				StatusCode: resp.StatusCode(),
				Code:       "INVALID_SUBSCRIPTION_KEY",
				Message:    "invalid or expired subscription key",
			}
		case 429:
			return nil, &PJMError{
				StatusCode: resp.StatusCode(),
				Code:       "RATE_LIMIT_EXCEEDED",
				Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", resp.Header().Get("Retry-After")),
			}
		default:
			return nil, &PJMError{
				StatusCode: resp.StatusCode(),
				Code:       "API_ERROR",
				Message:    fmt.Sprintf("API returned status %d", resp.StatusCode()),
			}
		}

		page, ok := resp.Result().(*pjmPage)
		if !ok || page == nil {
			return nil, fmt.Errorf("pjm: unexpected response shape from %s", url)
		}
		items = append(items, page.Items...)

		url = ""
		for _, lnk := range page.Links {
			if lnk.Rel == "next" {
				url = lnk.Href
				break
			}
		}
		first = false
	}

	return items, nil
}

// fmtEPT renders a timestamp the way PJM range filters expect.
func fmtEPT(t time.Time) string {
	return t.In(EPT()).Format("2006-01-02 15:04")
}

func eptRange(start, end time.Time) string {
	return fmtEPT(start) + " to " + fmtEPT(end)
}

// parseEPT handles the timestamp formats PJM feeds emit. EPT strings
// carry no offset suffix; they are interpreted in the market timezone.
func parseEPT(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"1/2/2006 3:04:05 PM",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, s, EPT()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized EPT timestamp %q", s)
}

// pjmFloat tolerates both JSON numbers and numeric strings.
type pjmFloat float64

func (f *pjmFloat) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = pjmFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = pjmFloat(v)
	return nil
}

type lmpItem struct {
	DatetimeBeginningEPT string    `json:"datetime_beginning_ept"`
	PnodeName            string    `json:"pnode_name"`
	Type                 string    `json:"type"`
	TotalRT              *pjmFloat `json:"total_lmp_rt"`
	CongestionRT         *pjmFloat `json:"congestion_price_rt"`
	LossRT               *pjmFloat `json:"marginal_loss_price_rt"`
	TotalDA              *pjmFloat `json:"total_lmp_da"`
	CongestionDA         *pjmFloat `json:"congestion_price_da"`
	LossDA               *pjmFloat `json:"marginal_loss_price_da"`
}

// RTLMP fetches real-time unverified hourly LMPs for all ZONE nodes in
// the window.
func (c *PJMClient) RTLMP(ctx context.Context, start, end time.Time) ([]model.RawPriceRow, error) {
	return c.fetchLMP(ctx, FeedRTLMP, "total_lmp_rt,congestion_price_rt,marginal_loss_price_rt", start, end, false)
}

// DALMP fetches day-ahead hourly LMPs for all ZONE nodes in the window.
func (c *PJMClient) DALMP(ctx context.Context, start, end time.Time) ([]model.RawPriceRow, error) {
	return c.fetchLMP(ctx, FeedDALMP, "total_lmp_da,congestion_price_da,marginal_loss_price_da", start, end, true)
}

func (c *PJMClient) fetchLMP(ctx context.Context, feed, priceFields string, start, end time.Time, dayAhead bool) ([]model.RawPriceRow, error) {
	dateRange := eptRange(start, end)
	params := map[string]string{
		"startRow":               "1",
		"rowCount":               strconv.Itoa(c.rows),
		"datetime_beginning_ept": dateRange,
		"type":                   "ZONE",
		"fields":                 "datetime_beginning_ept,datetime_beginning_utc,pnode_name,type," + priceFields,
		"sort":                   "datetime_beginning_ept",
		"order":                  "1",
	}

	if cache := GetCache(); cache != nil {
		cacheKey := GenerateCacheKey(feed, dateRange)
		if rows, found := cache.Get(cacheKey); found {
			c.log.WithFields(logrus.Fields{"feed": feed, "rows": len(rows)}).
				Debug("pjm: cache hit")
			return rows, nil
		}
	}

	c.log.WithFields(logrus.Fields{"feed": feed, "range": dateRange}).
		Info("pjm: fetching LMPs")

	items, err := c.getAllPages(ctx, feed, params)
	if err != nil {
		return nil, err
	}

	rows := make([]model.RawPriceRow, 0, len(items))
	for _, raw := range items {
		var it lmpItem
		if err := json.Unmarshal(raw, &it); err != nil {
			c.log.WithError(err).Debug("pjm: skipping malformed LMP item")
			continue
		}
		hour, err := parseEPT(it.DatetimeBeginningEPT)
		if err != nil {
			c.log.WithError(err).Debug("pjm: skipping LMP item with bad timestamp")
			continue
		}

		row := model.RawPriceRow{Zone: it.PnodeName, HourEPT: hour}
		if dayAhead {
			row.Total = floatPtr(it.TotalDA)
			row.Congestion = floatPtr(it.CongestionDA)
			row.Loss = floatPtr(it.LossDA)
		} else {
			row.Total = floatPtr(it.TotalRT)
			row.Congestion = floatPtr(it.CongestionRT)
			row.Loss = floatPtr(it.LossRT)
		}
		rows = append(rows, row)
	}

	c.log.WithFields(logrus.Fields{"feed": feed, "rows": len(rows)}).
		Info("pjm: fetch complete")

	if cache := GetCache(); cache != nil {
		cache.Set(GenerateCacheKey(feed, dateRange), rows)
	}
	return rows, nil
}

func floatPtr(f *pjmFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

type loadItem struct {
	DatetimeBeginningEPT string    `json:"datetime_beginning_ept"`
	Area                 string    `json:"area"`
	InstantaneousLoad    *pjmFloat `json:"instantaneous_load"`
	MW                   *pjmFloat `json:"mw"`
	LoadMW               *pjmFloat `json:"load_mw"`
}

func (it loadItem) value() (float64, bool) {
	for _, f := range []*pjmFloat{it.InstantaneousLoad, it.MW, it.LoadMW} {
		if f != nil {
			return float64(*f), true
		}
	}
	return 0, false
}

// HourlyLoad fetches actual load for the window and pairs it with a
// persistence forecast. inst_load is a 5-minute instantaneous feed, so
// readings are floored to the hour and averaged.
//
// PJM's public API exposes no working zone-level load forecast, so the
// forecast column is the standard operational fallback: yesterday's
// actual load at the same clock hours, shifted forward 24 hours.
func (c *PJMClient) HourlyLoad(ctx context.Context, zone string, start, end time.Time) ([]model.LoadRow, error) {
	actual, err := c.fetchHourlyMeans(ctx, zone, start, end, 0)
	if err != nil {
		return nil, err
	}
	forecast, err := c.fetchHourlyMeans(ctx, zone, start.Add(-24*time.Hour), end.Add(-24*time.Hour), 24*time.Hour)
	if err != nil {
		c.log.WithError(err).Warn("pjm: persistence forecast unavailable")
		forecast = map[int64]float64{}
	}

	hours := make(map[int64]time.Time, len(actual))
	for unix := range actual {
		hours[unix] = time.Unix(unix, 0).In(EPT())
	}
	for unix := range forecast {
		if _, ok := hours[unix]; !ok {
			hours[unix] = time.Unix(unix, 0).In(EPT())
		}
	}

	rows := make([]model.LoadRow, 0, len(hours))
	for unix, hour := range hours {
		rows = append(rows, model.LoadRow{
			HourEPT:    hour,
			ActualMW:   model.Round1(actual[unix]),
			ForecastMW: model.Round1(forecast[unix]),
		})
	}
	return rows, nil
}

// fetchHourlyMeans pulls inst_load for one area and window, averaging
// the 5-minute readings per hour. A non-zero shift moves every hour
// forward, used to align yesterday's actuals with today's window. The
// zone's area is tried first with the RTO aggregate as fallback.
func (c *PJMClient) fetchHourlyMeans(ctx context.Context, zone string, start, end time.Time, shift time.Duration) (map[int64]float64, error) {
	dateRange := eptRange(start, end)

	var lastErr error
	for _, area := range []string{LoadArea(zone), "PJM RTO"} {
		params := map[string]string{
			"startRow":               "1",
			"rowCount":               strconv.Itoa(LoadRowsPerPage),
			"area":                   area,
			"datetime_beginning_ept": dateRange,
			"sort":                   "datetime_beginning_ept",
			"order":                  "1",
		}
		items, err := c.getAllPages(ctx, FeedLoad, params)
		if err != nil {
			c.log.WithError(err).WithField("area", area).Warn("pjm: inst_load fetch failed")
			lastErr = err
			continue
		}
		if len(items) == 0 {
			continue
		}

		sums := map[int64]float64{}
		counts := map[int64]int{}
		for _, raw := range items {
			var it loadItem
			if err := json.Unmarshal(raw, &it); err != nil {
				continue
			}
			v, ok := it.value()
			if !ok {
				continue
			}
			ts, err := parseEPT(it.DatetimeBeginningEPT)
			if err != nil {
				continue
			}
			hour := ts.Truncate(time.Hour).Add(shift)
			sums[hour.Unix()] += v
			counts[hour.Unix()]++
		}
		if len(sums) == 0 {
			continue
		}

		means := make(map[int64]float64, len(sums))
		for unix, sum := range sums {
			means[unix] = sum / float64(counts[unix])
		}
		c.log.WithFields(logrus.Fields{"area": area, "hours": len(means)}).
			Info("pjm: inst_load aggregated")
		return means, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return map[int64]float64{}, nil
}
