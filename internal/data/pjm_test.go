package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPJMServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *PJMClient) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The real Data Miner endpoints serve application/json; label the
		// fake responses the same way so they are parsed as JSON.
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	client := NewPJMClient("", srv.URL, srv.URL+"/config/settings.json", 100, nil)
	return srv, client
}

func TestPJMSubscriptionKeyFetchedOnce(t *testing.T) {
	settingsCalls := 0
	_, client := newTestPJMServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config/settings.json":
			settingsCalls++
			fmt.Fprint(w, `{"subscriptionKey":"public-key-123"}`)
		case "/" + FeedRTLMP:
			assert.Equal(t, "public-key-123", r.Header.Get("Ocp-Apim-Subscription-Key"))
			fmt.Fprint(w, `{"items":[],"totalRows":0,"links":[]}`)
		default:
			http.NotFound(w, r)
		}
	})

	start := time.Date(2026, 2, 19, 0, 0, 0, 0, EPT())
	end := start.Add(24 * time.Hour)
	_, err := client.RTLMP(context.Background(), start, end)
	require.NoError(t, err)
	_, err = client.RTLMP(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, settingsCalls, "key must be cached after first fetch")
}

func TestPJMMissingSubscriptionKey(t *testing.T) {
	_, client := newTestPJMServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.RTLMP(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	var pe *PJMError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "MISSING_SUBSCRIPTION_KEY", pe.Code)
}

func TestPJMRTLMPPagination(t *testing.T) {
	var srv *httptest.Server
	page2Hit := false
	srv, client := newTestPJMServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config/settings.json":
			fmt.Fprint(w, `{"subscriptionKey":"k-0123456789"}`)
		case "/" + FeedRTLMP:
			assert.Equal(t, "ZONE", r.URL.Query().Get("type"))
			next := srv.URL + "/page2"
			fmt.Fprintf(w, `{
				"items":[{"datetime_beginning_ept":"2026-02-19T01:00:00","pnode_name":"BGE","type":"ZONE",
				          "total_lmp_rt":42.51,"congestion_price_rt":3.1,"marginal_loss_price_rt":-0.8}],
				"totalRows":2,
				"links":[{"rel":"next","href":"%s"}]}`, next)
		case "/page2":
			page2Hit = true
			fmt.Fprint(w, `{
				"items":[{"datetime_beginning_ept":"2026-02-19T02:00:00","pnode_name":"BGE","type":"ZONE",
				          "total_lmp_rt":"38.20","congestion_price_rt":null}],
				"totalRows":2,
				"links":[]}`)
		default:
			http.NotFound(w, r)
		}
	})

	start := time.Date(2026, 2, 19, 0, 0, 0, 0, EPT())
	rows, err := client.RTLMP(context.Background(), start, start.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, page2Hit)

	assert.Equal(t, "BGE", rows[0].Zone)
	require.NotNil(t, rows[0].Total)
	assert.Equal(t, 42.51, *rows[0].Total)
	require.NotNil(t, rows[0].Loss)
	assert.Equal(t, -0.8, *rows[0].Loss)
	assert.Equal(t, 1, rows[0].HourEPT.Hour())

	// Second page: string-encoded number and a null component.
	require.NotNil(t, rows[1].Total)
	assert.Equal(t, 38.20, *rows[1].Total)
	assert.Nil(t, rows[1].Congestion)
}

func TestPJMDALMPFields(t *testing.T) {
	_, client := newTestPJMServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config/settings.json":
			fmt.Fprint(w, `{"subscriptionKey":"k-0123456789"}`)
		case "/" + FeedDALMP:
			assert.Contains(t, r.URL.Query().Get("fields"), "total_lmp_da")
			fmt.Fprint(w, `{
				"items":[{"datetime_beginning_ept":"2026-02-19T05:00:00","pnode_name":"PSEG","type":"ZONE",
				          "total_lmp_da":45.0,"congestion_price_da":2.0,"marginal_loss_price_da":0.5}],
				"totalRows":1,"links":[]}`)
		default:
			http.NotFound(w, r)
		}
	})

	start := time.Date(2026, 2, 19, 0, 0, 0, 0, EPT())
	rows, err := client.DALMP(context.Background(), start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PSEG", rows[0].Zone)
	assert.Equal(t, 45.0, *rows[0].Total)
}

func TestPJMHourlyLoadAggregation(t *testing.T) {
	_, client := newTestPJMServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config/settings.json":
			fmt.Fprint(w, `{"subscriptionKey":"k-0123456789"}`)
		case "/" + FeedLoad:
			assert.Equal(t, "BC", r.URL.Query().Get("area"))
			rng := r.URL.Query().Get("datetime_beginning_ept")
			if rng == "2026-02-19 06:00 to 2026-02-19 08:00" {
				// Actual window: three 5-min readings in hour 6, one in hour 7.
				fmt.Fprint(w, `{"items":[
					{"datetime_beginning_ept":"2026-02-19T06:00:00","area":"BC","instantaneous_load":7000},
					{"datetime_beginning_ept":"2026-02-19T06:05:00","area":"BC","instantaneous_load":7100},
					{"datetime_beginning_ept":"2026-02-19T06:10:00","area":"BC","instantaneous_load":7300},
					{"datetime_beginning_ept":"2026-02-19T07:00:00","area":"BC","instantaneous_load":7500}
				],"totalRows":4,"links":[]}`)
				return
			}
			// Yesterday's window for the persistence forecast.
			fmt.Fprint(w, `{"items":[
				{"datetime_beginning_ept":"2026-02-18T06:00:00","area":"BC","instantaneous_load":6800},
				{"datetime_beginning_ept":"2026-02-18T07:30:00","area":"BC","instantaneous_load":7200}
			],"totalRows":2,"links":[]}`)
		default:
			http.NotFound(w, r)
		}
	})

	start := time.Date(2026, 2, 19, 6, 0, 0, 0, EPT())
	rows, err := client.HourlyLoad(context.Background(), "BGE", start, start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byHour := map[int]float64{}
	fcByHour := map[int]float64{}
	for _, row := range rows {
		byHour[row.HourEPT.Hour()] = row.ActualMW
		fcByHour[row.HourEPT.Hour()] = row.ForecastMW
	}
	// Hour 6 actual: mean(7000, 7100, 7300) = 7133.3.
	assert.Equal(t, 7133.3, byHour[6])
	assert.Equal(t, 7500.0, byHour[7])
	// Forecast: yesterday's actuals shifted forward 24h.
	assert.Equal(t, 6800.0, fcByHour[6])
	assert.Equal(t, 7200.0, fcByHour[7])
}

func TestPJMRateLimitError(t *testing.T) {
	_, client := newTestPJMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/config/settings.json" {
			fmt.Fprint(w, `{"subscriptionKey":"k-0123456789"}`)
			return
		}
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.RTLMP(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	var pe *PJMError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", pe.Code)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
}

func TestParseEPTFormats(t *testing.T) {
	for _, s := range []string{
		"2026-02-19T14:00:00",
		"2/19/2026 2:00:00 PM",
		"2026-02-19 14:00:00",
	} {
		ts, err := parseEPT(s)
		require.NoError(t, err, s)
		assert.Equal(t, 14, ts.Hour(), s)
		assert.Equal(t, "America/New_York", ts.Location().String())
	}

	_, err := parseEPT("not a timestamp")
	assert.Error(t, err)
}

func TestEPTRangeFormat(t *testing.T) {
	start := time.Date(2026, 2, 19, 0, 0, 0, 0, EPT())
	end := time.Date(2026, 2, 19, 23, 0, 0, 0, EPT())
	assert.Equal(t, "2026-02-19 00:00 to 2026-02-19 23:00", eptRange(start, end))
}

func TestLoadAreaMapping(t *testing.T) {
	assert.Equal(t, "BC", LoadArea("BGE"))
	assert.Equal(t, "DAYTON", LoadArea("DAY"))
	assert.Equal(t, "UG", LoadArea("OVEC"))
	assert.Equal(t, "PJM RTO", LoadArea("PJM-RTO"))
	assert.Equal(t, "PJM RTO", LoadArea("UNKNOWN"))
}

func TestPJMFloatUnmarshal(t *testing.T) {
	var item lmpItem
	raw := `{"total_lmp_rt":"12.5","congestion_price_rt":3,"marginal_loss_price_rt":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	assert.Equal(t, pjmFloat(12.5), *item.TotalRT)
	assert.Equal(t, pjmFloat(3), *item.CongestionRT)
	assert.Nil(t, item.LossRT)
}
