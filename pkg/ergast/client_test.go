package ergast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1scraper/pkg/config"
	errs "f1scraper/pkg/errors"
)

func testClient(baseURL string) *Client {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.API.Timeout = 5 * time.Second
	cfg.Retry.MaxAttempts = 3
	cfg.Retry.BaseDelay = time.Millisecond
	cfg.Retry.MaxDelay = 100 * time.Millisecond
	return NewClient(cfg, nil)
}

const driversBody = `{
	"MRData": {
		"series": "f1",
		"limit": "30", "offset": "0", "total": "2",
		"DriverTable": {
			"Drivers": [
				{"driverId": "max_verstappen", "familyName": "Verstappen"},
				{"driverId": "hamilton", "familyName": "Hamilton"}
			]
		}
	}
}`

func TestGetDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(driversBody))
	}))
	defer server.Close()

	client := testClient(server.URL)
	env, err := client.Get(context.Background(), server.URL+"/drivers.json")
	require.NoError(t, err)

	items, err := env.FlatItems(FlatDrivers)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "max_verstappen", items[0]["driverId"])
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(driversBody))
	}))
	defer server.Close()

	client := testClient(server.URL)
	env, err := client.Fetch(context.Background(), server.URL+"/drivers.json")
	require.NoError(t, err)

	items, err := env.FlatItems(FlatDrivers)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "expected two 429s then one success")
}

func TestFetchExhaustsBudget(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Fetch(context.Background(), server.URL+"/drivers.json")
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "budget is total attempts, not extra retries")
}

func TestFetchDoesNotRetryParseError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"MRData": not json`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Fetch(context.Background(), server.URL+"/drivers.json")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "malformed body must not be retried")
}

func TestGetStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		expected errs.ErrorType
	}{
		{http.StatusTooManyRequests, errs.ErrorTypeRateLimit},
		{http.StatusInternalServerError, errs.ErrorTypeServerError},
		{http.StatusBadGateway, errs.ErrorTypeServerError},
		{http.StatusNotFound, errs.ErrorTypeUnknown},
	}

	for _, test := range tests {
		status := test.status
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := testClient(server.URL)
		_, err := client.Get(context.Background(), server.URL+"/x.json")
		require.Error(t, err)
		assert.Equal(t, test.expected, errs.TypeOf(err), "status %d", status)

		server.Close()
	}
}

func TestFlatItemsSchemaErrors(t *testing.T) {
	// Response carries the wrong table for the requested endpoint
	env := &Envelope{MRData: &MRData{SeasonTable: &SeasonTable{}}}

	_, err := env.FlatItems(FlatDrivers)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))

	var empty Envelope
	_, err = empty.FlatItems(FlatSeasons)
	require.Error(t, err)

	_, err = env.Races()
	require.Error(t, err)

	_, err = env.StandingsLists()
	require.Error(t, err)
}

func TestDatasetItems(t *testing.T) {
	race := &Race{
		Results:  []Item{{"position": "1"}},
		PitStops: []Item{{"stop": "1"}, {"stop": "2"}},
	}
	assert.Len(t, race.DatasetItems(), 3)
	assert.Empty(t, (&Race{}).DatasetItems())
}

func TestStandingsEntries(t *testing.T) {
	sl := &StandingsList{
		DriverStandings:      []Item{{"position": "1"}},
		ConstructorStandings: []Item{{"position": "1"}, {"position": "2"}},
	}
	assert.Len(t, sl.Entries(DatasetDriverStandings), 1)
	assert.Len(t, sl.Entries(DatasetConstructorStandings), 2)
}
