package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"live-indices/src/helpers"
	"live-indices/src/logger"
	"live-indices/src/models"
	"live-indices/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *models.MConfig {
	return &models.MConfig{
		LogLevel: "ERROR",
		Network:  models.MNetworkConfig{RequestTimeout: 2},
		Backend: models.MBackendConfig{
			BaseURL:         baseURL,
			LiveIndicesPath: "/api/live-indices",
			NSEIndicesPath:  "/api/nse-indices",
			NSEChartPath:    "/api/nse-chart/",
			FIIDIIPath:      "/api/live-fii-dii",
		},
		Entities: []models.MEntity{
			{Key: "nifty50", Label: "NIFTY 50"},
			{Key: "banknifty", Label: "BANK NIFTY"},
		},
	}
}

func backend(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newNet(cfg *models.MConfig) *network.AsyncNetworkManager {
	return network.NewAsyncNetworkManager(cfg, logger.NewLogger("ERROR", "Network"))
}

// -----------------------------------------------------------------------------

func TestLiveIndicesSourceParses(t *testing.T) {
	srv := backend(t, map[string]string{
		"/api/live-indices": `{
			"success": true,
			"indices": {
				"nifty50": {"value": 22100.5, "change": 15, "percentChange": 0.07, "open": 22080,
					"history": [{"timestamp": "2024-03-15 12:05:01", "value": 22100}]},
				"banknifty": {"value": null, "history": []},
				"dowjones": {"value": 39000, "history": []}
			}
		}`,
	})
	cfg := testConfig(srv.URL)

	update, err := NewLiveIndicesSource(cfg, newNet(cfg)).Fetch(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, models.SourceFast, update.Kind)
	require.Contains(t, update.Fast, "nifty50")
	assert.NotContains(t, update.Fast, "banknifty")
	assert.NotContains(t, update.Fast, "dowjones")

	snap := update.Fast["nifty50"]
	assert.Equal(t, 22100.5, snap.Value)
	assert.Equal(t, 22080.0, *snap.Open)
	assert.Nil(t, snap.High)
	assert.Len(t, snap.History, 1)
}

func TestLiveIndicesSourceRejectsFailure(t *testing.T) {
	srv := backend(t, map[string]string{
		"/api/live-indices": `{"success": false, "message": "streamer offline"}`,
	})
	cfg := testConfig(srv.URL)

	_, err := NewLiveIndicesSource(cfg, newNet(cfg)).Fetch(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "payload", helpers.Category(err))
	assert.Contains(t, err.Error(), "streamer offline")
}

func TestNSEIndicesSourceParses(t *testing.T) {
	srv := backend(t, map[string]string{
		"/api/nse-indices": `{"success": true, "indices": {
			"nifty50": {"value": 22050, "change": 98.4, "percentChange": 0.45, "open": 21990, "high": 22150, "low": 21950}
		}}`,
	})
	cfg := testConfig(srv.URL)

	update, err := NewNSEIndicesSource(cfg, newNet(cfg)).Fetch(context.Background(), "")
	require.NoError(t, err)

	q := update.Quotes["nifty50"]
	assert.Equal(t, 22050.0, q.Value)
	assert.Equal(t, 0.45, q.PercentChange)
	assert.Equal(t, 21950.0, q.Low)
}

func TestNSEIndicesSourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		category string
	}{
		{"malformed json", `{"success": tru`, "payload"},
		{"success false", `{"success": false}`, "payload"},
		{"missing indices", `{"success": true}`, "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backend(t, map[string]string{"/api/nse-indices": tt.body})
			cfg := testConfig(srv.URL)

			_, err := NewNSEIndicesSource(cfg, newNet(cfg)).Fetch(context.Background(), "")
			require.Error(t, err)
			assert.Equal(t, tt.category, helpers.Category(err))
		})
	}

	srv := backend(t, map[string]string{})
	cfg := testConfig(srv.URL)
	_, err := NewNSEIndicesSource(cfg, newNet(cfg)).Fetch(context.Background(), "")
	assert.Equal(t, "network", helpers.Category(err))
}

func TestNSEChartSourceParses(t *testing.T) {
	t0 := time.Date(2024, 3, 15, 9, 15, 0, 0, time.UTC).UnixMilli()
	t1 := t0 + 60_000

	srv := backend(t, map[string]string{
		"/api/nse-chart/banknifty": `{"success": true,
			"series": [[` + itoa(t0) + `, 47000], [` + itoa(t1) + `, 47010.5], [1], []],
			"open": 46990, "high": 47100, "low": 46900, "close": 47010.5, "percent": 0.53}`,
	})
	cfg := testConfig(srv.URL)

	update, err := NewNSEChartSource(cfg, newNet(cfg)).Fetch(context.Background(), "banknifty")
	require.NoError(t, err)

	assert.Equal(t, "banknifty", update.Entity)
	require.NotNil(t, update.Chart)
	assert.Len(t, update.Chart.Series, 2)
	assert.Equal(t, t1, update.Chart.Series[1].EpochMillis)
	assert.Equal(t, 0.53, *update.Chart.Percent)
}

func TestNSEChartSourceRejectsUnknownEntity(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	src := NewNSEChartSource(cfg, newNet(cfg))

	_, err := src.Fetch(context.Background(), "dowjones")
	assert.Equal(t, "validation", helpers.Category(err))
	assert.ErrorIs(t, err, helpers.ErrUnknownEntity)

	_, err = src.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, helpers.ErrUnknownEntity)
}

func TestNSEChartSourceSuccessFalse(t *testing.T) {
	srv := backend(t, map[string]string{
		"/api/nse-chart/nifty50": `{"success": false, "error": "upstream 401"}`,
	})
	cfg := testConfig(srv.URL)

	_, err := NewNSEChartSource(cfg, newNet(cfg)).Fetch(context.Background(), "nifty50")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 401")
}

// -----------------------------------------------------------------------------

func TestFIIDIISourceParses(t *testing.T) {
	srv := backend(t, map[string]string{
		"/api/live-fii-dii": `{"fii_net": -1250.5, "dii_net": 980.25}`,
	})
	cfg := testConfig(srv.URL)

	u, err := NewFIIDIISource(cfg, newNet(cfg)).Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFlows, u.Kind)
	require.NotNil(t, u.Flows)
	assert.Equal(t, -1250.5, u.Flows.FIINet)
	assert.Equal(t, 980.25, u.Flows.DIINet)
	assert.InDelta(t, -270.25, u.Flows.TotalNet, 1e-9)
}

func TestFIIDIISourceKeepsReportedTotal(t *testing.T) {
	srv := backend(t, map[string]string{
		"/api/live-fii-dii": `{"fii_net": 100, "dii_net": 50, "total_net": 149.5}`,
	})
	cfg := testConfig(srv.URL)

	u, err := NewFIIDIISource(cfg, newNet(cfg)).Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 149.5, u.Flows.TotalNet)
}

func TestFIIDIISourceErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"success false", `{"success": false, "message": "no data yet", "fii_net": 0, "dii_net": 0, "total_net": 0}`, "no data yet"},
		{"missing dii", `{"fii_net": 12}`, "missing net flows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backend(t, map[string]string{"/api/live-fii-dii": tt.body})
			cfg := testConfig(srv.URL)

			_, err := NewFIIDIISource(cfg, newNet(cfg)).Fetch(context.Background(), "")
			require.Error(t, err)
			assert.Equal(t, "payload", helpers.Category(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
