package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marrasen/customied/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observations(t *testing.T) {
	m := metrics.New()

	m.Tick(2*time.Millisecond, []float64{0.1, 0.2, 0.3, 0.4})
	m.Tick(time.Millisecond, []float64{0.5, 0.6, 0.7, 0.8})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.AnalogValue.WithLabelValues("1")))
	assert.Equal(t, 0.8, testutil.ToFloat64(m.AnalogValue.WithLabelValues("4")))

	m.ConnectionEvent(true)
	m.ConnectionEvent(true)
	m.ConnectionEvent(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectionEvents.WithLabelValues("opened")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionEvents.WithLabelValues("closed")))

	m.FileAccess("rename", "deny-rename")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FileAccessTotal.WithLabelValues("rename", "deny-rename")))

	m.ServerState(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ServerStatus))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Tick(time.Millisecond, []float64{1})
		m.ConnectionEvent(true)
		m.FileAccess("open", "allow")
		m.ServerState(1)
	})
}

func TestServer_Handler(t *testing.T) {
	m := metrics.New()
	m.Tick(time.Millisecond, []float64{0.25})
	srv := metrics.NewServer(":0", "", m, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "customied_simulation_ticks_total 1")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestServer_ServeUntilCanceled(t *testing.T) {
	srv := metrics.NewServer("127.0.0.1:0", "/metrics", metrics.New(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenError(t *testing.T) {
	srv := metrics.NewServer("256.0.0.1:bad", "/metrics", metrics.New(), nil)
	err := srv.Serve(context.Background())
	assert.Error(t, err)
}

func TestServer_Scrape(t *testing.T) {
	m := metrics.New()
	m.ServerState(2)
	ts := httptest.NewServer(metrics.NewServer("", "/m", m, nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/m")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "customied_server_state 2")
}
