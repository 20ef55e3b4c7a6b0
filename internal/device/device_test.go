package device_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/marrasen/customied/internal/device"
	"github.com/marrasen/customied/internal/fileaccess"
	"github.com/marrasen/customied/internal/ied"
	"github.com/marrasen/customied/internal/ied/iedtest"
	"github.com/marrasen/customied/internal/metrics"
	"github.com/marrasen/customied/internal/simulation"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

func options(srv *iedtest.Server, signals chan os.Signal) device.Options {
	return device.Options{
		Server:  ied.DefaultServerConfig(),
		Factory: srv.Factory(nil),
		Period:  time.Millisecond,
		Step:    simulation.DefaultStep,
		Signals: signals,
		Now:     func() time.Time { return fixedNow },
	}
}

// runningServer expects a full lifecycle and records the teardown order.
func runningServer(t *testing.T, withFiles bool) (*iedtest.Server, *[]string) {
	srv := &iedtest.Server{}
	srv.Test(t)
	srv.ExpectConfigure(withFiles)
	srv.On("Start", mock.Anything).Return().Once()
	srv.On("IsRunning").Return(true)

	var mu sync.Mutex
	order := &[]string{}
	srv.On("Stop").Return().Once().Run(func(mock.Arguments) {
		mu.Lock()
		*order = append(*order, "stop")
		mu.Unlock()
	})
	srv.On("Destroy").Return().Once().Run(func(mock.Arguments) {
		mu.Lock()
		*order = append(*order, "destroy")
		mu.Unlock()
	})
	return srv, order
}

func TestRun_StartFailure(t *testing.T) {
	srv := &iedtest.Server{}
	srv.Test(t)
	srv.ExpectConfigure(false)
	srv.On("Start", 102).Return().Once()
	srv.On("IsRunning").Return(false)
	srv.On("Destroy").Return().Once()

	err := device.Run(context.Background(), options(srv, make(chan os.Signal, 1)))

	var exitErr *device.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, device.ExitCodeStartFailed, exitErr.Code)
	assert.ErrorIs(t, err, ied.ErrStartFailed)

	srv.AssertExpectations(t)
	srv.AssertNotCalled(t, "Stop")
	srv.AssertNotCalled(t, "PublishAnalog", mock.Anything, mock.Anything)
}

func TestRun_FactoryFailure(t *testing.T) {
	opts := device.Options{
		Server: ied.DefaultServerConfig(),
		Factory: func(ied.ServerConfig) (ied.Server, error) {
			return nil, errors.New("no model")
		},
	}
	err := device.Run(context.Background(), opts)

	var exitErr *device.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, device.ExitCodeError, exitErr.Code)
}

func TestRun_InterruptStopsThenDestroys(t *testing.T) {
	srv, order := runningServer(t, false)
	signals := make(chan os.Signal, 1)

	var once sync.Once
	var mu sync.Mutex
	var published []simulation.Timestamp
	srv.On("PublishAnalog", mock.Anything, mock.Anything).Return().Run(func(args mock.Arguments) {
		mu.Lock()
		published = append(published, args.Get(1).(simulation.Timestamp))
		n := len(published)
		mu.Unlock()
		if n == 3 {
			once.Do(func() { signals <- syscall.SIGINT })
		}
	})

	m := metrics.New()
	opts := options(srv, signals)
	opts.Metrics = m

	done := make(chan error, 1)
	go func() { done <- device.Run(context.Background(), opts) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("device did not stop after interrupt")
	}

	assert.Equal(t, []string{"stop", "destroy"}, *order)
	srv.AssertExpectations(t)
	srv.AssertNotCalled(t, "SetFileAccessHandler", mock.Anything)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(published), 3)
	for _, ts := range published {
		assert.Equal(t, uint64(fixedNow.UnixMilli()), ts.Milliseconds)
		assert.True(t, ts.LeapSecondKnown)
	}
	assert.Equal(t, float64(len(published)), testutil.ToFloat64(m.Ticks))
	assert.Equal(t, float64(ied.StateDestroyed), testutil.ToFloat64(m.ServerStatus))
}

func TestRun_PublishesSimulatedValues(t *testing.T) {
	srv, _ := runningServer(t, false)
	signals := make(chan os.Signal, 1)

	var got []simulation.Samples
	srv.On("PublishAnalog", mock.Anything, mock.Anything).Return().Run(func(args mock.Arguments) {
		got = append(got, args.Get(0).(simulation.Samples))
		if len(got) == 12 {
			signals <- syscall.SIGTERM
		}
	})

	opts := options(srv, signals)
	opts.Sleep = func(time.Duration) {}
	require.NoError(t, device.Run(context.Background(), opts))

	require.GreaterOrEqual(t, len(got), 12)
	for i := 0; i < 12; i++ {
		want := simulation.SamplesAt(float64(i+1) * 0.1)
		for k := range want {
			assert.InDelta(t, want[k], got[i][k], 1e-9, "tick %d channel %d", i+1, k)
		}
	}
}

func TestRun_FileAccessPolicyWired(t *testing.T) {
	srv, _ := runningServer(t, true)
	srv.On("PublishAnalog", mock.Anything, mock.Anything).Return()

	m := metrics.New()
	opts := options(srv, make(chan os.Signal, 1))
	opts.Server.FilesDir = t.TempDir()
	opts.Metrics = m

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- device.Run(ctx, opts) }()

	require.Eventually(t, func() bool {
		_, ok := srv.FileAccess(fileaccess.OpOpen, "", "")
		return ok
	}, 5*time.Second, time.Millisecond)

	allowed, _ := srv.FileAccess(fileaccess.OpRename, "a.txt", "b.txt")
	assert.False(t, allowed)
	allowed, _ = srv.FileAccess(fileaccess.OpDelete, "a.txt", "")
	assert.False(t, allowed)
	allowed, _ = srv.FileAccess(fileaccess.OpObtain, "../../etc/passwd", "")
	assert.True(t, allowed)

	srv.Connect("127.0.0.1:40000", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionsOpen))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("device did not stop after cancel")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FileAccessTotal.WithLabelValues("rename", "deny-rename")))
}

func TestRun_MetricsListenFailureShutsDown(t *testing.T) {
	srv, order := runningServer(t, false)
	srv.On("PublishAnalog", mock.Anything, mock.Anything).Return().Maybe()

	opts := options(srv, make(chan os.Signal, 1))
	opts.Metrics = metrics.New()
	opts.MetricsListen = "256.0.0.1:bad"

	err := device.Run(context.Background(), opts)
	var exitErr *device.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, device.ExitCodeError, exitErr.Code)
	assert.Equal(t, []string{"stop", "destroy"}, *order)
}
