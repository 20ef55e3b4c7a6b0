// Package device runs the simulated substation device: it starts the
// protocol server, drives the update loop and tears everything down on
// interrupt.
package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/marrasen/customied/internal/connlog"
	"github.com/marrasen/customied/internal/fileaccess"
	"github.com/marrasen/customied/internal/ied"
	"github.com/marrasen/customied/internal/metrics"
	"github.com/marrasen/customied/internal/scheduler"
	"github.com/marrasen/customied/internal/simulation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Exit codes of the device process.
const (
	ExitCodeOK          = 0
	ExitCodeError       = 1
	ExitCodeStartFailed = 2
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Options configure a device run.
type Options struct {
	Server  ied.ServerConfig
	Factory ied.Factory

	Period time.Duration
	Step   float64

	// MetricsListen enables the metrics endpoint when set.
	MetricsListen string
	MetricsPath   string

	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Signals replaces the process interrupt signals, mainly for tests.
	Signals <-chan os.Signal
	// Now and Sleep are handed to the update loop.
	Now   func() time.Time
	Sleep func(time.Duration)
}

type handlers struct {
	conns  *connlog.Logger
	policy *fileaccess.Policy
}

func (h handlers) OnConnectionEvent(peer string, connected bool) {
	h.conns.OnConnectionEvent(peer, connected)
}

func (h handlers) OnFileAccess(op fileaccess.Operation, localFilename, otherFilename string) fileaccess.Decision {
	return h.policy.Check(op, localFilename, otherFilename)
}

// Run starts the server and blocks until an interrupt arrives or ctx is
// canceled. Failures are returned as *ExitError.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	h := handlers{
		conns:  connlog.New(log.Named("conn"), opts.Metrics),
		policy: fileaccess.New(log.Named("files"), opts.Metrics),
	}

	mgr, err := ied.New(opts.Server, opts.Factory, h, log.Named("server"), opts.Metrics)
	if err != nil {
		return &ExitError{Code: ExitCodeError, Err: err}
	}
	defer mgr.Shutdown()

	if err := mgr.Start(); err != nil {
		log.Error("Starting server failed! Exit.", zap.Error(err))
		code := ExitCodeError
		if errors.Is(err, ied.ErrStartFailed) {
			code = ExitCodeStartFailed
		}
		return &ExitError{Code: code, Err: err}
	}

	var running atomic.Bool
	running.Store(true)

	signals := opts.Signals
	if signals == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)
		signals = ch
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.ClearOnSignal(gctx, &running, signals, log)
		return nil
	})

	if opts.MetricsListen != "" {
		srv := metrics.NewServer(opts.MetricsListen, opts.MetricsPath, opts.Metrics, log.Named("metrics"))
		g.Go(func() error {
			return srv.Serve(gctx)
		})
	}

	wave := simulation.NewWaveform(opts.Step)
	loop := &scheduler.Loop{
		Period:  opts.Period,
		Running: &running,
		Now:     opts.Now,
		Sleep:   opts.Sleep,
		Tick: func(now time.Time) {
			start := time.Now()
			samples := wave.Advance()
			ts := simulation.NewTimestamp(uint64(now.UnixMilli()), wave.Phase())
			mgr.Publish(samples, ts)
			opts.Metrics.Tick(time.Since(start), samples[:])
		},
	}

	g.Go(func() error {
		defer cancel()
		ticks := loop.Run()
		log.Info("update loop stopped", zap.Uint64("ticks", ticks))
		return nil
	})

	err = g.Wait()
	mgr.Shutdown()
	if err != nil {
		return &ExitError{Code: ExitCodeError, Err: fmt.Errorf("device: %w", err)}
	}
	return nil
}
