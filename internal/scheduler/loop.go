// Package scheduler runs the fixed period update loop of the device.
package scheduler

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultPeriod is the nominal tick period.
const DefaultPeriod = 100 * time.Millisecond

// TickFunc is called once per iteration with the time read at its start.
type TickFunc func(now time.Time)

// Loop calls Tick, then sleeps for Period, for as long as Running is set.
// Sleep overshoot is not compensated, so the loop drifts against wall-clock time.
type Loop struct {
	Period  time.Duration
	Running *atomic.Bool
	Tick    TickFunc

	// Now and Sleep default to time.Now and time.Sleep.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// Run executes the loop on the calling goroutine and returns the number of
// completed iterations. Running is checked once at the top of every
// iteration, so a cleared flag is observed within one period.
func (l *Loop) Run() uint64 {
	period := l.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}
	sleep := l.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var ticks uint64
	for l.Running.Load() {
		l.Tick(now())
		ticks++
		sleep(period)
	}
	return ticks
}

// ClearOnSignal clears running when a signal arrives on signals or ctx is
// done, whichever happens first. It is the only asynchronous writer of the flag.
func ClearOnSignal(ctx context.Context, running *atomic.Bool, signals <-chan os.Signal, log *zap.Logger) {
	select {
	case sig := <-signals:
		if log != nil {
			log.Info("Signal received", zap.Stringer("signal", sig))
		}
	case <-ctx.Done():
	}
	running.Store(false)
}
