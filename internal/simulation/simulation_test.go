package simulation_test

import (
	"math"
	"testing"

	"github.com/marrasen/customied/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveform_PhaseAfterTicks(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10, 100, 1000} {
		w := simulation.NewWaveform(simulation.DefaultStep)
		for i := 0; i < n; i++ {
			w.Advance()
		}
		assert.InDelta(t, float64(n)*0.1, w.Phase(), 1e-9, "after %d ticks", n)
	}
}

func TestWaveform_DefaultStep(t *testing.T) {
	w := simulation.NewWaveform(0)
	w.Advance()
	assert.InDelta(t, 0.1, w.Phase(), 1e-12)

	w = simulation.NewWaveform(-3)
	w.Advance()
	assert.InDelta(t, 0.1, w.Phase(), 1e-12)
}

func TestWaveform_AdvanceReturnsSamplesAtNewPhase(t *testing.T) {
	w := simulation.NewWaveform(0.25)
	for i := 1; i <= 50; i++ {
		s := w.Advance()
		assert.Equal(t, simulation.SamplesAt(w.Phase()), s)
	}
}

func TestSamplesAt(t *testing.T) {
	for _, phase := range []float64{0, 0.1, 1.5, math.Pi, 42.42, -7.3, 1e6} {
		s := simulation.SamplesAt(phase)
		for k := 0; k < simulation.Channels; k++ {
			assert.Equal(t, math.Sin(phase+float64(k)), s[k])
			assert.GreaterOrEqual(t, s[k], -1.0)
			assert.LessOrEqual(t, s[k], 1.0)
		}
	}
}

func TestNewTimestamp(t *testing.T) {
	tests := []struct {
		phase       float64
		notSynced   bool
		description string
	}{
		{0, true, "zero is even"},
		{0.9, true, "truncates to 0"},
		{1.0, false, "one is odd"},
		{1.99, false, "truncates to 1"},
		{2.0, true, "two is even"},
		{3.5, false, "truncates to 3"},
		{10.1, true, "truncates to 10"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			ts := simulation.NewTimestamp(1700000000123, tt.phase)
			assert.Equal(t, uint64(1700000000123), ts.Milliseconds)
			assert.True(t, ts.LeapSecondKnown)
			assert.Equal(t, tt.notSynced, ts.ClockNotSynchronized)
		})
	}
}

func TestNewTimestamp_FollowsWaveform(t *testing.T) {
	w := simulation.NewWaveform(simulation.DefaultStep)
	for i := 0; i < 200; i++ {
		w.Advance()
		ts := simulation.NewTimestamp(uint64(i), w.Phase())
		require.True(t, ts.LeapSecondKnown)
		assert.Equal(t, int(math.Floor(w.Phase()))%2 == 0, ts.ClockNotSynchronized, "tick %d phase %v", i, w.Phase())
	}
}
