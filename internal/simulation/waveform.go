package simulation

import "math"

// DefaultStep is the phase advance per tick.
const DefaultStep = 0.1

// Channels is the number of simulated analog inputs.
const Channels = 4

// Samples holds one value per channel, sin(t+k) for channel k.
type Samples [Channels]float64

// Waveform is a phase accumulator driving four phase shifted sine channels.
// The phase advances by a fixed step per call to Advance, independent of
// wall-clock time, so the simulated frequency follows the tick rate.
type Waveform struct {
	t    float64
	step float64
}

// NewWaveform returns a waveform at phase 0. A non-positive step selects DefaultStep.
func NewWaveform(step float64) *Waveform {
	if step <= 0 {
		step = DefaultStep
	}
	return &Waveform{step: step}
}

// Advance moves the phase one step forward and returns the new samples.
func (w *Waveform) Advance() Samples {
	w.t += w.step
	return SamplesAt(w.t)
}

// Phase returns the accumulated phase t.
func (w *Waveform) Phase() float64 {
	return w.t
}

// SamplesAt evaluates all channels at phase t.
func SamplesAt(t float64) Samples {
	var s Samples
	for k := range s {
		s[k] = math.Sin(t + float64(k))
	}
	return s
}
