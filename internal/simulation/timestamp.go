package simulation

// Timestamp is a point in time annotated with IEC 61850 time quality.
type Timestamp struct {
	Milliseconds         uint64
	LeapSecondKnown      bool
	ClockNotSynchronized bool
}

// NewTimestamp stamps ms with the quality flags for phase t.
// The leap second is always known. The clock is reported as not synchronized
// whenever the integer part of t is even, which makes the flag oscillate
// with the simulation.
func NewTimestamp(ms uint64, t float64) Timestamp {
	return Timestamp{
		Milliseconds:         ms,
		LeapSecondKnown:      true,
		ClockNotSynchronized: int64(t)%2 == 0,
	}
}
