package iec61850

// #include <iec61850_common.h>
import "C"

// Timestamp is an IEC 61850 UTC timestamp with its time quality flags.
type Timestamp struct {
	TimeMs               uint64
	LeapSecondKnown      bool
	ClockFailure         bool
	ClockNotSynchronized bool
}

func (t Timestamp) toC(dst *C.Timestamp) {
	C.Timestamp_clearFlags(dst)
	C.Timestamp_setTimeInMilliseconds(dst, C.msSinceEpoch(t.TimeMs))
	C.Timestamp_setLeapSecondKnown(dst, C.bool(t.LeapSecondKnown))
	C.Timestamp_setClockFailure(dst, C.bool(t.ClockFailure))
	C.Timestamp_setClockNotSynchronized(dst, C.bool(t.ClockNotSynchronized))
}
