package iec61850

// #include <stdlib.h>
// #include "iec61850_common.h"
import "C"

import "unsafe"

// String implements fmt.Stringer for FC. It returns the short IEC 61850
// abbreviation like "ST", "MX", etc.
func (f FC) String() string {
	return C.GoString(C.FunctionalConstraint_toString(C.FunctionalConstraint(f)))
}

// FunctionalConstraintFromString parses an abbreviation like "DC" into an FC.
// Unknown abbreviations yield NONE.
func FunctionalConstraintFromString(s string) FC {
	cStr := C.CString(s)
	defer C.free(unsafe.Pointer(cStr))
	return FC(C.FunctionalConstraint_fromString(cStr))
}
