package iec61850

// #cgo LDFLAGS: -liec61850 -lpthread -lm
// #include <stdlib.h>
// #include <iec61850_common.h>
import "C"

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/text/encoding/charmap"
)

// callbackIdGen hands out ids that are passed to C as the void* parameter of
// installed handlers. Go pointers must not be stored on the C side.
var callbackIdGen atomic.Int32

// GetVersionString retrieves the version string of the underlying libIEC61850 library.
func GetVersionString() string {
	value := C.LibIEC61850_getVersionString()
	return C.GoString(value)
}

// Go2CStr converts a Go string to a C string in ISO-8859-1, the character set
// of MMS visible strings. Characters outside Latin-1 fall back to the raw UTF-8
// bytes. The caller must free the result with C.free.
func Go2CStr(s string) *C.char {
	enc, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return C.CString(s)
	}
	return C.CString(enc)
}

// C2GoStr converts an ISO-8859-1 C string owned by the stack into a Go string.
func C2GoStr(s *C.char) string {
	if s == nil {
		return ""
	}
	raw := C.GoString(s)
	dec, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return dec
}

// intToPointerBug58625 smuggles a callback id through a void* parameter.
// See golang/go#58625 for why the conversion lives in its own function.
//
//go:noinline
func intToPointerBug58625(i int32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(i))
}

func pointerToInt(p unsafe.Pointer) int32 {
	return int32(uintptr(p))
}
