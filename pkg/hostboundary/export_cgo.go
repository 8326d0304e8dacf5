//go:build cgo

package hostboundary

// #include <stdlib.h>
import "C"

import "unicode/utf8"

// arquent_submit_sensitive_runtime_proof is the C ABI entry point a native
// host shell links against. payloadJSON must be a NUL-terminated UTF-8
// C string owned by the caller; this function never takes ownership of it.
//
//export arquent_submit_sensitive_runtime_proof
func arquent_submit_sensitive_runtime_proof(payloadJSON *C.char) C.int {
	if payloadJSON == nil {
		setLastError("payload pointer is null")
		return C.int(StatusNullPtr)
	}
	goStr := C.GoString(payloadJSON)
	if !utf8.ValidString(goStr) {
		setLastError("payload is not valid UTF-8")
		return C.int(StatusInvalidUTF8)
	}
	return C.int(Submit(goStr))
}

// arquent_last_error_message returns the most recent failure message as a
// newly allocated C string the caller must free with C.free, or NULL if the
// last call succeeded.
//
//export arquent_last_error_message
func arquent_last_error_message() *C.char {
	msg := LastError()
	if msg == "" {
		return nil
	}
	return C.CString(msg)
}
