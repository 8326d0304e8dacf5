// Package hostboundary exposes the runtime-proof intake as a C ABI, for
// hosts that embed this runtime as a shared library rather than a Go
// process (e.g. a native shell application submitting a confirmation token
// after a user-facing capture prompt). It mirrors
// original_source/rust_core/src/ffi/mod.rs's contract exactly: same status
// codes, same null/invalid-UTF-8/validation ordering, same clear-on-success
// last-error slot.
package hostboundary

import (
	"context"
	"sync"

	"github.com/arquent-run/arquent/pkg/proofstore"
)

// Status codes, 1:1 with the original FFI surface's ARQUENT_* constants.
const (
	StatusOK          int32 = 0
	StatusNullPtr     int32 = 1
	StatusInvalidUTF8 int32 = 2
	StatusValidation  int32 = 3
)

var (
	lastErrorMu sync.Mutex
	lastError   string

	store = proofstore.NewInMemoryStore()
)

func setLastError(msg string) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	lastError = msg
}

// LastError returns the most recent failure message, or "" if the last
// Submit call succeeded (or none has been made yet).
func LastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

// Submit parses and stores a runtime-proof payload given as already-decoded
// UTF-8 text. It is the pointer/encoding-free core that the cgo-exported
// entry point in export_cgo.go wraps; kept separate so it's usable and
// testable from pure Go without a C caller.
func Submit(payloadJSON string) int32 {
	payload, perr := proofstore.ParseRuntimeProofPayload([]byte(payloadJSON))
	if perr != nil {
		setLastError(perr.Error())
		return StatusValidation
	}
	if rerr := store.Submit(context.Background(), payload); rerr != nil {
		setLastError(rerr.Error())
		return StatusValidation
	}
	setLastError("")
	return StatusOK
}

// Take retrieves and removes a previously submitted proof, for in-process
// Go callers (e.g. a test harness) that want to inspect what the C side
// deposited without going through the executor.
func Take(recipeID string) (proofstore.RuntimeProofRecord, bool) {
	return store.Take(context.Background(), recipeID)
}
