// Package proofstore implements the one-shot runtime-proof mailbox (§4.8):
// a host UI deposits a proof for a recipe_id out of band, and the executor
// atomically takes it at run start. Store is the injected-collaborator
// abstraction the spec's design notes call for; InMemoryStore is the
// process-scoped default the C-ABI boundary falls back to, RedisStore is
// the multi-process alternative for a host split across processes.
package proofstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// SensitiveTokenPayload is the token object inside a runtime proof payload.
type SensitiveTokenPayload struct {
	ID               string `json:"id"`
	IssuedAt         string `json:"issued_at"`
	VisibleCaptureUI bool   `json:"visible_capture_ui"`
}

// SensitiveRuntimeProofPayload is the wire shape §6 defines.
type SensitiveRuntimeProofPayload struct {
	RecipeID     string                `json:"recipe_id"`
	TriggerClass flow.TriggerClass     `json:"trigger_class"`
	Token        SensitiveTokenPayload `json:"token"`
}

// RuntimeProofRecord is what gets stored per recipe_id.
type RuntimeProofRecord struct {
	RecipeID       string
	TriggerClass   flow.TriggerClass
	RuntimeContext execcontext.SensitiveRuntimeContext
	RecordedAt     time.Time
}

// ParseRuntimeProofPayload validates and decodes a runtime proof payload.
// Empty recipe_id or empty token.id is a SchemaValidation error.
func ParseRuntimeProofPayload(data []byte) (SensitiveRuntimeProofPayload, *runtimeerr.RuntimeError) {
	var p SensitiveRuntimeProofPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return SensitiveRuntimeProofPayload{}, runtimeerr.SchemaValidation("invalid runtime proof payload JSON: " + err.Error())
	}
	if p.RecipeID == "" {
		return SensitiveRuntimeProofPayload{}, runtimeerr.SchemaValidation("recipe_id must not be empty")
	}
	if p.Token.ID == "" {
		return SensitiveRuntimeProofPayload{}, runtimeerr.SchemaValidation("token.id must not be empty")
	}
	return p, nil
}

func recordFromPayload(p SensitiveRuntimeProofPayload, now time.Time) RuntimeProofRecord {
	return RuntimeProofRecord{
		RecipeID:     p.RecipeID,
		TriggerClass: p.TriggerClass,
		RuntimeContext: execcontext.SensitiveRuntimeContext{
			UISessionActive:         true,
			ConfirmationTokenExists: true,
			VisibleCaptureUI:        p.Token.VisibleCaptureUI,
			IsBackgroundExecution:   false,
		},
		RecordedAt: now,
	}
}

// Store is the proof-store collaborator interface. Submit overwrites any
// prior record for the same recipe_id (last-writer-wins). Take atomically
// removes and returns; a second Take for the same id returns ok=false.
type Store interface {
	Submit(ctx context.Context, payload SensitiveRuntimeProofPayload) *runtimeerr.RuntimeError
	Take(ctx context.Context, recipeID string) (RuntimeProofRecord, bool)
}

// InMemoryStore is the process-scoped default: a single mutex-guarded map,
// matching §5's concurrency model exactly (submit locks/inserts/unlocks,
// take locks/removes/unlocks, never touching I/O inside the critical
// section).
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]RuntimeProofRecord
	clock   func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]RuntimeProofRecord), clock: time.Now}
}

// Submit never panics the caller: if the critical section panics (lock
// poisoning, per §5), it is recovered and surfaced as a Storage error.
func (s *InMemoryStore) Submit(_ context.Context, payload SensitiveRuntimeProofPayload) (rerr *runtimeerr.RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			rerr = runtimeerr.Storage("proof store submit panicked")
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[payload.RecipeID] = recordFromPayload(payload, s.clock())
	return nil
}

// Take never panics the caller: a poisoned critical section is recovered
// and reported as absent, matching §5.
func (s *InMemoryStore) Take(_ context.Context, recipeID string) (rec RuntimeProofRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rec, ok = RuntimeProofRecord{}, false
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok = s.records[recipeID]
	if ok {
		delete(s.records, recipeID)
	}
	return rec, ok
}
