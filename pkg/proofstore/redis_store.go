package proofstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// RedisStore gives the proof store single-writer/single-reader one-shot
// semantics across multiple processes sharing one host, using SET for
// submit/overwrite and GETDEL for an atomic take — the same primitive
// InMemoryStore gets for free from its mutex, but available to a host that
// cannot share process memory with the runtime.
type RedisStore struct {
	client *redis.Client
	prefix string
	clock  func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "arquent:proof:", clock: time.Now}
}

type redisRecord struct {
	RecipeID     string    `json:"recipe_id"`
	TriggerClass string    `json:"trigger_class"`
	UISession    bool      `json:"ui_session_active"`
	Confirmation bool      `json:"confirmation_token_exists"`
	VisibleUI    bool      `json:"visible_capture_ui"`
	Background   bool      `json:"is_background_execution"`
	RecordedAt   time.Time `json:"recorded_at"`
}

func (s *RedisStore) key(recipeID string) string {
	return s.prefix + recipeID
}

func (s *RedisStore) Submit(ctx context.Context, payload SensitiveRuntimeProofPayload) *runtimeerr.RuntimeError {
	rec := recordFromPayload(payload, s.clock())
	encoded, err := json.Marshal(redisRecord{
		RecipeID:     rec.RecipeID,
		TriggerClass: string(rec.TriggerClass),
		UISession:    rec.RuntimeContext.UISessionActive,
		Confirmation: rec.RuntimeContext.ConfirmationTokenExists,
		VisibleUI:    rec.RuntimeContext.VisibleCaptureUI,
		Background:   rec.RuntimeContext.IsBackgroundExecution,
		RecordedAt:   rec.RecordedAt,
	})
	if err != nil {
		return runtimeerr.Storage(fmt.Sprintf("proof store encode failed: %v", err))
	}
	if err := s.client.Set(ctx, s.key(payload.RecipeID), encoded, 0).Err(); err != nil {
		return runtimeerr.Storage(fmt.Sprintf("proof store submit failed: %v", err))
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, recipeID string) (RuntimeProofRecord, bool) {
	raw, err := s.client.GetDel(ctx, s.key(recipeID)).Bytes()
	if err != nil {
		return RuntimeProofRecord{}, false
	}
	var dr redisRecord
	if err := json.Unmarshal(raw, &dr); err != nil {
		return RuntimeProofRecord{}, false
	}
	return RuntimeProofRecord{
		RecipeID:     dr.RecipeID,
		TriggerClass: flow.TriggerClass(dr.TriggerClass),
		RuntimeContext: execcontext.SensitiveRuntimeContext{
			UISessionActive:         dr.UISession,
			ConfirmationTokenExists: dr.Confirmation,
			VisibleCaptureUI:        dr.VisibleUI,
			IsBackgroundExecution:   dr.Background,
		},
		RecordedAt: dr.RecordedAt,
	}, true
}
