package proofstore_test

import (
	"context"
	"testing"

	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/proofstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInMemoryStore_P7_SingleUse is property P7: after Submit(id, p),
// Take(id) returns p, and a second Take(id) returns ok=false.
func TestInMemoryStore_P7_SingleUse(t *testing.T) {
	store := proofstore.NewInMemoryStore()
	payload := proofstore.SensitiveRuntimeProofPayload{
		RecipeID:     "recipe-X",
		TriggerClass: flow.UserInitiated,
		Token:        proofstore.SensitiveTokenPayload{ID: "tok-1", VisibleCaptureUI: true},
	}

	err := store.Submit(context.Background(), payload)
	require.Nil(t, err)

	rec, ok := store.Take(context.Background(), "recipe-X")
	require.True(t, ok)
	assert.Equal(t, "recipe-X", rec.RecipeID)
	assert.Equal(t, flow.UserInitiated, rec.TriggerClass)
	assert.True(t, rec.RuntimeContext.VisibleCaptureUI)

	_, ok2 := store.Take(context.Background(), "recipe-X")
	assert.False(t, ok2)
}

func TestInMemoryStore_TakeUnknownID(t *testing.T) {
	store := proofstore.NewInMemoryStore()
	_, ok := store.Take(context.Background(), "never-submitted")
	assert.False(t, ok)
}

func TestInMemoryStore_SubmitOverwritesPriorRecord(t *testing.T) {
	store := proofstore.NewInMemoryStore()
	ctx := context.Background()
	require.Nil(t, store.Submit(ctx, proofstore.SensitiveRuntimeProofPayload{
		RecipeID: "recipe-Y",
		Token:    proofstore.SensitiveTokenPayload{ID: "first"},
	}))
	require.Nil(t, store.Submit(ctx, proofstore.SensitiveRuntimeProofPayload{
		RecipeID:     "recipe-Y",
		TriggerClass: flow.UserInitiated,
		Token:        proofstore.SensitiveTokenPayload{ID: "second", VisibleCaptureUI: true},
	}))

	rec, ok := store.Take(ctx, "recipe-Y")
	require.True(t, ok)
	assert.True(t, rec.RuntimeContext.VisibleCaptureUI)
}

func TestParseRuntimeProofPayload_RejectsEmptyFields(t *testing.T) {
	_, err := proofstore.ParseRuntimeProofPayload([]byte(`{"recipe_id":"","token":{"id":"x"}}`))
	assert.NotNil(t, err)

	_, err = proofstore.ParseRuntimeProofPayload([]byte(`{"recipe_id":"r","token":{"id":""}}`))
	assert.NotNil(t, err)

	p, err := proofstore.ParseRuntimeProofPayload([]byte(`{"recipe_id":"r","token":{"id":"tok"}}`))
	assert.Nil(t, err)
	assert.Equal(t, "r", p.RecipeID)
}
