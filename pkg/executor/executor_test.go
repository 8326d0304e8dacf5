package executor_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/executionlog"
	"github.com/arquent-run/arquent/pkg/executor"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/proofstore"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cameraRecipe() manifest.RecipeModel {
	return manifest.RecipeModel{
		Manifest: manifest.Manifest{
			ID:               "recipe-camera",
			RiskLevel:        manifest.RiskSensitive,
			UserInitiatedReq: true,
			Permissions: manifest.PermissionSet{
				CameraCapture: &manifest.CameraPermission{Mode: "photo"},
			},
		},
		Flow: flow.RecipeFlow{
			Trigger: flow.TriggerNode{TriggerType: "manual"},
			Actions: []flow.ActionNode{
				{ID: "a1", ActionType: "camera.capture", Params: json.RawMessage(`{}`)},
			},
		},
	}
}

func safeRuntimeContext() execcontext.SensitiveRuntimeContext {
	return execcontext.SensitiveRuntimeContext{
		UISessionActive:         true,
		ConfirmationTokenExists: true,
		VisibleCaptureUI:        true,
		IsBackgroundExecution:   false,
	}
}

func execCtx(recipeID string, triggerClass flow.TriggerClass) execcontext.ExecutionContext {
	return execcontext.ExecutionContext{
		Metadata: execcontext.ExecutionMetadata{
			RecipeID:     recipeID,
			RunID:        "run-1",
			TriggerClass: triggerClass,
		},
	}
}

// TestExecuteRecipe_S1_CameraSuccess is scenario S1: a declared, correctly
// risk-classified camera-capture recipe under a user-initiated trigger with
// all four runtime-context flags at their safe values succeeds.
func TestExecuteRecipe_S1_CameraSuccess(t *testing.T) {
	e := executor.New()
	result, err := e.ExecuteRecipe(
		context.Background(), cameraRecipe(),
		execCtx("recipe-camera", flow.UserInitiated), safeRuntimeContext(),
		execcontext.DefaultPolicySettings(), false,
	)
	require.Nil(t, err)
	assert.Equal(t, executionlog.StatusSuccess, result.Log.Status)
	assert.True(t, result.Log.SensitiveUsed)
	assert.Nil(t, result.Log.ReasonCode)
}

// TestExecuteRecipe_S2_PassiveTriggerDenied is scenario S2: the same recipe
// under a Passive trigger fails with UserInitiationRequired.
func TestExecuteRecipe_S2_PassiveTriggerDenied(t *testing.T) {
	e := executor.New()
	_, err := e.ExecuteRecipe(
		context.Background(), cameraRecipe(),
		execCtx("recipe-camera", flow.Passive), safeRuntimeContext(),
		execcontext.DefaultPolicySettings(), false,
	)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindUserInitiationRequired, err.Kind)
	}
}

// TestExecuteRecipe_S3_NoVisibleCaptureUI is scenario S3: visible_capture_ui
// false yields PermissionDenied/VISIBLE_CAPTURE_UI_REQUIRED.
func TestExecuteRecipe_S3_NoVisibleCaptureUI(t *testing.T) {
	e := executor.New()
	rc := safeRuntimeContext()
	rc.VisibleCaptureUI = false

	_, err := e.ExecuteRecipe(
		context.Background(), cameraRecipe(),
		execCtx("recipe-camera", flow.UserInitiated), rc,
		execcontext.DefaultPolicySettings(), false,
	)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
		assert.Equal(t, runtimeerr.CodeVisibleCaptureUIRequired, err.Code)
	}
}

// TestExecuteRecipe_S4_HealthExportPolicyBlocked is scenario S4: a
// health.export-only recipe, declared and user-toggled on, fails under the
// default policy (allow_health_export=false) with PermissionDenied/
// HEALTH_EXPORT_POLICY_BLOCKED.
func TestExecuteRecipe_S4_HealthExportPolicyBlocked(t *testing.T) {
	recipe := manifest.RecipeModel{
		Manifest: manifest.Manifest{
			ID:          "recipe-health-export",
			Permissions: manifest.PermissionSet{HealthExport: true},
		},
		Flow: flow.RecipeFlow{
			Trigger: flow.TriggerNode{TriggerType: "manual"},
			Actions: []flow.ActionNode{
				{ID: "a1", ActionType: "health.export", Params: json.RawMessage(`{}`)},
			},
		},
	}
	e := executor.New()
	_, err := e.ExecuteRecipe(
		context.Background(), recipe,
		execCtx("recipe-health-export", flow.UserInitiated), execcontext.SensitiveRuntimeContext{},
		execcontext.DefaultPolicySettings(), true,
	)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
		assert.Equal(t, runtimeerr.CodeHealthExportPolicyBlocked, err.Code)
	}
}

// TestExecuteRecipe_ConditionFalseSkips covers the skip branch: a false
// condition produces a "skipped" log, not an error.
func TestExecuteRecipe_ConditionFalseSkips(t *testing.T) {
	cond := flow.NewLiteral(false)
	recipe := manifest.RecipeModel{
		Manifest: manifest.Manifest{ID: "recipe-cond"},
		Flow: flow.RecipeFlow{
			Trigger:   flow.TriggerNode{TriggerType: "manual"},
			Condition: &cond,
			Actions:   []flow.ActionNode{},
		},
	}
	e := executor.New()
	result, err := e.ExecuteRecipe(
		context.Background(), recipe,
		execCtx("recipe-cond", flow.UserInitiated), execcontext.SensitiveRuntimeContext{},
		execcontext.DefaultPolicySettings(), false,
	)
	require.Nil(t, err)
	assert.Equal(t, executionlog.StatusSkipped, result.Log.Status)
	require.NotNil(t, result.Log.ReasonCode)
	assert.Equal(t, "CONDITION_FALSE", *result.Log.ReasonCode)
}

// TestExecuteRecipeWithStoredProof_S8 is scenario S8: submitting a runtime
// proof for a recipe lets one ExecuteRecipeWithStoredProof call succeed; a
// second call without a fresh proof falls back to the zero-value runtime
// context and fails with UserInitiationRequired.
func TestExecuteRecipeWithStoredProof_S8(t *testing.T) {
	store := proofstore.NewInMemoryStore()
	ctx := context.Background()
	require.Nil(t, store.Submit(ctx, proofstore.SensitiveRuntimeProofPayload{
		RecipeID:     "recipe-camera",
		TriggerClass: flow.UserInitiated,
		Token:        proofstore.SensitiveTokenPayload{ID: "tok-1", VisibleCaptureUI: true},
	}))

	e := executor.New()
	result, err := e.ExecuteRecipeWithStoredProof(
		ctx, store, cameraRecipe(),
		execCtx("recipe-camera", flow.UserInitiated),
		execcontext.DefaultPolicySettings(), false,
	)
	require.Nil(t, err)
	assert.Equal(t, executionlog.StatusSuccess, result.Log.Status)

	_, err2 := e.ExecuteRecipeWithStoredProof(
		ctx, store, cameraRecipe(),
		execCtx("recipe-camera", flow.UserInitiated),
		execcontext.DefaultPolicySettings(), false,
	)
	if assert.NotNil(t, err2) {
		assert.Equal(t, runtimeerr.KindUserInitiationRequired, err2.Kind)
	}
}
