package permission_test

import (
	"testing"

	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/permission"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
	"github.com/stretchr/testify/assert"
)

func sensitiveManifest() manifest.Manifest {
	return manifest.Manifest{
		ID:               "recipe-camera",
		RiskLevel:        manifest.RiskSensitive,
		UserInitiatedReq: true,
		Permissions: manifest.PermissionSet{
			CameraCapture: &manifest.CameraPermission{Mode: "photo"},
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

// TestEnforceActionPermission_P1 is property P1: any sensitive action under
// a Passive trigger class fails with UserInitiationRequired regardless of
// runtime context.
func TestEnforceActionPermission_P1(t *testing.T) {
	m := sensitiveManifest()
	policy := execcontext.DefaultPolicySettings()
	for _, rc := range []execcontext.SensitiveRuntimeContext{
		safeRuntimeContext(),
		{},
	} {
		err := permission.EnforceActionPermission(m, "camera.capture", flow.Passive, rc, policy, false)
		if assert.NotNil(t, err) {
			assert.Equal(t, runtimeerr.KindUserInitiationRequired, err.Kind)
		}
	}
}

// TestEnforceActionPermission_P2 is property P2: for a capture action under
// default policy, at least one of UISessionActive/ConfirmationTokenExists
// must hold (step B is an OR of the two), and VisibleCaptureUI/
// !IsBackgroundExecution must both hold (step C is a strict AND) — flipping
// either step-C flag alone causes denial, while the two step-B flags only
// jointly false cause denial.
func TestEnforceActionPermission_P2(t *testing.T) {
	m := sensitiveManifest()
	policy := execcontext.DefaultPolicySettings()

	base := safeRuntimeContext()
	err := permission.EnforceActionPermission(m, "camera.capture", flow.UserInitiated, base, policy, false)
	assert.Nil(t, err, "all four safe values jointly should pass")

	passing := execcontext.SensitiveRuntimeContext{
		UISessionActive: false, ConfirmationTokenExists: true, VisibleCaptureUI: true, IsBackgroundExecution: false,
	}
	assert.Nil(t, permission.EnforceActionPermission(m, "camera.capture", flow.UserInitiated, passing, policy, false),
		"step B only requires one of the two flags")

	failing := []execcontext.SensitiveRuntimeContext{
		{UISessionActive: false, ConfirmationTokenExists: false, VisibleCaptureUI: true, IsBackgroundExecution: false},
		{UISessionActive: true, ConfirmationTokenExists: true, VisibleCaptureUI: false, IsBackgroundExecution: false},
		{UISessionActive: true, ConfirmationTokenExists: true, VisibleCaptureUI: true, IsBackgroundExecution: true},
	}
	for _, rc := range failing {
		err := permission.EnforceActionPermission(m, "camera.capture", flow.UserInitiated, rc, policy, false)
		assert.NotNil(t, err, "rc=%+v should fail enforcement", rc)
	}
}

// TestEnforceActionPermission_S2 is scenario S2: the camera recipe from S1
// but with trigger_class=Passive returns UserInitiationRequired.
func TestEnforceActionPermission_S2(t *testing.T) {
	m := sensitiveManifest()
	policy := execcontext.DefaultPolicySettings()
	err := permission.EnforceActionPermission(m, "camera.capture", flow.Passive, safeRuntimeContext(), policy, false)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindUserInitiationRequired, err.Kind)
	}
}

// TestEnforceActionPermission_S3 is scenario S3: the same recipe but
// visible_capture_ui=false returns PermissionDenied/VISIBLE_CAPTURE_UI_REQUIRED.
func TestEnforceActionPermission_S3(t *testing.T) {
	m := sensitiveManifest()
	policy := execcontext.DefaultPolicySettings()
	rc := safeRuntimeContext()
	rc.VisibleCaptureUI = false

	err := permission.EnforceActionPermission(m, "camera.capture", flow.UserInitiated, rc, policy, false)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
		assert.Equal(t, runtimeerr.CodeVisibleCaptureUIRequired, err.Code)
	}
}

// TestEnforceActionPermission_S4 is scenario S4: a health.export-only
// recipe with manifest + user toggle both true but policy.allow_health_export
// false returns PermissionDenied/HEALTH_EXPORT_POLICY_BLOCKED.
func TestEnforceActionPermission_S4(t *testing.T) {
	m := manifest.Manifest{
		ID: "recipe-health-export",
		Permissions: manifest.PermissionSet{
			HealthExport: true,
		},
	}
	policy := execcontext.DefaultPolicySettings()
	policy.AllowHealthExport = false

	err := permission.EnforceActionPermission(m, "health.export", flow.UserInitiated, execcontext.SensitiveRuntimeContext{}, policy, true)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
		assert.Equal(t, runtimeerr.CodeHealthExportPolicyBlocked, err.Code)
	}
}

func TestEnforceActionPermission_UndeclaredCapabilityDenied(t *testing.T) {
	m := manifest.Manifest{ID: "recipe-bare"}
	policy := execcontext.DefaultPolicySettings()
	err := permission.EnforceActionPermission(m, "notification.send", flow.UserInitiated, execcontext.SensitiveRuntimeContext{}, policy, false)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.CodeActionPermissionNotDeclared, err.Code)
	}
}
