// Package permission implements the per-action runtime permission
// enforcer: declaration, user-initiation, visible-capture-UI, and
// health-export gating, in the fixed step order the spec requires.
package permission

import (
	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

var captureActionTypes = map[string]bool{
	"camera.capture":    true,
	"microphone.record": true,
	"webcam.capture":    true,
}

// declaringPermission reports whether the manifest declares the capability
// guarding actionType, per the table in §3. Unknown action types trivially
// pass (declared=true).
func declaringPermission(p manifest.PermissionSet, actionType string) bool {
	switch actionType {
	case "notification.send":
		return p.NotificationSend
	case "clipboard.read":
		return p.ClipboardRead
	case "clipboard.write":
		return p.ClipboardWrite
	case "trigger.hotkey":
		return p.HotkeyRegister
	case "http.request":
		return p.NetworkRequest != nil
	case "file.read", "file.write", "file.move", "file.rename":
		return p.FileAccess != nil
	case "camera.capture":
		return p.CameraCapture != nil
	case "webcam.capture":
		return p.WebcamCapture != nil
	case "microphone.record":
		return p.MicrophoneRecord != nil
	case "health.read":
		return p.HealthRead != nil
	case "health.export":
		return p.HealthExport
	default:
		return true
	}
}

// EnforceActionPermission implements §4.5 in its declared step order:
// declaration (A) → user-initiation (B) → visible-capture-UI/background (C)
// → health export (D). The first failing step aborts; later steps are not
// evaluated.
func EnforceActionPermission(
	m manifest.Manifest,
	actionType string,
	triggerClass flow.TriggerClass,
	rc execcontext.SensitiveRuntimeContext,
	policy execcontext.PolicySettings,
	healthExternalTransmissionEnabled bool,
) *runtimeerr.RuntimeError {
	// Step A — declaration.
	if !declaringPermission(m.Permissions, actionType) {
		return runtimeerr.PermissionDenied(runtimeerr.CodeActionPermissionNotDeclared,
			actionType+": capability not declared in manifest")
	}

	// Step B — user-initiation.
	requiresUserInitiation := captureActionTypes[actionType] ||
		(actionType == "health.read" && policy.HealthReadRequiresUserInitiated)
	if requiresUserInitiation {
		if triggerClass != flow.UserInitiated {
			return runtimeerr.UserInitiationRequired(actionType + ": trigger class is not UserInitiated")
		}
		if !rc.UISessionActive && !rc.ConfirmationTokenExists {
			return runtimeerr.UserInitiationRequired(actionType + ": no active UI session or confirmation token")
		}
	}

	// Step C — visible capture UI / background execution.
	if captureActionTypes[actionType] {
		if policy.RequireVisibleCaptureUI && !rc.VisibleCaptureUI {
			return runtimeerr.PermissionDenied(runtimeerr.CodeVisibleCaptureUIRequired,
				actionType+": visible capture UI required")
		}
		if policy.BlockBackgroundCapture && rc.IsBackgroundExecution {
			return runtimeerr.PermissionDenied(runtimeerr.CodeBackgroundCaptureBlocked,
				actionType+": background capture blocked")
		}
	}

	// Step D — health export.
	if actionType == "health.export" {
		if !m.Permissions.HealthExport {
			return runtimeerr.PermissionDenied(runtimeerr.CodeHealthExportDeclarationReqd,
				"health_export permission not declared")
		}
		if !healthExternalTransmissionEnabled {
			return runtimeerr.PermissionDenied(runtimeerr.CodeHealthExportUserToggleReqd,
				"health export user toggle disabled")
		}
		if !policy.AllowHealthExport {
			return runtimeerr.PermissionDenied(runtimeerr.CodeHealthExportPolicyBlocked,
				"policy does not allow health export")
		}
	}

	return nil
}
