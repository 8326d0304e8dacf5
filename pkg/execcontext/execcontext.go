// Package execcontext defines the per-run execution context, device and
// run metadata, the host-supplied runtime-proof snapshot, and policy
// settings passed into the permission enforcer.
package execcontext

import (
	"time"

	"github.com/arquent-run/arquent/pkg/datavalue"
	"github.com/arquent-run/arquent/pkg/flow"
)

// DeviceMeta describes the device a run executes on.
type DeviceMeta struct {
	Platform   string `json:"platform"`
	OSVersion  string `json:"os_version"`
	AppVersion string `json:"app_version"`
}

// ExecutionMetadata identifies and timestamps a single run.
type ExecutionMetadata struct {
	RecipeID     string             `json:"recipe_id"`
	RunID        string             `json:"run_id"`
	Trigger      string             `json:"trigger"`
	TriggerClass flow.TriggerClass  `json:"trigger_class"`
	StartedAt    time.Time          `json:"started_at"`
	Device       DeviceMeta         `json:"device"`
}

// ExecutionContext is the input handed to the executor for one run.
type ExecutionContext struct {
	Input    map[string]datavalue.DataValue `json:"input"`
	State    map[string]datavalue.DataValue `json:"state"`
	Metadata ExecutionMetadata              `json:"metadata"`
}

// SensitiveRuntimeContext is the host-produced proof snapshot consumed by
// the permission enforcer. All fields default to false — the zero value is
// the maximally restrictive context.
type SensitiveRuntimeContext struct {
	UISessionActive        bool `json:"ui_session_active"`
	ConfirmationTokenExists bool `json:"confirmation_token_exists"`
	VisibleCaptureUI        bool `json:"visible_capture_ui"`
	IsBackgroundExecution   bool `json:"is_background_execution"`
}

// PolicySettings configures the permission enforcer's defaults.
type PolicySettings struct {
	AllowHealthExport               bool `json:"allow_health_export"`
	RequireVisibleCaptureUI         bool `json:"require_visible_capture_ui"`
	BlockBackgroundCapture          bool `json:"block_background_capture"`
	HealthReadRequiresUserInitiated bool `json:"health_read_requires_user_initiated"`
}

// DefaultPolicySettings returns the spec's default policy: health export
// disabled, visible capture UI required, background capture blocked, health
// reads require user initiation.
func DefaultPolicySettings() PolicySettings {
	return PolicySettings{
		AllowHealthExport:               false,
		RequireVisibleCaptureUI:         true,
		BlockBackgroundCapture:          true,
		HealthReadRequiresUserInitiated: true,
	}
}
