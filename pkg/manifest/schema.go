// Package manifest implements the recipe manifest and permission set data
// model, the per-action schema validator, and the risk-consistency validator.
package manifest

import "github.com/arquent-run/arquent/pkg/flow"

// RiskLevel tags the declared risk class of a recipe.
type RiskLevel string

const (
	RiskStandard   RiskLevel = "Standard"
	RiskSensitive  RiskLevel = "Sensitive"
	RiskRestricted RiskLevel = "Restricted"
)

// NetworkPermission guards http.request.
type NetworkPermission struct {
	Domains  []string `json:"domains" yaml:"domains"`
	MaxCalls uint32   `json:"max_calls" yaml:"max_calls"`
}

// FileAccessPermission guards file.read|write|move|rename.
type FileAccessPermission struct {
	Roots []string `json:"roots" yaml:"roots"`
	Ops   []string `json:"ops" yaml:"ops"`
}

// CameraPermission guards camera.capture and webcam.capture.
type CameraPermission struct {
	Mode string `json:"mode" yaml:"mode"`
}

// MicrophonePermission guards microphone.record.
type MicrophonePermission struct {
	MaxSeconds        uint32 `json:"max_seconds" yaml:"max_seconds"`
	UserInitiatedOnly bool   `json:"user_initiated_only" yaml:"user_initiated_only"`
}

// HealthReadPermission guards health.read.
type HealthReadPermission struct {
	Types       []string `json:"types" yaml:"types"`
	Aggregation string   `json:"aggregation" yaml:"aggregation"`
}

// PermissionSet is the declarative capability record a manifest carries.
type PermissionSet struct {
	NotificationSend bool `json:"notification_send,omitempty" yaml:"notification_send,omitempty"`
	ClipboardRead    bool `json:"clipboard_read,omitempty" yaml:"clipboard_read,omitempty"`
	ClipboardWrite   bool `json:"clipboard_write,omitempty" yaml:"clipboard_write,omitempty"`
	HotkeyRegister   bool `json:"hotkey_register,omitempty" yaml:"hotkey_register,omitempty"`

	NetworkRequest   *NetworkPermission    `json:"network_request,omitempty" yaml:"network_request,omitempty"`
	FileAccess       *FileAccessPermission `json:"file_access,omitempty" yaml:"file_access,omitempty"`
	CameraCapture    *CameraPermission     `json:"camera_capture,omitempty" yaml:"camera_capture,omitempty"`
	WebcamCapture    *CameraPermission     `json:"webcam_capture,omitempty" yaml:"webcam_capture,omitempty"`
	MicrophoneRecord *MicrophonePermission `json:"microphone_record,omitempty" yaml:"microphone_record,omitempty"`
	HealthRead       *HealthReadPermission `json:"health_read,omitempty" yaml:"health_read,omitempty"`

	HealthExport bool `json:"health_export,omitempty" yaml:"health_export,omitempty"`
}

// UsesSensitive is the disjunction over the four sensitive capabilities:
// camera_capture, microphone_record, webcam_capture, health_read.
func (p PermissionSet) UsesSensitive() bool {
	return p.CameraCapture != nil || p.MicrophoneRecord != nil ||
		p.WebcamCapture != nil || p.HealthRead != nil
}

// PublisherMeta identifies the marketplace publisher of a recipe.
type PublisherMeta struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Verified    bool   `json:"verified" yaml:"verified"`
}

// Manifest is the signed, declarative metadata shipped with a recipe.
type Manifest struct {
	ID                 string         `json:"id" yaml:"id"`
	Name               string         `json:"name" yaml:"name"`
	Version            string         `json:"version" yaml:"version"`
	MinRuntimeVersion  string         `json:"min_runtime_version" yaml:"min_runtime_version"`
	RequiredConnectors []string       `json:"required_connectors,omitempty" yaml:"required_connectors,omitempty"`
	Permissions        PermissionSet  `json:"permissions" yaml:"permissions"`
	RiskLevel          RiskLevel      `json:"risk_level" yaml:"risk_level"`
	UserInitiatedReq   bool           `json:"user_initiated_required" yaml:"user_initiated_required"`
	Signature          *string        `json:"signature,omitempty" yaml:"signature,omitempty"`
	Publisher          *PublisherMeta `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}

// RecipeModel pairs a manifest with the flow it governs.
type RecipeModel struct {
	Manifest Manifest   `json:"manifest" yaml:"manifest"`
	Flow     flow.RecipeFlow `json:"flow" yaml:"flow"`
}

// sensitiveActionTypes is the set of four sensitive action types behind
// IsSensitiveActionType.
var sensitiveActionTypes = map[string]bool{
	"camera.capture":    true,
	"microphone.record": true,
	"webcam.capture":    true,
	"health.read":       true,
}

// IsSensitiveActionType reports whether actionType is one of the four
// sensitive capabilities used by the risk validator and permission enforcer
// (camera.capture, microphone.record, webcam.capture, health.read).
func IsSensitiveActionType(actionType string) bool {
	return sensitiveActionTypes[actionType]
}
