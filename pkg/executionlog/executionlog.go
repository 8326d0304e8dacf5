// Package executionlog implements the tamper-evident per-run log record and
// the sensitive-usage detector, §4.9's asymmetric "sensitive" definition.
package executionlog

import "time"

// Status is one of success, skipped, failed.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ExecutionLog is the record an executor run produces.
type ExecutionLog struct {
	RecipeID      string    `json:"recipe_id"`
	RunID         string    `json:"run_id"`
	Status        Status    `json:"status"`
	SensitiveUsed bool      `json:"sensitive_used"`
	ReasonCode    *string   `json:"reason_code,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// loggedSensitiveActionTypes is deliberately distinct from
// manifest.IsSensitiveActionType: it additionally includes health.export
// for audit purposes even though health.export is not a "sensitive
// capability" for risk-classification purposes. Both definitions are kept
// deliberately distinct — do not unify them.
var loggedSensitiveActionTypes = map[string]bool{
	"camera.capture":    true,
	"microphone.record": true,
	"webcam.capture":    true,
	"health.read":       true,
	"health.export":     true,
}

// DetectSensitiveUsage returns true iff any of actionTypes is counted as
// sensitive for the execution log's audit marker.
func DetectSensitiveUsage(actionTypes []string) bool {
	for _, t := range actionTypes {
		if loggedSensitiveActionTypes[t] {
			return true
		}
	}
	return false
}
