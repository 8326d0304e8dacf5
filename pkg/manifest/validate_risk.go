package manifest

import "github.com/arquent-run/arquent/pkg/runtimeerr"

// flowHasSensitive reports whether any action type is one of the four
// sensitive types of IsSensitiveActionType. The executor's sensitive-use log
// marker (executionlog.DetectSensitiveUsage) also counts a fifth type
// (health.export), which must NOT feed into risk consistency.
func flowHasSensitive(actionTypes []string) bool {
	for _, t := range actionTypes {
		if IsSensitiveActionType(t) {
			return true
		}
	}
	return false
}

// ValidateManifestRisk enforces invariant I1: if the flow or the declared
// permissions touch a sensitive capability, the manifest must declare risk
// Sensitive and require user initiation.
func ValidateManifestRisk(m Manifest, actionTypes []string) *runtimeerr.RuntimeError {
	sensitive := flowHasSensitive(actionTypes) || m.Permissions.UsesSensitive()
	if !sensitive {
		return nil
	}
	if m.RiskLevel != RiskSensitive {
		return runtimeerr.PermissionDenied(runtimeerr.CodeRiskLevelMismatch,
			"manifest touches a sensitive capability but risk_level is not Sensitive")
	}
	if !m.UserInitiatedReq {
		return runtimeerr.PermissionDenied(runtimeerr.CodeUserInitiatedDeclarationReqd,
			"manifest touches a sensitive capability but user_initiated_required is false")
	}
	return nil
}
