// Package publish implements the marketplace-side publisher/risk check run
// at publish time, distinct from runtime permission enforcement.
package publish

import (
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// ValidatePublishPolicy implements §4.7.
func ValidatePublishPolicy(m manifest.Manifest, publicMarketplace bool) *runtimeerr.RuntimeError {
	if m.Signature == nil || *m.Signature == "" {
		return runtimeerr.SignatureInvalid()
	}
	if publicMarketplace && m.RiskLevel == manifest.RiskSensitive {
		if m.Publisher == nil || !m.Publisher.Verified {
			return runtimeerr.PermissionDenied(runtimeerr.CodeVerifiedPublisherRequired,
				"public marketplace requires a verified publisher for Sensitive recipes")
		}
		if !m.UserInitiatedReq {
			return runtimeerr.PermissionDenied(runtimeerr.CodeUserInitiatedDeclarationReqd,
				"public marketplace requires user_initiated_required for Sensitive recipes")
		}
	}
	return nil
}
