package publish_test

import (
	"testing"

	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/publish"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
	"github.com/stretchr/testify/assert"
)

func signed(s string) *string { return &s }

func TestValidatePublishPolicy_UnsignedRejected(t *testing.T) {
	m := manifest.Manifest{ID: "recipe-x", RiskLevel: manifest.RiskStandard}
	err := publish.ValidatePublishPolicy(m, true)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindSignatureInvalid, err.Kind)
	}
}

func TestValidatePublishPolicy_PublicSensitiveRequiresVerifiedPublisher(t *testing.T) {
	m := manifest.Manifest{
		ID:        "recipe-x",
		RiskLevel: manifest.RiskSensitive,
		Signature: signed("sig"),
	}
	err := publish.ValidatePublishPolicy(m, true)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
		assert.Equal(t, runtimeerr.CodeVerifiedPublisherRequired, err.Code)
	}

	m.Publisher = &manifest.PublisherMeta{ID: "pub-1", Verified: false}
	err = publish.ValidatePublishPolicy(m, true)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.CodeVerifiedPublisherRequired, err.Code)
	}
}

func TestValidatePublishPolicy_PublicSensitiveRequiresUserInitiated(t *testing.T) {
	m := manifest.Manifest{
		ID:        "recipe-x",
		RiskLevel: manifest.RiskSensitive,
		Signature: signed("sig"),
		Publisher: &manifest.PublisherMeta{ID: "pub-1", Verified: true},
	}
	err := publish.ValidatePublishPolicy(m, true)
	if assert.NotNil(t, err) {
		assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
		assert.Equal(t, runtimeerr.CodeUserInitiatedDeclarationReqd, err.Code)
	}
}

func TestValidatePublishPolicy_FullyValidPublicSensitive(t *testing.T) {
	m := manifest.Manifest{
		ID:               "recipe-x",
		RiskLevel:        manifest.RiskSensitive,
		Signature:        signed("sig"),
		UserInitiatedReq: true,
		Publisher:        &manifest.PublisherMeta{ID: "pub-1", Verified: true},
	}
	assert.Nil(t, publish.ValidatePublishPolicy(m, true))
}

func TestValidatePublishPolicy_PrivateSensitiveSkipsPublisherChecks(t *testing.T) {
	m := manifest.Manifest{
		ID:        "recipe-x",
		RiskLevel: manifest.RiskSensitive,
		Signature: signed("sig"),
	}
	assert.Nil(t, publish.ValidatePublishPolicy(m, false))
}
