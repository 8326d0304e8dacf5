package runtimeerr_test

import (
	"errors"
	"testing"

	"github.com/arquent-run/arquent/pkg/runtimeerr"
	"github.com/stretchr/testify/assert"
)

func TestPermissionDenied_ErrorIncludesCode(t *testing.T) {
	err := runtimeerr.PermissionDenied(runtimeerr.CodeVisibleCaptureUIRequired, "no ui")
	assert.Equal(t, runtimeerr.KindPermissionDenied, err.Kind)
	assert.Equal(t, runtimeerr.CodeVisibleCaptureUIRequired, err.Code)
	assert.Contains(t, err.Error(), "PermissionDenied")
	assert.Contains(t, err.Error(), runtimeerr.CodeVisibleCaptureUIRequired)
	assert.Contains(t, err.Error(), "no ui")
}

func TestUserInitiationRequired_HasNoCode(t *testing.T) {
	err := runtimeerr.UserInitiationRequired("passive trigger")
	assert.Empty(t, err.Code)
	assert.Equal(t, "UserInitiationRequired: passive trigger", err.Error())
}

func TestSignatureInvalid_MessageIsOpaque(t *testing.T) {
	err := runtimeerr.SignatureInvalid()
	assert.Equal(t, runtimeerr.KindSignatureInvalid, err.Kind)
	assert.NotEmpty(t, err.Message)
}

func TestIs_MatchesKindOnly(t *testing.T) {
	var err error = runtimeerr.SandboxViolation("bad uri")
	assert.True(t, runtimeerr.Is(err, runtimeerr.KindSandboxViolation))
	assert.False(t, runtimeerr.Is(err, runtimeerr.KindStorage))
	assert.False(t, runtimeerr.Is(errors.New("plain error"), runtimeerr.KindSandboxViolation))
}
