package versioncheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckMinRuntimeVersion_Satisfied(t *testing.T) {
	assert.Nil(t, CheckMinRuntimeVersion("1.2.0", "1.3.0"))
	assert.Nil(t, CheckMinRuntimeVersion("1.2.0", "1.2.0"))
}

func TestCheckMinRuntimeVersion_TooOld(t *testing.T) {
	rerr := CheckMinRuntimeVersion("2.0.0", "1.9.9")
	assert.NotNil(t, rerr)
}

func TestCheckMinRuntimeVersion_NoConstraint(t *testing.T) {
	assert.Nil(t, CheckMinRuntimeVersion("", "0.1.0"))
}

func TestCheckMinRuntimeVersion_InvalidSemver(t *testing.T) {
	rerr := CheckMinRuntimeVersion("not-a-version", "1.0.0")
	assert.NotNil(t, rerr)
}
