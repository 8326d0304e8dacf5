package hostboundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmit_Success(t *testing.T) {
	status := Submit(`{"recipe_id":"r1","trigger_class":"userInitiated","token":{"id":"tok-1","issued_at":"2026-01-01T00:00:00Z","visible_capture_ui":true}}`)
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, "", LastError())

	rec, ok := Take("r1")
	assert.True(t, ok)
	assert.Equal(t, "r1", rec.RecipeID)
	assert.True(t, rec.RuntimeContext.VisibleCaptureUI)

	_, ok = Take("r1")
	assert.False(t, ok)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	status := Submit(`{"recipe_id":"","token":{"id":"tok-1"}}`)
	assert.Equal(t, StatusValidation, status)
	assert.NotEmpty(t, LastError())
}

func TestSubmit_MalformedJSON(t *testing.T) {
	status := Submit(`not json`)
	assert.Equal(t, StatusValidation, status)
}
