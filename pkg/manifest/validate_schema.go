package manifest

import (
	"encoding/json"

	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// requiredObjectKey action types, per action_type, keyed to the field their
// params object must contain.
var requiredObjectKey = map[string]string{
	"http.request": "url",
	"file.read":    "uri",
	"file.write":   "uri",
	"file.move":    "uri",
	"file.rename":  "uri",
}

// noStructuralRequirement action types are accepted as-is.
var noStructuralRequirement = map[string]bool{
	"camera.capture":    true,
	"microphone.record": true,
	"webcam.capture":    true,
	"health.read":       true,
}

// ValidateActionSchema checks an action's params against the minimal
// per-action-type structural requirements. Any other action type is accepted
// without inspection.
func ValidateActionSchema(actionType string, params json.RawMessage) *runtimeerr.RuntimeError {
	key, needsKey := requiredObjectKey[actionType]
	if !needsKey {
		return nil
	}
	if noStructuralRequirement[actionType] {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(params, &obj); err != nil {
		return runtimeerr.SchemaValidation(actionType + ": params must be a JSON object")
	}
	if _, ok := obj[key]; !ok {
		return runtimeerr.SchemaValidation(actionType + ": params missing required field " + key)
	}
	return nil
}
