package executor

import (
	"encoding/json"

	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

func decodeParams(raw json.RawMessage, out any) *runtimeerr.RuntimeError {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return runtimeerr.SchemaValidation("params is not valid JSON: " + err.Error())
	}
	return nil
}
