package canonicalize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalizeManifestForDigest implements §4.6's canonicalization step:
// parse manifestJSON as a JSON object, force the top-level "signature" field
// to null, NFC-normalize every string, then re-serialize via JCS. Non-object
// input is a Serialization-class error (returned as a plain error here;
// pkg/signature wraps it as runtimeerr.Serialization).
func CanonicalizeManifestForDigest(manifestJSON []byte) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(manifestJSON))
	decoder.UseNumber()
	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonicalize: invalid JSON: %w", err)
	}
	obj, ok := generic.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("canonicalize: manifest must be a JSON object")
	}
	obj["signature"] = nil
	normalized := NormalizeStrings(obj)
	return marshalRecursive(normalized)
}
