package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadRecipeModel parses a recipe package authored as either JSON or YAML.
// Local-first automation recipes are frequently hand-authored, and YAML is
// the more forgiving format for that; JSON remains the canonical wire and
// signing format regardless of which format a package is authored in; a
// YAML-authored package is converted to JSON before canonicalization and
// signing so §4.6 digesting is format-independent.
func LoadRecipeModel(data []byte) (RecipeModel, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	var model RecipeModel
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(data, &model); err != nil {
			return RecipeModel{}, fmt.Errorf("manifest: invalid JSON recipe package: %w", err)
		}
		return model, nil
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return RecipeModel{}, fmt.Errorf("manifest: invalid YAML recipe package: %w", err)
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return RecipeModel{}, fmt.Errorf("manifest: converting YAML recipe package to JSON: %w", err)
	}
	if err := json.Unmarshal(asJSON, &model); err != nil {
		return RecipeModel{}, fmt.Errorf("manifest: invalid YAML recipe package: %w", err)
	}
	return model, nil
}

// MarshalRecipeModelJSON renders a RecipeModel as canonical-input JSON
// (ordinary json.Marshal, not yet JCS-canonicalized — pkg/signature applies
// JCS to the manifest portion separately).
func MarshalRecipeModelJSON(m RecipeModel) ([]byte, error) {
	return json.Marshal(m)
}
