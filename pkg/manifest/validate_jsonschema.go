package manifest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// SchemaRegistry is an ambient enrichment over ValidateActionSchema: a
// connector that wants a richer parameter shape than the spec's minimal
// per-type check can register a JSON Schema (Draft 2020-12) for its action
// type. It never replaces the minimal checks — ValidateActionParamsJSONSchema
// only runs for types that have registered a schema; unregistered types are
// unaffected by this registry.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: make(map[string]*jsonschema.Schema)}
}

// Register compiles and stores a JSON Schema document for actionType.
func (r *SchemaRegistry) Register(actionType, schemaDoc string) error {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://schemas.arquent.run/actions/%s.schema.json", actionType)
	if err := c.AddResource(url, strings.NewReader(schemaDoc)); err != nil {
		return fmt.Errorf("manifest: schema load for %q failed: %w", actionType, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("manifest: schema compile for %q failed: %w", actionType, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[actionType] = compiled
	return nil
}

// ValidateActionParamsJSONSchema validates params against a registered
// schema for actionType, if one exists. If no schema is registered this is
// a no-op success, so the caller can run it unconditionally after
// ValidateActionSchema.
func (r *SchemaRegistry) ValidateActionParamsJSONSchema(actionType string, params any) *runtimeerr.RuntimeError {
	r.mu.RLock()
	schema, ok := r.schemas[actionType]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := schema.Validate(params); err != nil {
		return runtimeerr.SchemaValidation(fmt.Sprintf("%s: %v", actionType, err))
	}
	return nil
}
