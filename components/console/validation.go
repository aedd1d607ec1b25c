package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaValidator compiles resource form schemas and validates submitted
// payloads. Compiled schemas are cached per resource code.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the payload satisfies the resource's form schema. A
// resource without a schema accepts any payload.
func (v *JSONSchemaValidator) Validate(def ResourceDefinition, payload map[string]any) error {
	if len(def.FormSchema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var normalized map[string]any
	if payload == nil {
		normalized = map[string]any{}
	} else {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("console: marshal form for %s: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &normalized); err != nil {
			return fmt.Errorf("console: normalize form for %s: %w", def.Code, err)
		}
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("console: form for %s failed validation: %w", def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def ResourceDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.FormSchema)
	if err != nil {
		return nil, fmt.Errorf("console: marshal schema %s: %w", def.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("console: load schema %s: %w", def.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("console: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}
