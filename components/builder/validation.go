package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidElement wraps every element validation failure.
var ErrInvalidElement = errors.New("builder: invalid element")

// ElementValidator validates an element against its type definition.
type ElementValidator interface {
	Validate(def ElementDefinition, el Element) error
}

// JSONSchemaValidator compiles definition schemas and validates the JSON form
// of elements against them.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[ElementType]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[ElementType]*jsonschema.Schema),
	}
}

// Validate ensures the element satisfies the definition schema.
func (v *JSONSchemaValidator) Validate(def ElementDefinition, el Element) error {
	if el.Type != def.Type {
		return fmt.Errorf("builder: element %s has type %s, definition is %s", el.ID, el.Type, def.Type)
	}
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	data, err := json.Marshal(el)
	if err != nil {
		return fmt.Errorf("builder: marshal element %s: %w", el.ID, err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("builder: normalize element %s: %w", el.ID, err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("builder: element %s failed validation: %w", el.ID, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def ElementDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Type]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("builder: marshal schema %s: %w", def.Type, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(def.Type) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("builder: load schema %s: %w", def.Type, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("builder: compile schema %s: %w", def.Type, err)
	}
	v.mu.Lock()
	v.compiled[def.Type] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// ValidateElement resolves the definition for el and validates it.
func ValidateElement(reg DefinitionRegistry, validator ElementValidator, el Element) error {
	if !el.Type.Valid() {
		return fmt.Errorf("%w: element %s has unknown type %q", ErrInvalidElement, el.ID, el.Type)
	}
	if el.ID == "" {
		return fmt.Errorf("%w: %s element is missing an id", ErrInvalidElement, el.Type)
	}
	if reg == nil || validator == nil {
		return nil
	}
	def, ok := reg.Definition(el.Type)
	if !ok {
		return nil
	}
	if err := validator.Validate(def, el); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}
	return nil
}

// SanitizeElement drops chart payloads whose series do not line up with the
// labels so they render as a placeholder instead of a broken chart.
func SanitizeElement(el Element) Element {
	if el.Type == ElementChart && el.Properties.ChartData != nil && !el.Properties.ChartData.Consistent() {
		out := el.Clone()
		out.Properties.ChartData = nil
		return out
	}
	return el
}

// SanitizeLayout applies SanitizeElement to every element and restores the
// placement lockstep.
func SanitizeLayout(l Layout) Layout {
	out := l.Clone()
	for i, el := range out.Elements {
		out.Elements[i] = SanitizeElement(el)
	}
	if !out.InLockstep() {
		out.Placements = reconcilePlacements(out.Elements, out.Placements)
	}
	return out
}
