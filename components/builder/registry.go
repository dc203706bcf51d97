package builder

import (
	"fmt"
	"sort"
	"sync"
)

// ElementDefinition describes a widget type offered by the sidebar palette.
type ElementDefinition struct {
	Type   ElementType    `json:"type" yaml:"type"`
	Label  string         `json:"label" yaml:"label"`
	Icon   string         `json:"icon" yaml:"icon"`
	Color  string         `json:"color" yaml:"color"`
	Size   float64        `json:"size" yaml:"size"`
	Order  int            `json:"order" yaml:"order"`
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// DefinitionRegistry resolves palette metadata for element types.
type DefinitionRegistry interface {
	Definition(t ElementType) (ElementDefinition, bool)
	Definitions() []ElementDefinition
}

// RegistryHook lets packages adjust definitions on new registries.
type RegistryHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []RegistryHook
)

// RegisterRegistryHook registers a hook executed against new registries.
func RegisterRegistryHook(h RegistryHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores element definitions keyed by type.
type Registry struct {
	mu          sync.RWMutex
	definitions map[ElementType]ElementDefinition
}

var _ DefinitionRegistry = (*Registry)(nil)

// NewRegistry builds a registry holding the built-in widget types and applies
// registered hooks.
func NewRegistry() *Registry {
	reg := &Registry{definitions: map[ElementType]ElementDefinition{}}
	for _, def := range DefaultElementDefinitions() {
		_ = reg.RegisterDefinition(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores or replaces the definition for def.Type.
func (r *Registry) RegisterDefinition(def ElementDefinition) error {
	if !def.Type.Valid() {
		return fmt.Errorf("builder: cannot register definition for unknown type %q", def.Type)
	}
	if def.Label == "" {
		return fmt.Errorf("builder: definition %s requires a label", def.Type)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Type] = def
	return nil
}

// Definition fetches the definition of a type.
func (r *Registry) Definition(t ElementType) (ElementDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[t]
	return def, ok
}

// Definitions returns every definition in palette order.
func (r *Registry) Definitions() []ElementDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ElementDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Order != defs[j].Order {
			return defs[i].Order < defs[j].Order
		}
		return defs[i].Type < defs[j].Type
	})
	return defs
}

// DefaultColor returns the palette color for t.
func DefaultColor(reg DefinitionRegistry, t ElementType) string {
	if reg != nil {
		if def, ok := reg.Definition(t); ok && def.Color != "" {
			return def.Color
		}
	}
	return fallbackColor
}

// DefaultSize returns the palette size for t.
func DefaultSize(reg DefinitionRegistry, t ElementType) float64 {
	if reg != nil {
		if def, ok := reg.Definition(t); ok && def.Size > 0 {
			return def.Size
		}
	}
	return fallbackSize
}
