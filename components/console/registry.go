package console

import (
	"fmt"
	"sync"
)

// ResourceHook lets packages register resources during init().
type ResourceHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ResourceHook
)

// RegisterResourceHook registers a hook executed against new registries.
func RegisterResourceHook(h ResourceHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements ResourceRegistry with hook + manifest support. Section
// order follows registration order, which is what the shell's tab strip
// renders.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]ResourceDefinition
	bindings     map[string]ResourceBinding
	manifestMeta map[string]ManifestEndpoint
	order        []string
}

// NewRegistry builds an empty registry and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions:  map[string]ResourceDefinition{},
		bindings:     map[string]ResourceBinding{},
		manifestMeta: map[string]ManifestEndpoint{},
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered resource hooks.
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

// RegisterDefinition stores resource metadata and records section order.
func (r *Registry) RegisterDefinition(def ResourceDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("resource definition code is required")
	}
	def.normalizeLocalizedFields()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[def.Code]; !exists {
		r.order = append(r.order, def.Code)
	}
	r.definitions[def.Code] = def
	return nil
}

// RegisterBinding associates backend calls with a registered definition.
func (r *Registry) RegisterBinding(binding ResourceBinding) error {
	code := binding.Definition.Code
	if code == "" {
		return fmt.Errorf("resource binding requires a definition code")
	}
	if binding.List == nil {
		return fmt.Errorf("resource binding %s requires a list function", code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		r.order = append(r.order, code)
		r.definitions[code] = binding.Definition
	}
	r.bindings[code] = binding
	return nil
}

// Definition fetches a resource definition by code.
func (r *Registry) Definition(code string) (ResourceDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Binding fetches a resource binding by code.
func (r *Registry) Binding(code string) (ResourceBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	binding, ok := r.bindings[code]
	return binding, ok
}

// EndpointMetadata returns any manifest endpoint metadata registered for a
// resource.
func (r *Registry) EndpointMetadata(code string) (ManifestEndpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

func (r *Registry) recordEndpointMetadata(code string, meta ManifestEndpoint) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}

// Definitions returns all registered definitions in section order.
func (r *Registry) Definitions() []ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ResourceDefinition, 0, len(r.order))
	for _, code := range r.order {
		defs = append(defs, r.definitions[code])
	}
	return defs
}

// SectionCodes returns the ordered resource codes the shell renders as tabs.
func (r *Registry) SectionCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
