package adapter

import (
	"fmt"
	"sort"
	"strings"
)

// Registry holds configured adapters keyed by provider identifier.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its own name, replacing any previous one.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns the registered provider identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target pairs a resolved adapter with a concrete model.
type Target struct {
	Adapter Adapter
	Model   string
}

// Spec returns the canonical "provider:model" form of the target.
func (t Target) Spec() string {
	return fmt.Sprintf("%s:%s", t.Adapter.Name(), t.Model)
}

// Resolve maps an oracle specification of the form "provider" or
// "provider:model" to a target. Without a model the provider's default model
// is used. Resolution fails when the provider is not registered or has no
// model to default to.
func (r *Registry) Resolve(spec string) (Target, error) {
	if spec == "" {
		return Target{}, fmt.Errorf("oracle spec is empty")
	}

	provider := spec
	model := ""
	if i := strings.Index(spec, ":"); i >= 0 {
		provider = spec[:i]
		model = spec[i+1:]
	}

	a, ok := r.adapters[provider]
	if !ok {
		available := strings.Join(r.Names(), ", ")
		if available == "" {
			available = "none"
		}
		return Target{}, fmt.Errorf("provider %q is not configured (available: %s)", provider, available)
	}

	if model == "" {
		models := a.Models()
		if len(models) == 0 {
			return Target{}, fmt.Errorf("provider %q has no default model", provider)
		}
		model = models[0]
	}

	return Target{Adapter: a, Model: model}, nil
}
