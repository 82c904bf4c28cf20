package codegen

import (
	"fmt"
	"sort"
)

// Factory creates a generator configured with opts
type Factory func(opts Options) Generator

// Registry manages available code generators
type Registry struct {
	generators map[string]Factory
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]Factory),
	}
	return r
}

// Register adds a new generator factory to the registry
func (r *Registry) Register(target string, factory Factory) {
	r.generators[target] = factory
}

// Get returns a generator for the specified target
func (r *Registry) Get(target string, opts Options) (Generator, error) {
	factory, exists := r.generators[target]
	if !exists {
		return nil, fmt.Errorf("unsupported target: %s", target)
	}

	return factory(opts), nil
}

// Targets returns the registered target names in sorted order
func (r *Registry) Targets() []string {
	targets := make([]string, 0, len(r.generators))
	for target := range r.generators {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}
