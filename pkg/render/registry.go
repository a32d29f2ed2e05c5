package render

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores generators by name, providing discovery and duplication
// safeguards. It satisfies the orchestrator resolver contract.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator under name. Duplicate names return an error.
func (r *Registry) Register(name string, gen Generator) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("render: generator name is required")
	}
	if gen.IsZero() {
		return fmt.Errorf("render: generator %q is empty", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[name]; exists {
		return fmt.Errorf("render: generator %q already registered", name)
	}

	r.generators[name] = gen
	return nil
}

// RegisterFunc registers fn under name.
func (r *Registry) RegisterFunc(name string, fn Func) error {
	return r.Register(name, Callable(fn))
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, gen Generator) {
	if err := r.Register(name, gen); err != nil {
		panic(err)
	}
}

// Get retrieves a generator by name.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.generators[name]
	if !ok {
		return Generator{}, fmt.Errorf("%w: %q", ErrGeneratorNotFound, name)
	}
	return gen, nil
}

// Resolve implements the orchestrator resolver contract.
func (r *Registry) Resolve(_ context.Context, name string) (Generator, error) {
	return r.Get(name)
}

// List returns a sorted list of generator names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a generator is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.generators[name]
	return ok
}
