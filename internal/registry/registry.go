// Package registry holds the operator factories an application instance can
// build nodes from.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/flux/internal/ctxlog"
	"github.com/vk/flux/internal/op"
)

// Factory builds a fresh operator instance.
type Factory func() op.Operator

// Module is the interface a bundle of operators implements to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps operator names to factories for a single application
// instance.
type Registry struct {
	factories map[string]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a name. Registering the same name twice is
// a programmer error and panics.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("operator factory with name '%s' already registered", name))
	}
	r.factories[name] = f
}

// New builds a fresh operator by name.
func (r *Registry) New(name string) (op.Operator, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no operator factory registered for '%s'", name)
	}
	return f(), nil
}

// Names returns the registered operator names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks the integrity of every registered factory: each must
// build an operator whose stable name matches its registration key and
// whose port descriptors are well formed.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for name, f := range r.factories {
		o := f()
		if o == nil {
			return fmt.Errorf("factory '%s' built a nil operator", name)
		}
		if o.Name() != name {
			return fmt.Errorf("factory '%s' built an operator named '%s'", name, o.Name())
		}
		for i, in := range o.Inputs() {
			if in == nil {
				return fmt.Errorf("operator '%s' has a nil input descriptor at %d", name, i)
			}
		}
		for i, out := range o.Outputs() {
			if out == nil {
				return fmt.Errorf("operator '%s' has a nil output port at %d", name, i)
			}
		}
	}
	logger.Debug("registry: validation passed", "operators", len(r.factories))
	return nil
}
