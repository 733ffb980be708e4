// Package op defines the narrow interface through which the engine drives
// operators. The engine never introspects an operator beyond these methods;
// concrete operators live outside the core and own their ports.
package op

import (
	"context"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/port"
	"github.com/vk/flux/internal/value"
)

// InputResolver hands an operator the values of its inputs during Compute
// or OnTriggered. Resolution follows the cache discipline of the current
// call context: a connected input yields the upstream's cached outputs, an
// unconnected one yields the input's default.
type InputResolver interface {
	// Resolve returns the value of input i. For multi-inputs it returns
	// the first connected source.
	Resolve(i int) value.Value
	// ResolveAll returns every connected value of a multi-input, in
	// connection order. A connected single input yields one element; an
	// unconnected input yields none (its default is not included).
	ResolveAll(i int) []value.Value
}

// Operator is the unit of computation hosted by a graph node.
type Operator interface {
	// Name is the operator's stable identifier.
	Name() string
	// Inputs returns the ordered input descriptors. The graph may mutate
	// a port's Default through the returned pointers.
	Inputs() []*port.Input
	// Outputs returns the ordered output ports. Compute writes results
	// through them.
	Outputs() []*port.Output
	// TriggerInputs returns the ordered trigger inputs; may be empty.
	TriggerInputs() []port.TriggerInput
	// TriggerOutputs returns the ordered trigger outputs; may be empty.
	TriggerOutputs() []port.TriggerOutput
	// TimeVarying reports whether outputs depend on the context time;
	// time-varying operators are recomputed on every pass.
	TimeVarying() bool
	// Compute derives output values from resolved inputs. It must not
	// block or perform I/O; operator-local state may be mutated.
	Compute(ctx context.Context, ec *evalctx.Context, in InputResolver)
	// OnTriggered handles a signal on trigger input index and returns
	// the indices of its own trigger outputs to fire next.
	OnTriggered(ctx context.Context, trigger int, ec *evalctx.Context, in InputResolver) []int
}

// Base provides the default behavior for operators without triggers or time
// dependence. Embed it and override what the operator needs.
type Base struct{}

// TriggerInputs returns no trigger inputs.
func (Base) TriggerInputs() []port.TriggerInput { return nil }

// TriggerOutputs returns no trigger outputs.
func (Base) TriggerOutputs() []port.TriggerOutput { return nil }

// TimeVarying reports false.
func (Base) TimeVarying() bool { return false }

// OnTriggered panics: an operator that declares no triggers must never be
// fired.
func (Base) OnTriggered(context.Context, int, *evalctx.Context, InputResolver) []int {
	panic("op: OnTriggered called on an operator with no trigger ports")
}
