// Package ops is the trivial operator library: enough arithmetic, wave,
// aggregation, list and trigger operators to exercise the engine and drive
// the demo patch. Operators embed op.Base and own their ports.
package ops

import (
	"context"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/port"
	"github.com/vk/flux/internal/value"
)

// binary is the shared shape of two-input arithmetic operators.
type binary struct {
	op.Base
	name    string
	fn      func(a, b value.Value) value.Value
	inputs  []*port.Input
	outputs []*port.Output
}

func newBinary(name string, fn func(a, b value.Value) value.Value) *binary {
	return &binary{
		name: name,
		fn:   fn,
		inputs: []*port.Input{
			port.FloatInput("A", 0),
			port.FloatInput("B", 0),
		},
		outputs: []*port.Output{port.FloatOutput("Result")},
	}
}

func (b *binary) Name() string            { return b.name }
func (b *binary) Inputs() []*port.Input   { return b.inputs }
func (b *binary) Outputs() []*port.Output { return b.outputs }

func (b *binary) Compute(_ context.Context, _ *evalctx.Context, in op.InputResolver) {
	b.outputs[0].Set(b.fn(in.Resolve(0), in.Resolve(1)))
}

// NewAdd returns the Add operator: Result = A + B under broadcasting rules.
func NewAdd() op.Operator { return newBinary("Add", value.Add) }

// NewSubtract returns the Subtract operator.
func NewSubtract() op.Operator { return newBinary("Subtract", value.Sub) }

// NewMultiply returns the Multiply operator.
func NewMultiply() op.Operator { return newBinary("Multiply", value.Mul) }

// NewDivide returns the Divide operator. Integer division by zero yields 0,
// float division by zero yields infinity.
func NewDivide() op.Operator { return newBinary("Divide", value.Div) }

// Clamp limits Value to [Min, Max] componentwise.
type Clamp struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

// NewClamp returns a Clamp operator with range [0, 1].
func NewClamp() op.Operator {
	return &Clamp{
		inputs: []*port.Input{
			port.FloatInput("Value", 0),
			port.FloatInput("Min", 0),
			port.FloatInput("Max", 1),
		},
		outputs: []*port.Output{port.FloatOutput("Result")},
	}
}

func (c *Clamp) Name() string            { return "Clamp" }
func (c *Clamp) Inputs() []*port.Input   { return c.inputs }
func (c *Clamp) Outputs() []*port.Output { return c.outputs }

func (c *Clamp) Compute(_ context.Context, _ *evalctx.Context, in op.InputResolver) {
	c.outputs[0].Set(value.Clamp(in.Resolve(0), in.Resolve(1), in.Resolve(2)))
}

// Compare tests two scalars. Float equality uses a small epsilon.
type Compare struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

const compareEpsilon = 1e-6

// NewCompare returns a Compare operator.
func NewCompare() op.Operator {
	return &Compare{
		inputs: []*port.Input{
			port.FloatInput("A", 0),
			port.FloatInput("B", 0),
		},
		outputs: []*port.Output{
			port.NewOutput("Equal", value.TypeBool),
			port.NewOutput("Less", value.TypeBool),
		},
	}
}

func (c *Compare) Name() string            { return "Compare" }
func (c *Compare) Inputs() []*port.Input   { return c.inputs }
func (c *Compare) Outputs() []*port.Output { return c.outputs }

func (c *Compare) Compute(_ context.Context, _ *evalctx.Context, in op.InputResolver) {
	a := in.Resolve(0)
	b := in.Resolve(1)
	c.outputs[0].Set(value.Bool(value.ApproxEqual(a, b, compareEpsilon)))
	af, _ := a.Coerce(value.TypeFloat).AsFloat()
	bf, _ := b.Coerce(value.TypeFloat).AsFloat()
	c.outputs[1].Set(value.Bool(af < bf))
}
