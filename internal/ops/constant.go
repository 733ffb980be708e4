package ops

import (
	"context"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/port"
	"github.com/vk/flux/internal/value"
)

// Constant emits a fixed value. The value lives on its single input port's
// default, so hosts adjust it through Graph.SetInputDefault like any other
// unconnected input.
type Constant struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

// NewConstant builds a constant seeded with v.
func NewConstant(v value.Value) *Constant {
	return &Constant{
		inputs:  []*port.Input{port.NewInput("Value", v)},
		outputs: []*port.Output{port.NewOutput("Result", v.Type())},
	}
}

func (c *Constant) Name() string            { return "Constant" }
func (c *Constant) Inputs() []*port.Input   { return c.inputs }
func (c *Constant) Outputs() []*port.Output { return c.outputs }

func (c *Constant) Compute(_ context.Context, _ *evalctx.Context, in op.InputResolver) {
	c.outputs[0].Set(in.Resolve(0))
}

// Variable reads a named value from the evaluation context's variable bag,
// falling back to its Default input while the variable is absent.
type Variable struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

// NewVariable builds a Variable reader for the given variable name.
func NewVariable(name string) *Variable {
	return &Variable{
		inputs: []*port.Input{
			port.NewInput("Name", value.String(name)),
			port.FloatInput("Default", 0),
		},
		outputs: []*port.Output{port.NewOutputWithPolicy("Value", value.TypeFloat, port.PolicyAlways)},
	}
}

func (v *Variable) Name() string            { return "Variable" }
func (v *Variable) Inputs() []*port.Input   { return v.inputs }
func (v *Variable) Outputs() []*port.Output { return v.outputs }

func (v *Variable) Compute(_ context.Context, ec *evalctx.Context, in op.InputResolver) {
	name, _ := in.Resolve(0).AsString()
	if val, ok := ec.Var(name); ok {
		v.outputs[0].Set(val)
		return
	}
	v.outputs[0].Set(in.Resolve(1))
}
