package ops

import (
	"context"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/port"
	"github.com/vk/flux/internal/value"
)

// Sum adds every value connected to its variadic input. With nothing
// connected it emits Float(0).
type Sum struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

// NewSum builds a Sum operator.
func NewSum() *Sum {
	return &Sum{
		inputs:  []*port.Input{port.NewMulti("Values", value.TypeFloat)},
		outputs: []*port.Output{port.FloatOutput("Sum")},
	}
}

func (s *Sum) Name() string            { return "Sum" }
func (s *Sum) Inputs() []*port.Input   { return s.inputs }
func (s *Sum) Outputs() []*port.Output { return s.outputs }

func (s *Sum) Compute(_ context.Context, _ *evalctx.Context, in op.InputResolver) {
	values := in.ResolveAll(0)
	if len(values) == 0 {
		s.outputs[0].Set(value.Float(0))
		return
	}
	acc := values[0]
	for _, v := range values[1:] {
		acc = value.Add(acc, v)
	}
	s.outputs[0].Set(acc)
}

// ListGet extracts one element from a list. Index -1 addresses the last
// element; out-of-range indices produce the element type's default.
type ListGet struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

// NewListGet builds a ListGet operator over float lists.
func NewListGet() *ListGet {
	return &ListGet{
		inputs: []*port.Input{
			port.NewInput("List", value.FloatList(nil)),
			port.IntInput("Index", 0),
		},
		outputs: []*port.Output{port.FloatOutput("Element")},
	}
}

func (l *ListGet) Name() string            { return "ListGet" }
func (l *ListGet) Inputs() []*port.Input   { return l.inputs }
func (l *ListGet) Outputs() []*port.Output { return l.outputs }

func (l *ListGet) Compute(_ context.Context, _ *evalctx.Context, in op.InputResolver) {
	list := in.Resolve(0)
	idx, _ := in.Resolve(1).Coerce(value.TypeInt).AsInt()
	l.outputs[0].Set(list.ListGet(int(idx)))
}
