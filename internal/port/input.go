package port

import "github.com/vk/flux/internal/value"

// Input describes one value input of an operator: a name, a declared type
// constraint, a default used while disconnected, and whether the port
// accumulates multiple sources (variadic operators like Sum).
//
// Connection state is not stored here; the graph owns its connection index.
type Input struct {
	Name    string
	Type    value.Type
	Default value.Value
	Multi   bool
}

// NewInput builds a single input whose constraint is the default's type.
func NewInput(name string, def value.Value) *Input {
	return &Input{Name: name, Type: def.Type(), Default: def}
}

// NewMulti builds a multi-input port of the given element type.
func NewMulti(name string, t value.Type) *Input {
	return &Input{Name: name, Type: t, Default: t.Default(), Multi: true}
}

// FloatInput is shorthand for a Float input with a default.
func FloatInput(name string, def float32) *Input {
	return NewInput(name, value.Float(def))
}

// IntInput is shorthand for an Int input with a default.
func IntInput(name string, def int32) *Input {
	return NewInput(name, value.Int(def))
}

// BoolInput is shorthand for a Bool input with a default.
func BoolInput(name string, def bool) *Input {
	return NewInput(name, value.Bool(def))
}
