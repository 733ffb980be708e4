package ops

import (
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/registry"
	"github.com/vk/flux/internal/value"
)

// Module registers the core operator library.
type Module struct{}

// Register wires every core operator factory into the registry.
func (Module) Register(r *registry.Registry) {
	r.Register("Constant", func() op.Operator { return NewConstant(value.Float(0)) })
	r.Register("Add", NewAdd)
	r.Register("Subtract", NewSubtract)
	r.Register("Multiply", NewMultiply)
	r.Register("Divide", NewDivide)
	r.Register("Clamp", NewClamp)
	r.Register("Compare", NewCompare)
	r.Register("SineWave", func() op.Operator { return NewSineWave() })
	r.Register("Clock", func() op.Operator { return NewClock() })
	r.Register("Sum", func() op.Operator { return NewSum() })
	r.Register("ListGet", func() op.Operator { return NewListGet() })
	r.Register("Counter", func() op.Operator { return NewCounter() })
	r.Register("Pulse", func() op.Operator { return NewPulse() })
	r.Register("Variable", func() op.Operator { return NewVariable("") })
}
