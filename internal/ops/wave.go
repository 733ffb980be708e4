package ops

import (
	"context"
	"math"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/port"
	"github.com/vk/flux/internal/value"
)

// SineWave oscillates with the context time: Amplitude * sin(2π*Frequency*t
// + Phase). It is time-varying, so it recomputes on every pass.
type SineWave struct {
	op.Base
	inputs  []*port.Input
	outputs []*port.Output
}

// NewSineWave builds a unit sine oscillator at 1 Hz.
func NewSineWave() *SineWave {
	return &SineWave{
		inputs: []*port.Input{
			port.FloatInput("Frequency", 1),
			port.FloatInput("Amplitude", 1),
			port.FloatInput("Phase", 0),
		},
		outputs: []*port.Output{port.FloatOutput("Value")},
	}
}

func (s *SineWave) Name() string            { return "SineWave" }
func (s *SineWave) Inputs() []*port.Input   { return s.inputs }
func (s *SineWave) Outputs() []*port.Output { return s.outputs }
func (s *SineWave) TimeVarying() bool       { return true }

func (s *SineWave) Compute(_ context.Context, ec *evalctx.Context, in op.InputResolver) {
	freq, _ := in.Resolve(0).Coerce(value.TypeFloat).AsFloat()
	amp, _ := in.Resolve(1).Coerce(value.TypeFloat).AsFloat()
	phase, _ := in.Resolve(2).Coerce(value.TypeFloat).AsFloat()
	v := float64(amp) * math.Sin(2*math.Pi*float64(freq)*ec.Time+float64(phase))
	s.outputs[0].SetFloat(float32(v))
}

// Clock exposes the raw context time and frame. Its outputs use the
// TimeChanged and FrameChanged policies instead of declaring the whole
// operator time-varying.
type Clock struct {
	op.Base
	outputs []*port.Output
}

// NewClock builds a Clock operator.
func NewClock() *Clock {
	return &Clock{
		outputs: []*port.Output{
			port.NewOutputWithPolicy("Time", value.TypeFloat, port.PolicyTimeChanged),
			port.NewOutputWithPolicy("Frame", value.TypeInt, port.PolicyFrameChanged),
		},
	}
}

func (c *Clock) Name() string            { return "Clock" }
func (c *Clock) Inputs() []*port.Input   { return nil }
func (c *Clock) Outputs() []*port.Output { return c.outputs }

func (c *Clock) Compute(_ context.Context, ec *evalctx.Context, _ op.InputResolver) {
	c.outputs[0].SetFloat(float32(ec.Time))
	c.outputs[1].SetInt(int32(ec.Frame))
}
