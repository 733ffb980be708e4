package ops

import (
	"context"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/port"
	"github.com/vk/flux/internal/value"
)

// Counter is the canonical trigger-driven operator: an Increment signal
// advances its count, Reset zeroes it, and each handled signal fires the
// Changed trigger output. The count is operator-local state; the engine
// never rewinds it.
type Counter struct {
	op.Base
	count       int32
	inputs      []*port.Input
	outputs     []*port.Output
	triggerIns  []port.TriggerInput
	triggerOuts []port.TriggerOutput
}

// Trigger port indices on Counter.
const (
	CounterIncrement = 0
	CounterReset     = 1
	CounterChanged   = 0
)

// NewCounter builds a Counter starting at zero.
func NewCounter() *Counter {
	return &Counter{
		inputs: []*port.Input{port.IntInput("Step", 1)},
		outputs: []*port.Output{
			port.IntOutput("Count"),
		},
		triggerIns: []port.TriggerInput{
			{Name: "Increment"},
			{Name: "Reset"},
		},
		triggerOuts: []port.TriggerOutput{
			{Name: "Changed"},
		},
	}
}

func (c *Counter) Name() string                         { return "Counter" }
func (c *Counter) Inputs() []*port.Input                { return c.inputs }
func (c *Counter) Outputs() []*port.Output              { return c.outputs }
func (c *Counter) TriggerInputs() []port.TriggerInput   { return c.triggerIns }
func (c *Counter) TriggerOutputs() []port.TriggerOutput { return c.triggerOuts }

func (c *Counter) Compute(_ context.Context, _ *evalctx.Context, _ op.InputResolver) {
	c.outputs[0].Set(value.Int(c.count))
}

func (c *Counter) OnTriggered(_ context.Context, trigger int, _ *evalctx.Context, in op.InputResolver) []int {
	switch trigger {
	case CounterIncrement:
		step, _ := in.Resolve(0).Coerce(value.TypeInt).AsInt()
		c.count += step
	case CounterReset:
		c.count = 0
	default:
		return nil
	}
	c.outputs[0].Set(value.Int(c.count))
	return []int{CounterChanged}
}

// Count returns the current count, for hosts and tests.
func (c *Counter) Count() int32 {
	return c.count
}

// Pulse relays trigger signals: every Fire input signal re-emits on its Out
// trigger output. Wired to itself it demonstrates the cascade depth bound.
type Pulse struct {
	op.Base
	fired       int
	triggerIns  []port.TriggerInput
	triggerOuts []port.TriggerOutput
}

// NewPulse builds a Pulse relay.
func NewPulse() *Pulse {
	return &Pulse{
		triggerIns:  []port.TriggerInput{{Name: "Fire"}},
		triggerOuts: []port.TriggerOutput{{Name: "Out"}},
	}
}

func (p *Pulse) Name() string                         { return "Pulse" }
func (p *Pulse) Inputs() []*port.Input                { return nil }
func (p *Pulse) Outputs() []*port.Output              { return nil }
func (p *Pulse) TriggerInputs() []port.TriggerInput   { return p.triggerIns }
func (p *Pulse) TriggerOutputs() []port.TriggerOutput { return p.triggerOuts }

func (p *Pulse) Compute(_ context.Context, _ *evalctx.Context, _ op.InputResolver) {}

func (p *Pulse) OnTriggered(_ context.Context, trigger int, _ *evalctx.Context, _ op.InputResolver) []int {
	if trigger != 0 {
		return nil
	}
	p.fired++
	return []int{0}
}

// Fired returns how many signals the relay handled.
func (p *Pulse) Fired() int {
	return p.fired
}
