package port

import "github.com/vk/flux/internal/value"

// Output is a value-producing port. It holds the most recently computed
// value and a dirty flag with a trigger policy.
type Output struct {
	Name string
	Type value.Type

	val  value.Value
	flag Flag
}

// NewOutput builds an output of the given type with the default Animated
// policy. Its initial value is the type default and the flag starts dirty.
func NewOutput(name string, t value.Type) *Output {
	return &Output{Name: name, Type: t, val: t.Default(), flag: NewFlag(PolicyAnimated)}
}

// NewOutputWithPolicy builds an output with an explicit trigger policy.
func NewOutputWithPolicy(name string, t value.Type, p Policy) *Output {
	return &Output{Name: name, Type: t, val: t.Default(), flag: NewFlag(p)}
}

// FloatOutput is shorthand for a Float output.
func FloatOutput(name string) *Output {
	return NewOutput(name, value.TypeFloat)
}

// IntOutput is shorthand for an Int output.
func IntOutput(name string) *Output {
	return NewOutput(name, value.TypeInt)
}

// Value returns the current value. Reading never changes the dirty flag.
func (o *Output) Value() value.Value {
	return o.val
}

// Set stores a value and marks the port dirty: a write outside a compute
// pass (for example during a trigger cascade) must force the next pull pass
// to refresh consumers. The evaluator cleans the flag after compute.
func (o *Output) Set(v value.Value) {
	o.val = v
	o.flag.MarkDirty()
}

// SetFloat is shorthand for Set(value.Float(f)).
func (o *Output) SetFloat(f float32) {
	o.Set(value.Float(f))
}

// SetInt is shorthand for Set(value.Int(i)).
func (o *Output) SetInt(i int32) {
	o.Set(value.Int(i))
}

// Dirty reports the manual dirty state.
func (o *Output) Dirty() bool {
	return o.flag.Dirty()
}

// DirtyFor applies the trigger policy against a context time and frame.
func (o *Output) DirtyFor(time float64, frame uint64) bool {
	return o.flag.DirtyFor(time, frame)
}

// MarkDirty forces recomputation on the next pass.
func (o *Output) MarkDirty() {
	o.flag.MarkDirty()
}

// CleanFor marks the port computed for the given time and frame. Called by
// the evaluator after a successful compute.
func (o *Output) CleanFor(time float64, frame uint64) {
	o.flag.CleanFor(time, frame)
}

// Policy returns the output's dirty policy.
func (o *Output) Policy() Policy {
	return o.flag.Policy()
}

// SetPolicy replaces the output's dirty policy.
func (o *Output) SetPolicy(p Policy) {
	o.flag.SetPolicy(p)
}
