// Package port defines the input, output and trigger port descriptors that
// operators expose, together with the dirty-flag machinery driving lazy
// re-evaluation.
package port

import (
	"math"
	"sync/atomic"
)

// invalidationGen is the package-global invalidation generation. Advancing
// it makes every Animated flag dirty on its next check.
var invalidationGen atomic.Uint64

// AdvanceInvalidation bumps the global invalidation generation.
func AdvanceInvalidation() {
	invalidationGen.Add(1)
}

// CurrentInvalidation returns the global invalidation generation.
func CurrentInvalidation() uint64 {
	return invalidationGen.Load()
}

// ResetInvalidation zeroes the generation. Intended for tests.
func ResetInvalidation() {
	invalidationGen.Store(0)
}

// Policy selects the condition under which an output becomes dirty.
type Policy uint8

const (
	// PolicyNone leaves the flag under manual control only.
	PolicyNone Policy = iota
	// PolicyAlways reports dirty on every check.
	PolicyAlways
	// PolicyAnimated reports dirty when a version counter advanced.
	PolicyAnimated
	// PolicyTimeChanged reports dirty when the context time moved.
	PolicyTimeChanged
	// PolicyFrameChanged reports dirty when the context frame moved.
	PolicyFrameChanged
)

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "None"
	case PolicyAlways:
		return "Always"
	case PolicyAnimated:
		return "Animated"
	case PolicyTimeChanged:
		return "TimeChanged"
	case PolicyFrameChanged:
		return "FrameChanged"
	}
	return "Unknown"
}

// Flag tracks whether a value needs recomputation. It carries a target and a
// reference version; the flag is dirty while the reference trails the
// target, plus whatever its policy adds on top.
type Flag struct {
	target        uint64
	reference     uint64
	invalidatedAt uint64
	lastTime      float64
	lastFrame     uint64
	policy        Policy
}

// NewFlag returns a flag with the given policy. A fresh flag is dirty.
func NewFlag(policy Policy) Flag {
	return Flag{
		target:    1,
		lastTime:  math.Inf(-1),
		lastFrame: math.MaxUint64,
		policy:    policy,
	}
}

// Policy returns the flag's trigger policy.
func (f *Flag) Policy() Policy {
	return f.policy
}

// SetPolicy replaces the trigger policy.
func (f *Flag) SetPolicy(p Policy) {
	f.policy = p
}

// Dirty reports the manual dirty state, ignoring the policy.
func (f *Flag) Dirty() bool {
	return f.reference < f.target
}

// DirtyFor reports whether the flag is dirty under the given context time
// and frame, applying the policy.
func (f *Flag) DirtyFor(time float64, frame uint64) bool {
	switch f.policy {
	case PolicyAlways:
		return true
	case PolicyAnimated:
		return f.reference < f.target || f.invalidatedAt < CurrentInvalidation()
	case PolicyTimeChanged:
		return f.reference < f.target || math.Abs(f.lastTime-time) > 1e-10
	case PolicyFrameChanged:
		return f.reference < f.target || f.lastFrame != frame
	}
	return f.reference < f.target
}

// MarkDirty advances the target version, forcing recomputation.
func (f *Flag) MarkDirty() {
	f.target++
}

// MarkClean marks the flag up to date without touching time tracking.
func (f *Flag) MarkClean() {
	f.reference = f.target
	f.invalidatedAt = CurrentInvalidation()
}

// CleanFor marks the flag up to date for the given context time and frame.
func (f *Flag) CleanFor(time float64, frame uint64) {
	f.reference = f.target
	f.invalidatedAt = CurrentInvalidation()
	f.lastTime = time
	f.lastFrame = frame
}
