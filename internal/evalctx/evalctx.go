// Package evalctx carries the timing and variable state an evaluation pass
// runs under, plus the call-context derivation that isolates cache
// namespaces for nested evaluations.
package evalctx

import (
	"github.com/vk/flux/internal/ident"
	"github.com/vk/flux/internal/value"
)

// CallContext is the opaque 64-bit namespace under which cache entries are
// keyed. The root evaluation uses RootCall; nested evaluations derive
// children deterministically.
type CallContext uint64

// RootCall is the call context of a top-level evaluation.
const RootCall CallContext = 0

// FNV-1a constants, used as the mixing function for deriving child call
// contexts. The derivation must be pure and deterministic: the same parent
// and child always produce the same value.
const (
	fnvOffset uint64 = 0xcbf29ce484222325
	fnvPrime  uint64 = 0x00000100000001b3
)

// Child derives the call context for evaluating under the given node, for
// example one body evaluation of a loop operator.
func (c CallContext) Child(id ident.ID) CallContext {
	h := fnvOffset ^ uint64(c)
	h *= fnvPrime
	for _, b := range id.Bytes() {
		h ^= uint64(b)
		h *= fnvPrime
	}
	return CallContext(h)
}

// ChildIndex derives a call context from a plain iteration index, for loop
// drivers that have no per-iteration node identity.
func (c CallContext) ChildIndex(i uint64) CallContext {
	h := fnvOffset ^ uint64(c)
	h *= fnvPrime
	for shift := 0; shift < 64; shift += 8 {
		h ^= (i >> shift) & 0xff
		h *= fnvPrime
	}
	return CallContext(h)
}

// Context is the read-only evaluation context passed to operators.
type Context struct {
	// Time is the global time in seconds.
	Time float64
	// DeltaTime is the seconds elapsed since the previous frame.
	DeltaTime float64
	// Frame is the monotonically non-decreasing frame number.
	Frame uint64
	// Variables is the named value bag shared by the whole pass.
	Variables map[string]value.Value
	// Call is the cache namespace of this evaluation.
	Call CallContext
}

// New returns a context at time zero with an empty variable bag.
func New() *Context {
	return &Context{Variables: make(map[string]value.Value)}
}

// Advance moves the context forward by dt seconds and one frame.
func (c *Context) Advance(dt float64) {
	c.DeltaTime = dt
	c.Time += dt
	c.Frame++
}

// Var looks up a context variable.
func (c *Context) Var(name string) (value.Value, bool) {
	v, ok := c.Variables[name]
	return v, ok
}

// SetVar stores a context variable. This is a host-side operation; operators
// treat the context as read-only.
func (c *Context) SetVar(name string, v value.Value) {
	if c.Variables == nil {
		c.Variables = make(map[string]value.Value)
	}
	c.Variables[name] = v
}

// WithCallContext returns a copy of the context whose call context is the
// child derived from id. The variable bag is shared, not copied; both sides
// treat it as read-only during evaluation.
func (c *Context) WithCallContext(id ident.ID) *Context {
	out := *c
	out.Call = c.Call.Child(id)
	return &out
}

// WithCallIndex is WithCallContext for index-derived children.
func (c *Context) WithCallIndex(i uint64) *Context {
	out := *c
	out.Call = c.Call.ChildIndex(i)
	return &out
}
