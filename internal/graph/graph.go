// Package graph implements the reactive dataflow engine: the node and
// connection container, the mutation protocol with cascade invalidation,
// the pull-based evaluator, the push-based trigger subsystem, and the
// compiled runtime.
//
// A Graph owns its nodes and value cache exclusively. All operations are
// single-threaded; callers needing parallel evaluation use independent
// graphs.
package graph

import (
	"context"
	"fmt"

	"github.com/vk/flux/internal/ctxlog"
	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/ident"
	"github.com/vk/flux/internal/op"
	"github.com/vk/flux/internal/value"
)

// DefaultTriggerDepth bounds a trigger cascade unless the caller overrides
// it.
const DefaultTriggerDepth = 1024

// srcRef identifies one value source: a node and an output index.
type srcRef struct {
	node   ident.ID
	output int
}

// dstKey identifies one value sink: a node and an input index. It keys the
// value-connection index.
type dstKey struct {
	node  ident.ID
	input int
}

// Connection describes one value edge for callers inspecting the graph.
type Connection struct {
	Source       ident.ID
	SourceOutput int
	Target       ident.ID
	TargetInput  int
}

// node wraps an operator with its graph-side state.
type node struct {
	id       ident.ID
	operator op.Operator
	seq      uint64 // insertion sequence, used for deterministic tie-breaks
	bypassed bool
	posX     float64
	posY     float64
}

// cacheKey scopes cached outputs to a node under one call context, so the
// same operator evaluated inside different loop iterations or nested
// compositions keeps separate entries.
type cacheKey struct {
	node ident.ID
	call evalctx.CallContext
}

// cacheEntry holds the outputs of one compute together with the context
// position they were produced at.
type cacheEntry struct {
	outputs []value.Value
	time    float64
	frame   uint64
}

// Graph is the dataflow container and evaluator.
type Graph struct {
	nodes     map[ident.ID]*node
	insertion []ident.ID

	conns     map[dstKey][]srcRef
	trigConns map[trigKey][]trigTarget

	order      []ident.ID
	orderDirty bool

	// consumers is the reverse value-flow index used by cascade
	// invalidation; rebuilt lazily after structural changes.
	consumers map[ident.ID][]ident.ID

	cache map[cacheKey]cacheEntry

	// generation advances on every mutation that invalidates derived
	// compiled forms.
	generation uint64
	nextSeq    uint64

	triggerDepth int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:        make(map[ident.ID]*node),
		conns:        make(map[dstKey][]srcRef),
		trigConns:    make(map[trigKey][]trigTarget),
		cache:        make(map[cacheKey]cacheEntry),
		orderDirty:   true,
		triggerDepth: DefaultTriggerDepth,
	}
}

// SetTriggerDepth overrides the trigger cascade depth limit.
func (g *Graph) SetTriggerDepth(limit int) {
	if limit > 0 {
		g.triggerDepth = limit
	}
}

// Generation returns the structural generation counter. Compiled graphs
// snapshot it to detect staleness.
func (g *Graph) Generation() uint64 {
	return g.generation
}

// Add places a new node hosting the operator and returns its id.
func (g *Graph) Add(ctx context.Context, operator op.Operator) ident.ID {
	id := ident.New()
	g.nextSeq++
	g.nodes[id] = &node{id: id, operator: operator, seq: g.nextSeq}
	g.insertion = append(g.insertion, id)
	g.structuralChange()
	ctxlog.FromContext(ctx).Debug("graph: node added", "id", id, "operator", operator.Name())
	return id
}

// Get returns the operator hosted by a node.
func (g *Graph) Get(id ident.ID) (op.Operator, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return n.operator, true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// NodeIDs returns every node id in insertion order.
func (g *Graph) NodeIDs() []ident.ID {
	out := make([]ident.ID, len(g.insertion))
	copy(out, g.insertion)
	return out
}

// SetPosition stores editor-facing position metadata for a node. It has no
// effect on evaluation and does not invalidate anything.
func (g *Graph) SetPosition(id ident.ID, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.posX, n.posY = x, y
	return nil
}

// Position returns a node's position metadata.
func (g *Graph) Position(id ident.ID) (x, y float64, err error) {
	n, ok := g.nodes[id]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n.posX, n.posY, nil
}

// Remove deletes a node, every incident value and trigger connection, and
// every cache entry produced by it. Downstream consumers are invalidated.
func (g *Graph) Remove(ctx context.Context, id ident.ID) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	// Consumers lose an input; invalidate them before the index changes.
	g.invalidate(id)

	for key, srcs := range g.conns {
		if key.node == id {
			delete(g.conns, key)
			continue
		}
		kept := srcs[:0]
		for _, s := range srcs {
			if s.node != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(g.conns, key)
		} else {
			g.conns[key] = kept
		}
	}
	for key, targets := range g.trigConns {
		if key.node == id {
			delete(g.trigConns, key)
			continue
		}
		kept := targets[:0]
		for _, t := range targets {
			if t.node != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(g.trigConns, key)
		} else {
			g.trigConns[key] = kept
		}
	}

	delete(g.nodes, id)
	for i, cur := range g.insertion {
		if cur == id {
			g.insertion = append(g.insertion[:i], g.insertion[i+1:]...)
			break
		}
	}
	for key := range g.cache {
		if key.node == id {
			delete(g.cache, key)
		}
	}

	g.structuralChange()
	ctxlog.FromContext(ctx).Debug("graph: node removed", "id", id)
	return nil
}

// SetInputDefault stores a new default for an input port. The value is kept
// even while the input is connected, so the user's intent survives a
// disconnect/reconnect round trip; it only takes effect at evaluation time
// for disconnected inputs. The node's cache entries and those of its
// consumers are invalidated.
func (g *Graph) SetInputDefault(ctx context.Context, id ident.ID, input int, v value.Value) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	inputs := n.operator.Inputs()
	if input < 0 || input >= len(inputs) {
		return fmt.Errorf("%w: input %d out of range on %s (%d inputs)",
			ErrStructural, input, n.operator.Name(), len(inputs))
	}
	inputs[input].Default = v
	for _, out := range n.operator.Outputs() {
		out.MarkDirty()
	}
	g.invalidate(id)
	// Defaults feed compiled bindings, so derived forms go stale; the
	// evaluation order is unaffected.
	g.generation++
	ctxlog.FromContext(ctx).Debug("graph: input default changed",
		"id", id, "input", input, "value", v.String())
	return nil
}

// SetBypassed toggles a node's bypass flag. A bypassed node passes its
// first input through to its first output without invoking the operator.
func (g *Graph) SetBypassed(ctx context.Context, id ident.ID, bypassed bool) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if n.bypassed == bypassed {
		return nil
	}
	n.bypassed = bypassed
	g.invalidate(id)
	g.generation++
	ctxlog.FromContext(ctx).Debug("graph: bypass toggled", "id", id, "bypassed", bypassed)
	return nil
}

// Bypassed reports a node's bypass flag.
func (g *Graph) Bypassed(id ident.ID) bool {
	n, ok := g.nodes[id]
	return ok && n.bypassed
}

// ClearCache drops every cached value for every node and call context.
func (g *Graph) ClearCache() {
	g.cache = make(map[cacheKey]cacheEntry)
}

// structuralChange records a mutation that invalidates the evaluation
// order, the reverse index and any compiled form.
func (g *Graph) structuralChange() {
	g.orderDirty = true
	g.consumers = nil
	g.generation++
}

// invalidate drops the cache entries of a node and of every transitive
// value-flow consumer, across all call contexts. The cascade is mandatory:
// a consumer holding results computed from stale inputs must re-run.
func (g *Graph) invalidate(id ident.ID) {
	stale := map[ident.ID]bool{id: true}
	stack := []ident.ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, consumer := range g.consumersOf(cur) {
			if !stale[consumer] {
				stale[consumer] = true
				stack = append(stack, consumer)
			}
		}
	}
	for key := range g.cache {
		if stale[key.node] {
			delete(g.cache, key)
		}
	}
}

// consumersOf returns the direct value-flow consumers of a node, rebuilding
// the reverse index if a structural change discarded it.
func (g *Graph) consumersOf(id ident.ID) []ident.ID {
	if g.consumers == nil {
		g.consumers = make(map[ident.ID][]ident.ID)
		for key, srcs := range g.conns {
			for _, s := range srcs {
				g.consumers[s.node] = append(g.consumers[s.node], key.node)
			}
		}
	}
	return g.consumers[id]
}

// Stats summarizes the graph for diagnostics.
type Stats struct {
	Nodes        int
	Connections  int
	TriggerEdges int
	CacheEntries int
}

// Stats returns counters describing the graph.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), CacheEntries: len(g.cache)}
	for _, srcs := range g.conns {
		s.Connections += len(srcs)
	}
	for _, targets := range g.trigConns {
		s.TriggerEdges += len(targets)
	}
	return s
}

// Connections lists every value edge in the graph.
func (g *Graph) Connections() []Connection {
	var out []Connection
	for key, srcs := range g.conns {
		for _, s := range srcs {
			out = append(out, Connection{
				Source:       s.node,
				SourceOutput: s.output,
				Target:       key.node,
				TargetInput:  key.input,
			})
		}
	}
	return out
}
