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

// Evaluate produces the value at (root, output) under the given evaluation
// context. Exactly the subgraph upstream of root runs, in topological
// order; nodes whose cached outputs are still valid are skipped.
func (g *Graph) Evaluate(ctx context.Context, root ident.ID, output int, ec *evalctx.Context) (value.Value, error) {
	rootNode, ok := g.nodes[root]
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %s", ErrNodeNotFound, root)
	}
	outputs := rootNode.operator.Outputs()
	if output < 0 || output >= len(outputs) {
		return value.Value{}, fmt.Errorf("%w: output %d out of range on %s (%d outputs)",
			ErrStructural, output, rootNode.operator.Name(), len(outputs))
	}
	if err := g.ensureOrder(); err != nil {
		return value.Value{}, err
	}

	required := g.upstreamClosure(root)
	computed := make(map[ident.ID]bool)

	for _, id := range g.order {
		if !required[id] {
			continue
		}
		n := g.nodes[id]
		if !g.needsEval(n, ec, computed) {
			continue
		}
		g.computeNode(ctx, n, ec)
		computed[id] = true
	}

	entry, ok := g.cache[cacheKey{node: root, call: ec.Call}]
	if !ok || output >= len(entry.outputs) {
		return value.Value{}, fmt.Errorf("%w: %s produced no output %d", ErrNodeNotFound, root, output)
	}
	ctxlog.FromContext(ctx).Debug("graph: evaluated",
		"root", root, "output", output, "computed", len(computed), "frame", ec.Frame)
	return entry.outputs[output], nil
}

// needsEval decides whether a node must recompute under the context: never
// computed in this call context, declared time-varying, an output dirty
// under its policy, or any upstream source recomputed during this pass.
func (g *Graph) needsEval(n *node, ec *evalctx.Context, computed map[ident.ID]bool) bool {
	if _, ok := g.cache[cacheKey{node: n.id, call: ec.Call}]; !ok {
		return true
	}
	if n.operator.TimeVarying() {
		return true
	}
	for _, out := range n.operator.Outputs() {
		if out.DirtyFor(ec.Time, ec.Frame) {
			return true
		}
	}
	for i := range n.operator.Inputs() {
		for _, s := range g.sourcesOf(n.id, i) {
			if computed[s.node] {
				return true
			}
		}
	}
	return false
}

// computeNode runs one node (or its bypass) and stores the outputs in the
// cache under the current call context.
func (g *Graph) computeNode(ctx context.Context, n *node, ec *evalctx.Context) {
	res := &cacheResolver{g: g, node: n, call: ec.Call}

	var outs []value.Value
	ports := n.operator.Outputs()
	if n.bypassed {
		// Input 0 routes through to output 0; higher outputs keep their
		// port defaults. The operator is not invoked.
		outs = make([]value.Value, len(ports))
		for i, p := range ports {
			if i == 0 {
				outs[i] = res.Resolve(0)
			} else {
				outs[i] = p.Type.Default()
			}
		}
	} else {
		n.operator.Compute(ctx, ec, res)
		outs = make([]value.Value, len(ports))
		for i, p := range ports {
			outs[i] = p.Value()
		}
	}
	for _, p := range ports {
		p.CleanFor(ec.Time, ec.Frame)
	}

	g.cache[cacheKey{node: n.id, call: ec.Call}] = cacheEntry{
		outputs: outs,
		time:    ec.Time,
		frame:   ec.Frame,
	}
}

// cacheResolver resolves operator inputs against the value cache of the
// current call context. An unconnected input resolves to its default; a
// connected input whose source has no cache entry (it was not evaluated)
// falls back to the source port's type default.
type cacheResolver struct {
	g    *Graph
	node *node
	call evalctx.CallContext
}

var _ op.InputResolver = (*cacheResolver)(nil)

func (r *cacheResolver) Resolve(i int) value.Value {
	srcs := r.g.sourcesOf(r.node.id, i)
	if len(srcs) == 0 {
		return r.inputDefault(i)
	}
	return r.sourceValue(srcs[0])
}

func (r *cacheResolver) ResolveAll(i int) []value.Value {
	srcs := r.g.sourcesOf(r.node.id, i)
	if len(srcs) == 0 {
		return nil
	}
	out := make([]value.Value, len(srcs))
	for idx, s := range srcs {
		out[idx] = r.sourceValue(s)
	}
	return out
}

func (r *cacheResolver) inputDefault(i int) value.Value {
	inputs := r.node.operator.Inputs()
	if i < 0 || i >= len(inputs) {
		return value.Value{}
	}
	return inputs[i].Default
}

func (r *cacheResolver) sourceValue(s srcRef) value.Value {
	if entry, ok := r.g.cache[cacheKey{node: s.node, call: r.call}]; ok {
		if s.output < len(entry.outputs) {
			return entry.outputs[s.output]
		}
	}
	src, ok := r.g.nodes[s.node]
	if !ok {
		return value.Value{}
	}
	outs := src.operator.Outputs()
	if s.output < 0 || s.output >= len(outs) {
		return value.Value{}
	}
	return outs[s.output].Type.Default()
}
