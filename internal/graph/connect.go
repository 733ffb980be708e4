package graph

import (
	"context"
	"fmt"

	"github.com/vk/flux/internal/ctxlog"
	"github.com/vk/flux/internal/ident"
	"github.com/vk/flux/internal/value"
)

// Connect records a value edge from (src, srcOut) to (dst, dstIn).
//
// The type check is permissive: a source type that cannot coerce to the
// input's declared constraint is still allowed, logged as a runtime-coercion
// warning, and resolves to defaults at evaluation time. Structural problems
// reject the mutation and leave the graph unchanged: unknown nodes,
// out-of-range ports, an occupied non-multi input, a duplicate source on a
// multi input, or a cycle in the value graph.
func (g *Graph) Connect(ctx context.Context, src ident.ID, srcOut int, dst ident.ID, dstIn int) error {
	logger := ctxlog.FromContext(ctx)

	srcNode, ok := g.nodes[src]
	if !ok {
		return fmt.Errorf("%w: source %s", ErrNodeNotFound, src)
	}
	dstNode, ok := g.nodes[dst]
	if !ok {
		return fmt.Errorf("%w: target %s", ErrNodeNotFound, dst)
	}

	outputs := srcNode.operator.Outputs()
	if srcOut < 0 || srcOut >= len(outputs) {
		return fmt.Errorf("%w: output %d out of range on %s (%d outputs)",
			ErrStructural, srcOut, srcNode.operator.Name(), len(outputs))
	}
	inputs := dstNode.operator.Inputs()
	if dstIn < 0 || dstIn >= len(inputs) {
		return fmt.Errorf("%w: input %d out of range on %s (%d inputs)",
			ErrStructural, dstIn, dstNode.operator.Name(), len(inputs))
	}

	key := dstKey{node: dst, input: dstIn}
	existing := g.conns[key]
	in := inputs[dstIn]
	if !in.Multi && len(existing) > 0 {
		return fmt.Errorf("%w: input %d on %s already connected",
			ErrStructural, dstIn, dstNode.operator.Name())
	}
	for _, s := range existing {
		if s.node == src && s.output == srcOut {
			return fmt.Errorf("%w: duplicate source on multi input %d of %s",
				ErrStructural, dstIn, dstNode.operator.Name())
		}
	}

	// Reject edges that would close a cycle: if src is already reachable
	// downstream of dst, the new edge would loop. Checked before any
	// state changes so a rejection leaves order_dirty untouched.
	if src == dst || g.reachable(dst, src) {
		return fmt.Errorf("%w: connecting %s -> %s would create a cycle",
			ErrStructural, srcNode.operator.Name(), dstNode.operator.Name())
	}

	srcType := outputs[srcOut].Type
	if !value.CanCoerce(srcType, in.Type) {
		logger.Warn("graph: connection types incompatible, will coerce at runtime",
			"source", srcNode.operator.Name(), "source_type", srcType.String(),
			"target", dstNode.operator.Name(), "target_type", in.Type.String())
	}

	g.conns[key] = append(g.conns[key], srcRef{node: src, output: srcOut})
	g.invalidate(dst)
	g.structuralChange()
	logger.Debug("graph: connected",
		"source", src, "source_output", srcOut, "target", dst, "target_input", dstIn)
	return nil
}

// Disconnect removes every source feeding (dst, dstIn) and invalidates the
// target's cache (and transitively its consumers).
func (g *Graph) Disconnect(ctx context.Context, dst ident.ID, dstIn int) error {
	dstNode, ok := g.nodes[dst]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, dst)
	}
	inputs := dstNode.operator.Inputs()
	if dstIn < 0 || dstIn >= len(inputs) {
		return fmt.Errorf("%w: input %d out of range on %s (%d inputs)",
			ErrStructural, dstIn, dstNode.operator.Name(), len(inputs))
	}
	key := dstKey{node: dst, input: dstIn}
	if _, connected := g.conns[key]; !connected {
		return fmt.Errorf("%w: input %d on %s is not connected",
			ErrStructural, dstIn, dstNode.operator.Name())
	}
	// Invalidate while the reverse index still sees the edge.
	g.invalidate(dst)
	delete(g.conns, key)
	g.structuralChange()
	ctxlog.FromContext(ctx).Debug("graph: disconnected", "target", dst, "target_input", dstIn)
	return nil
}

// DisconnectSource removes one specific edge of a multi input, keeping the
// other sources in order.
func (g *Graph) DisconnectSource(ctx context.Context, src ident.ID, srcOut int, dst ident.ID, dstIn int) error {
	dstNode, ok := g.nodes[dst]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, dst)
	}
	inputs := dstNode.operator.Inputs()
	if dstIn < 0 || dstIn >= len(inputs) {
		return fmt.Errorf("%w: input %d out of range on %s (%d inputs)",
			ErrStructural, dstIn, dstNode.operator.Name(), len(inputs))
	}
	key := dstKey{node: dst, input: dstIn}
	srcs := g.conns[key]
	for i, s := range srcs {
		if s.node == src && s.output == srcOut {
			g.invalidate(dst)
			kept := append(append([]srcRef(nil), srcs[:i]...), srcs[i+1:]...)
			if len(kept) == 0 {
				delete(g.conns, key)
			} else {
				g.conns[key] = kept
			}
			g.structuralChange()
			ctxlog.FromContext(ctx).Debug("graph: source disconnected",
				"source", src, "target", dst, "target_input", dstIn)
			return nil
		}
	}
	return fmt.Errorf("%w: no edge %s.%d -> %s.%d", ErrStructural, src, srcOut, dst, dstIn)
}

// reachable reports whether target can be reached from start by walking
// value edges in flow direction. Visited nodes terminate early.
func (g *Graph) reachable(start, target ident.ID) bool {
	if start == target {
		return true
	}
	seen := map[ident.ID]bool{start: true}
	stack := []ident.ID{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.consumersOf(cur) {
			if next == target {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// sourcesOf returns the ordered sources feeding one input.
func (g *Graph) sourcesOf(id ident.ID, input int) []srcRef {
	return g.conns[dstKey{node: id, input: input}]
}
