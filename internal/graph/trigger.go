package graph

import (
	"context"
	"fmt"

	"github.com/vk/flux/internal/ctxlog"
	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/ident"
)

// trigKey identifies one trigger output, keying the trigger-connection
// index by source.
type trigKey struct {
	node ident.ID
	port int
}

// trigTarget identifies one trigger input receiving a signal.
type trigTarget struct {
	node  ident.ID
	input int
}

// ConnectTrigger records an event edge from (src, srcOut) to (dst, dstIn).
// Unlike value connections, trigger edges may form cycles; the cascade
// depth limit bounds feedback loops at fire time.
func (g *Graph) ConnectTrigger(ctx context.Context, src ident.ID, srcOut int, dst ident.ID, dstIn int) error {
	srcNode, ok := g.nodes[src]
	if !ok {
		return fmt.Errorf("%w: source %s", ErrNodeNotFound, src)
	}
	dstNode, ok := g.nodes[dst]
	if !ok {
		return fmt.Errorf("%w: target %s", ErrNodeNotFound, dst)
	}
	if srcOut < 0 || srcOut >= len(srcNode.operator.TriggerOutputs()) {
		return fmt.Errorf("%w: trigger output %d out of range on %s",
			ErrStructural, srcOut, srcNode.operator.Name())
	}
	if dstIn < 0 || dstIn >= len(dstNode.operator.TriggerInputs()) {
		return fmt.Errorf("%w: trigger input %d out of range on %s",
			ErrStructural, dstIn, dstNode.operator.Name())
	}
	key := trigKey{node: src, port: srcOut}
	for _, t := range g.trigConns[key] {
		if t.node == dst && t.input == dstIn {
			return fmt.Errorf("%w: duplicate trigger edge %s.%d -> %s.%d",
				ErrStructural, src, srcOut, dst, dstIn)
		}
	}
	g.trigConns[key] = append(g.trigConns[key], trigTarget{node: dst, input: dstIn})
	ctxlog.FromContext(ctx).Debug("graph: trigger connected",
		"source", src, "source_output", srcOut, "target", dst, "target_input", dstIn)
	return nil
}

// DisconnectTrigger removes one event edge.
func (g *Graph) DisconnectTrigger(ctx context.Context, src ident.ID, srcOut int, dst ident.ID, dstIn int) error {
	if _, ok := g.nodes[src]; !ok {
		return fmt.Errorf("%w: source %s", ErrNodeNotFound, src)
	}
	key := trigKey{node: src, port: srcOut}
	targets := g.trigConns[key]
	for i, t := range targets {
		if t.node == dst && t.input == dstIn {
			kept := append(append([]trigTarget(nil), targets[:i]...), targets[i+1:]...)
			if len(kept) == 0 {
				delete(g.trigConns, key)
			} else {
				g.trigConns[key] = kept
			}
			ctxlog.FromContext(ctx).Debug("graph: trigger disconnected",
				"source", src, "source_output", srcOut, "target", dst, "target_input", dstIn)
			return nil
		}
	}
	return fmt.Errorf("%w: no trigger edge %s.%d -> %s.%d", ErrStructural, src, srcOut, dst, dstIn)
}

// FireTrigger pushes a signal out of (src, srcOut). Each connected target's
// OnTriggered runs depth-first; trigger outputs it returns fire next. The
// whole cascade sees one context snapshot and is bounded by the configured
// depth limit; exceeding it aborts the cascade with ErrTriggerOverflow.
//
// Triggers never populate the value cache. An operator that wants to affect
// downstream values sets its output ports, which marks them dirty for the
// next pull pass.
func (g *Graph) FireTrigger(ctx context.Context, src ident.ID, srcOut int, ec *evalctx.Context) error {
	srcNode, ok := g.nodes[src]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, src)
	}
	if srcOut < 0 || srcOut >= len(srcNode.operator.TriggerOutputs()) {
		return fmt.Errorf("%w: trigger output %d out of range on %s",
			ErrStructural, srcOut, srcNode.operator.Name())
	}
	depth := 0
	return g.fire(ctx, src, srcOut, ec, &depth)
}

func (g *Graph) fire(ctx context.Context, src ident.ID, srcOut int, ec *evalctx.Context, depth *int) error {
	for _, target := range g.trigConns[trigKey{node: src, port: srcOut}] {
		*depth++
		if *depth > g.triggerDepth {
			return fmt.Errorf("%w: limit %d reached at %s", ErrTriggerOverflow, g.triggerDepth, target.node)
		}
		n, ok := g.nodes[target.node]
		if !ok {
			continue
		}
		res := &cacheResolver{g: g, node: n, call: ec.Call}
		next := n.operator.OnTriggered(ctx, target.input, ec, res)
		for _, out := range next {
			if err := g.fire(ctx, target.node, out, ec, depth); err != nil {
				return err
			}
		}
	}
	return nil
}
