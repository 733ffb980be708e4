package graph

import (
	"fmt"

	"github.com/vk/flux/internal/ident"
)

// ensureOrder recomputes the cached topological order when a structural
// change marked it dirty. Kahn's algorithm over the value graph; ties among
// zero-in-degree nodes break by insertion order so evaluation is
// deterministic. A node left unemitted means a cycle slipped past the
// connect-time check, which is reported as ErrCycle.
func (g *Graph) ensureOrder() error {
	if !g.orderDirty {
		return nil
	}

	indegree := make(map[ident.ID]int, len(g.nodes))
	outgoing := make(map[ident.ID][]ident.ID, len(g.nodes))
	for key, srcs := range g.conns {
		for _, s := range srcs {
			if _, ok := g.nodes[s.node]; !ok {
				continue
			}
			indegree[key.node]++
			outgoing[s.node] = append(outgoing[s.node], key.node)
		}
	}

	order := make([]ident.ID, 0, len(g.nodes))
	ready := make([]ident.ID, 0, len(g.nodes))
	for _, id := range g.insertion {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	for len(ready) > 0 {
		// Pop the ready node with the smallest insertion sequence.
		best := 0
		for i := 1; i < len(ready); i++ {
			if g.nodes[ready[i]].seq < g.nodes[ready[best]].seq {
				best = i
			}
		}
		cur := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, cur)

		for _, next := range outgoing[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return fmt.Errorf("%w: %d of %d nodes unreachable by Kahn ordering",
			ErrCycle, len(g.nodes)-len(order), len(g.nodes))
	}

	g.order = order
	g.orderDirty = false
	return nil
}

// upstreamClosure returns the set of nodes the root transitively depends
// on, including the root itself. Evaluation restricts the topological walk
// to this subset.
func (g *Graph) upstreamClosure(root ident.ID) map[ident.ID]bool {
	required := map[ident.ID]bool{root: true}
	stack := []ident.ID{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := g.nodes[cur]
		if !ok {
			continue
		}
		for i := range n.operator.Inputs() {
			for _, s := range g.sourcesOf(cur, i) {
				if !required[s.node] {
					required[s.node] = true
					stack = append(stack, s.node)
				}
			}
		}
	}
	return required
}
