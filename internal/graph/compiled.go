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

// inputBinding precomputes where one operator input reads from during
// compiled execution: slot indices for every connected source, or the
// captured default when unconnected.
type inputBinding struct {
	slots     []int
	producers []int
	def       value.Value
}

// command is one step of the linear execution list.
type command struct {
	node       *node
	inputs     []inputBinding
	outputBase int
}

// CompiledGraph is a snapshot-based executor for a (root, output) slice of
// a graph: dead nodes eliminated, topological order frozen, and every value
// read resolved to a dense slot index instead of a hash lookup. It holds
// handles into the source graph; any structural mutation makes it stale.
type CompiledGraph struct {
	g          *Graph
	generation uint64
	commands   []command
	slots      []value.Value
	target     int

	hasRun   []bool
	haveCall bool
	call     evalctx.CallContext
}

// Compile flattens the subgraph needed for (root, output) into a compiled
// form. Callers re-compile after any structural change.
func (g *Graph) Compile(ctx context.Context, root ident.ID, output int) (*CompiledGraph, error) {
	rootNode, ok := g.nodes[root]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, root)
	}
	if output < 0 || output >= len(rootNode.operator.Outputs()) {
		return nil, fmt.Errorf("%w: output %d out of range on %s",
			ErrStructural, output, rootNode.operator.Name())
	}
	if err := g.ensureOrder(); err != nil {
		return nil, err
	}

	required := g.upstreamClosure(root)

	// Dense slot assignment for every live (node, output) pair, and the
	// command index of every live node.
	base := make(map[ident.ID]int, len(required))
	cmdIndex := make(map[ident.ID]int, len(required))
	slotCount := 0
	live := make([]ident.ID, 0, len(required))
	for _, id := range g.order {
		if !required[id] {
			continue
		}
		cmdIndex[id] = len(live)
		live = append(live, id)
		base[id] = slotCount
		slotCount += len(g.nodes[id].operator.Outputs())
	}

	commands := make([]command, 0, len(live))
	slots := make([]value.Value, slotCount)
	for _, id := range live {
		n := g.nodes[id]
		inputs := n.operator.Inputs()
		bindings := make([]inputBinding, len(inputs))
		for i, in := range inputs {
			b := inputBinding{def: in.Default}
			for _, s := range g.sourcesOf(id, i) {
				b.slots = append(b.slots, base[s.node]+s.output)
				b.producers = append(b.producers, cmdIndex[s.node])
			}
			bindings[i] = b
		}
		for oi, out := range n.operator.Outputs() {
			// Pre-seed slots with the port defaults so a read from a
			// not-yet-computed producer matches the pull evaluator's
			// fallback.
			slots[base[id]+oi] = out.Type.Default()
		}
		commands = append(commands, command{node: n, inputs: bindings, outputBase: base[id]})
	}

	ctxlog.FromContext(ctx).Debug("graph: compiled",
		"root", root, "output", output, "commands", len(commands), "slots", slotCount)

	return &CompiledGraph{
		g:          g,
		generation: g.generation,
		commands:   commands,
		slots:      slots,
		target:     base[root] + output,
		hasRun:     make([]bool, len(commands)),
	}, nil
}

// CommandCount returns the number of live compute steps.
func (c *CompiledGraph) CommandCount() int {
	return len(c.commands)
}

// Contains reports whether a node survived dead-code elimination.
func (c *CompiledGraph) Contains(id ident.ID) bool {
	for _, cmd := range c.commands {
		if cmd.node.id == id {
			return true
		}
	}
	return false
}

// Execute walks the command list once under the given context and returns
// the root output. The needs-evaluation predicate matches the pull
// evaluator's, with slot provenance instead of cache lookups. Executing a
// stale compiled form (the source graph mutated) fails with
// ErrStaleCompile.
func (c *CompiledGraph) Execute(ctx context.Context, ec *evalctx.Context) (value.Value, error) {
	if c.generation != c.g.generation {
		return value.Value{}, fmt.Errorf("%w: graph generation %d, compiled at %d",
			ErrStaleCompile, c.g.generation, c.generation)
	}

	// A different call context is a different cache namespace: forget
	// slot provenance.
	if !c.haveCall || c.call != ec.Call {
		for i := range c.hasRun {
			c.hasRun[i] = false
		}
		c.haveCall = true
		c.call = ec.Call
	}

	computedNow := make([]bool, len(c.commands))
	for idx := range c.commands {
		cmd := &c.commands[idx]
		if !c.needsExec(idx, cmd, ec, computedNow) {
			continue
		}
		c.execCommand(ctx, cmd, ec)
		c.hasRun[idx] = true
		computedNow[idx] = true
	}
	return c.slots[c.target], nil
}

func (c *CompiledGraph) needsExec(idx int, cmd *command, ec *evalctx.Context, computedNow []bool) bool {
	if !c.hasRun[idx] {
		return true
	}
	if cmd.node.operator.TimeVarying() {
		return true
	}
	for _, out := range cmd.node.operator.Outputs() {
		if out.DirtyFor(ec.Time, ec.Frame) {
			return true
		}
	}
	for _, b := range cmd.inputs {
		for _, p := range b.producers {
			if computedNow[p] {
				return true
			}
		}
	}
	return false
}

func (c *CompiledGraph) execCommand(ctx context.Context, cmd *command, ec *evalctx.Context) {
	res := &slotResolver{c: c, cmd: cmd}
	ports := cmd.node.operator.Outputs()
	if cmd.node.bypassed {
		for i, p := range ports {
			if i == 0 {
				c.slots[cmd.outputBase] = res.Resolve(0)
			} else {
				c.slots[cmd.outputBase+i] = p.Type.Default()
			}
		}
	} else {
		cmd.node.operator.Compute(ctx, ec, res)
		for i, p := range ports {
			c.slots[cmd.outputBase+i] = p.Value()
		}
	}
	for _, p := range ports {
		p.CleanFor(ec.Time, ec.Frame)
	}
}

// slotResolver resolves inputs by direct slot reads.
type slotResolver struct {
	c   *CompiledGraph
	cmd *command
}

var _ op.InputResolver = (*slotResolver)(nil)

func (r *slotResolver) Resolve(i int) value.Value {
	if i < 0 || i >= len(r.cmd.inputs) {
		return value.Value{}
	}
	b := r.cmd.inputs[i]
	if len(b.slots) == 0 {
		return b.def
	}
	return r.c.slots[b.slots[0]]
}

func (r *slotResolver) ResolveAll(i int) []value.Value {
	if i < 0 || i >= len(r.cmd.inputs) {
		return nil
	}
	b := r.cmd.inputs[i]
	if len(b.slots) == 0 {
		return nil
	}
	out := make([]value.Value, len(b.slots))
	for idx, slot := range b.slots {
		out[idx] = r.c.slots[slot]
	}
	return out
}
