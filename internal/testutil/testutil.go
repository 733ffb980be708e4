// Package testutil provides small helpers shared by the engine's tests.
package testutil

import (
	"context"

	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/op"
)

// Journal records the order in which operators computed during a pass.
type Journal struct {
	Names []string
}

// Reset clears the journal.
func (j *Journal) Reset() {
	j.Names = nil
}

// Counting wraps an operator, counting Compute invocations and optionally
// journaling them. Everything else delegates to the wrapped operator.
type Counting struct {
	op.Operator
	Computes int
	Journal  *Journal
}

// Count wraps an operator with an invocation counter.
func Count(o op.Operator) *Counting {
	return &Counting{Operator: o}
}

// CountInto wraps an operator and appends each compute to the journal.
func CountInto(o op.Operator, j *Journal) *Counting {
	return &Counting{Operator: o, Journal: j}
}

func (c *Counting) Compute(ctx context.Context, ec *evalctx.Context, in op.InputResolver) {
	c.Computes++
	if c.Journal != nil {
		c.Journal.Names = append(c.Journal.Names, c.Operator.Name())
	}
	c.Operator.Compute(ctx, ec, in)
}
