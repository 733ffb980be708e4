package app

import (
	"context"
	"fmt"

	"github.com/vk/flux/internal/graph"
	"github.com/vk/flux/internal/ident"
	"github.com/vk/flux/internal/ops"
	"github.com/vk/flux/internal/registry"
	"github.com/vk/flux/internal/value"
)

// demoPatch is the graph the demo binary plays: a sine oscillator scaled by
// a configurable amplitude, with a trigger-driven frame counter beside it.
//
//	SineWave ──► Multiply ◄── Variable("amplitude")
//	                │
//	              (root)
//	Pulse ──trigger──► Counter
type demoPatch struct {
	graph        *graph.Graph
	root         ident.ID
	counter      ident.ID
	frameTrigger ident.ID
}

func buildDemoPatch(ctx context.Context, reg *registry.Registry) (*demoPatch, error) {
	g := graph.New()

	wave, err := reg.New("SineWave")
	if err != nil {
		return nil, err
	}
	amp, err := reg.New("Variable")
	if err != nil {
		return nil, err
	}
	mult, err := reg.New("Multiply")
	if err != nil {
		return nil, err
	}
	counter, err := reg.New("Counter")
	if err != nil {
		return nil, err
	}
	pulse, err := reg.New("Pulse")
	if err != nil {
		return nil, err
	}

	waveID := g.Add(ctx, wave)
	ampID := g.Add(ctx, amp)
	multID := g.Add(ctx, mult)
	counterID := g.Add(ctx, counter)
	pulseID := g.Add(ctx, pulse)

	if err := g.SetInputDefault(ctx, ampID, 0, value.String("amplitude")); err != nil {
		return nil, err
	}
	if err := g.SetInputDefault(ctx, ampID, 1, value.Float(1)); err != nil {
		return nil, err
	}
	if err := g.Connect(ctx, waveID, 0, multID, 0); err != nil {
		return nil, err
	}
	if err := g.Connect(ctx, ampID, 0, multID, 1); err != nil {
		return nil, err
	}
	if err := g.ConnectTrigger(ctx, pulseID, 0, counterID, ops.CounterIncrement); err != nil {
		return nil, err
	}

	if g.NodeCount() != 5 {
		return nil, fmt.Errorf("demo patch wired %d nodes, want 5", g.NodeCount())
	}

	return &demoPatch{
		graph:        g,
		root:         multID,
		counter:      counterID,
		frameTrigger: pulseID,
	}, nil
}
