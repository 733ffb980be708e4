// Package app wires configuration, logging and the operator registry into a
// runnable playback session over a demo patch.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flux/internal/cli"
	"github.com/vk/flux/internal/config"
	"github.com/vk/flux/internal/ctxlog"
	"github.com/vk/flux/internal/ctyconv"
	"github.com/vk/flux/internal/evalctx"
	"github.com/vk/flux/internal/ops"
	"github.com/vk/flux/internal/registry"
)

// App encapsulates the application's dependencies, configuration and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
	frames   int
}

// New constructs a fully initialized App: configuration loaded and merged
// with CLI overrides, logger built, operator modules registered and
// validated.
func New(outW io.Writer, opts *cli.Options, loader config.Loader, modules ...registry.Module) (*App, error) {
	// Load first with a quiet default logger; the configured one depends
	// on the result.
	var paths []string
	if opts.ConfigPath != "" {
		paths = append(paths, opts.ConfigPath)
	}
	model, err := loader.Load(context.Background(), paths...)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if opts.LogLevel != "" {
		model.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		model.Log.Format = opts.LogFormat
	}
	frames := model.Playback.Frames
	if opts.Frames > 0 {
		frames = opts.Frames
	}

	logger := newLogger(model.Log.Level, model.Log.Format, outW)
	logger.Debug("logger configured")

	reg := registry.New()
	if len(modules) == 0 {
		modules = []registry.Module{ops.Module{}}
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	if err := reg.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating registry: %w", err)
	}
	logger.Debug("operator modules registered", "operators", len(reg.Names()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		frames:   frames,
	}, nil
}

// Registry returns the application's registry. Primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run plays the demo patch: every frame advances the clock, fires the frame
// trigger, pulls the root value, and cross-checks it against the compiled
// runtime.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	patch, err := buildDemoPatch(ctx, a.registry)
	if err != nil {
		return fmt.Errorf("building demo patch: %w", err)
	}
	patch.graph.SetTriggerDepth(a.model.Engine.TriggerDepth)

	ec := evalctx.New()
	for name, cv := range a.model.Variables {
		v, err := ctyconv.ToValue(cv)
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		ec.SetVar(name, v)
	}

	compiled, err := patch.graph.Compile(ctx, patch.root, 0)
	if err != nil {
		return fmt.Errorf("compiling demo patch: %w", err)
	}

	fps := a.model.Playback.FPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1.0 / fps

	for frame := 0; frame < a.frames; frame++ {
		if err := patch.graph.FireTrigger(ctx, patch.frameTrigger, 0, ec); err != nil {
			return fmt.Errorf("frame trigger: %w", err)
		}

		pulled, err := patch.graph.Evaluate(ctx, patch.root, 0, ec)
		if err != nil {
			return fmt.Errorf("evaluating frame %d: %w", frame, err)
		}
		executed, err := compiled.Execute(ctx, ec)
		if err != nil {
			return fmt.Errorf("compiled execution at frame %d: %w", frame, err)
		}
		if !pulled.Equal(executed) {
			return fmt.Errorf("frame %d: pull evaluator %s disagrees with compiled runtime %s",
				frame, pulled, executed)
		}

		count, err := patch.graph.Evaluate(ctx, patch.counter, 0, ec)
		if err != nil {
			return fmt.Errorf("reading frame counter: %w", err)
		}
		fmt.Fprintf(a.outW, "frame %3d  t=%6.3f  value=%s  frames_seen=%s\n",
			frame, ec.Time, pulled, count)

		ec.Advance(dt)
	}

	stats := patch.graph.Stats()
	a.logger.Info("playback finished",
		"frames", a.frames, "nodes", stats.Nodes, "connections", stats.Connections)
	return nil
}
