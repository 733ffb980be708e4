// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from a
// concrete syntax. The HCL implementation lives in internal/hcl.
package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of the application configuration.
type Model struct {
	Playback  Playback
	Engine    Engine
	Log       Log
	Variables map[string]cty.Value
}

// Playback controls the demo playback session.
type Playback struct {
	// FPS is the frame rate driving the context clock.
	FPS float64
	// Frames is the number of frames to play.
	Frames int
}

// Engine holds evaluation-engine limits.
type Engine struct {
	// TriggerDepth bounds a trigger cascade.
	TriggerDepth int
}

// Log configures the application logger.
type Log struct {
	Level  string
	Format string
}

// Default returns the model used when no configuration file is given.
func Default() *Model {
	return &Model{
		Playback:  Playback{FPS: 60, Frames: 10},
		Engine:    Engine{TriggerDepth: 1024},
		Log:       Log{Level: "info", Format: "text"},
		Variables: map[string]cty.Value{},
	}
}

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths and merges it over
	// the defaults. With no paths it returns Default().
	Load(ctx context.Context, paths ...string) (*Model, error)
}
