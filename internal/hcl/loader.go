// Package hcl implements the config.Loader interface on top of HCL files.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/flux/internal/config"
	"github.com/vk/flux/internal/ctxlog"
)

// fileSchema mirrors the top-level blocks of a flux configuration file.
type fileSchema struct {
	Playback  *playbackBlock  `hcl:"playback,block"`
	Engine    *engineBlock    `hcl:"engine,block"`
	Log       *logBlock       `hcl:"log,block"`
	Variables *variablesBlock `hcl:"variables,block"`
}

type playbackBlock struct {
	FPS    *float64 `hcl:"fps,optional"`
	Frames *int     `hcl:"frames,optional"`
}

type engineBlock struct {
	TriggerDepth *int `hcl:"trigger_depth,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// variablesBlock keeps its body raw: every attribute becomes one context
// variable.
type variablesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Loader reads flux configuration files.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates an HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

var _ config.Loader = (*Loader)(nil)

// Load parses each path in turn and merges the results over the defaults;
// later files win.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.Default()

	for _, path := range paths {
		file, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", path, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", path, diags)
		}

		applyFile(model, &schema)
		if schema.Variables != nil {
			attrs, diags := schema.Variables.Body.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("reading variables in %s: %w", path, diags)
			}
			for name, attr := range attrs {
				val, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					return nil, fmt.Errorf("evaluating variable %q in %s: %w", name, path, diags)
				}
				model.Variables[name] = val
			}
		}
		logger.Debug("hcl: configuration file loaded", "path", path)
	}

	return model, nil
}

func applyFile(model *config.Model, schema *fileSchema) {
	if b := schema.Playback; b != nil {
		if b.FPS != nil {
			model.Playback.FPS = *b.FPS
		}
		if b.Frames != nil {
			model.Playback.Frames = *b.Frames
		}
	}
	if b := schema.Engine; b != nil {
		if b.TriggerDepth != nil {
			model.Engine.TriggerDepth = *b.TriggerDepth
		}
	}
	if b := schema.Log; b != nil {
		if b.Level != nil {
			model.Log.Level = *b.Level
		}
		if b.Format != nil {
			model.Log.Format = *b.Format
		}
	}
}
