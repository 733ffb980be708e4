package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flux.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutPaths(t *testing.T) {
	model, err := NewLoader().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60.0, model.Playback.FPS)
	assert.Equal(t, 1024, model.Engine.TriggerDepth)
	assert.Equal(t, "info", model.Log.Level)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
playback {
  fps    = 30
  frames = 120
}

engine {
  trigger_depth = 256
}

log {
  level  = "debug"
  format = "json"
}

variables {
  amplitude = 2.5
  label     = "demo"
  steps     = [1, 2, 3]
}
`)
	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 30.0, model.Playback.FPS)
	assert.Equal(t, 120, model.Playback.Frames)
	assert.Equal(t, 256, model.Engine.TriggerDepth)
	assert.Equal(t, "debug", model.Log.Level)
	assert.Equal(t, "json", model.Log.Format)

	amp, ok := model.Variables["amplitude"]
	require.True(t, ok)
	f, _ := amp.AsBigFloat().Float64()
	assert.InDelta(t, 2.5, f, 1e-9)

	label, ok := model.Variables["label"]
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("demo"), label)

	_, ok = model.Variables["steps"]
	assert.True(t, ok)
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
playback {
  frames = 7
}
`)
	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, model.Playback.Frames)
	assert.Equal(t, 60.0, model.Playback.FPS, "unset attributes keep defaults")
}

func TestLoadLaterFilesWin(t *testing.T) {
	first := writeConfig(t, `
playback {
  frames = 10
}
`)
	second := writeConfig(t, `
playback {
  frames = 99
}
`)
	model, err := NewLoader().Load(context.Background(), first, second)
	require.NoError(t, err)
	assert.Equal(t, 99, model.Playback.Frames)
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, `playback {`)
	_, err := NewLoader().Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "/no/such/file.hcl")
	assert.Error(t, err)
}
