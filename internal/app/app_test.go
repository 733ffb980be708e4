package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flux/internal/cli"
	"github.com/vk/flux/internal/hcl"
)

func TestAppRunsDemoPatch(t *testing.T) {
	var buf bytes.Buffer
	a, err := New(&buf, &cli.Options{Frames: 5, LogLevel: "error"}, hcl.NewLoader())
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	out := buf.String()
	lines := strings.Count(out, "frame ")
	assert.Equal(t, 5, lines, "one line per frame:\n%s", out)
	assert.Contains(t, out, "frames_seen=1", "the counter sees the first frame trigger")
	assert.Contains(t, out, "frames_seen=5")
}

func TestAppRegistryValidated(t *testing.T) {
	a, err := New(&bytes.Buffer{}, &cli.Options{LogLevel: "error"}, hcl.NewLoader())
	require.NoError(t, err)
	assert.Contains(t, a.Registry().Names(), "SineWave")
}

func TestAppConfigFromHCL(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/flux.hcl"
	cfg := `
playback {
  fps    = 30
  frames = 3
}

engine {
  trigger_depth = 16
}

variables {
  amplitude = 2.0
}
`
	require.NoError(t, writeFile(path, cfg))

	var buf bytes.Buffer
	a, err := New(&buf, &cli.Options{ConfigPath: path, LogLevel: "error"}, hcl.NewLoader())
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "frame "), "frame count comes from the file:\n%s", out)
}

func TestAppBadConfigPath(t *testing.T) {
	_, err := New(&bytes.Buffer{}, &cli.Options{ConfigPath: "/does/not/exist.hcl"}, hcl.NewLoader())
	assert.Error(t, err)
}
