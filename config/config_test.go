package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mol-render/config"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "molview.toml", `
geometry = "octahedron"
log_level = "debug"

[window]
width = 640
title = "test"

[representation]
alpha = 0.5

[representation.color]
name = "chain-id"

[representation.size]
name = "physical"
scale = 0.5

[builder]
workers = 3
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "octahedron", cfg.Geometry)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "default kept")
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, float32(0.5), cfg.Representation.Alpha)
	assert.Equal(t, "chain-id", cfg.Representation.Color.Name)
	assert.Equal(t, float32(0.5), cfg.Representation.Size.Scale)
	assert.Equal(t, 3, cfg.Builder.Workers)
	assert.Equal(t, 256, cfg.Builder.QueueSize)
	assert.NotEmpty(t, cfg.Structure.Atoms)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "molview.yaml", `
geometry: box
structure:
  label: water
  atoms:
    - {symbol: O, chain: A, position: [0, 0, 0]}
    - {symbol: H, chain: A, position: [0.96, 0, 0]}
    - {symbol: H, chain: A, position: [-0.24, 0.93, 0]}
  operators:
    - {name: "1_555"}
    - {name: "2_555", translation: [5, 0, 0]}
representation:
  flat_shaded: true
  color:
    name: uniform
    value: "#ff0000"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "box", cfg.Geometry)
	assert.True(t, cfg.Representation.FlatShaded)
	assert.Equal(t, "#ff0000", cfg.Representation.Color.Value)

	s, err := cfg.Structure.Build()
	require.NoError(t, err)
	assert.Len(t, s.Units, 2)
	assert.Equal(t, 6, s.ElementCount())
	pos := s.LocationAt(4).Position()
	assert.InDelta(t, 5.96, pos.X(), 1e-5)
	assert.Equal(t, "H", s.LocationAt(4).TypeSymbol())
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(write(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Window, cfg.Window)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"unknown extension", "molview.json", "{}"},
		{"unknown toml key", "a.toml", "colour = 1\n"},
		{"unknown yaml key", "a.yaml", "colour: 1\n"},
		{"invalid alpha", "a.toml", "[representation]\nalpha = 3\n"},
		{"invalid log level", "a.toml", "log_level = \"loud\"\n"},
		{"bad position", "a.yaml", "structure:\n  atoms:\n    - {symbol: C, position: [1, 2]}\n"},
		{"bad idle timeout", "a.toml", "[builder]\nidle_timeout = \"soon\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(write(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestOperatorMatrix(t *testing.T) {
	op := config.OperatorConfig{Translation: []float32{1, 0, 0}, Axis: []float32{0, 0, 1}, Degrees: 90}
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, op.Matrix())
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Y(), 1e-5)

	assert.Equal(t, mgl32.Ident4(), config.OperatorConfig{}.Matrix())
}

func TestLogger(t *testing.T) {
	assert.Nil(t, config.Default().Logger(&bytes.Buffer{}))

	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogLevel = "warn"
	logger := cfg.Logger(&buf)
	require.NotNil(t, logger)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
