// Package config loads the molview configuration from TOML or YAML files.
// Values missing from a file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mol-render/core"
	"mol-render/gpu"
	"mol-render/representation"
	"mol-render/theme"
)

type Config struct {
	Window         core.WindowConfig            `toml:"window" yaml:"window"`
	Representation representation.MeshProps     `toml:"representation" yaml:"representation"`
	Builder        representation.BuilderConfig `toml:"builder" yaml:"builder"`
	Structure      StructureConfig              `toml:"structure" yaml:"structure"`

	// Geometry is "sphere", "octahedron", "box" or the path of an OBJ, glTF or GLB
	// file whose first mesh is stamped at every atom.
	Geometry string `toml:"geometry" yaml:"geometry"`
	// GLSLVersion is the version directive prepended to every shader.
	GLSLVersion string `toml:"glsl_version" yaml:"glsl_version"`
	// LogLevel is one of debug, info, warn, error. Empty disables logging.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

func Default() Config {
	props := representation.DefaultMeshProps()
	props.Color = theme.ColorProps{Name: "element-symbol"}
	props.Size = theme.SizeProps{Name: "physical", Scale: 0.3}
	return Config{
		Window:         core.DefaultWindowConfig(),
		Representation: props,
		Builder:        representation.DefaultBuilderConfig(),
		Structure:      DefaultStructure(),
		Geometry:       "sphere",
		GLSLVersion:    gpu.DefaultGLSLVersion,
	}
}

// Load reads path over the defaults. The format is chosen by extension:
// .toml, .yaml or .yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if err := c.Representation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("representation: %w", err))
	}
	if err := c.Builder.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("builder: %w", err))
	}
	if err := c.Structure.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("structure: %w", err))
	}
	if c.Geometry == "" {
		errs = append(errs, errors.New("geometry is empty"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. An empty level parses as info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return l, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Logger returns a text logger at LogLevel on w, or nil when logging is
// disabled.
func (c Config) Logger(w io.Writer) *slog.Logger {
	if c.LogLevel == "" {
		return nil
	}
	level, err := c.Level()
	if err != nil {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
