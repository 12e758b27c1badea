package representation

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/core"
	"mol-render/render"
	"mol-render/theme"
)

// MeshProps parameterize a mesh representation.
type MeshProps struct {
	Alpha       float32 `toml:"alpha" yaml:"alpha"`
	FlatShaded  bool    `toml:"flat_shaded" yaml:"flat_shaded"`
	DoubleSided bool    `toml:"double_sided" yaml:"double_sided"`
	Visible     bool    `toml:"visible" yaml:"visible"`

	Color theme.ColorProps `toml:"color" yaml:"color"`
	Size  theme.SizeProps  `toml:"size" yaml:"size"`

	HighlightColor string `toml:"highlight_color" yaml:"highlight_color"`
	SelectColor    string `toml:"select_color" yaml:"select_color"`
}

func DefaultMeshProps() MeshProps {
	return MeshProps{
		Alpha:          1,
		Visible:        true,
		Color:          theme.ColorProps{Name: "uniform", Value: theme.DefaultColor.String()},
		Size:           theme.SizeProps{Name: "uniform", Value: 1},
		HighlightColor: "#ff6699",
		SelectColor:    "#33dd22",
	}
}

// Validate checks ranges and color strings. Theme names are checked when the
// themes are resolved.
func (p MeshProps) Validate() error {
	var errs []error
	if p.Alpha < 0 || p.Alpha > 1 {
		errs = append(errs, fmt.Errorf("alpha %v outside [0, 1]", p.Alpha))
	}
	if _, _, err := p.markerColors(); err != nil {
		errs = append(errs, err)
	}
	if p.Size.Value < 0 || p.Size.Scale < 0 {
		errs = append(errs, errors.New("negative size value or scale"))
	}
	return errors.Join(errs...)
}

func (p MeshProps) markerColors() (highlight, selected mgl32.Vec3, err error) {
	h, err := core.ParseColor(p.HighlightColor)
	if err != nil {
		return highlight, selected, fmt.Errorf("highlight color: %w", err)
	}
	s, err := core.ParseColor(p.SelectColor)
	if err != nil {
		return highlight, selected, fmt.Errorf("select color: %w", err)
	}
	return h.Vec3(), s.Vec3(), nil
}

func (p MeshProps) state() render.State {
	s := render.DefaultState()
	s.Visible = p.Visible
	s.Opaque = p.Alpha >= 1
	return s
}
