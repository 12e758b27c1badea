package theme

import (
	"fmt"
	"strings"

	"mol-render/structure"
)

// DefaultVdwRadius is used for elements without a tabulated radius.
const DefaultVdwRadius float32 = 2.0

// vdwRadii in Ångström.
var vdwRadii = map[string]float32{
	"H":  1.1,
	"C":  1.7,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"NA": 2.27,
	"MG": 1.73,
	"P":  1.8,
	"S":  1.8,
	"CL": 1.75,
	"K":  2.75,
	"CA": 2.31,
	"FE": 2.0,
	"ZN": 1.39,
	"SE": 1.9,
	"BR": 1.85,
	"I":  1.98,
}

// VdwRadius returns the van der Waals radius of an element symbol.
func VdwRadius(symbol string) float32 {
	if r, ok := vdwRadii[strings.ToUpper(symbol)]; ok {
		return r
	}
	return DefaultVdwRadius
}

// SizeProps select and parameterize a size theme.
type SizeProps struct {
	Name string `toml:"name" yaml:"name"`
	// Value is the size of the uniform theme and the base size of
	// unit-index.
	Value float32 `toml:"value" yaml:"value"`
	// Scale multiplies physical radii and is the per-unit increment of
	// unit-index.
	Scale float32 `toml:"scale" yaml:"scale"`
}

// SizeTheme is a resolved size theme. Value is set for uniform themes, Size
// for the others.
type SizeTheme struct {
	Name        string
	Granularity Granularity
	Value       float32
	Size        func(loc structure.Location) float32
}

type sizeFactory func(ctx Context, props SizeProps) (SizeTheme, error)

var sizeThemes = map[string]sizeFactory{
	"uniform":    uniformSize,
	"physical":   physicalSize,
	"unit-index": unitIndexSize,
}

func SizeThemeNames() []string { return names(sizeThemes) }

func NewSizeTheme(ctx Context, props SizeProps) (SizeTheme, error) {
	name := props.Name
	if name == "" {
		name = "uniform"
	}
	f, ok := sizeThemes[name]
	if !ok {
		return SizeTheme{}, unknown("size", name, SizeThemeNames())
	}
	if props.Value < 0 || props.Scale < 0 {
		return SizeTheme{}, fmt.Errorf("size theme %q: negative value or scale", name)
	}
	return f(ctx, props)
}

func uniformSize(_ Context, props SizeProps) (SizeTheme, error) {
	v := props.Value
	if v == 0 {
		v = 1
	}
	return SizeTheme{Name: "uniform", Granularity: Uniform, Value: v}, nil
}

func physicalSize(_ Context, props SizeProps) (SizeTheme, error) {
	scale := props.Scale
	if scale == 0 {
		scale = 1
	}
	return SizeTheme{
		Name:        "physical",
		Granularity: Group,
		Size: func(loc structure.Location) float32 {
			return VdwRadius(loc.TypeSymbol()) * scale
		},
	}, nil
}

func unitIndexSize(ctx Context, props SizeProps) (SizeTheme, error) {
	base := props.Value
	if base == 0 {
		base = 1
	}
	if ctx.Structure == nil {
		return SizeTheme{Name: "unit-index", Granularity: Uniform, Value: base}, nil
	}
	s := ctx.Structure
	step := props.Scale
	return SizeTheme{
		Name:        "unit-index",
		Granularity: Instance,
		Size: func(loc structure.Location) float32 {
			return base + step*float32(s.UnitIndex(loc.Unit.ID))
		},
	}, nil
}
