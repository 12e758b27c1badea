package theme

import (
	"sort"
	"strings"

	"mol-render/core"
	"mol-render/structure"
)

// DefaultColor is the color of the uniform theme when none is given.
var DefaultColor = core.ColorFromHex(0x22EE11)

// ColorProps select and parameterize a color theme.
type ColorProps struct {
	Name string `toml:"name" yaml:"name"`
	// Value is the color of the uniform theme, as "#RRGGBB".
	Value string `toml:"value" yaml:"value"`
}

// ColorTheme is a resolved color theme. Value is set for uniform themes,
// Color for the others.
type ColorTheme struct {
	Name        string
	Granularity Granularity
	Value       core.Color
	Color       func(loc structure.Location) core.Color
}

type colorFactory func(ctx Context, props ColorProps) (ColorTheme, error)

var colorThemes = map[string]colorFactory{
	"uniform":        uniformColor,
	"element-symbol": elementSymbolColor,
	"chain-id":       chainIDColor,
	"element-index":  elementIndexColor,
	"unit-index":     unitIndexColor,
}

// ColorThemeNames lists the registered color themes.
func ColorThemeNames() []string { return names(colorThemes) }

// NewColorTheme resolves props against ctx.
func NewColorTheme(ctx Context, props ColorProps) (ColorTheme, error) {
	name := props.Name
	if name == "" {
		name = "uniform"
	}
	f, ok := colorThemes[name]
	if !ok {
		return ColorTheme{}, unknown("color", name, ColorThemeNames())
	}
	return f(ctx, props)
}

func uniformColor(_ Context, props ColorProps) (ColorTheme, error) {
	c := DefaultColor
	if props.Value != "" {
		var err error
		if c, err = core.ParseColor(props.Value); err != nil {
			return ColorTheme{}, err
		}
	}
	return ColorTheme{Name: "uniform", Granularity: Uniform, Value: c}, nil
}

// elementColors follow the usual CPK convention.
var elementColors = map[string]uint32{
	"H":  0xFFFFFF,
	"C":  0x909090,
	"N":  0x3050F8,
	"O":  0xFF0D0D,
	"F":  0x90E050,
	"NA": 0xAB5CF2,
	"MG": 0x8AFF00,
	"P":  0xFF8000,
	"S":  0xFFFF30,
	"CL": 0x1FF01F,
	"K":  0x8F40D4,
	"CA": 0x3DFF00,
	"FE": 0xE06633,
	"ZN": 0x7D80B0,
	"SE": 0xFFA100,
	"BR": 0xA62929,
	"I":  0x940094,
}

const defaultElementColor = 0xFF1493

// ElementSymbolColor returns the CPK color of an element symbol.
func ElementSymbolColor(symbol string) core.Color {
	if hex, ok := elementColors[strings.ToUpper(symbol)]; ok {
		return core.ColorFromHex(hex)
	}
	return core.ColorFromHex(defaultElementColor)
}

func elementSymbolColor(Context, ColorProps) (ColorTheme, error) {
	return ColorTheme{
		Name:        "element-symbol",
		Granularity: Group,
		Color: func(loc structure.Location) core.Color {
			return ElementSymbolColor(loc.TypeSymbol())
		},
	}, nil
}

// Palette is a set of distinguishable colors for categorical themes.
var Palette = []core.Color{
	core.ColorFromHex(0x1F77B4),
	core.ColorFromHex(0xFF7F0E),
	core.ColorFromHex(0x2CA02C),
	core.ColorFromHex(0xD62728),
	core.ColorFromHex(0x9467BD),
	core.ColorFromHex(0x8C564B),
	core.ColorFromHex(0xE377C2),
	core.ColorFromHex(0x7F7F7F),
	core.ColorFromHex(0xBCBD22),
	core.ColorFromHex(0x17BECF),
}

// rainbow is the scale of the index based themes.
var rainbow = []core.Color{
	core.ColorFromHex(0x3361E1),
	core.ColorFromHex(0x35A845),
	core.ColorFromHex(0xF9FF00),
	core.ColorFromHex(0xEC8711),
	core.ColorFromHex(0xBF2222),
}

func chainIDColor(ctx Context, _ ColorProps) (ColorTheme, error) {
	index := make(map[string]int)
	if ctx.Structure != nil {
		var ids []string
		seen := make(map[string]bool)
		for _, u := range ctx.Structure.Units {
			for _, e := range u.Elements {
				id := u.Model.ChainID[e]
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
		sort.Strings(ids)
		for i, id := range ids {
			index[id] = i
		}
	}
	return ColorTheme{
		Name:        "chain-id",
		Granularity: Group,
		Color: func(loc structure.Location) core.Color {
			return Palette[index[loc.ChainID()]%len(Palette)]
		},
	}, nil
}

func elementIndexColor(ctx Context, _ ColorProps) (ColorTheme, error) {
	if ctx.Structure == nil {
		return ColorTheme{Name: "element-index", Granularity: Uniform, Value: core.ColorGrey}, nil
	}
	s := ctx.Structure
	offsets := make(map[int]int, len(s.Units))
	total := 0
	for _, u := range s.Units {
		offsets[u.ID] = total
		total += len(u.Elements)
	}
	return ColorTheme{
		Name:        "element-index",
		Granularity: GroupInstance,
		Color: func(loc structure.Location) core.Color {
			i := offsets[loc.Unit.ID] + sort.SearchInts(loc.Unit.Elements, loc.Element)
			return gradient(rainbow, fraction(i, total))
		},
	}, nil
}

func unitIndexColor(ctx Context, _ ColorProps) (ColorTheme, error) {
	if ctx.Structure == nil {
		return ColorTheme{Name: "unit-index", Granularity: Uniform, Value: core.ColorGrey}, nil
	}
	s := ctx.Structure
	n := len(s.Units)
	return ColorTheme{
		Name:        "unit-index",
		Granularity: Instance,
		Color: func(loc structure.Location) core.Color {
			return gradient(rainbow, fraction(s.UnitIndex(loc.Unit.ID), n))
		},
	}, nil
}
