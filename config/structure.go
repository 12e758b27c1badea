package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/structure"
)

// AtomConfig is one atom of the model.
type AtomConfig struct {
	Symbol   string    `toml:"symbol" yaml:"symbol"`
	Chain    string    `toml:"chain" yaml:"chain"`
	Position []float32 `toml:"position" yaml:"position"`
}

// OperatorConfig places one copy of the model.
type OperatorConfig struct {
	Name        string    `toml:"name" yaml:"name"`
	Translation []float32 `toml:"translation" yaml:"translation"`
	// Axis and Degrees rotate about the model origin before translating.
	Axis    []float32 `toml:"axis" yaml:"axis"`
	Degrees float32   `toml:"degrees" yaml:"degrees"`
}

// StructureConfig describes a model and the operators of its units. Every
// operator yields one unit holding all atoms; all units form one symmetry
// group.
type StructureConfig struct {
	Label     string           `toml:"label" yaml:"label"`
	Atoms     []AtomConfig     `toml:"atoms" yaml:"atoms"`
	Operators []OperatorConfig `toml:"operators" yaml:"operators"`
}

// DefaultStructure is a benzene ring in three copies.
func DefaultStructure() StructureConfig {
	var atoms []AtomConfig
	for i := range 6 {
		a := float64(i) * math.Pi / 3
		c, s := float32(math.Cos(a)), float32(math.Sin(a))
		atoms = append(atoms,
			AtomConfig{Symbol: "C", Chain: "A", Position: []float32{1.39 * c, 1.39 * s, 0}},
			AtomConfig{Symbol: "H", Chain: "B", Position: []float32{2.47 * c, 2.47 * s, 0}},
		)
	}
	return StructureConfig{
		Label: "benzene",
		Atoms: atoms,
		Operators: []OperatorConfig{
			{Name: "1_555"},
			{Name: "2_655", Translation: []float32{6, 0, 0}, Axis: []float32{0, 1, 0}, Degrees: 90},
			{Name: "3_455", Translation: []float32{-6, 0, 0}, Axis: []float32{1, 0, 0}, Degrees: 90},
		},
	}
}

func (c StructureConfig) Validate() error {
	var errs []error
	if len(c.Atoms) == 0 {
		errs = append(errs, errors.New("no atoms"))
	}
	for i, a := range c.Atoms {
		if a.Symbol == "" {
			errs = append(errs, fmt.Errorf("atom %d: empty symbol", i))
		}
		if len(a.Position) != 3 {
			errs = append(errs, fmt.Errorf("atom %d: position has %d components", i, len(a.Position)))
		}
	}
	for i, o := range c.Operators {
		if o.Translation != nil && len(o.Translation) != 3 {
			errs = append(errs, fmt.Errorf("operator %d: translation has %d components", i, len(o.Translation)))
		}
		if o.Degrees != 0 && len(o.Axis) != 3 {
			errs = append(errs, fmt.Errorf("operator %d: rotation needs a 3 component axis", i))
		}
	}
	return errors.Join(errs...)
}

// Matrix returns the operator transform.
func (o OperatorConfig) Matrix() mgl32.Mat4 {
	m := mgl32.Ident4()
	if o.Degrees != 0 && len(o.Axis) == 3 {
		axis := mgl32.Vec3{o.Axis[0], o.Axis[1], o.Axis[2]}
		if axis.Len() > 0 {
			m = mgl32.HomogRotate3D(mgl32.DegToRad(o.Degrees), axis.Normalize())
		}
	}
	if len(o.Translation) == 3 {
		m = mgl32.Translate3D(o.Translation[0], o.Translation[1], o.Translation[2]).Mul4(m)
	}
	return m
}

// Build creates the structure and its single symmetry group.
func (c StructureConfig) Build() (*structure.Structure, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	model := &structure.Model{Label: c.Label}
	elements := make([]int, len(c.Atoms))
	for i, a := range c.Atoms {
		model.TypeSymbol = append(model.TypeSymbol, a.Symbol)
		model.ChainID = append(model.ChainID, a.Chain)
		model.Positions = append(model.Positions, mgl32.Vec3{a.Position[0], a.Position[1], a.Position[2]})
		elements[i] = i
	}
	ops := c.Operators
	if len(ops) == 0 {
		ops = []OperatorConfig{{Name: structure.IdentityOperator().Name}}
	}
	units := make([]*structure.Unit, len(ops))
	for i, o := range ops {
		u, err := structure.NewUnit(i, 0, model, elements, structure.SymmetryOperator{Name: o.Name, Matrix: o.Matrix()})
		if err != nil {
			return nil, err
		}
		units[i] = u
	}
	return structure.New(units...), nil
}
