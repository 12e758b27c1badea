// Package structure is the narrow structural model the renderer consumes:
// atoms of a model, units placing a subset of those atoms in space through a
// symmetry operator, and symmetry groups of units sharing the same atoms.
package structure

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// SymmetryOperator places a unit in space.
type SymmetryOperator struct {
	Name   string
	Matrix mgl32.Mat4
}

func IdentityOperator() SymmetryOperator {
	return SymmetryOperator{Name: "1_555", Matrix: mgl32.Ident4()}
}

// IsIdentity reports whether the operator leaves coordinates unchanged.
func (o SymmetryOperator) IsIdentity() bool {
	return o.Matrix.ApproxEqual(mgl32.Ident4())
}

// Model holds per-atom properties. All slices have one entry per atom.
type Model struct {
	Label      string
	TypeSymbol []string
	ChainID    []string
	Positions  []mgl32.Vec3
}

// AtomCount returns the number of atoms of the model.
func (m *Model) AtomCount() int { return len(m.TypeSymbol) }

func (m *Model) validate() error {
	n := len(m.TypeSymbol)
	if len(m.ChainID) != n || len(m.Positions) != n {
		return fmt.Errorf("model %q: per-atom slices differ in length (%d symbols, %d chains, %d positions)",
			m.Label, n, len(m.ChainID), len(m.Positions))
	}
	return nil
}

// Unit is a set of atoms of a model placed by an operator. Units with the same
// InvariantID reference the same atoms and differ only by their operator.
type Unit struct {
	ID          int
	InvariantID int
	Model       *Model
	// Elements are sorted atom indices into Model.
	Elements []int
	Operator SymmetryOperator
}

// NewUnit validates the atom indices and sorts them.
func NewUnit(id, invariantID int, model *Model, elements []int, op SymmetryOperator) (*Unit, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}
	for _, e := range elements {
		if e < 0 || e >= model.AtomCount() {
			return nil, fmt.Errorf("unit %d: atom index %d out of range [0, %d)", id, e, model.AtomCount())
		}
	}
	els := append([]int(nil), elements...)
	sort.Ints(els)
	return &Unit{ID: id, InvariantID: invariantID, Model: model, Elements: els, Operator: op}, nil
}

// SymmetryGroup is an ordered set of units sharing their atoms. The order of
// Units defines the instance index.
type SymmetryGroup struct {
	Units    []*Unit
	Elements []int
}

// NewSymmetryGroup groups units that share an invariant id.
func NewSymmetryGroup(units []*Unit) (*SymmetryGroup, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("symmetry group needs at least one unit")
	}
	first := units[0]
	for _, u := range units[1:] {
		if u.InvariantID != first.InvariantID {
			return nil, fmt.Errorf("unit %d has invariant id %d, group has %d", u.ID, u.InvariantID, first.InvariantID)
		}
	}
	return &SymmetryGroup{Units: units, Elements: first.Elements}, nil
}

// UnitIndex returns the instance index of the unit with id, or -1.
func (g *SymmetryGroup) UnitIndex(id int) int {
	for i, u := range g.Units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// Structure is an ordered list of units.
type Structure struct {
	Units []*Unit

	offsets []int
}

func New(units ...*Unit) *Structure {
	s := &Structure{Units: units, offsets: make([]int, len(units)+1)}
	for i, u := range units {
		s.offsets[i+1] = s.offsets[i] + len(u.Elements)
	}
	return s
}

// ElementCount returns the number of elements over all units.
func (s *Structure) ElementCount() int { return s.offsets[len(s.Units)] }

// LocationAt returns the location of the i-th element of the structure,
// counting units in order.
func (s *Structure) LocationAt(i int) Location {
	u := sort.Search(len(s.Units), func(k int) bool { return s.offsets[k+1] > i })
	unit := s.Units[u]
	return Location{Unit: unit, Element: unit.Elements[i-s.offsets[u]]}
}

// UnitIndex returns the position of the unit with id, or -1.
func (s *Structure) UnitIndex(id int) int {
	for i, u := range s.Units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// UnitSymmetryGroups groups units by invariant id, in first-seen order.
func (s *Structure) UnitSymmetryGroups() []*SymmetryGroup {
	var order []int
	byID := make(map[int][]*Unit)
	for _, u := range s.Units {
		if _, ok := byID[u.InvariantID]; !ok {
			order = append(order, u.InvariantID)
		}
		byID[u.InvariantID] = append(byID[u.InvariantID], u)
	}
	groups := make([]*SymmetryGroup, 0, len(order))
	for _, id := range order {
		units := byID[id]
		groups = append(groups, &SymmetryGroup{Units: units, Elements: units[0].Elements})
	}
	return groups
}

// Location addresses one atom of one unit.
type Location struct {
	Unit    *Unit
	Element int
}

func (l Location) TypeSymbol() string { return l.Unit.Model.TypeSymbol[l.Element] }
func (l Location) ChainID() string    { return l.Unit.Model.ChainID[l.Element] }

// Position returns the atom position with the unit operator applied.
func (l Location) Position() mgl32.Vec3 {
	return mgl32.TransformCoordinate(l.Unit.Model.Positions[l.Element], l.Unit.Operator.Matrix)
}
