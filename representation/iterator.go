package representation

import (
	"mol-render/geo"
	"mol-render/structure"
)

// ElementIterator walks the elements of group (groups) for each of its units
// (instances).
func ElementIterator(group *structure.SymmetryGroup) *geo.LocationIterator {
	return geo.NewLocationIterator(len(group.Elements), len(group.Units), func(groupIndex, instanceIndex int) structure.Location {
		return structure.Location{Unit: group.Units[instanceIndex], Element: group.Elements[groupIndex]}
	})
}

// StructureElementIterator walks every element of s as one instance.
func StructureElementIterator(s *structure.Structure) *geo.LocationIterator {
	return geo.NewLocationIterator(s.ElementCount(), 1, func(groupIndex, _ int) structure.Location {
		return s.LocationAt(groupIndex)
	})
}
