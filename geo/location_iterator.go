// Package geo holds the per-geometry value bags shared by every geometry
// kind (color, size, marker and transform data) and the location iterator
// that fixes their element order.
package geo

import "mol-render/structure"

// LocationValue is the position of an iterator.
type LocationValue struct {
	Location      structure.Location
	Index         int
	GroupIndex    int
	InstanceIndex int
}

// LocationIterator walks (instance, group) pairs instance by instance. The
// value at position index has index = instance*groupCount + group, the order
// every per-group-per-instance array follows.
type LocationIterator struct {
	groupCount    int
	instanceCount int
	getLocation   func(groupIndex, instanceIndex int) structure.Location

	value             LocationValue
	hasNext           bool
	isNextNewInstance bool
	groupIndex        int
	instanceIndex     int
}

// NewLocationIterator creates an iterator over groupCount groups of
// instanceCount instances. getLocation resolves a pair to a structure
// location and may be nil when only indices are needed.
func NewLocationIterator(groupCount, instanceCount int, getLocation func(groupIndex, instanceIndex int) structure.Location) *LocationIterator {
	it := &LocationIterator{
		groupCount:    groupCount,
		instanceCount: instanceCount,
		getLocation:   getLocation,
	}
	it.Reset()
	return it
}

func (it *LocationIterator) GroupCount() int    { return it.groupCount }
func (it *LocationIterator) InstanceCount() int { return it.instanceCount }
func (it *LocationIterator) Count() int         { return it.groupCount * it.instanceCount }
func (it *LocationIterator) HasNext() bool      { return it.hasNext }

// IsNextNewInstance reports whether the previous Move finished an instance.
func (it *LocationIterator) IsNextNewInstance() bool { return it.isNextNewInstance }

// Move advances the iterator and returns the value it moved past. The
// returned value is overwritten by the next call.
func (it *LocationIterator) Move() LocationValue {
	if !it.hasNext {
		return it.value
	}
	it.value.GroupIndex = it.groupIndex
	it.value.InstanceIndex = it.instanceIndex
	it.value.Index = it.instanceIndex*it.groupCount + it.groupIndex
	if it.getLocation != nil {
		it.value.Location = it.getLocation(it.groupIndex, it.instanceIndex)
	}
	it.isNextNewInstance = false
	it.groupIndex++
	if it.groupIndex == it.groupCount {
		it.instanceIndex++
		it.isNextNewInstance = true
		if it.instanceIndex < it.instanceCount {
			it.groupIndex = 0
		}
	}
	it.hasNext = it.groupIndex < it.groupCount && it.instanceIndex < it.instanceCount
	return it.value
}

// SkipInstance jumps to the first group of the next instance, provided the
// last Move stayed in the current instance.
func (it *LocationIterator) SkipInstance() {
	if it.hasNext && it.value.InstanceIndex == it.instanceIndex {
		it.instanceIndex++
		it.groupIndex = 0
		it.hasNext = it.instanceIndex < it.instanceCount
	}
}

// Reset rewinds the iterator to the first pair.
func (it *LocationIterator) Reset() {
	it.value = LocationValue{}
	it.groupIndex = 0
	it.instanceIndex = 0
	it.hasNext = it.groupCount > 0 && it.instanceCount > 0
	it.isNextNewInstance = false
}
