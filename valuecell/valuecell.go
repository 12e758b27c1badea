// Package valuecell provides versioned value holders.
//
// A Cell wraps a value together with a version counter. Consumers that upload
// cell contents to the GPU remember the version they last saw and re-upload
// only when it changed. Cells are not synchronized: a cell is either owned by
// the goroutine building it or handed over (e.g. through a channel) to the
// goroutine that renders it.
package valuecell

import "sync/atomic"

var nextID atomic.Int64

// Ref is the type-erased view of a Cell used by code that handles cells of
// mixed types, such as a render item splitting values by schema.
type Ref interface {
	ID() int
	Version() int
	Any() any
}

// Cell holds a value of type T and a version that increases on every update.
type Cell[T any] struct {
	id      int
	version int
	value   T
}

// New creates a cell holding v at version 0.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{id: int(nextID.Add(1)), value: v}
}

func (c *Cell[T]) ID() int      { return c.id }
func (c *Cell[T]) Version() int { return c.version }
func (c *Cell[T]) Value() T     { return c.value }
func (c *Cell[T]) Any() any     { return c.value }

// Update replaces the value and bumps the version, even if v is the same
// slice that is already stored (in-place writes must still be observed).
func (c *Cell[T]) Update(v T) *Cell[T] {
	c.value = v
	c.version++
	return c
}

// UpdateIfChanged updates c only when v differs from the current value.
// It reports whether an update happened.
func UpdateIfChanged[T comparable](c *Cell[T], v T) bool {
	if c.value == v {
		return false
	}
	c.Update(v)
	return true
}
