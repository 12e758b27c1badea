package geo

import (
	"github.com/go-gl/mathgl/mgl32"

	"mol-render/gpu"
	"mol-render/valuecell"
)

// Marker values: bit 0 is "highlighted", bit 1 is "selected".
const (
	MarkerNone        uint8 = 0
	MarkerHighlighted uint8 = 1
	MarkerSelected    uint8 = 2
)

type MarkerAction int

const (
	MarkerHighlight MarkerAction = iota
	MarkerRemoveHighlight
	MarkerSelect
	MarkerDeselect
	MarkerToggle
	MarkerClear
)

// MarkerData holds one marker per (instance, group) pair.
type MarkerData struct {
	TMarker       *valuecell.Cell[*gpu.TextureImage[uint8]]
	UMarkerTexDim *valuecell.Cell[mgl32.Vec2]
}

// CreateMarkers returns count unmarked entries, reusing existing when it
// already holds count entries.
func CreateMarkers(count int, existing *MarkerData) *MarkerData {
	if existing != nil && existing.TMarker.Value().Count(1) == count {
		img := existing.TMarker.Value()
		clear(img.Array)
		existing.TMarker.Update(img)
		return existing
	}
	img := gpu.NewTextureImage[uint8](count, 1)
	dim := mgl32.Vec2{float32(img.Width), float32(img.Height)}
	if existing != nil {
		existing.TMarker.Update(img)
		valuecell.UpdateIfChanged(existing.UMarkerTexDim, dim)
		return existing
	}
	return &MarkerData{
		TMarker:       valuecell.New(img),
		UMarkerTexDim: valuecell.New(dim),
	}
}

// ApplyMarkerAction applies action to the entries in [start, end) and
// reports whether any entry changed.
func ApplyMarkerAction(array []uint8, start, end int, action MarkerAction) bool {
	changed := false
	for i := start; i < end; i++ {
		v := array[i]
		switch action {
		case MarkerHighlight:
			v |= MarkerHighlighted
		case MarkerRemoveHighlight:
			v &^= MarkerHighlighted
		case MarkerSelect:
			v |= MarkerSelected
		case MarkerDeselect:
			v &^= MarkerSelected
		case MarkerToggle:
			v ^= MarkerSelected
		case MarkerClear:
			v = MarkerNone
		}
		if v != array[i] {
			array[i] = v
			changed = true
		}
	}
	return changed
}

// Apply runs action over [start, end) and bumps the marker version when
// anything changed.
func (d *MarkerData) Apply(start, end int, action MarkerAction) bool {
	img := d.TMarker.Value()
	if !ApplyMarkerAction(img.Array, start, end, action) {
		return false
	}
	d.TMarker.Update(img)
	return true
}
