package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"mol-render/geo"
	"mol-render/valuecell"
)

// MeshValues are the values of a mesh render object. Every field is a cell
// so a render item can tell which of them changed since the last upload.
type MeshValues struct {
	APosition *valuecell.Cell[[]float32]
	ANormal   *valuecell.Cell[[]float32]
	AGroup    *valuecell.Cell[[]float32]
	Elements  *valuecell.Cell[[]uint32]

	geo.TransformData
	geo.ColorData
	geo.SizeData
	geo.MarkerData

	DrawCount   *valuecell.Cell[int]
	UGroupCount *valuecell.Cell[int]

	UAlpha          *valuecell.Cell[float32]
	UHighlightColor *valuecell.Cell[mgl32.Vec3]
	USelectColor    *valuecell.Cell[mgl32.Vec3]
	DFlatShaded     *valuecell.Cell[bool]
	DDoubleSided    *valuecell.Cell[bool]
}

// Values returns the cells keyed by their MeshSchema name.
func (v *MeshValues) Values() map[string]valuecell.Ref {
	return map[string]valuecell.Ref{
		"aPosition": v.APosition,
		"aNormal":   v.ANormal,
		"aGroup":    v.AGroup,
		"elements":  v.Elements,

		"aTransform":    v.ATransform,
		"aInstance":     v.AInstance,
		"instanceCount": v.InstanceCount,

		"uColor":       v.UColor,
		"tColor":       v.TColor,
		"uColorTexDim": v.UColorTexDim,
		"dColorType":   v.DColorType,

		"uSize":       v.USize,
		"tSize":       v.TSize,
		"uSizeTexDim": v.USizeTexDim,
		"dSizeType":   v.DSizeType,

		"tMarker":       v.TMarker,
		"uMarkerTexDim": v.UMarkerTexDim,

		"drawCount":   v.DrawCount,
		"uGroupCount": v.UGroupCount,

		"uAlpha":          v.UAlpha,
		"uHighlightColor": v.UHighlightColor,
		"uSelectColor":    v.USelectColor,
		"dFlatShaded":     v.DFlatShaded,
		"dDoubleSided":    v.DDoubleSided,
	}
}
