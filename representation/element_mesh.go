package representation

import (
	"github.com/go-gl/mathgl/mgl32"

	"mol-render/geo/mesh"
	"mol-render/structure"
)

// CreateElementMesh stamps p at the model position of every element of
// group, tagging each copy with the element's group index. The unit
// operators are applied at draw time by the instance transforms. A unit
// primitive combined with a size theme yields spheres of the theme's radius.
func CreateElementMesh(group *structure.SymmetryGroup, p mesh.Primitive) *mesh.Mesh {
	model := group.Units[0].Model
	n := len(group.Elements)
	b := mesh.NewBuilder(n*len(p.Vertices), n*len(p.Indices))
	for i, e := range group.Elements {
		pos := model.Positions[e]
		b.SetGroup(i)
		b.AddPrimitive(p, mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()))
	}
	return b.Build()
}
