// Package representation assembles render objects from a structure, a
// geometry and theme props: per-instance transforms, materialized color and
// size arrays, markers and draw counts.
package representation

import (
	"github.com/go-gl/mathgl/mgl32"

	"mol-render/geo"
	"mol-render/structure"
)

// CreateTransforms lays out the operator of every unit of group as 16
// column-major floats, unit i at offset 16*i. The existing storage is reused
// when it is large enough; either way its observers see an update.
func CreateTransforms(group *structure.SymmetryGroup, existing *geo.TransformData) *geo.TransformData {
	n := len(group.Units)
	array := transformArray(n, existing)
	for i, u := range group.Units {
		copy(array[i*16:(i+1)*16], u.Operator.Matrix[:])
	}
	return geo.NewTransformData(array, n, existing)
}

// CreateIdentityTransform is the single identity instance used for targets
// whose positions already carry their operators.
func CreateIdentityTransform(existing *geo.TransformData) *geo.TransformData {
	array := transformArray(1, existing)
	m := mgl32.Ident4()
	copy(array, m[:])
	return geo.NewTransformData(array, 1, existing)
}

func transformArray(n int, existing *geo.TransformData) []float32 {
	if existing != nil {
		if a := existing.ATransform.Value(); cap(a) >= n*16 {
			return a[:n*16]
		}
	}
	return make([]float32, n*16)
}
