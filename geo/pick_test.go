package geo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mol-render/structure"
)

func TestRayIntersectSphere(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{0, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}

	d, hit := r.IntersectSphere(mgl32.Vec3{}, 1)
	require.True(t, hit)
	assert.InDelta(t, 9, d, 1e-5)

	_, hit = r.IntersectSphere(mgl32.Vec3{3, 0, 0}, 1)
	assert.False(t, hit)

	_, hit = r.IntersectSphere(mgl32.Vec3{0, 0, -20}, 1)
	assert.False(t, hit, "behind the origin")

	d, hit = Ray{Direction: mgl32.Vec3{0, 0, 1}}.IntersectSphere(mgl32.Vec3{}, 2)
	require.True(t, hit, "origin inside")
	assert.InDelta(t, 2, d, 1e-5)
}

func TestPickReturnsNearestLocation(t *testing.T) {
	model := &structure.Model{
		TypeSymbol: []string{"C", "O"},
		ChainID:    []string{"A", "A"},
		Positions:  []mgl32.Vec3{{0, 0, 0}, {5, 0, 0}},
	}
	var units []*structure.Unit
	for i := range 2 {
		u, err := structure.NewUnit(i, 0, model, []int{0, 1},
			structure.SymmetryOperator{Matrix: mgl32.Translate3D(0, float32(i)*10, float32(i))})
		require.NoError(t, err)
		units = append(units, u)
	}
	it := NewLocationIterator(2, 2, func(g, i int) structure.Location {
		return structure.Location{Unit: units[i], Element: g}
	})
	radius := func(structure.Location) float32 { return 1 }

	r := Ray{Origin: mgl32.Vec3{5, 10, -20}, Direction: mgl32.Vec3{0, 0, 1}}
	v, d, ok := Pick(it, r, radius)
	require.True(t, ok)
	assert.Equal(t, 3, v.Index)
	assert.Equal(t, 1, v.GroupIndex)
	assert.Equal(t, 1, v.InstanceIndex)
	assert.InDelta(t, 20, d, 1e-4)

	// both groups of instance 0 lie on the x axis: the nearer one wins
	r = Ray{Origin: mgl32.Vec3{-10, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	v, d, ok = Pick(it, r, radius)
	require.True(t, ok)
	assert.Equal(t, 0, v.Index)
	assert.InDelta(t, 9, d, 1e-4)

	_, _, ok = Pick(it, Ray{Origin: mgl32.Vec3{0, 100, 0}, Direction: mgl32.Vec3{1, 0, 0}}, radius)
	assert.False(t, ok)
}

func TestScreenToRay(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)

	r, err := ScreenToRay(50, 50, 100, 100, view, proj)
	require.NoError(t, err)
	assert.InDelta(t, -1, r.Direction.Z(), 1e-3)
	assert.InDelta(t, 9.9, r.Origin.Z(), 1e-2)

	// upper half of the window looks up
	r, err = ScreenToRay(50, 10, 100, 100, view, proj)
	require.NoError(t, err)
	assert.Greater(t, r.Direction.Y(), float32(0))
}
