package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half line in world space. Direction is normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// ScreenToRay converts a cursor position in window pixels (origin top left)
// to a world space ray through the near and far planes.
func ScreenToRay(x, y float32, width, height int, view, projection mgl32.Mat4) (Ray, error) {
	win := mgl32.Vec3{x, float32(height) - y, 0}
	near, err := mgl32.UnProject(win, view, projection, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	win[2] = 1
	far, err := mgl32.UnProject(win, view, projection, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}, nil
}

// IntersectSphere returns the distance along r to the first intersection
// with a sphere, or false when r misses it or the sphere is behind r.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	return t, t >= 0
}

// Pick returns the location of it whose sphere of the given radius r hits
// first. The location value's Index addresses the marker of that location.
func Pick(it *LocationIterator, r Ray, radius SizeFunc) (LocationValue, float32, bool) {
	var best LocationValue
	bestT := float32(math.MaxFloat32)
	found := false
	it.Reset()
	for it.HasNext() {
		v := it.Move()
		t, hit := r.IntersectSphere(v.Location.Position(), radius(v.Location))
		if hit && t < bestT {
			best, bestT, found = v, t, true
		}
	}
	return best, bestT, found
}
