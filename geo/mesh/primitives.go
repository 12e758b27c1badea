package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is an indexed shape with per-vertex normals.
type Primitive struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	Indices  []uint32
}

// TriangleCount returns the number of triangles of p.
func (p Primitive) TriangleCount() int { return len(p.Indices) / 3 }

// Sphere generates a unit UV sphere.
func Sphere(segments, rings int) Primitive {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var p Primitive
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi := float32(math.Sin(phi))
		cosPhi := float32(math.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * math.Pi / float64(segments)
			sinTheta := float32(math.Sin(theta))
			cosTheta := float32(math.Cos(theta))

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			p.Vertices = append(p.Vertices, normal)
			p.Normals = append(p.Normals, normal)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			p.Indices = append(p.Indices, current, next, current+1)
			p.Indices = append(p.Indices, current+1, next, next+1)
		}
	}
	return p
}

// Octahedron is the cheapest closed sphere approximation.
func Octahedron() Primitive {
	v := []mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	idx := []uint32{
		0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
		2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
	}
	return flatten(v, idx)
}

// Box is a unit cube centered at the origin.
func Box() Primitive {
	const h = 0.5
	c := []mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	idx := []uint32{
		4, 5, 6, 4, 6, 7, // front
		1, 0, 3, 1, 3, 2, // back
		0, 4, 7, 0, 7, 3, // left
		5, 1, 2, 5, 2, 6, // right
		7, 6, 2, 7, 2, 3, // top
		0, 1, 5, 0, 5, 4, // bottom
	}
	return flatten(c, idx)
}

// flatten duplicates vertices per face so every face gets its own normal.
func flatten(v []mgl32.Vec3, idx []uint32) Primitive {
	var p Primitive
	for t := 0; t+2 < len(idx); t += 3 {
		a, b, c := v[idx[t]], v[idx[t+1]], v[idx[t+2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		base := uint32(len(p.Vertices))
		p.Vertices = append(p.Vertices, a, b, c)
		p.Normals = append(p.Normals, n, n, n)
		p.Indices = append(p.Indices, base, base+1, base+2)
	}
	return p
}
