// Package mesh is the triangle mesh geometry: flat vertex, normal, group and
// index buffers held in value cells, a builder stamping primitives per group,
// and loaders for primitives.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/valuecell"
)

// Mesh is an indexed triangle mesh. Every vertex carries the group (element
// index) it belongs to.
type Mesh struct {
	VertexCount   int
	TriangleCount int

	VertexBuffer *valuecell.Cell[[]float32]
	NormalBuffer *valuecell.Cell[[]float32]
	GroupBuffer  *valuecell.Cell[[]float32]
	IndexBuffer  *valuecell.Cell[[]uint32]
}

// New wraps buffers into a mesh. normals may be nil, in which case they are
// computed from the faces.
func New(vertices, normals, groups []float32, indices []uint32) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("vertex buffer length %d is not a multiple of 3", len(vertices))
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index buffer length %d is not a multiple of 3", len(indices))
	}
	n := len(vertices) / 3
	if normals == nil {
		normals = ComputeNormals(vertices, indices)
	}
	if len(normals) != len(vertices) {
		return nil, fmt.Errorf("normal buffer length %d, want %d", len(normals), len(vertices))
	}
	if len(groups) != n {
		return nil, fmt.Errorf("group buffer length %d, want %d", len(groups), n)
	}
	for _, i := range indices {
		if int(i) >= n {
			return nil, fmt.Errorf("index %d out of range for %d vertices", i, n)
		}
	}
	return &Mesh{
		VertexCount:   n,
		TriangleCount: len(indices) / 3,
		VertexBuffer:  valuecell.New(vertices),
		NormalBuffer:  valuecell.New(normals),
		GroupBuffer:   valuecell.New(groups),
		IndexBuffer:   valuecell.New(indices),
	}, nil
}

// Data returns the mesh buffers under their attribute names.
func (m *Mesh) Data() map[string]valuecell.Ref {
	return map[string]valuecell.Ref{
		"aPosition": m.VertexBuffer,
		"aNormal":   m.NormalBuffer,
		"aGroup":    m.GroupBuffer,
		"elements":  m.IndexBuffer,
	}
}

// ComputeNormals returns area weighted, normalized vertex normals.
func ComputeNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices))
	at := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{vertices[i*3], vertices[i*3+1], vertices[i*3+2]}
	}
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		v0 := at(a)
		// unnormalized: larger faces weigh more
		n := at(b).Sub(v0).Cross(at(c).Sub(v0))
		for _, i := range []uint32{a, b, c} {
			normals[i*3] += n[0]
			normals[i*3+1] += n[1]
			normals[i*3+2] += n[2]
		}
	}
	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() < 1e-12 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}

// Builder accumulates triangles, tagging vertices with the current group.
type Builder struct {
	vertices []float32
	normals  []float32
	groups   []float32
	indices  []uint32
	group    float32
}

func NewBuilder(vertexHint, indexHint int) *Builder {
	return &Builder{
		vertices: make([]float32, 0, vertexHint*3),
		normals:  make([]float32, 0, vertexHint*3),
		groups:   make([]float32, 0, vertexHint),
		indices:  make([]uint32, 0, indexHint),
	}
}

// SetGroup sets the group of the vertices added next.
func (b *Builder) SetGroup(g int) { b.group = float32(g) }

func (b *Builder) addVertex(p, n mgl32.Vec3) uint32 {
	i := uint32(len(b.groups))
	b.vertices = append(b.vertices, p[0], p[1], p[2])
	b.normals = append(b.normals, n[0], n[1], n[2])
	b.groups = append(b.groups, b.group)
	return i
}

// AddTriangle adds a flat shaded triangle.
func (b *Builder) AddTriangle(a, c, d mgl32.Vec3) {
	n := c.Sub(a).Cross(d.Sub(a))
	if n.Len() > 0 {
		n = n.Normalize()
	}
	b.indices = append(b.indices, b.addVertex(a, n), b.addVertex(c, n), b.addVertex(d, n))
}

// AddPrimitive adds p transformed by t.
func (b *Builder) AddPrimitive(p Primitive, t mgl32.Mat4) {
	normalMat := t.Mat3().Inv().Transpose()
	base := uint32(len(b.groups))
	for i, v := range p.Vertices {
		n := normalMat.Mul3x1(p.Normals[i])
		if n.Len() > 0 {
			n = n.Normalize()
		}
		b.addVertex(mgl32.TransformCoordinate(v, t), n)
	}
	for _, i := range p.Indices {
		b.indices = append(b.indices, base+i)
	}
}

// Build returns the mesh and resets nothing; the builder must not be reused.
func (b *Builder) Build() *Mesh {
	return &Mesh{
		VertexCount:   len(b.groups),
		TriangleCount: len(b.indices) / 3,
		VertexBuffer:  valuecell.New(b.vertices),
		NormalBuffer:  valuecell.New(b.normals),
		GroupBuffer:   valuecell.New(b.groups),
		IndexBuffer:   valuecell.New(b.indices),
	}
}
