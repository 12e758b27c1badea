package mesh

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	v := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	m, err := New(v, nil, []float32{0, 0, 0}, []uint32{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount)
	assert.Equal(t, 1, m.TriangleCount)
	assert.InDeltaSlice(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.NormalBuffer.Value(), 1e-6)

	_, err = New(v[:8], nil, []float32{0, 0, 0}, []uint32{0, 1, 2})
	assert.Error(t, err)
	_, err = New(v, nil, []float32{0}, []uint32{0, 1, 2})
	assert.Error(t, err)
	_, err = New(v, nil, []float32{0, 0, 0}, []uint32{0, 1, 3})
	assert.Error(t, err)
	_, err = New(v, nil, []float32{0, 0, 0}, []uint32{0, 1})
	assert.Error(t, err)
}

func TestData(t *testing.T) {
	m, err := New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, []float32{0, 0, 0}, []uint32{0, 1, 2})
	require.NoError(t, err)
	d := m.Data()
	assert.Len(t, d, 4)
	assert.Equal(t, m.IndexBuffer.ID(), d["elements"].ID())
}

func TestPrimitives(t *testing.T) {
	assert.Equal(t, 12, Box().TriangleCount())
	assert.Equal(t, 8, Octahedron().TriangleCount())
	s := Sphere(8, 4)
	assert.Equal(t, 64, s.TriangleCount())
	assert.Len(t, s.Normals, len(s.Vertices))

	// flat faces point outwards
	for i, n := range Octahedron().Normals {
		assert.Greater(t, n.Dot(Octahedron().Vertices[i]), float32(0))
	}
}

func TestBuilderStampsGroups(t *testing.T) {
	b := NewBuilder(0, 0)
	for g := range 3 {
		b.SetGroup(g)
		b.AddPrimitive(Octahedron(), mgl32.Translate3D(float32(g)*5, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2)))
	}
	b.SetGroup(7)
	b.AddTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})

	m := b.Build()
	assert.Equal(t, 3*8+1, m.TriangleCount)
	assert.Equal(t, 3*24+3, m.VertexCount)
	groups := m.GroupBuffer.Value()
	assert.Equal(t, float32(0), groups[0])
	assert.Equal(t, float32(2), groups[48])
	assert.Equal(t, float32(7), groups[len(groups)-1])

	// second octahedron is translated and scaled
	v := m.VertexBuffer.Value()
	assert.InDelta(t, 7, v[24*3], 1e-5)

	for i := 0; i < len(m.NormalBuffer.Value()); i += 3 {
		n := mgl32.Vec3{m.NormalBuffer.Value()[i], m.NormalBuffer.Value()[i+1], m.NormalBuffer.Value()[i+2]}
		assert.InDelta(t, 1, n.Len(), 1e-5)
	}
}

func TestLoadGLTFErrors(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)

	_, err = primitiveFromDocument(&gltf.Document{})
	assert.ErrorContains(t, err, "no triangle primitives")
}
