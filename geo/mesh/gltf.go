package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file into one
// Primitive. Node transforms are ignored; the file is expected to hold a
// single shape to stamp per element.
func LoadGLTF(path string) (Primitive, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return Primitive{}, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return primitiveFromDocument(doc)
}

func primitiveFromDocument(doc *gltf.Document) (Primitive, error) {
	var out Primitive
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendGLTFPrimitive(doc, prim, &out); err != nil {
				return Primitive{}, fmt.Errorf("gltf mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	if len(out.Indices) == 0 {
		return Primitive{}, fmt.Errorf("gltf: no triangle primitives")
	}
	return out, nil
}

func appendGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, out *Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	base := uint32(len(out.Vertices))
	flat := make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		out.Vertices = append(out.Vertices, mgl32.Vec3(p))
		flat = append(flat, p[0], p[1], p[2])
	}
	if len(normals) != len(positions) {
		computed := ComputeNormals(flat, indices)
		normals = make([][3]float32, len(positions))
		for i := range normals {
			normals[i] = [3]float32{computed[i*3], computed[i*3+1], computed[i*3+2]}
		}
	}
	for _, n := range normals {
		out.Normals = append(out.Normals, mgl32.Vec3(n))
	}
	for _, i := range indices {
		out.Indices = append(out.Indices, base+i)
	}
	return nil
}
