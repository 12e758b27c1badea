package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadOBJ reads every face of a Wavefront .obj file into one primitive.
func LoadOBJ(path string) (Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return Primitive{}, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

// ReadOBJ parses positions, normals and faces. Polygons are fan
// triangulated; objects, groups and materials are ignored. Missing normals
// are computed from the faces.
func ReadOBJ(r io.Reader) (Primitive, error) {
	var positions, normals []mgl32.Vec3
	var p Primitive
	vertexMap := make(map[[2]int]uint32) // resolved (v, vn) -> vertex index
	missingNormals := false

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v", "vn":
			v, err := parseVec3(parts[1:])
			if err != nil {
				return Primitive{}, fmt.Errorf("line %d: %w", line, err)
			}
			if parts[0] == "v" {
				positions = append(positions, v)
			} else {
				normals = append(normals, v)
			}
		case "f":
			if len(parts) < 4 {
				return Primitive{}, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, ref := range parts[1:] {
				key, err := parseFaceVertex(ref, len(positions), len(normals))
				if err != nil {
					return Primitive{}, fmt.Errorf("line %d: %w", line, err)
				}
				if idx, ok := vertexMap[key]; ok {
					face = append(face, idx)
					continue
				}
				var normal mgl32.Vec3
				if key[1] < 0 {
					missingNormals = true
				} else {
					normal = normals[key[1]]
				}
				idx := uint32(len(p.Vertices))
				p.Vertices = append(p.Vertices, positions[key[0]])
				p.Normals = append(p.Normals, normal)
				vertexMap[key] = idx
				face = append(face, idx)
			}
			for i := 2; i < len(face); i++ {
				p.Indices = append(p.Indices, face[0], face[i-1], face[i])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Primitive{}, err
	}
	if len(p.Indices) == 0 {
		return Primitive{}, fmt.Errorf("no faces found in OBJ data")
	}
	if missingNormals {
		p.Normals = vec3s(ComputeNormals(flattenVec3(p.Vertices), p.Indices))
	}
	return p, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) < 3 {
		return v, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceVertex resolves "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// position and normal indices; the normal index is -1 when absent. OBJ
// indices are 1-based and negative ones count back from the last element
// read so far.
func parseFaceVertex(ref string, positionCount, normalCount int) ([2]int, error) {
	refs := strings.Split(ref, "/")
	pi, err := objIndex(refs[0], positionCount)
	if err != nil {
		return [2]int{}, fmt.Errorf("vertex %q: %w", ref, err)
	}
	if len(refs) < 3 || refs[2] == "" {
		return [2]int{pi, -1}, nil
	}
	ni, err := objIndex(refs[2], normalCount)
	if err != nil {
		return [2]int{}, fmt.Errorf("normal %q: %w", ref, err)
	}
	return [2]int{pi, ni}, nil
}

func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += n + 1
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("index %s out of range [1, %d]", s, n)
	}
	return i - 1, nil
}

// WriteOBJ writes m as a single object with per-vertex normals.
func WriteOBJ(w io.Writer, m *Mesh, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "o %s\n", name)
	vertices, normals := m.VertexBuffer.Value(), m.NormalBuffer.Value()
	for i := 0; i < len(vertices); i += 3 {
		fmt.Fprintf(bw, "v %g %g %g\n", vertices[i], vertices[i+1], vertices[i+2])
	}
	for i := 0; i < len(normals); i += 3 {
		fmt.Fprintf(bw, "vn %g %g %g\n", normals[i], normals[i+1], normals[i+2])
	}
	indices := m.IndexBuffer.Value()
	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i]+1, indices[i+1]+1, indices[i+2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	return bw.Flush()
}

func flattenVec3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

func vec3s(a []float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(a)/3)
	for i := range out {
		out[i] = mgl32.Vec3{a[i*3], a[i*3+1], a[i*3+2]}
	}
	return out
}
