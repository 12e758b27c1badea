// Package render turns render objects into draws: the mesh schema and
// shader code, the value bag of a mesh render object and the render item
// that owns the GPU side of one object.
package render

import (
	_ "embed"

	"mol-render/gpu"
)

var (
	//go:embed shader/mesh.vert
	meshVert string
	//go:embed shader/mesh.frag
	meshFrag string
)

// MeshShaderCode is the shader pair of mesh render objects.
var MeshShaderCode = gpu.NewShaderCode(meshVert, meshFrag)

var granularities = []string{"uniform", "instance", "group", "groupInstance"}

// GlobalUniformSchema are the uniforms the renderer sets once per program
// and frame.
var GlobalUniformSchema = gpu.Schema{
	"uModel":          gpu.Uniform(gpu.KindMat4),
	"uView":           gpu.Uniform(gpu.KindMat4),
	"uProjection":     gpu.Uniform(gpu.KindMat4),
	"uLightDirection": gpu.Uniform(gpu.KindVec3),
	"uLightColor":     gpu.Uniform(gpu.KindVec3),
	"uAmbientColor":   gpu.Uniform(gpu.KindVec3),
}

// BaseSchema is shared by every render object type.
var BaseSchema = gpu.Schema{
	"aInstance":  gpu.Attribute(gpu.KindFloat32, 1, 1),
	"aTransform": gpu.Attribute(gpu.KindFloat32, 16, 1),
	"aGroup":     gpu.Attribute(gpu.KindFloat32, 1, 0),

	"uAlpha":          gpu.Uniform(gpu.KindFloat),
	"uGroupCount":     gpu.Uniform(gpu.KindInt),
	"uHighlightColor": gpu.Uniform(gpu.KindVec3),
	"uSelectColor":    gpu.Uniform(gpu.KindVec3),

	"uColor":       gpu.Uniform(gpu.KindVec3),
	"uColorTexDim": gpu.Uniform(gpu.KindVec2),
	"tColor":       gpu.TextureSpec(gpu.KindImageUint8, gpu.FormatRGB, gpu.FilterNearest),
	"dColorType":   gpu.Define(gpu.KindString, granularities...),

	"uSize":       gpu.Uniform(gpu.KindFloat),
	"uSizeTexDim": gpu.Uniform(gpu.KindVec2),
	"tSize":       gpu.TextureSpec(gpu.KindImageFloat32, gpu.FormatAlpha, gpu.FilterNearest),
	"dSizeType":   gpu.Define(gpu.KindString, granularities...),

	"uMarkerTexDim": gpu.Uniform(gpu.KindVec2),
	"tMarker":       gpu.TextureSpec(gpu.KindImageUint8, gpu.FormatAlpha, gpu.FilterNearest),

	"drawCount":     gpu.Value(gpu.KindNumber),
	"instanceCount": gpu.Value(gpu.KindNumber),
}

// MeshSchema is the schema of mesh render objects.
var MeshSchema = BaseSchema.Merge(gpu.Schema{
	"aPosition": gpu.Attribute(gpu.KindFloat32, 3, 0),
	"aNormal":   gpu.Attribute(gpu.KindFloat32, 3, 0),
	"elements":  gpu.Elements(gpu.KindUint32),

	"dFlatShaded":  gpu.Define(gpu.KindBoolean),
	"dDoubleSided": gpu.Define(gpu.KindBoolean),
})
