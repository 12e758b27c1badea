package gpu

// OpenGL enum values used by this package. They carry the numeric values of
// the OpenGL headers so a driver can pass them through unchanged.
const (
	// data types
	Byte           uint32 = 0x1400
	UnsignedByte   uint32 = 0x1401
	Int            uint32 = 0x1404
	UnsignedInt    uint32 = 0x1405
	Float          uint32 = 0x1406
	FloatVec2      uint32 = 0x8B50
	FloatVec3      uint32 = 0x8B51
	FloatVec4      uint32 = 0x8B52
	IntVec2        uint32 = 0x8B53
	IntVec3        uint32 = 0x8B54
	IntVec4        uint32 = 0x8B55
	Bool           uint32 = 0x8B56
	FloatMat2      uint32 = 0x8B5A
	FloatMat3      uint32 = 0x8B5B
	FloatMat4      uint32 = 0x8B5C
	Sampler2D      uint32 = 0x8B5E
	Sampler3D      uint32 = 0x8B5F
	VertexShader   uint32 = 0x8B31
	FragmentShader uint32 = 0x8B30

	// buffers
	ArrayBuffer        uint32 = 0x8892
	ElementArrayBuffer uint32 = 0x8893
	StaticDraw         uint32 = 0x88E4
	DynamicDraw        uint32 = 0x88E8

	// textures
	Texture2D        uint32 = 0x0DE1
	Texture0         uint32 = 0x84C0
	TextureMagFilter uint32 = 0x2800
	TextureMinFilter uint32 = 0x2801
	TextureWrapS     uint32 = 0x2802
	TextureWrapT     uint32 = 0x2803
	ClampToEdge      int32  = 0x812F
	Nearest          int32  = 0x2600
	Linear           int32  = 0x2601
	UnpackAlignment  uint32 = 0x0CF5
	Red              uint32 = 0x1903
	RGB              uint32 = 0x1907
	RGBA             uint32 = 0x1908
	R8               int32  = 0x8229
	R32F             int32  = 0x822E
	RGB8             int32  = 0x8051
	RGBA8            int32  = 0x8058
	RGB32F           int32  = 0x8815
	RGBA32F          int32  = 0x8814

	// draw state
	Points           uint32 = 0x0000
	Lines            uint32 = 0x0001
	Triangles        uint32 = 0x0004
	DepthTest        uint32 = 0x0B71
	Blend            uint32 = 0x0BE2
	CullFaceMode     uint32 = 0x0B44
	Front            uint32 = 0x0404
	Back             uint32 = 0x0405
	SrcAlpha         uint32 = 0x0302
	OneMinusSrcAlpha uint32 = 0x0303
)

// TypeName returns the GLSL spelling of a GL data type enum, for diagnostics.
func TypeName(t uint32) string {
	switch t {
	case Float:
		return "float"
	case FloatVec2:
		return "vec2"
	case FloatVec3:
		return "vec3"
	case FloatVec4:
		return "vec4"
	case Int:
		return "int"
	case IntVec2:
		return "ivec2"
	case IntVec3:
		return "ivec3"
	case IntVec4:
		return "ivec4"
	case Bool:
		return "bool"
	case FloatMat2:
		return "mat2"
	case FloatMat3:
		return "mat3"
	case FloatMat4:
		return "mat4"
	case Sampler2D:
		return "sampler2D"
	case Sampler3D:
		return "sampler3D"
	}
	return "unknown"
}
