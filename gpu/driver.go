package gpu

// ActiveInfo describes an active attribute or uniform reported by a linked
// program. Type is a GL data type enum (Float, FloatVec3, Sampler2D, ...).
type ActiveInfo struct {
	Name string
	Type uint32
	Size int32
}

// GL is the driver capability every GPU-facing call goes through. Its shape
// follows OpenGL 4.1 core; enum arguments use the constants in glconst.go.
// Object handles are uint32 with 0 meaning "no object"; locations are int32
// with -1 meaning "not found".
//
// A GL value is bound to one OS thread; every method must be called from the
// goroutine that owns the context.
type GL interface {
	CreateShader(shaderType uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	ActiveAttribs(program uint32) []ActiveInfo
	ActiveUniforms(program uint32) []ActiveInfo

	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)
	Uniform2fv(location int32, v []float32)
	Uniform3fv(location int32, v []float32)
	Uniform4fv(location int32, v []float32)
	UniformMatrix3fv(location int32, v []float32)
	UniformMatrix4fv(location int32, v []float32)

	CreateBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data any, usage uint32)
	BufferSubData(target uint32, offset, size int, data any)
	DeleteBuffer(buffer uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	VertexAttribDivisor(index, divisor uint32)
	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	CreateTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	PixelStorei(pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels any)
	DeleteTexture(texture uint32)

	Enable(capability uint32)
	Disable(capability uint32)
	DepthMask(flag bool)
	CullFace(mode uint32)
	BlendFunc(sfactor, dfactor uint32)
	DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset int, instanceCount int32)
	DrawArraysInstanced(mode uint32, first, count, instanceCount int32)
}
