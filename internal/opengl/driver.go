// Package opengl implements gpu.GL on top of go-gl's OpenGL 4.1 core bindings.
// Every method must run on the thread that owns the current GL context.
package opengl

import (
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"mol-render/gpu"
)

// Driver is the OpenGL 4.1 core implementation of gpu.GL.
type Driver struct{}

var _ gpu.GL = Driver{}

// Init loads the GL function pointers. Call it once a context is current.
func Init() (Driver, error) {
	if err := gl.Init(); err != nil {
		return Driver{}, err
	}
	return Driver{}, nil
}

// Version returns the driver's GL_VERSION string.
func (Driver) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// ptr returns a pointer to the first element of a slice, or nil for an
// empty or nil value. gl.Ptr panics on empty slices.
func ptr(data any) unsafe.Pointer {
	switch d := data.(type) {
	case nil:
		return nil
	case []float32:
		if len(d) == 0 {
			return nil
		}
	case []uint32:
		if len(d) == 0 {
			return nil
		}
	case []uint8:
		if len(d) == 0 {
			return nil
		}
	}
	return gl.Ptr(data)
}

func cstr(s string) *uint8 { return gl.Str(s + "\x00") }

// ── shaders ──────────────────────────────────────────────────────────────────

func (Driver) CreateShader(shaderType uint32) uint32 { return gl.CreateShader(shaderType) }

func (Driver) ShaderSource(shader uint32, source string) {
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
}

func (Driver) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (Driver) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Driver) ShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Driver) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

// ── programs ─────────────────────────────────────────────────────────────────

func (Driver) CreateProgram() uint32              { return gl.CreateProgram() }
func (Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Driver) LinkProgram(program uint32)          { gl.LinkProgram(program) }
func (Driver) UseProgram(program uint32)           { gl.UseProgram(program) }
func (Driver) DeleteProgram(program uint32)        { gl.DeleteProgram(program) }

func (Driver) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Driver) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Driver) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, cstr(name))
}

func (Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, cstr(name))
}

func (Driver) ActiveAttribs(program uint32) []gpu.ActiveInfo {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLen)
	out := make([]gpu.ActiveInfo, 0, count)
	for i := range uint32(count) {
		name := make([]uint8, maxLen+1)
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(program, i, maxLen+1, &length, &size, &xtype, &name[0])
		out = append(out, gpu.ActiveInfo{Name: string(name[:length]), Type: xtype, Size: size})
	}
	return out
}

func (Driver) ActiveUniforms(program uint32) []gpu.ActiveInfo {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	out := make([]gpu.ActiveInfo, 0, count)
	for i := range uint32(count) {
		name := make([]uint8, maxLen+1)
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, maxLen+1, &length, &size, &xtype, &name[0])
		out = append(out, gpu.ActiveInfo{Name: string(name[:length]), Type: xtype, Size: size})
	}
	return out
}

// ── uniforms ─────────────────────────────────────────────────────────────────

func (Driver) Uniform1f(loc int32, v float32)   { gl.Uniform1f(loc, v) }
func (Driver) Uniform1i(loc int32, v int32)     { gl.Uniform1i(loc, v) }
func (Driver) Uniform2fv(loc int32, v []float32) { gl.Uniform2fv(loc, 1, &v[0]) }
func (Driver) Uniform3fv(loc int32, v []float32) { gl.Uniform3fv(loc, 1, &v[0]) }
func (Driver) Uniform4fv(loc int32, v []float32) { gl.Uniform4fv(loc, 1, &v[0]) }

func (Driver) UniformMatrix3fv(loc int32, v []float32) {
	gl.UniformMatrix3fv(loc, 1, false, &v[0])
}

func (Driver) UniformMatrix4fv(loc int32, v []float32) {
	gl.UniformMatrix4fv(loc, 1, false, &v[0])
}

// ── buffers ──────────────────────────────────────────────────────────────────

func (Driver) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (Driver) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (Driver) BufferData(target uint32, size int, data any, usage uint32) {
	gl.BufferData(target, size, ptr(data), usage)
}

func (Driver) BufferSubData(target uint32, offset, size int, data any) {
	gl.BufferSubData(target, offset, size, ptr(data))
}

func (Driver) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Driver) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (Driver) VertexAttribDivisor(index, divisor uint32) { gl.VertexAttribDivisor(index, divisor) }

func (Driver) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Driver) BindVertexArray(vao uint32)   { gl.BindVertexArray(vao) }
func (Driver) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

// ── textures ─────────────────────────────────────────────────────────────────

func (Driver) CreateTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (Driver) ActiveTexture(unit uint32)          { gl.ActiveTexture(unit) }
func (Driver) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (Driver) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (Driver) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

func (Driver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels any) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (Driver) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

// ── draw state ───────────────────────────────────────────────────────────────

func (Driver) Enable(capability uint32)  { gl.Enable(capability) }
func (Driver) Disable(capability uint32) { gl.Disable(capability) }
func (Driver) DepthMask(flag bool)       { gl.DepthMask(flag) }
func (Driver) CullFace(mode uint32)      { gl.CullFace(mode) }

func (Driver) BlendFunc(sfactor, dfactor uint32) { gl.BlendFunc(sfactor, dfactor) }

func (Driver) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset int, instanceCount int32) {
	gl.DrawElementsInstanced(mode, count, xtype, gl.PtrOffset(offset), instanceCount)
}

func (Driver) DrawArraysInstanced(mode uint32, first, count, instanceCount int32) {
	gl.DrawArraysInstanced(mode, first, count, instanceCount)
}

// Clear clears the color and depth buffers of the bound framebuffer.
func (Driver) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport sets the viewport to the given framebuffer size.
func (Driver) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
