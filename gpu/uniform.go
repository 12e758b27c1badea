package gpu

import "github.com/go-gl/mathgl/mgl32"

// UniformSetter pushes v to a uniform location. It reports false when v does
// not have the shape the setter expects; nothing is sent in that case.
type UniformSetter func(gl GL, loc int32, v any) bool

var uniformSetters = map[Kind]UniformSetter{
	KindFloat: setFloat,
	KindInt:   setInt,
	KindBool:  setBool,
	KindVec2:  setVecN(2),
	KindVec3:  setVecN(3),
	KindVec4:  setVecN(4),
	KindMat3:  setMat3,
	KindMat4:  setMat4,
}

// UniformSetterFor returns the setter for a uniform kind.
func UniformSetterFor(kind Kind) (UniformSetter, bool) {
	s, ok := uniformSetters[kind]
	return s, ok
}

// UniformGLType returns the GL data type a uniform of kind is declared with
// in GLSL.
func UniformGLType(kind Kind) (uint32, bool) {
	switch kind {
	case KindFloat:
		return Float, true
	case KindInt:
		return Int, true
	case KindBool:
		return Bool, true
	case KindVec2:
		return FloatVec2, true
	case KindVec3:
		return FloatVec3, true
	case KindVec4:
		return FloatVec4, true
	case KindMat3:
		return FloatMat3, true
	case KindMat4:
		return FloatMat4, true
	}
	return 0, false
}

func setFloat(gl GL, loc int32, v any) bool {
	switch x := v.(type) {
	case float32:
		gl.Uniform1f(loc, x)
	case float64:
		gl.Uniform1f(loc, float32(x))
	case int:
		gl.Uniform1f(loc, float32(x))
	default:
		return false
	}
	return true
}

func setInt(gl GL, loc int32, v any) bool {
	switch x := v.(type) {
	case int:
		gl.Uniform1i(loc, int32(x))
	case int32:
		gl.Uniform1i(loc, x)
	case uint32:
		gl.Uniform1i(loc, int32(x))
	case float32:
		gl.Uniform1i(loc, int32(x))
	default:
		return false
	}
	return true
}

func setBool(gl GL, loc int32, v any) bool {
	b, ok := v.(bool)
	if !ok {
		return false
	}
	var i int32
	if b {
		i = 1
	}
	gl.Uniform1i(loc, i)
	return true
}

func setVecN(n int) UniformSetter {
	return func(gl GL, loc int32, v any) bool {
		var s []float32
		switch x := v.(type) {
		case mgl32.Vec2:
			s = x[:]
		case mgl32.Vec3:
			s = x[:]
		case mgl32.Vec4:
			s = x[:]
		case []float32:
			s = x
		default:
			return false
		}
		if len(s) != n {
			return false
		}
		switch n {
		case 2:
			gl.Uniform2fv(loc, s)
		case 3:
			gl.Uniform3fv(loc, s)
		default:
			gl.Uniform4fv(loc, s)
		}
		return true
	}
}

func setMat3(gl GL, loc int32, v any) bool {
	switch x := v.(type) {
	case mgl32.Mat3:
		gl.UniformMatrix3fv(loc, x[:])
	case []float32:
		if len(x) != 9 {
			return false
		}
		gl.UniformMatrix3fv(loc, x)
	default:
		return false
	}
	return true
}

func setMat4(gl GL, loc int32, v any) bool {
	switch x := v.(type) {
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, x[:])
	case []float32:
		if len(x) != 16 {
			return false
		}
		gl.UniformMatrix4fv(loc, x)
	default:
		return false
	}
	return true
}
