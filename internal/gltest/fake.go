// Package gltest provides an in-memory gpu.GL for tests.
//
// FakeGL compiles nothing. It runs a small preprocessor over the shader
// sources (#define, #ifdef, #ifndef, #if defined(..), #elif, #else, #endif),
// collects the `in` declarations of the vertex stage and the `uniform`
// declarations of both stages, and reports them as the active resources of a
// linked program. Every state change is recorded for inspection.
package gltest

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"mol-render/gpu"
)

type Shader struct {
	Type     uint32
	Source   string
	Compiled bool
	Deleted  bool
	log      string
}

type Program struct {
	Shaders  []uint32
	Linked   bool
	Deleted  bool
	Attribs  []gpu.ActiveInfo
	Uniforms []gpu.ActiveInfo
	// Values holds the last value sent to each uniform location.
	Values map[int32]any

	attribLoc  map[string]int32
	uniformLoc map[string]int32
	log        string
}

type Buffer struct {
	Target  uint32
	Data    any
	Size    int
	Deleted bool
}

type AttribPointer struct {
	Buffer  uint32
	Size    int32
	Type    uint32
	Stride  int32
	Offset  int
	Divisor uint32
	Enabled bool
}

type Texture struct {
	Width, Height  int32
	InternalFormat int32
	Format, Type   uint32
	Pixels         any
	Params         map[uint32]int32
	Deleted        bool
}

type Draw struct {
	Program       uint32
	Mode          uint32
	Count         int32
	InstanceCount int32
	Elements      bool
}

// FakeGL is a recording gpu.GL. The zero value is not usable; call New.
type FakeGL struct {
	mu sync.Mutex

	// CompileFailure, when set, returns a non-empty log for sources that
	// must fail to compile. By default sources containing #error fail.
	CompileFailure func(source string) string
	// LinkFailure, when set, returns a non-empty log for programs that must
	// fail to link.
	LinkFailure func(vert, frag string) string
	// OptimizedOut lists names the "compiler" removed: they are neither
	// active nor resolvable.
	OptimizedOut map[string]bool

	nextID uint32

	Shaders  map[uint32]*Shader
	Programs map[uint32]*Program
	Buffers  map[uint32]*Buffer
	Textures map[uint32]*Texture
	VAOs     map[uint32]bool

	// attribute state of the bound vertex array, by VAO
	Pointers map[uint32]map[uint32]*AttribPointer

	CurrentProgram uint32
	BoundVAO       uint32
	ActiveUnit     uint32
	// UnitTextures maps texture unit to the texture bound on it.
	UnitTextures map[uint32]uint32
	Capabilities map[uint32]bool
	Draws        []Draw

	bound map[uint32]uint32
	calls map[string]int
}

var _ gpu.GL = (*FakeGL)(nil)

func New() *FakeGL {
	return &FakeGL{
		OptimizedOut: make(map[string]bool),
		Shaders:      make(map[uint32]*Shader),
		Programs:     make(map[uint32]*Program),
		Buffers:      make(map[uint32]*Buffer),
		Textures:     make(map[uint32]*Texture),
		VAOs:         make(map[uint32]bool),
		Pointers:     make(map[uint32]map[uint32]*AttribPointer),
		UnitTextures: make(map[uint32]uint32),
		Capabilities: make(map[uint32]bool),
		bound:        make(map[uint32]uint32),
		calls:        make(map[string]int),
	}
}

// Calls returns how often the named method was invoked.
func (f *FakeGL) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeGL) record(method string) {
	f.calls[method]++
}

func (f *FakeGL) id() uint32 {
	f.nextID++
	return f.nextID
}

// UniformValue returns the last value set on the named uniform of program.
func (f *FakeGL) UniformValue(program uint32, name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := p.uniformLoc[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[loc]
	return v, ok
}

// LiveShaders returns the number of shaders not yet deleted.
func (f *FakeGL) LiveShaders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.Shaders {
		if !s.Deleted {
			n++
		}
	}
	return n
}

// LivePrograms returns the number of programs not yet deleted.
func (f *FakeGL) LivePrograms() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.Programs {
		if !p.Deleted {
			n++
		}
	}
	return n
}

// ── shaders ──────────────────────────────────────────────────────────────────

func (f *FakeGL) CreateShader(shaderType uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateShader")
	id := f.id()
	f.Shaders[id] = &Shader{Type: shaderType}
	return id
}

func (f *FakeGL) ShaderSource(shader uint32, source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Shaders[shader].Source = source
}

func (f *FakeGL) CompileShader(shader uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompileShader")
	s := f.Shaders[shader]
	var log string
	if f.CompileFailure != nil {
		log = f.CompileFailure(s.Source)
	} else if strings.Contains(preprocess(s.Source), "#error") {
		log = "ERROR: 0:1: '#error' : preprocessor error"
	}
	s.Compiled = log == ""
	s.log = log
}

func (f *FakeGL) ShaderCompiled(shader uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Shaders[shader].Compiled
}

func (f *FakeGL) ShaderInfoLog(shader uint32) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Shaders[shader].log
}

func (f *FakeGL) DeleteShader(shader uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteShader")
	if s, ok := f.Shaders[shader]; ok {
		s.Deleted = true
	}
}

// ── programs ─────────────────────────────────────────────────────────────────

func (f *FakeGL) CreateProgram() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateProgram")
	id := f.id()
	f.Programs[id] = &Program{Values: make(map[int32]any)}
	return id
}

func (f *FakeGL) AttachShader(program, shader uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.Programs[program]
	p.Shaders = append(p.Shaders, shader)
}

func (f *FakeGL) LinkProgram(program uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LinkProgram")
	p := f.Programs[program]
	var vert, frag string
	for _, id := range p.Shaders {
		s := f.Shaders[id]
		if s.Type == gpu.VertexShader {
			vert = s.Source
		} else {
			frag = s.Source
		}
	}
	switch {
	case vert == "" || frag == "":
		p.log = "ERROR: program needs a vertex and a fragment shader"
	case f.LinkFailure != nil:
		p.log = f.LinkFailure(vert, frag)
	}
	if p.log != "" {
		return
	}
	p.Linked = true
	p.attribLoc = make(map[string]int32)
	p.uniformLoc = make(map[string]int32)

	var next int32
	for _, d := range declarations(preprocess(vert), "in") {
		if f.OptimizedOut[d.Name] {
			continue
		}
		p.Attribs = append(p.Attribs, d)
		p.attribLoc[d.Name] = next
		if d.Type == gpu.FloatMat4 {
			next += 4
		} else {
			next++
		}
	}
	var uloc int32
	for _, src := range []string{vert, frag} {
		for _, d := range declarations(preprocess(src), "uniform") {
			if f.OptimizedOut[d.Name] {
				continue
			}
			if _, dup := p.uniformLoc[d.Name]; dup {
				continue
			}
			if d.Size > 1 {
				d.Name += "[0]"
			}
			p.Uniforms = append(p.Uniforms, d)
			p.uniformLoc[strings.TrimSuffix(d.Name, "[0]")] = uloc
			uloc++
		}
	}
}

func (f *FakeGL) ProgramLinked(program uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Programs[program].Linked
}

func (f *FakeGL) ProgramInfoLog(program uint32) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Programs[program].log
}

func (f *FakeGL) UseProgram(program uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UseProgram")
	f.CurrentProgram = program
}

func (f *FakeGL) DeleteProgram(program uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteProgram")
	if p, ok := f.Programs[program]; ok {
		p.Deleted = true
	}
}

func (f *FakeGL) AttribLocation(program uint32, name string) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if loc, ok := f.Programs[program].attribLoc[name]; ok {
		return loc
	}
	return -1
}

func (f *FakeGL) UniformLocation(program uint32, name string) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if loc, ok := f.Programs[program].uniformLoc[name]; ok {
		return loc
	}
	return -1
}

func (f *FakeGL) ActiveAttribs(program uint32) []gpu.ActiveInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gpu.ActiveInfo(nil), f.Programs[program].Attribs...)
}

func (f *FakeGL) ActiveUniforms(program uint32) []gpu.ActiveInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gpu.ActiveInfo(nil), f.Programs[program].Uniforms...)
}

// ── uniforms ─────────────────────────────────────────────────────────────────

func (f *FakeGL) setUniform(loc int32, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Uniform")
	if p, ok := f.Programs[f.CurrentProgram]; ok {
		p.Values[loc] = v
	}
}

func (f *FakeGL) Uniform1f(loc int32, v float32) { f.setUniform(loc, v) }
func (f *FakeGL) Uniform1i(loc int32, v int32)   { f.setUniform(loc, v) }

func (f *FakeGL) Uniform2fv(loc int32, v []float32) { f.setUniform(loc, append([]float32(nil), v...)) }
func (f *FakeGL) Uniform3fv(loc int32, v []float32) { f.setUniform(loc, append([]float32(nil), v...)) }
func (f *FakeGL) Uniform4fv(loc int32, v []float32) { f.setUniform(loc, append([]float32(nil), v...)) }

func (f *FakeGL) UniformMatrix3fv(loc int32, v []float32) {
	f.setUniform(loc, append([]float32(nil), v...))
}

func (f *FakeGL) UniformMatrix4fv(loc int32, v []float32) {
	f.setUniform(loc, append([]float32(nil), v...))
}

// ── buffers ──────────────────────────────────────────────────────────────────

func (f *FakeGL) CreateBuffer() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateBuffer")
	id := f.id()
	f.Buffers[id] = &Buffer{}
	return id
}

func (f *FakeGL) BindBuffer(target, buffer uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound[target] = buffer
}

func (f *FakeGL) BufferData(target uint32, size int, data any, usage uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferData")
	b := f.Buffers[f.bound[target]]
	b.Target = target
	b.Size = size
	b.Data = clone(data)
}

func (f *FakeGL) BufferSubData(target uint32, offset, size int, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferSubData")
	b := f.Buffers[f.bound[target]]
	b.Data = clone(data)
}

func (f *FakeGL) DeleteBuffer(buffer uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteBuffer")
	if b, ok := f.Buffers[buffer]; ok {
		b.Deleted = true
	}
}

func (f *FakeGL) pointer(index uint32) *AttribPointer {
	m, ok := f.Pointers[f.BoundVAO]
	if !ok {
		m = make(map[uint32]*AttribPointer)
		f.Pointers[f.BoundVAO] = m
	}
	p, ok := m[index]
	if !ok {
		p = &AttribPointer{}
		m[index] = p
	}
	return p
}

func (f *FakeGL) EnableVertexAttribArray(index uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointer(index).Enabled = true
}

func (f *FakeGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VertexAttribPointer")
	p := f.pointer(index)
	p.Buffer = f.bound[gpu.ArrayBuffer]
	p.Size = size
	p.Type = xtype
	p.Stride = stride
	p.Offset = offset
}

func (f *FakeGL) VertexAttribDivisor(index, divisor uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointer(index).Divisor = divisor
}

func (f *FakeGL) CreateVertexArray() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.VAOs[id] = true
	return id
}

func (f *FakeGL) BindVertexArray(vao uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BoundVAO = vao
}

func (f *FakeGL) DeleteVertexArray(vao uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteVertexArray")
	f.VAOs[vao] = false
}

// ── textures ─────────────────────────────────────────────────────────────────

func (f *FakeGL) CreateTexture() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTexture")
	id := f.id()
	f.Textures[id] = &Texture{Params: make(map[uint32]int32)}
	return id
}

func (f *FakeGL) ActiveTexture(unit uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ActiveUnit = unit - gpu.Texture0
}

func (f *FakeGL) BindTexture(target, texture uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UnitTextures[f.ActiveUnit] = texture
}

func (f *FakeGL) TexParameteri(target, pname uint32, param int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.Textures[f.UnitTextures[f.ActiveUnit]]; ok {
		t.Params[pname] = param
	}
}

func (f *FakeGL) PixelStorei(pname uint32, param int32) {}

func (f *FakeGL) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TexImage2D")
	t := f.Textures[f.UnitTextures[f.ActiveUnit]]
	t.Width, t.Height = width, height
	t.InternalFormat = internalFormat
	t.Format, t.Type = format, xtype
	t.Pixels = clone(pixels)
}

func (f *FakeGL) DeleteTexture(texture uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTexture")
	if t, ok := f.Textures[texture]; ok {
		t.Deleted = true
	}
}

// ── draw state ───────────────────────────────────────────────────────────────

func (f *FakeGL) Enable(capability uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Capabilities[capability] = true
}

func (f *FakeGL) Disable(capability uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Capabilities[capability] = false
}

func (f *FakeGL) DepthMask(flag bool)               {}
func (f *FakeGL) CullFace(mode uint32)              {}
func (f *FakeGL) BlendFunc(sfactor, dfactor uint32) {}

func (f *FakeGL) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset int, instanceCount int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Draws = append(f.Draws, Draw{Program: f.CurrentProgram, Mode: mode, Count: count, InstanceCount: instanceCount, Elements: true})
}

func (f *FakeGL) DrawArraysInstanced(mode uint32, first, count, instanceCount int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Draws = append(f.Draws, Draw{Program: f.CurrentProgram, Mode: mode, Count: count, InstanceCount: instanceCount})
}

func clone(data any) any {
	switch d := data.(type) {
	case []float32:
		return append([]float32(nil), d...)
	case []uint32:
		return append([]uint32(nil), d...)
	case []uint8:
		return append([]uint8(nil), d...)
	}
	return data
}

// ── GLSL scanning ────────────────────────────────────────────────────────────

var (
	declRe    = regexp.MustCompile(`^\s*(?:layout\s*\([^)]*\)\s*)?(?:(?:flat|smooth|highp|mediump|lowp)\s+)*(in|uniform)\s+(?:(?:highp|mediump|lowp)\s+)?(\w+)\s+(\w+)\s*(?:\[(\d+)\])?\s*;`)
	definedRe = regexp.MustCompile(`(!?)\s*defined\s*\(?\s*(\w+)\s*\)?`)
)

var glslTypes = map[string]uint32{
	"float":     gpu.Float,
	"vec2":      gpu.FloatVec2,
	"vec3":      gpu.FloatVec3,
	"vec4":      gpu.FloatVec4,
	"int":       gpu.Int,
	"bool":      gpu.Bool,
	"mat3":      gpu.FloatMat3,
	"mat4":      gpu.FloatMat4,
	"sampler2D": gpu.Sampler2D,
	"sampler3D": gpu.Sampler3D,
}

func declarations(source, qualifier string) []gpu.ActiveInfo {
	var out []gpu.ActiveInfo
	for _, line := range strings.Split(source, "\n") {
		m := declRe.FindStringSubmatch(line)
		if m == nil || m[1] != qualifier {
			continue
		}
		t, ok := glslTypes[m[2]]
		if !ok {
			continue
		}
		size := int32(1)
		if m[4] != "" {
			fmt.Sscanf(m[4], "%d", &size)
		}
		out = append(out, gpu.ActiveInfo{Name: m[3], Type: t, Size: size})
	}
	return out
}

type ifState struct {
	active   bool // current branch is emitted
	taken    bool // some branch of this block was emitted
	parentOn bool
}

// preprocess evaluates conditional directives and returns the lines that
// survive. Only defined-ness conditions are supported, joined by || or &&.
func preprocess(source string) string {
	defines := make(map[string]bool)
	var stack []ifState
	on := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}
	var out []string
	for _, line := range strings.Split(source, "\n") {
		t := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(t, "#define"):
			if on() {
				if f := strings.Fields(t); len(f) > 1 {
					defines[f[1]] = true
				}
			}
		case strings.HasPrefix(t, "#ifdef"):
			c := defines[strings.TrimSpace(t[len("#ifdef"):])]
			p := on()
			stack = append(stack, ifState{active: p && c, taken: c, parentOn: p})
		case strings.HasPrefix(t, "#ifndef"):
			c := !defines[strings.TrimSpace(t[len("#ifndef"):])]
			p := on()
			stack = append(stack, ifState{active: p && c, taken: c, parentOn: p})
		case strings.HasPrefix(t, "#if"):
			c := evalCondition(t[len("#if"):], defines)
			p := on()
			stack = append(stack, ifState{active: p && c, taken: c, parentOn: p})
		case strings.HasPrefix(t, "#elif"):
			if len(stack) == 0 {
				continue
			}
			s := &stack[len(stack)-1]
			c := !s.taken && evalCondition(t[len("#elif"):], defines)
			s.active = s.parentOn && c
			s.taken = s.taken || c
		case strings.HasPrefix(t, "#else"):
			if len(stack) == 0 {
				continue
			}
			s := &stack[len(stack)-1]
			s.active = s.parentOn && !s.taken
			s.taken = true
		case strings.HasPrefix(t, "#endif"):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			if on() {
				out = append(out, line)
			}
		}
	}
	return strings.Join(out, "\n")
}

func evalCondition(expr string, defines map[string]bool) bool {
	if strings.Contains(expr, "||") {
		for _, part := range strings.Split(expr, "||") {
			if evalCondition(part, defines) {
				return true
			}
		}
		return false
	}
	if strings.Contains(expr, "&&") {
		for _, part := range strings.Split(expr, "&&") {
			if !evalCondition(part, defines) {
				return false
			}
		}
		return true
	}
	m := definedRe.FindStringSubmatch(expr)
	if m == nil {
		return strings.TrimSpace(expr) == "1"
	}
	return (m[1] == "!") != defines[m[2]]
}
