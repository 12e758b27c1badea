package gpu

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync/atomic"

	"mol-render/refcache"
)

var nextProgramID atomic.Int64

type UniformValue struct {
	Name  string
	Value any
}

// AttributeBinder is a vertex buffer that can point a location at itself.
type AttributeBinder interface {
	Bind(loc int32)
}

// TextureBinder is a texture that can bind itself to a texture unit.
type TextureBinder interface {
	Bind(unit uint32)
}

type AttributeBinding struct {
	Name   string
	Buffer AttributeBinder
}

type TextureBinding struct {
	Name    string
	Texture TextureBinder
}

// ProgramProps are the creation parameters of a program.
type ProgramProps struct {
	DefineValues DefineValues
	ShaderCode   ShaderCode
	Schema       Schema
}

type boundUniform struct {
	loc int32
	set UniformSetter
}

// Program is a linked GPU program with its location and setter tables.
type Program struct {
	ctx    *Context
	id     int
	handle uint32

	vert, frag *ShaderRef

	attributes map[string]int32
	uniforms   map[string]boundUniform
	textures   map[string]int32

	destroyed bool
}

// CreateProgram expands the defines into the shader code, compiles (or
// reuses) both stages, links them and resolves every schema entry.
func CreateProgram(ctx *Context, props ProgramProps) (*Program, error) {
	gl := ctx.GL
	code := AddShaderDefines(ctx, props.DefineValues, props.ShaderCode)

	vert, err := ctx.ShaderCache().Get(ctx, ShaderProps{Stage: StageVertex, Source: code.Vert})
	if err != nil {
		return nil, err
	}
	frag, err := ctx.ShaderCache().Get(ctx, ShaderProps{Stage: StageFragment, Source: code.Frag})
	if err != nil {
		vert.Free()
		return nil, err
	}

	handle := gl.CreateProgram()
	if handle == 0 {
		vert.Free()
		frag.Free()
		return nil, &ConfigError{Resource: "could not create program"}
	}
	id := int(nextProgramID.Add(1))

	vert.Value().Attach(handle)
	frag.Value().Attach(handle)
	gl.LinkProgram(handle)
	if !gl.ProgramLinked(handle) {
		log := gl.ProgramInfoLog(handle)
		gl.DeleteProgram(handle)
		vert.Free()
		frag.Free()
		return nil, &LinkError{ProgramID: id, Log: log}
	}

	p := &Program{
		ctx:    ctx,
		id:     id,
		handle: handle,
		vert:   vert,
		frag:   frag,
	}
	if err := p.resolve(props.Schema); err != nil {
		p.Destroy()
		return nil, err
	}
	if validatePrograms {
		if err := p.validate(props.Schema); err != nil {
			p.Destroy()
			return nil, err
		}
	}
	Logger().Debug("program created", "id", id, "shaderCode", props.ShaderCode.ID, "defines", len(props.DefineValues))
	return p, nil
}

// resolve looks up every schema location once. Names the compiler removed
// keep location -1 and are skipped when binding.
func (p *Program) resolve(schema Schema) error {
	gl := p.ctx.GL
	p.attributes = make(map[string]int32)
	p.uniforms = make(map[string]boundUniform)
	p.textures = make(map[string]int32)
	for name, spec := range schema {
		switch spec.Type {
		case SpecAttribute:
			p.attributes[name] = gl.AttribLocation(p.handle, name)
		case SpecUniform:
			set, ok := UniformSetterFor(spec.Kind)
			if !ok {
				return &ConfigError{Resource: name, Expected: "uniform kind", Actual: string(spec.Kind)}
			}
			p.uniforms[name] = boundUniform{loc: gl.UniformLocation(p.handle, name), set: set}
		case SpecTexture:
			p.textures[name] = gl.UniformLocation(p.handle, name)
		}
	}
	return nil
}

// validate checks that every active attribute and uniform of the linked
// program is declared in schema with a matching category and type.
func (p *Program) validate(schema Schema) error {
	gl := p.ctx.GL
	for _, a := range gl.ActiveAttribs(p.handle) {
		name := activeName(a.Name)
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		spec, ok := schema[name]
		if !ok {
			return &ConfigError{Resource: name, Expected: "a schema entry", Actual: "missing"}
		}
		if spec.Type != SpecAttribute {
			return &ConfigError{Resource: name, Expected: string(spec.Type), Actual: string(SpecAttribute)}
		}
		want, ok := AttribGLType(spec.ItemSize)
		if !ok || want != a.Type {
			return &ConfigError{Resource: name, Expected: TypeName(want), Actual: TypeName(a.Type)}
		}
	}
	for _, u := range gl.ActiveUniforms(p.handle) {
		name := activeName(u.Name)
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		spec, ok := schema[name]
		if !ok {
			return &ConfigError{Resource: name, Expected: "a schema entry", Actual: "missing"}
		}
		switch spec.Type {
		case SpecUniform:
			want, _ := UniformGLType(spec.Kind)
			if want != u.Type {
				return &ConfigError{Resource: name, Expected: TypeName(want), Actual: TypeName(u.Type)}
			}
		case SpecTexture:
			if u.Type != Sampler2D {
				return &ConfigError{Resource: name, Expected: TypeName(Sampler2D), Actual: TypeName(u.Type)}
			}
		default:
			return &ConfigError{Resource: name, Expected: string(spec.Type), Actual: string(SpecUniform)}
		}
	}
	return nil
}

// activeName strips the [0] suffix drivers report for arrays.
func activeName(name string) string {
	return strings.TrimSuffix(name, "[0]")
}

func (p *Program) ID() int { return p.id }

// Use binds the program and records it as the context's current program.
func (p *Program) Use() {
	p.ctx.GL.UseProgram(p.handle)
	p.ctx.setCurrentProgram(p.id)
}

// SetUniforms sends every value whose name resolved to a location. Values of
// the wrong shape are logged and skipped.
func (p *Program) SetUniforms(values []UniformValue) {
	gl := p.ctx.GL
	for _, v := range values {
		u, ok := p.uniforms[v.Name]
		if !ok || u.loc == -1 {
			continue
		}
		if !u.set(gl, u.loc, v.Value) {
			Logger().Warn("uniform value has the wrong shape", "name", v.Name, "type", fmt.Sprintf("%T", v.Value))
		}
	}
}

// BindAttributes points every resolved attribute location at its buffer.
func (p *Program) BindAttributes(buffers []AttributeBinding) {
	for _, b := range buffers {
		loc, ok := p.attributes[b.Name]
		if !ok || loc == -1 {
			continue
		}
		b.Buffer.Bind(loc)
	}
}

// BindTextures binds textures to sequential units and sets each sampler
// uniform to its unit. Unresolved samplers do not consume a unit.
func (p *Program) BindTextures(textures []TextureBinding) {
	gl := p.ctx.GL
	var unit uint32
	for _, t := range textures {
		loc, ok := p.textures[t.Name]
		if !ok || loc == -1 {
			continue
		}
		t.Texture.Bind(unit)
		gl.Uniform1i(loc, int32(unit))
		unit++
	}
}

// Destroy deletes the program and releases its shaders. It is a no-op once
// the program is destroyed.
func (p *Program) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.ctx.GL.DeleteProgram(p.handle)
	p.vert.Free()
	p.frag.Free()
}

// ProgramCache shares linked programs between render items with the same
// shader code and define values.
type ProgramCache = refcache.Cache[*Program, ProgramProps, *Context]

// ProgramRef is a reference to a cached program.
type ProgramRef = refcache.Handle[*Program, ProgramProps, *Context]

func NewProgramCache() *ProgramCache {
	return refcache.New(ProgramKey, CreateProgram, func(p *Program) { p.Destroy() })
}

// ProgramKey hashes the shader code identity and the define values sorted by
// name with 32-bit FNV-1a. The schema is not part of the key: a shader code
// is always used with one schema.
func ProgramKey(props ProgramProps) string {
	h := fnv.New32a()
	h.Write([]byte(strconv.Itoa(props.ShaderCode.ID)))
	for _, name := range props.DefineValues.sortedNames() {
		v := props.DefineValues[name]
		h.Write([]byte{0})
		h.Write([]byte(name))
		h.Write([]byte{1, byte(v.kind)})
		h.Write([]byte(v.String()))
	}
	return fmt.Sprintf("%d:%08x", props.ShaderCode.ID, h.Sum32())
}
