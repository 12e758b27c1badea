package render

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/gpu"
	"mol-render/valuecell"
)

// Globals are the per-frame uniforms shared by every item.
type Globals struct {
	Model          mgl32.Mat4
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	LightDirection mgl32.Vec3
	LightColor     mgl32.Vec3
	AmbientColor   mgl32.Vec3
}

// DefaultGlobals is an identity camera with a white head light.
func DefaultGlobals() Globals {
	return Globals{
		Model:          mgl32.Ident4(),
		View:           mgl32.Ident4(),
		Projection:     mgl32.Ident4(),
		LightDirection: mgl32.Vec3{0, 0, -1},
		LightColor:     mgl32.Vec3{1, 1, 1},
		AmbientColor:   mgl32.Vec3{0.3, 0.3, 0.3},
	}
}

func (g Globals) uniforms() []gpu.UniformValue {
	return []gpu.UniformValue{
		{Name: "uModel", Value: g.Model},
		{Name: "uView", Value: g.View},
		{Name: "uProjection", Value: g.Projection},
		{Name: "uLightDirection", Value: g.LightDirection},
		{Name: "uLightColor", Value: g.LightColor},
		{Name: "uAmbientColor", Value: g.AmbientColor},
	}
}

type attributeEntry struct {
	name   string
	buffer *gpu.AttributeBuffer
}

type textureEntry struct {
	name    string
	texture *gpu.Texture
}

// Item owns the GPU resources of one render object: its program reference,
// vertex array, buffers and textures.
type Item struct {
	ctx    *gpu.Context
	object *RenderObject
	schema gpu.Schema
	code   gpu.ShaderCode

	program *gpu.ProgramRef
	defines gpu.DefineValues

	vao        uint32
	attributes []attributeEntry
	elements   *gpu.ElementsBuffer
	textures   []textureEntry
	uniforms   []string

	versions  map[string]int
	destroyed bool
}

// NewItem creates the GPU side of a mesh render object.
func NewItem(ctx *gpu.Context, object *RenderObject) (*Item, error) {
	if object.Type != ObjectMesh {
		return nil, fmt.Errorf("unsupported render object type %q", object.Type)
	}
	it := &Item{
		ctx:      ctx,
		object:   object,
		schema:   MeshSchema.Merge(GlobalUniformSchema),
		code:     MeshShaderCode,
		versions: make(map[string]int),
	}
	values := object.Values.Values()
	if err := it.create(values); err != nil {
		it.Destroy()
		return nil, err
	}
	return it, nil
}

func (it *Item) create(values map[string]valuecell.Ref) error {
	gl := it.ctx.GL
	defines, err := defineValues(it.schema, values)
	if err != nil {
		return err
	}
	it.defines = defines
	program, err := it.ctx.ProgramCache().Get(it.ctx, gpu.ProgramProps{
		DefineValues: it.defines,
		ShaderCode:   it.code,
		Schema:       it.schema,
	})
	if err != nil {
		return err
	}
	it.program = program

	for _, name := range sortedNames(it.schema) {
		spec := it.schema[name]
		v, ok := values[name]
		if !ok {
			continue
		}
		switch spec.Type {
		case gpu.SpecAttribute:
			b, err := gpu.NewAttributeBuffer(gl, v.Any(), spec.Kind, spec.ItemSize, spec.Divisor)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", name, err)
			}
			it.attributes = append(it.attributes, attributeEntry{name: name, buffer: b})
		case gpu.SpecElements:
			indices, ok := v.Any().([]uint32)
			if !ok {
				return &gpu.ConfigError{Resource: name, Expected: "[]uint32", Actual: fmt.Sprintf("%T", v.Any())}
			}
			b, err := gpu.NewElementsBuffer(gl, indices)
			if err != nil {
				return err
			}
			it.elements = b
		case gpu.SpecTexture:
			t, err := gpu.NewTexture(gl, spec.Kind, spec.Format, spec.Filter)
			if err != nil {
				return fmt.Errorf("texture %s: %w", name, err)
			}
			it.textures = append(it.textures, textureEntry{name: name, texture: t})
			if err := t.Load(v.Any()); err != nil {
				return fmt.Errorf("texture %s: %w", name, err)
			}
		case gpu.SpecUniform:
			it.uniforms = append(it.uniforms, name)
		default:
			continue
		}
		it.versions[name] = v.Version()
	}
	if it.elements == nil {
		return &gpu.ConfigError{Resource: "elements", Expected: "an elements value", Actual: "missing"}
	}

	it.vao = gl.CreateVertexArray()
	it.bindVertexArray()
	return nil
}

// bindVertexArray records the attribute pointers of the current program and
// the element buffer in the item's vertex array.
func (it *Item) bindVertexArray() {
	gl := it.ctx.GL
	gl.BindVertexArray(it.vao)
	bindings := make([]gpu.AttributeBinding, len(it.attributes))
	for i, a := range it.attributes {
		bindings[i] = gpu.AttributeBinding{Name: a.name, Buffer: a.buffer}
	}
	it.program.Value().BindAttributes(bindings)
	it.elements.Bind()
	gl.BindVertexArray(0)
}

func defineValues(schema gpu.Schema, values map[string]valuecell.Ref) (gpu.DefineValues, error) {
	defines := gpu.DefineValues{}
	for name, spec := range schema {
		if spec.Type != gpu.SpecDefine {
			continue
		}
		v, ok := values[name]
		if !ok {
			continue
		}
		d, err := gpu.DefineValueOf(v.Any())
		if err != nil {
			return nil, fmt.Errorf("define %s: %w", name, err)
		}
		defines[name] = d
	}
	return defines, nil
}

func sortedNames(schema gpu.Schema) []string {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Program returns the item's current program.
func (it *Item) Program() *gpu.Program { return it.program.Value() }

// Object returns the rendered object.
func (it *Item) Object() *RenderObject { return it.object }

// Render draws the item. Global uniforms are sent only when the item's
// program is not the context's current program, so a renderer must call
// ResetCurrentProgram on the context at the start of every frame.
func (it *Item) Render(globals Globals) {
	if it.destroyed || !it.object.State.Visible {
		return
	}
	values := it.object.Values
	drawCount := values.DrawCount.Value()
	instanceCount := values.InstanceCount.Value()
	if drawCount == 0 || instanceCount == 0 {
		return
	}

	gl := it.ctx.GL
	program := it.program.Value()
	if it.ctx.CurrentProgramID() != program.ID() {
		program.Use()
		program.SetUniforms(globals.uniforms())
	}

	refs := values.Values()
	uniforms := make([]gpu.UniformValue, 0, len(it.uniforms))
	for _, name := range it.uniforms {
		uniforms = append(uniforms, gpu.UniformValue{Name: name, Value: refs[name].Any()})
	}
	program.SetUniforms(uniforms)

	textures := make([]gpu.TextureBinding, len(it.textures))
	for i, t := range it.textures {
		textures[i] = gpu.TextureBinding{Name: t.name, Texture: t.texture}
	}
	program.BindTextures(textures)

	if it.object.State.Opaque {
		gl.Disable(gpu.Blend)
		gl.DepthMask(true)
	} else {
		gl.Enable(gpu.Blend)
		gl.BlendFunc(gpu.SrcAlpha, gpu.OneMinusSrcAlpha)
		gl.DepthMask(false)
	}
	if values.DDoubleSided.Value() {
		gl.Disable(gpu.CullFaceMode)
	} else {
		gl.Enable(gpu.CullFaceMode)
		gl.CullFace(gpu.Back)
	}

	gl.BindVertexArray(it.vao)
	gl.DrawElementsInstanced(gpu.Triangles, int32(drawCount), gpu.UnsignedInt, 0, int32(instanceCount))
	gl.BindVertexArray(0)
}

// Update uploads every value whose version changed since the last upload.
// A changed define switches the item to the matching program.
func (it *Item) Update() error {
	if it.destroyed {
		return nil
	}
	values := it.object.Values.Values()

	rebind := false
	defines, err := defineValues(it.schema, values)
	if err != nil {
		return err
	}
	if !sameDefines(defines, it.defines) {
		program, err := it.ctx.ProgramCache().Get(it.ctx, gpu.ProgramProps{
			DefineValues: defines,
			ShaderCode:   it.code,
			Schema:       it.schema,
		})
		if err != nil {
			return err
		}
		it.program.Free()
		it.program = program
		it.defines = defines
		rebind = true
	}

	for _, a := range it.attributes {
		v := values[a.name]
		if v.Version() == it.versions[a.name] {
			continue
		}
		if err := a.buffer.UpdateData(v.Any()); err != nil {
			return fmt.Errorf("attribute %s: %w", a.name, err)
		}
		it.versions[a.name] = v.Version()
	}
	if v := values["elements"]; v.Version() != it.versions["elements"] {
		indices, _ := v.Any().([]uint32)
		it.elements.UpdateData(indices)
		it.versions["elements"] = v.Version()
		rebind = true
	}
	for _, t := range it.textures {
		v := values[t.name]
		if v.Version() == it.versions[t.name] {
			continue
		}
		if err := t.texture.Load(v.Any()); err != nil {
			return fmt.Errorf("texture %s: %w", t.name, err)
		}
		it.versions[t.name] = v.Version()
	}

	if rebind {
		it.bindVertexArray()
	}
	return nil
}

func sameDefines(a, b gpu.DefineValues) bool {
	if len(a) != len(b) {
		return false
	}
	for name, v := range a {
		if w, ok := b[name]; !ok || w != v {
			return false
		}
	}
	return true
}

// Destroy releases the item's program reference and deletes its buffers,
// textures and vertex array. It is a no-op once destroyed.
func (it *Item) Destroy() {
	if it.destroyed {
		return
	}
	it.destroyed = true
	gl := it.ctx.GL
	if it.program != nil {
		it.program.Free()
	}
	for _, a := range it.attributes {
		a.buffer.Destroy()
	}
	if it.elements != nil {
		it.elements.Destroy()
	}
	for _, t := range it.textures {
		t.texture.Destroy()
	}
	if it.vao != 0 {
		gl.DeleteVertexArray(it.vao)
	}
}
