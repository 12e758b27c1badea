package render_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mol-render/core"
	"mol-render/geo"
	"mol-render/gpu"
	"mol-render/internal/gltest"
	"mol-render/render"
	"mol-render/valuecell"
)

func identities(n int) []float32 {
	out := make([]float32, 0, n*16)
	for range n {
		m := mgl32.Ident4()
		out = append(out, m[:]...)
	}
	return out
}

func testValues() *render.MeshValues {
	return &render.MeshValues{
		APosition: valuecell.New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}),
		ANormal:   valuecell.New([]float32{0, 0, 1, 0, 0, 1, 0, 0, 1}),
		AGroup:    valuecell.New([]float32{0, 0, 1}),
		Elements:  valuecell.New([]uint32{0, 1, 2}),

		TransformData: *geo.NewTransformData(identities(2), 2, nil),
		ColorData:     *geo.CreateUniformColor(core.ColorRed, nil),
		SizeData:      *geo.CreateUniformSize(1, nil),
		MarkerData:    *geo.CreateMarkers(4, nil),

		DrawCount:   valuecell.New(3),
		UGroupCount: valuecell.New(2),

		UAlpha:          valuecell.New(float32(1)),
		UHighlightColor: valuecell.New(mgl32.Vec3{1, 0, 1}),
		USelectColor:    valuecell.New(mgl32.Vec3{0, 1, 0}),
		DFlatShaded:     valuecell.New(false),
		DDoubleSided:    valuecell.New(false),
	}
}

func newItem(t *testing.T) (*gltest.FakeGL, *gpu.Context, *render.MeshValues, *render.Item) {
	t.Helper()
	fake := gltest.New()
	ctx := gpu.NewContext(fake)
	values := testValues()
	item, err := render.NewItem(ctx, render.NewMeshRenderObject(values, render.DefaultState()))
	require.NoError(t, err)
	return fake, ctx, values, item
}

func TestNewItemUploadsValues(t *testing.T) {
	fake, _, _, item := newItem(t)
	defer item.Destroy()

	assert.Equal(t, 6, fake.Calls("CreateBuffer"), "five attributes and the elements")
	assert.Equal(t, 3, fake.Calls("CreateTexture"))
	assert.Equal(t, 3, fake.Calls("TexImage2D"))
	assert.Equal(t, 1, fake.LivePrograms())
	assert.Len(t, fake.VAOs, 1)
	// four vec4 columns for aTransform plus four single-slot attributes
	assert.Equal(t, 8, fake.Calls("VertexAttribPointer"))
}

func TestRenderSendsGlobalsOncePerProgramSwitch(t *testing.T) {
	fake, ctx, _, item := newItem(t)
	defer item.Destroy()

	globals := render.DefaultGlobals()
	globals.Projection = mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)

	item.Render(globals)
	require.Len(t, fake.Draws, 1)
	draw := fake.Draws[0]
	assert.Equal(t, gpu.Triangles, draw.Mode)
	assert.Equal(t, int32(3), draw.Count)
	assert.Equal(t, int32(2), draw.InstanceCount)
	assert.True(t, draw.Elements)
	assert.Equal(t, item.Program().ID(), ctx.CurrentProgramID())

	proj, ok := fake.UniformValue(fake.CurrentProgram, "uProjection")
	require.True(t, ok)
	assert.Equal(t, globals.Projection[:], proj)
	alpha, ok := fake.UniformValue(fake.CurrentProgram, "uAlpha")
	require.True(t, ok)
	assert.Equal(t, float32(1), alpha)

	item.Render(globals)
	assert.Equal(t, 1, fake.Calls("UseProgram"), "program already current")

	ctx.ResetCurrentProgram()
	item.Render(globals)
	assert.Equal(t, 2, fake.Calls("UseProgram"))
	assert.Len(t, fake.Draws, 3)
}

func TestRenderSkipsHiddenAndEmptyObjects(t *testing.T) {
	fake, _, values, item := newItem(t)
	defer item.Destroy()

	item.Object().State.Visible = false
	item.Render(render.DefaultGlobals())
	assert.Empty(t, fake.Draws)

	item.Object().State.Visible = true
	values.DrawCount.Update(0)
	item.Render(render.DefaultGlobals())
	assert.Empty(t, fake.Draws)
}

func TestRenderBlendsTransparentObjects(t *testing.T) {
	fake, _, _, item := newItem(t)
	defer item.Destroy()

	item.Render(render.DefaultGlobals())
	assert.False(t, fake.Capabilities[gpu.Blend])

	item.Object().State.Opaque = false
	item.Render(render.DefaultGlobals())
	assert.True(t, fake.Capabilities[gpu.Blend])
}

func TestUpdateUploadsOnlyChangedValues(t *testing.T) {
	fake, _, values, item := newItem(t)
	defer item.Destroy()

	require.NoError(t, item.Update())
	assert.Zero(t, fake.Calls("BufferSubData"))
	assert.Equal(t, 3, fake.Calls("TexImage2D"))

	values.AGroup.Update([]float32{1, 1, 0})
	geo.CreateUniformColor(core.ColorBlue, &values.ColorData)
	require.NoError(t, item.Update())
	assert.Equal(t, 1, fake.Calls("BufferSubData"), "same length is written in place")
	assert.Equal(t, 4, fake.Calls("TexImage2D"))
	assert.Equal(t, 1, fake.Calls("LinkProgram"))

	require.NoError(t, item.Update())
	assert.Equal(t, 1, fake.Calls("BufferSubData"))
}

func TestUpdateSwitchesProgramWhenDefinesChange(t *testing.T) {
	fake, _, values, item := newItem(t)
	defer item.Destroy()
	before := item.Program().ID()
	pointers := fake.Calls("VertexAttribPointer")

	valuecell.UpdateIfChanged(values.DFlatShaded, true)
	require.NoError(t, item.Update())

	assert.NotEqual(t, before, item.Program().ID())
	assert.Equal(t, 2, fake.Calls("LinkProgram"))
	assert.Equal(t, 1, fake.LivePrograms(), "the unused program is released")
	assert.Greater(t, fake.Calls("VertexAttribPointer"), pointers, "attributes rebound for the new program")
}

func TestItemsShareProgramsAndDestroy(t *testing.T) {
	fake := gltest.New()
	ctx := gpu.NewContext(fake)
	a, err := render.NewItem(ctx, render.NewMeshRenderObject(testValues(), render.DefaultState()))
	require.NoError(t, err)
	b, err := render.NewItem(ctx, render.NewMeshRenderObject(testValues(), render.DefaultState()))
	require.NoError(t, err)

	assert.Equal(t, a.Program().ID(), b.Program().ID())
	assert.Equal(t, 1, fake.Calls("LinkProgram"))

	a.Destroy()
	a.Destroy()
	assert.Equal(t, 1, fake.LivePrograms())
	assert.Equal(t, 6, fake.Calls("DeleteBuffer"))
	assert.Equal(t, 3, fake.Calls("DeleteTexture"))
	assert.Equal(t, 1, fake.Calls("DeleteVertexArray"))

	b.Destroy()
	assert.Zero(t, fake.LivePrograms())
}

func TestNewItemRejectsUnknownObjectType(t *testing.T) {
	fake := gltest.New()
	ctx := gpu.NewContext(fake)
	obj := render.NewMeshRenderObject(testValues(), render.DefaultState())
	obj.Type = "points"

	_, err := render.NewItem(ctx, obj)
	assert.Error(t, err)
	assert.Zero(t, fake.Calls("CreateProgram"))
}
