package representation_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mol-render/geo/mesh"
	"mol-render/render"
	"mol-render/representation"
	"mol-render/structure"
	"mol-render/task"
	"mol-render/theme"
)

// fixture is three copies of a two-atom unit, each shifted by i along x.
func fixture(t *testing.T) (*structure.Structure, *structure.SymmetryGroup) {
	t.Helper()
	model := &structure.Model{
		Label:      "co",
		TypeSymbol: []string{"C", "O"},
		ChainID:    []string{"A", "A"},
		Positions:  []mgl32.Vec3{{0, 0, 0}, {1.2, 0, 0}},
	}
	units := make([]*structure.Unit, 3)
	for i := range units {
		op := structure.SymmetryOperator{Name: "shift", Matrix: mgl32.Translate3D(float32(i), 0, 0)}
		u, err := structure.NewUnit(i, 0, model, []int{0, 1}, op)
		require.NoError(t, err)
		units[i] = u
	}
	group, err := structure.NewSymmetryGroup(units)
	require.NoError(t, err)
	return structure.New(units...), group
}

// tenTriangles has five triangles for each of two groups.
func tenTriangles(t *testing.T) *mesh.Mesh {
	t.Helper()
	var vertices, groups []float32
	var indices []uint32
	for tri := range 10 {
		x := float32(tri)
		vertices = append(vertices, x, 0, 0, x+1, 0, 0, x, 1, 0)
		g := float32(tri / 5)
		groups = append(groups, g, g, g)
		base := uint32(tri * 3)
		indices = append(indices, base, base+1, base+2)
	}
	m, err := mesh.New(vertices, nil, groups, indices)
	require.NoError(t, err)
	return m
}

func TestCreateTransformsLayout(t *testing.T) {
	_, group := fixture(t)
	data := representation.CreateTransforms(group, nil)

	transforms := data.ATransform.Value()
	require.Len(t, transforms, 48)
	for i := range 3 {
		block := transforms[i*16 : (i+1)*16]
		assert.Equal(t, float32(i), block[12], "translation x of unit %d", i)
		assert.Equal(t, float32(1), block[0])
		assert.Equal(t, float32(1), block[15])
	}
	assert.Equal(t, []float32{0, 1, 2}, data.AInstance.Value())
	assert.Equal(t, 3, data.InstanceCount.Value())
}

func TestCreateTransformsReusesStorage(t *testing.T) {
	_, group := fixture(t)
	data := representation.CreateTransforms(group, nil)
	before := data.ATransform.Version()
	array := data.ATransform.Value()

	again := representation.CreateTransforms(group, data)
	assert.Same(t, data, again)
	assert.Greater(t, again.ATransform.Version(), before)
	assert.Same(t, &array[0], &again.ATransform.Value()[0])
}

func TestCreateIdentityTransform(t *testing.T) {
	data := representation.CreateIdentityTransform(nil)
	m := mgl32.Ident4()
	assert.Equal(t, m[:], data.ATransform.Value())
	assert.Equal(t, 1, data.InstanceCount.Value())
}

func TestElementIterators(t *testing.T) {
	s, group := fixture(t)

	it := representation.ElementIterator(group)
	assert.Equal(t, 2, it.GroupCount())
	assert.Equal(t, 3, it.InstanceCount())
	var order [][2]int
	for it.HasNext() {
		v := it.Move()
		order = append(order, [2]int{v.Location.Unit.ID, v.Location.Element})
	}
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}, order)

	whole := representation.StructureElementIterator(s)
	assert.Equal(t, 6, whole.GroupCount())
	assert.Equal(t, 1, whole.InstanceCount())
}

func TestCreateUnitsMeshRenderObject(t *testing.T) {
	s, group := fixture(t)
	props := representation.DefaultMeshProps()
	props.Size = theme.SizeProps{Name: "physical"}

	obj, err := representation.CreateUnitsMeshRenderObject(context.Background(), task.Synchronous(), s, group, tenTriangles(t), props)
	require.NoError(t, err)
	require.NotNil(t, obj)

	v := obj.Values
	assert.Equal(t, render.ObjectMesh, obj.Type)
	assert.Equal(t, 30, v.DrawCount.Value())
	assert.Equal(t, 2, v.UGroupCount.Value())
	assert.Equal(t, 3, v.InstanceCount.Value())
	assert.Len(t, v.ATransform.Value(), 48)

	assert.Equal(t, "uniform", v.DColorType.Value())
	assert.Equal(t, theme.DefaultColor.Vec3(), v.UColor.Value())
	assert.Len(t, v.TColor.Value().Array, 3, "one broadcast rgb entry")

	assert.Equal(t, "group", v.DSizeType.Value())
	assert.InDeltaSlice(t, []float32{1.7, 1.52}, v.TSize.Value().Array, 1e-6)

	assert.Len(t, v.TMarker.Value().Array, 6)
	assert.True(t, obj.State.Visible)
	assert.True(t, obj.State.Opaque)
}

func TestCreateComplexMeshRenderObject(t *testing.T) {
	s, _ := fixture(t)
	props := representation.DefaultMeshProps()
	props.Color = theme.ColorProps{Name: "element-symbol"}
	props.Alpha = 0.5

	obj, err := representation.CreateComplexMeshRenderObject(context.Background(), task.Synchronous(), s, tenTriangles(t), props)
	require.NoError(t, err)

	v := obj.Values
	assert.Equal(t, 1, v.InstanceCount.Value())
	assert.Equal(t, 6, v.UGroupCount.Value())
	assert.Equal(t, "group", v.DColorType.Value())
	assert.Len(t, v.TColor.Value().Array, 6*3)
	assert.False(t, obj.State.Opaque)
}

func TestCreateMeshRenderObjectCancelled(t *testing.T) {
	s, group := fixture(t)
	props := representation.DefaultMeshProps()
	props.Color = theme.ColorProps{Name: "element-symbol"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obj, err := representation.CreateUnitsMeshRenderObject(ctx, task.Synchronous(), s, group, tenTriangles(t), props)
	assert.Nil(t, obj)
	assert.True(t, task.IsCancelled(err))
}

func TestCreateMeshRenderObjectRejectsBadProps(t *testing.T) {
	s, group := fixture(t)

	props := representation.DefaultMeshProps()
	props.Color = theme.ColorProps{Name: "rainbow-unicorn"}
	_, err := representation.CreateUnitsMeshRenderObject(context.Background(), task.Synchronous(), s, group, tenTriangles(t), props)
	assert.ErrorIs(t, err, theme.ErrUnknownTheme)

	props = representation.DefaultMeshProps()
	props.Alpha = 2
	_, err = representation.CreateUnitsMeshRenderObject(context.Background(), task.Synchronous(), s, group, tenTriangles(t), props)
	assert.Error(t, err)
}

func TestUpdateMeshValuesKeepsUnchangedVersions(t *testing.T) {
	s, group := fixture(t)
	props := representation.DefaultMeshProps()
	obj, err := representation.CreateUnitsMeshRenderObject(context.Background(), task.Synchronous(), s, group, tenTriangles(t), props)
	require.NoError(t, err)
	v := obj.Values

	props.Alpha = 0.4
	require.NoError(t, representation.UpdateMeshValues(v, props))
	representation.UpdateState(&obj.State, props)

	assert.Equal(t, float32(0.4), v.UAlpha.Value())
	assert.Equal(t, 1, v.UAlpha.Version())
	assert.Zero(t, v.DFlatShaded.Version())
	assert.Zero(t, v.UHighlightColor.Version())
	assert.False(t, obj.State.Opaque)
}

func TestUpdateThemesCancelledKeepsColors(t *testing.T) {
	s, group := fixture(t)
	props := representation.DefaultMeshProps()
	props.Color = theme.ColorProps{Name: "element-symbol"}
	obj, err := representation.CreateUnitsMeshRenderObject(context.Background(), task.Synchronous(), s, group, tenTriangles(t), props)
	require.NoError(t, err)
	colors := obj.Values.TColor.Value()
	version := obj.Values.TColor.Version()

	props.Color = theme.ColorProps{Name: "unit-index"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = representation.UpdateThemes(ctx, task.Synchronous(), obj, s, representation.ElementIterator(group), props)
	assert.True(t, task.IsCancelled(err))
	assert.Same(t, colors, obj.Values.TColor.Value())
	assert.Equal(t, version, obj.Values.TColor.Version())
	assert.Equal(t, "group", obj.Values.DColorType.Value())

	require.NoError(t, representation.UpdateThemes(context.Background(), task.Synchronous(), obj, s, representation.ElementIterator(group), props))
	assert.Equal(t, "instance", obj.Values.DColorType.Value())
	assert.Len(t, obj.Values.TColor.Value().Array, 3*3)
}

func receive(t *testing.T, b *representation.Builder) representation.Result {
	t.Helper()
	select {
	case r := <-b.Results():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
	return representation.Result{}
}

func TestBuilderDeliversObjects(t *testing.T) {
	s, group := fixture(t)
	m := tenTriangles(t)
	cfg := representation.DefaultBuilderConfig()
	cfg.Workers = 2
	b, err := representation.NewBuilder(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	b.Submit(context.Background(), "units", func(ctx context.Context, rt task.Runtime) (*render.RenderObject, error) {
		return representation.CreateUnitsMeshRenderObject(ctx, rt, s, group, m, representation.DefaultMeshProps())
	})
	r := receive(t, b)
	require.NoError(t, r.Err)
	assert.Equal(t, "units", r.Key)
	assert.Equal(t, 30, r.Object.Values.DrawCount.Value())
}

func TestBuilderSupersedesPendingBuild(t *testing.T) {
	cfg := representation.DefaultBuilderConfig()
	cfg.Workers = 2
	b, err := representation.NewBuilder(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	started := make(chan struct{})
	b.Submit(context.Background(), "k", func(ctx context.Context, _ task.Runtime) (*render.RenderObject, error) {
		close(started)
		<-ctx.Done()
		return nil, task.Check(ctx)
	})
	<-started

	want := render.NewMeshRenderObject(nil, render.DefaultState())
	b.Submit(context.Background(), "k", func(context.Context, task.Runtime) (*render.RenderObject, error) {
		return want, nil
	})

	r := receive(t, b)
	assert.Same(t, want, r.Object)
	select {
	case extra := <-b.Results():
		t.Fatalf("unexpected result %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBuilderCloseReleasesBlockedWorkers(t *testing.T) {
	cfg := representation.DefaultBuilderConfig()
	cfg.Workers = 1
	cfg.QueueSize = 1
	b, err := representation.NewBuilder(cfg, nil)
	require.NoError(t, err)

	var built atomic.Int32
	for _, key := range []string{"a", "b", "c"} {
		b.Submit(context.Background(), key, func(context.Context, task.Runtime) (*render.RenderObject, error) {
			built.Add(1)
			return render.NewMeshRenderObject(nil, render.DefaultState()), nil
		})
	}
	// nobody reads: the first result fills the buffer, the second build
	// waits to deliver
	require.Eventually(t, func() bool { return built.Load() >= 2 }, 5*time.Second, time.Millisecond)

	closed := make(chan struct{})
	go func() {
		b.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked on an undelivered result")
	}
	assert.LessOrEqual(t, len(b.Results()), 1)

	b.Close()
	b.Submit(context.Background(), "late", func(context.Context, task.Runtime) (*render.RenderObject, error) {
		t.Error("build ran after Close")
		return nil, nil
	})
}

func TestBuilderConfigValidate(t *testing.T) {
	assert.NoError(t, representation.DefaultBuilderConfig().Validate())

	cfg := representation.DefaultBuilderConfig()
	cfg.IdleTimeout = "soon"
	assert.Error(t, cfg.Validate())

	cfg = representation.DefaultBuilderConfig()
	cfg.QueueSize = 0
	assert.Error(t, cfg.Validate())
}

func TestCreateElementMesh(t *testing.T) {
	_, group := fixture(t)
	m := representation.CreateElementMesh(group, mesh.Octahedron())

	assert.Equal(t, 2*8, m.TriangleCount)
	groups := m.GroupBuffer.Value()
	require.Len(t, groups, m.VertexCount)
	assert.Equal(t, float32(0), groups[0])
	assert.Equal(t, float32(1), groups[len(groups)-1])

	// the second copy is centered on the oxygen at x = 1.2
	vertices := m.VertexBuffer.Value()
	half := len(vertices) / 2
	var cx float32
	for i := half; i < len(vertices); i += 3 {
		cx += vertices[i]
	}
	assert.InDelta(t, 1.2, cx/float32(half/3), 1e-5)
}
