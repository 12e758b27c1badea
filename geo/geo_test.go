package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mol-render/core"
	"mol-render/structure"
	"mol-render/task"
)

// pairIterator encodes (group, instance) into the location so color and size
// functions can recover the pair they were called for.
func pairIterator(groups, instances int) *LocationIterator {
	return NewLocationIterator(groups, instances, func(g, i int) structure.Location {
		return structure.Location{Element: i*1000 + g}
	})
}

func TestLocationIteratorOrder(t *testing.T) {
	it := pairIterator(3, 2)
	var got []LocationValue
	var newInstance []bool
	for it.HasNext() {
		got = append(got, it.Move())
		newInstance = append(newInstance, it.IsNextNewInstance())
	}
	require.Len(t, got, 6)
	for k, v := range got {
		assert.Equal(t, k, v.Index)
		assert.Equal(t, k%3, v.GroupIndex)
		assert.Equal(t, k/3, v.InstanceIndex)
		assert.Equal(t, v.InstanceIndex*1000+v.GroupIndex, v.Location.Element)
	}
	assert.Equal(t, []bool{false, false, true, false, false, true}, newInstance)

	it.Reset()
	assert.True(t, it.HasNext())
	assert.Equal(t, 0, it.Move().Index)
}

func TestLocationIteratorSkipInstance(t *testing.T) {
	it := pairIterator(4, 3)
	var instances []int
	for it.HasNext() {
		instances = append(instances, it.Move().InstanceIndex)
		it.SkipInstance()
	}
	assert.Equal(t, []int{0, 1, 2}, instances)
}

func TestLocationIteratorEmpty(t *testing.T) {
	assert.False(t, pairIterator(0, 3).HasNext())
	assert.False(t, pairIterator(3, 0).HasNext())
}

func pairColor(loc structure.Location) core.Color {
	g, i := loc.Element%1000, loc.Element/1000
	return core.Color{R: float32(g) / 255, G: float32(i) / 255, B: 1, A: 1}
}

func TestGroupInstanceColorOrder(t *testing.T) {
	const g, n = 5, 3
	it := pairIterator(g, n)
	data, err := CreateGroupInstanceColor(context.Background(), task.Synchronous(), it, pairColor, nil)
	require.NoError(t, err)

	img := data.TColor.Value()
	require.Len(t, img.Array, g*n*3)
	for idx := range g * n {
		assert.Equal(t, uint8(idx%g), img.Array[idx*3], "group at %d", idx)
		assert.Equal(t, uint8(idx/g), img.Array[idx*3+1], "instance at %d", idx)
	}
	assert.Equal(t, string(ColorGroupInstance), data.DColorType.Value())
	assert.GreaterOrEqual(t, img.Width*img.Height, g*n)
}

func TestGroupAndInstanceColor(t *testing.T) {
	ctx := context.Background()
	group, err := CreateGroupColor(ctx, task.Synchronous(), pairIterator(4, 3), pairColor, nil)
	require.NoError(t, err)
	assert.Len(t, group.TColor.Value().Array, 4*3)
	for k := range 4 {
		assert.Equal(t, uint8(k), group.TColor.Value().Array[k*3])
		assert.Equal(t, uint8(0), group.TColor.Value().Array[k*3+1])
	}

	inst, err := CreateInstanceColor(ctx, task.Synchronous(), pairIterator(4, 3), pairColor, nil)
	require.NoError(t, err)
	assert.Len(t, inst.TColor.Value().Array, 3*3)
	for k := range 3 {
		assert.Equal(t, uint8(k), inst.TColor.Value().Array[k*3+1])
	}
}

func TestUniformColorReusesCells(t *testing.T) {
	first := CreateUniformColor(core.ColorFromHex(0x22EE11), nil)
	assert.Equal(t, string(ColorUniform), first.DColorType.Value())
	assert.Len(t, first.TColor.Value().Array, 3)

	v := first.UColor.Version()
	again := CreateUniformColor(core.ColorFromHex(0xFF0000), first)
	assert.Same(t, first, again)
	assert.Greater(t, again.UColor.Version(), v)
	assert.InDelta(t, 1, again.UColor.Value().X(), 1e-6)
}

func TestColorCancellationKeepsExisting(t *testing.T) {
	existing := CreateUniformColor(core.ColorRed, nil)
	version := existing.TColor.Version()

	ctx, cancel := context.WithCancel(context.Background())
	rt := task.New(task.WithUpdateInterval(0), task.WithObserver(func(p task.Progress) {
		if p.Current >= updateBatch {
			cancel()
		}
	}))

	it := pairIterator(updateBatch, 3)
	data, err := CreateGroupInstanceColor(ctx, rt, it, pairColor, existing)
	require.Error(t, err)
	assert.True(t, task.IsCancelled(err))
	assert.Nil(t, data)

	// nothing of the aborted run was installed
	assert.Equal(t, version, existing.TColor.Version())
	assert.Equal(t, string(ColorUniform), existing.DColorType.Value())
	assert.Len(t, existing.TColor.Value().Array, 3)
}

func TestColorCancelledMidSmallInput(t *testing.T) {
	existing := CreateUniformColor(core.ColorRed, nil)
	version := existing.TColor.Version()

	ctx, cancel := context.WithCancel(context.Background())
	color := func(loc structure.Location) core.Color {
		cancel()
		return pairColor(loc)
	}
	data, err := CreateGroupInstanceColor(ctx, task.Synchronous(), pairIterator(4, 2), color, existing)
	assert.ErrorIs(t, err, task.ErrCancelled)
	assert.Nil(t, data)
	assert.Equal(t, version, existing.TColor.Version())
	assert.Equal(t, string(ColorUniform), existing.DColorType.Value())
}

func TestColorCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CreateGroupColor(ctx, task.Synchronous(), pairIterator(2, 2), pairColor, nil)
	assert.ErrorIs(t, err, task.ErrCancelled)
}

func TestSizes(t *testing.T) {
	size := func(loc structure.Location) float32 { return float32(loc.Element%1000) + 0.5 }

	group := CreateGroupSize(pairIterator(2, 3), size, nil)
	assert.Equal(t, []float32{0.5, 1.5}, group.TSize.Value().Array)
	assert.Equal(t, string(SizeGroup), group.DSizeType.Value())

	gi := CreateGroupInstanceSize(pairIterator(2, 3), size, nil)
	assert.Len(t, gi.TSize.Value().Array, 6)

	inst := CreateInstanceSize(pairIterator(2, 3), func(loc structure.Location) float32 {
		return float32(loc.Element / 1000)
	}, nil)
	assert.Equal(t, []float32{0, 1, 2}, inst.TSize.Value().Array)

	u := CreateUniformSize(2, group)
	assert.Same(t, group, u)
	assert.Equal(t, float32(2), u.USize.Value())
	assert.Equal(t, string(SizeUniform), u.DSizeType.Value())
}

func TestMarkerActions(t *testing.T) {
	m := CreateMarkers(6, nil)
	assert.Len(t, m.TMarker.Value().Array, 6)

	v := m.TMarker.Version()
	assert.True(t, m.Apply(0, 3, MarkerHighlight))
	assert.True(t, m.Apply(2, 4, MarkerSelect))
	assert.Equal(t, []uint8{1, 1, 3, 2, 0, 0}, m.TMarker.Value().Array)
	assert.Greater(t, m.TMarker.Version(), v)

	assert.False(t, m.Apply(4, 6, MarkerDeselect))
	assert.True(t, m.Apply(0, 6, MarkerToggle))
	assert.Equal(t, []uint8{3, 3, 1, 0, 2, 2}, m.TMarker.Value().Array)
	assert.True(t, m.Apply(0, 6, MarkerRemoveHighlight))
	assert.Equal(t, []uint8{2, 2, 0, 0, 2, 2}, m.TMarker.Value().Array)
	assert.True(t, m.Apply(0, 6, MarkerClear))
	assert.Equal(t, make([]uint8, 6), m.TMarker.Value().Array)

	m.Apply(0, 1, MarkerSelect)
	same := CreateMarkers(6, m)
	assert.Same(t, m, same)
	assert.Equal(t, make([]uint8, 6), same.TMarker.Value().Array)

	bigger := CreateMarkers(10, m)
	assert.Len(t, bigger.TMarker.Value().Array, 10)
}

func TestTransformDataReuse(t *testing.T) {
	td := NewTransformData(make([]float32, 32), 2, nil)
	assert.Equal(t, []float32{0, 1}, td.AInstance.Value())
	v := td.ATransform.Version()

	again := NewTransformData(td.ATransform.Value(), 2, td)
	assert.Same(t, td, again)
	assert.Greater(t, again.ATransform.Version(), v)
}
