package geo

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"mol-render/core"
	"mol-render/gpu"
	"mol-render/structure"
	"mol-render/task"
	"mol-render/valuecell"
)

// ColorType is the granularity of a color array. It doubles as the value of
// the dColorType shader define.
type ColorType string

const (
	ColorUniform       ColorType = "uniform"
	ColorInstance      ColorType = "instance"
	ColorGroup         ColorType = "group"
	ColorGroupInstance ColorType = "groupInstance"
)

// ColorFunc returns the color of one location.
type ColorFunc func(loc structure.Location) core.Color

// ColorData are the color values of a geometry.
type ColorData struct {
	UColor       *valuecell.Cell[mgl32.Vec3]
	TColor       *valuecell.Cell[*gpu.TextureImage[uint8]]
	UColorTexDim *valuecell.Cell[mgl32.Vec2]
	DColorType   *valuecell.Cell[string]
}

// install swaps a finished image into d, or creates d.
func (d *ColorData) install(kind ColorType, value mgl32.Vec3, img *gpu.TextureImage[uint8]) *ColorData {
	dim := mgl32.Vec2{float32(img.Width), float32(img.Height)}
	if d == nil {
		return &ColorData{
			UColor:       valuecell.New(value),
			TColor:       valuecell.New(img),
			UColorTexDim: valuecell.New(dim),
			DColorType:   valuecell.New(string(kind)),
		}
	}
	valuecell.UpdateIfChanged(d.UColor, value)
	d.TColor.Update(img)
	valuecell.UpdateIfChanged(d.UColorTexDim, dim)
	valuecell.UpdateIfChanged(d.DColorType, string(kind))
	return d
}

func putColor(arr []uint8, i int, c core.Color) {
	arr[i*3], arr[i*3+1], arr[i*3+2] = c.RGB8()
}

// CreateUniformColor sets a single broadcast color.
func CreateUniformColor(value core.Color, existing *ColorData) *ColorData {
	img := gpu.NewTextureImage[uint8](1, 3)
	putColor(img.Array, 0, value)
	return existing.install(ColorUniform, value.Vec3(), img)
}

// CreateInstanceColor computes one color per instance from the first
// location of each instance.
func CreateInstanceColor(ctx context.Context, rt task.Runtime, it *LocationIterator, color ColorFunc, existing *ColorData) (*ColorData, error) {
	it.Reset()
	img := gpu.NewTextureImage[uint8](it.InstanceCount(), 3)
	for i := 0; it.HasNext(); i++ {
		if err := checkpoint(ctx, rt, "Creating instance colors", i, it.InstanceCount()); err != nil {
			return nil, err
		}
		v := it.Move()
		putColor(img.Array, v.InstanceIndex, color(v.Location))
		it.SkipInstance()
	}
	if err := task.Check(ctx); err != nil {
		return nil, err
	}
	return existing.install(ColorInstance, mgl32.Vec3{}, img), nil
}

// CreateGroupColor computes one color per group from the first instance.
func CreateGroupColor(ctx context.Context, rt task.Runtime, it *LocationIterator, color ColorFunc, existing *ColorData) (*ColorData, error) {
	it.Reset()
	img := gpu.NewTextureImage[uint8](it.GroupCount(), 3)
	for i := 0; it.HasNext() && !it.IsNextNewInstance(); i++ {
		if err := checkpoint(ctx, rt, "Creating group colors", i, it.GroupCount()); err != nil {
			return nil, err
		}
		v := it.Move()
		putColor(img.Array, v.GroupIndex, color(v.Location))
	}
	if err := task.Check(ctx); err != nil {
		return nil, err
	}
	return existing.install(ColorGroup, mgl32.Vec3{}, img), nil
}

// CreateGroupInstanceColor computes a color for every (group, instance)
// pair, stored at the iterator index.
func CreateGroupInstanceColor(ctx context.Context, rt task.Runtime, it *LocationIterator, color ColorFunc, existing *ColorData) (*ColorData, error) {
	it.Reset()
	n := it.Count()
	img := gpu.NewTextureImage[uint8](n, 3)
	for i := 0; it.HasNext(); i++ {
		if err := checkpoint(ctx, rt, "Creating group instance colors", i, n); err != nil {
			return nil, err
		}
		v := it.Move()
		putColor(img.Array, v.Index, color(v.Location))
	}
	if err := task.Check(ctx); err != nil {
		return nil, err
	}
	return existing.install(ColorGroupInstance, mgl32.Vec3{}, img), nil
}
