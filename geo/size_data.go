package geo

import (
	"github.com/go-gl/mathgl/mgl32"

	"mol-render/gpu"
	"mol-render/structure"
	"mol-render/valuecell"
)

// SizeType is the granularity of a size array and the value of the
// dSizeType shader define.
type SizeType string

const (
	SizeUniform       SizeType = "uniform"
	SizeInstance      SizeType = "instance"
	SizeGroup         SizeType = "group"
	SizeGroupInstance SizeType = "groupInstance"
)

type SizeFunc func(loc structure.Location) float32

// SizeData are the size values of a geometry.
type SizeData struct {
	USize       *valuecell.Cell[float32]
	TSize       *valuecell.Cell[*gpu.TextureImage[float32]]
	USizeTexDim *valuecell.Cell[mgl32.Vec2]
	DSizeType   *valuecell.Cell[string]
}

func (d *SizeData) install(kind SizeType, value float32, img *gpu.TextureImage[float32]) *SizeData {
	dim := mgl32.Vec2{float32(img.Width), float32(img.Height)}
	if d == nil {
		return &SizeData{
			USize:       valuecell.New(value),
			TSize:       valuecell.New(img),
			USizeTexDim: valuecell.New(dim),
			DSizeType:   valuecell.New(string(kind)),
		}
	}
	valuecell.UpdateIfChanged(d.USize, value)
	d.TSize.Update(img)
	valuecell.UpdateIfChanged(d.USizeTexDim, dim)
	valuecell.UpdateIfChanged(d.DSizeType, string(kind))
	return d
}

func CreateUniformSize(value float32, existing *SizeData) *SizeData {
	img := gpu.NewTextureImage[float32](1, 1)
	img.Array[0] = value
	return existing.install(SizeUniform, value, img)
}

func CreateInstanceSize(it *LocationIterator, size SizeFunc, existing *SizeData) *SizeData {
	it.Reset()
	img := gpu.NewTextureImage[float32](it.InstanceCount(), 1)
	for it.HasNext() {
		v := it.Move()
		img.Array[v.InstanceIndex] = size(v.Location)
		it.SkipInstance()
	}
	return existing.install(SizeInstance, 0, img)
}

func CreateGroupSize(it *LocationIterator, size SizeFunc, existing *SizeData) *SizeData {
	it.Reset()
	img := gpu.NewTextureImage[float32](it.GroupCount(), 1)
	for it.HasNext() && !it.IsNextNewInstance() {
		v := it.Move()
		img.Array[v.GroupIndex] = size(v.Location)
	}
	return existing.install(SizeGroup, 0, img)
}

func CreateGroupInstanceSize(it *LocationIterator, size SizeFunc, existing *SizeData) *SizeData {
	it.Reset()
	img := gpu.NewTextureImage[float32](it.Count(), 1)
	for it.HasNext() {
		v := it.Move()
		img.Array[v.Index] = size(v.Location)
	}
	return existing.install(SizeGroupInstance, 0, img)
}
