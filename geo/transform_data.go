package geo

import "mol-render/valuecell"

// TransformData are the per-instance transforms of a geometry: 16 floats per
// instance, column-major, plus the instance index attribute.
type TransformData struct {
	ATransform    *valuecell.Cell[[]float32]
	AInstance     *valuecell.Cell[[]float32]
	InstanceCount *valuecell.Cell[int]
}

// NewTransformData wraps transform storage for n instances, or updates
// existing in place so its observers see the change.
func NewTransformData(transforms []float32, n int, existing *TransformData) *TransformData {
	instances := make([]float32, n)
	for i := range instances {
		instances[i] = float32(i)
	}
	if existing != nil {
		existing.ATransform.Update(transforms)
		existing.AInstance.Update(instances)
		valuecell.UpdateIfChanged(existing.InstanceCount, n)
		return existing
	}
	return &TransformData{
		ATransform:    valuecell.New(transforms),
		AInstance:     valuecell.New(instances),
		InstanceCount: valuecell.New(n),
	}
}
