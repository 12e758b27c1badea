package render

import "sync/atomic"

var nextObjectID atomic.Int64

type ObjectType string

const ObjectMesh ObjectType = "mesh"

// State is the per-object render state that is not part of the shader
// inputs.
type State struct {
	Visible  bool
	Pickable bool
	// Opaque objects are drawn without blending and write depth.
	Opaque bool
}

// DefaultState is visible, pickable and opaque.
func DefaultState() State {
	return State{Visible: true, Pickable: true, Opaque: true}
}

// RenderObject is a typed bag of values ready to be turned into a draw.
type RenderObject struct {
	ID     int
	Type   ObjectType
	Values *MeshValues
	State  State
}

// NewMeshRenderObject wraps mesh values.
func NewMeshRenderObject(values *MeshValues, state State) *RenderObject {
	return &RenderObject{
		ID:     int(nextObjectID.Add(1)),
		Type:   ObjectMesh,
		Values: values,
		State:  state,
	}
}
