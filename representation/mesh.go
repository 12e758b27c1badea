package representation

import (
	"context"

	"mol-render/geo"
	"mol-render/geo/mesh"
	"mol-render/gpu"
	"mol-render/render"
	"mol-render/structure"
	"mol-render/task"
	"mol-render/theme"
	"mol-render/valuecell"
)

// CreateUnitsMeshRenderObject builds a render object drawing m once per unit
// of group. Mesh groups index group.Elements. s is the structure the themes
// inspect.
func CreateUnitsMeshRenderObject(ctx context.Context, rt task.Runtime, s *structure.Structure, group *structure.SymmetryGroup, m *mesh.Mesh, props MeshProps) (*render.RenderObject, error) {
	it := ElementIterator(group)
	values, err := createMeshValues(ctx, rt, theme.Context{Structure: s}, m, it, CreateTransforms(group, nil), props)
	if err != nil {
		return nil, err
	}
	return render.NewMeshRenderObject(values, props.state()), nil
}

// CreateComplexMeshRenderObject builds a render object drawing m once, with
// mesh groups indexing every element of s.
func CreateComplexMeshRenderObject(ctx context.Context, rt task.Runtime, s *structure.Structure, m *mesh.Mesh, props MeshProps) (*render.RenderObject, error) {
	it := StructureElementIterator(s)
	values, err := createMeshValues(ctx, rt, theme.Context{Structure: s}, m, it, CreateIdentityTransform(nil), props)
	if err != nil {
		return nil, err
	}
	return render.NewMeshRenderObject(values, props.state()), nil
}

func createMeshValues(ctx context.Context, rt task.Runtime, tctx theme.Context, m *mesh.Mesh, it *geo.LocationIterator, transform *geo.TransformData, props MeshProps) (*render.MeshValues, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	colorTheme, err := theme.NewColorTheme(tctx, props.Color)
	if err != nil {
		return nil, err
	}
	sizeTheme, err := theme.NewSizeTheme(tctx, props.Size)
	if err != nil {
		return nil, err
	}
	highlight, selected, err := props.markerColors()
	if err != nil {
		return nil, err
	}

	color, err := CreateColors(ctx, rt, it, colorTheme, nil)
	if err != nil {
		return nil, err
	}
	size, err := CreateSizes(it, sizeTheme, nil)
	if err != nil {
		return nil, err
	}
	marker := geo.CreateMarkers(it.Count(), nil)

	values := &render.MeshValues{
		APosition: m.VertexBuffer,
		ANormal:   m.NormalBuffer,
		AGroup:    m.GroupBuffer,
		Elements:  m.IndexBuffer,

		TransformData: *transform,
		ColorData:     *color,
		SizeData:      *size,
		MarkerData:    *marker,

		DrawCount:   valuecell.New(m.TriangleCount * 3),
		UGroupCount: valuecell.New(it.GroupCount()),

		UAlpha:          valuecell.New(props.Alpha),
		UHighlightColor: valuecell.New(highlight),
		USelectColor:    valuecell.New(selected),
		DFlatShaded:     valuecell.New(props.FlatShaded),
		DDoubleSided:    valuecell.New(props.DoubleSided),
	}
	gpu.Logger().Debug("mesh values created",
		"triangles", m.TriangleCount,
		"groups", it.GroupCount(),
		"instances", it.InstanceCount(),
		"color", colorTheme.Name,
		"size", sizeTheme.Name)
	return values, nil
}

// UpdateMeshValues applies the props that do not need materialization.
// Unchanged values keep their version.
func UpdateMeshValues(values *render.MeshValues, props MeshProps) error {
	if err := props.Validate(); err != nil {
		return err
	}
	highlight, selected, err := props.markerColors()
	if err != nil {
		return err
	}
	valuecell.UpdateIfChanged(values.UAlpha, props.Alpha)
	valuecell.UpdateIfChanged(values.UHighlightColor, highlight)
	valuecell.UpdateIfChanged(values.USelectColor, selected)
	valuecell.UpdateIfChanged(values.DFlatShaded, props.FlatShaded)
	valuecell.UpdateIfChanged(values.DDoubleSided, props.DoubleSided)
	return nil
}

// UpdateState applies the visibility and blending props.
func UpdateState(state *render.State, props MeshProps) {
	next := props.state()
	state.Visible = next.Visible
	state.Opaque = next.Opaque
}

// UpdateThemes re-materializes colors and sizes of obj in place for new
// theme props. it must be the iterator obj was created with. On error or
// cancellation the object keeps its previous colors.
func UpdateThemes(ctx context.Context, rt task.Runtime, obj *render.RenderObject, s *structure.Structure, it *geo.LocationIterator, props MeshProps) error {
	tctx := theme.Context{Structure: s}
	colorTheme, err := theme.NewColorTheme(tctx, props.Color)
	if err != nil {
		return err
	}
	sizeTheme, err := theme.NewSizeTheme(tctx, props.Size)
	if err != nil {
		return err
	}
	if _, err := CreateColors(ctx, rt, it, colorTheme, &obj.Values.ColorData); err != nil {
		return err
	}
	_, err = CreateSizes(it, sizeTheme, &obj.Values.SizeData)
	return err
}
