package representation

import (
	"context"
	"fmt"

	"mol-render/geo"
	"mol-render/task"
	"mol-render/theme"
)

// CreateColors materializes t over it at the theme's granularity. It yields
// to rt while iterating; on cancellation existing is left untouched.
func CreateColors(ctx context.Context, rt task.Runtime, it *geo.LocationIterator, t theme.ColorTheme, existing *geo.ColorData) (*geo.ColorData, error) {
	switch t.Granularity {
	case theme.Uniform:
		return geo.CreateUniformColor(t.Value, existing), nil
	case theme.Instance:
		return geo.CreateInstanceColor(ctx, rt, it, t.Color, existing)
	case theme.Group:
		return geo.CreateGroupColor(ctx, rt, it, t.Color, existing)
	case theme.GroupInstance:
		return geo.CreateGroupInstanceColor(ctx, rt, it, t.Color, existing)
	}
	return nil, fmt.Errorf("color theme %q: unknown granularity %q", t.Name, t.Granularity)
}

// CreateSizes materializes t over it at the theme's granularity.
func CreateSizes(it *geo.LocationIterator, t theme.SizeTheme, existing *geo.SizeData) (*geo.SizeData, error) {
	switch t.Granularity {
	case theme.Uniform:
		return geo.CreateUniformSize(t.Value, existing), nil
	case theme.Instance:
		return geo.CreateInstanceSize(it, t.Size, existing), nil
	case theme.Group:
		return geo.CreateGroupSize(it, t.Size, existing), nil
	case theme.GroupInstance:
		return geo.CreateGroupInstanceSize(it, t.Size, existing), nil
	}
	return nil, fmt.Errorf("size theme %q: unknown granularity %q", t.Name, t.Granularity)
}
