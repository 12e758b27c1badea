// Package theme resolves color and size themes: rules mapping a structure
// location to a visual value at a declared granularity.
package theme

import (
	"errors"
	"fmt"
	"sort"

	"mol-render/core"
	"mol-render/structure"
)

// Granularity is how many distinct values a theme produces for a render
// target of groupCount groups and instanceCount instances.
type Granularity string

const (
	// Uniform: one value for everything.
	Uniform Granularity = "uniform"
	// Instance: one value per instance.
	Instance Granularity = "instance"
	// Group: one value per group, shared across instances.
	Group Granularity = "group"
	// GroupInstance: one value per (group, instance) pair.
	GroupInstance Granularity = "groupInstance"
)

var ErrUnknownTheme = errors.New("unknown theme")

// Context is what themes may inspect while they are resolved.
type Context struct {
	Structure *structure.Structure
}

// gradient maps t in [0, 1] onto evenly spaced color stops.
func gradient(stops []core.Color, t float32) core.Color {
	if len(stops) == 1 || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	f := t * float32(len(stops)-1)
	i := int(f)
	return stops[i].Lerp(stops[i+1], f-float32(i))
}

// fraction returns i/(n-1), or 0 when n < 2.
func fraction(i, n int) float32 {
	if n < 2 {
		return 0
	}
	return float32(i) / float32(n-1)
}

func names[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func unknown(kind, name string, known []string) error {
	return fmt.Errorf("%w: %s theme %q (known: %v)", ErrUnknownTheme, kind, name, known)
}
