package gpu

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

var nextShaderCodeID atomic.Int64

// ShaderCode is a vertex/fragment source pair with a process-unique identity.
// The identity, not the text, is what program cache keys are built from.
type ShaderCode struct {
	ID   int
	Vert string
	Frag string
}

// NewShaderCode assigns a fresh identity to a source pair.
func NewShaderCode(vert, frag string) ShaderCode {
	return ShaderCode{ID: int(nextShaderCodeID.Add(1)), Vert: vert, Frag: frag}
}

type defineKind uint8

const (
	defineBool defineKind = iota
	defineNumber
	defineString
)

// DefineValue is a boolean, number or string preprocessor define.
type DefineValue struct {
	kind defineKind
	b    bool
	n    float64
	s    string
}

func DefineBool(v bool) DefineValue      { return DefineValue{kind: defineBool, b: v} }
func DefineNumber(v float64) DefineValue { return DefineValue{kind: defineNumber, n: v} }
func DefineString(v string) DefineValue  { return DefineValue{kind: defineString, s: v} }

// DefineValueOf converts a plain Go value held by a value cell.
func DefineValueOf(v any) (DefineValue, error) {
	switch x := v.(type) {
	case DefineValue:
		return x, nil
	case bool:
		return DefineBool(x), nil
	case string:
		return DefineString(x), nil
	case int:
		return DefineNumber(float64(x)), nil
	case int32:
		return DefineNumber(float64(x)), nil
	case float32:
		return DefineNumber(float64(x)), nil
	case float64:
		return DefineNumber(x), nil
	}
	return DefineValue{}, fmt.Errorf("unsupported define value type %T", v)
}

func (v DefineValue) String() string {
	switch v.kind {
	case defineBool:
		return strconv.FormatBool(v.b)
	case defineNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	}
	return v.s
}

// DefineValues maps define names to values.
type DefineValues map[string]DefineValue

// sortedNames returns the define names in a stable order.
func (d DefineValues) sortedNames() []string {
	names := make([]string, 0, len(d))
	for k := range d {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// definesCode renders the define block:
//
//	bool true   -> #define NAME
//	number      -> #define NAME value
//	string      -> #define NAME_value
//
// A false bool emits nothing so #ifdef NAME tests work.
func definesCode(d DefineValues) string {
	var sb strings.Builder
	for _, name := range d.sortedNames() {
		v := d[name]
		switch v.kind {
		case defineBool:
			if v.b {
				fmt.Fprintf(&sb, "#define %s\n", name)
			}
		case defineNumber:
			fmt.Fprintf(&sb, "#define %s %s\n", name, v)
		case defineString:
			fmt.Fprintf(&sb, "#define %s_%s\n", name, v.s)
		}
	}
	return sb.String()
}

// AddShaderDefines returns code with the version directive of ctx and the
// define block prepended to both stages. The identity is preserved.
func AddShaderDefines(ctx *Context, defines DefineValues, code ShaderCode) ShaderCode {
	header := definesCode(defines)
	prefix := ""
	if ctx.glslVersion != "" {
		prefix = ctx.glslVersion + "\n"
	}
	return ShaderCode{
		ID:   code.ID,
		Vert: prefix + header + code.Vert,
		Frag: prefix + header + code.Frag,
	}
}
