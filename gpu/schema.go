package gpu

import "maps"

// SpecType is the binding category of a schema entry.
type SpecType string

const (
	SpecAttribute SpecType = "attribute"
	SpecUniform   SpecType = "uniform"
	SpecTexture   SpecType = "texture"
	SpecElements  SpecType = "elements"
	SpecDefine    SpecType = "define"
	// SpecValue entries are render values that never reach the GPU
	// (counts, flags read by the renderer).
	SpecValue SpecType = "value"
)

// Kind is the data shape of a schema entry.
type Kind string

const (
	// array element kinds for attributes and elements
	KindFloat32 Kind = "float32"
	KindUint32  Kind = "uint32"

	// uniform kinds
	KindFloat Kind = "f"
	KindInt   Kind = "i"
	KindBool  Kind = "b"
	KindVec2  Kind = "v2"
	KindVec3  Kind = "v3"
	KindVec4  Kind = "v4"
	KindMat3  Kind = "m3"
	KindMat4  Kind = "m4"

	// texture kinds
	KindImageUint8   Kind = "image-uint8"
	KindImageFloat32 Kind = "image-float32"

	// define and value kinds
	KindBoolean Kind = "boolean"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
)

// Spec declares one named resource of a schema.
type Spec struct {
	Type     SpecType
	Kind     Kind
	ItemSize int
	Divisor  int
	Format   TextureFormat
	Filter   TextureFilter
	// Options lists the accepted values of a string define.
	Options []string
}

func Attribute(kind Kind, itemSize, divisor int) Spec {
	return Spec{Type: SpecAttribute, Kind: kind, ItemSize: itemSize, Divisor: divisor}
}

func Uniform(kind Kind) Spec { return Spec{Type: SpecUniform, Kind: kind} }

func TextureSpec(kind Kind, format TextureFormat, filter TextureFilter) Spec {
	return Spec{Type: SpecTexture, Kind: kind, Format: format, Filter: filter}
}

func Elements(kind Kind) Spec { return Spec{Type: SpecElements, Kind: kind} }

func Define(kind Kind, options ...string) Spec {
	return Spec{Type: SpecDefine, Kind: kind, Options: options}
}

func Value(kind Kind) Spec { return Spec{Type: SpecValue, Kind: kind} }

// Schema maps resource names to their declaration. A schema is fixed for
// the lifetime of every program created from it.
type Schema map[string]Spec

// Merge returns a new schema holding the entries of s and others, later
// schemas winning on name clashes.
func (s Schema) Merge(others ...Schema) Schema {
	out := make(Schema, len(s))
	maps.Copy(out, s)
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// Filter returns the entries of the given type.
func (s Schema) Filter(t SpecType) Schema {
	out := make(Schema)
	for name, spec := range s {
		if spec.Type == t {
			out[name] = spec
		}
	}
	return out
}
