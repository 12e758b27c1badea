package gpu

import "fmt"

// AttribGLType returns the GL type a float attribute of itemSize components
// is declared with in GLSL. Arrays of either element kind are read as floats
// by the shader.
func AttribGLType(itemSize int) (uint32, bool) {
	switch itemSize {
	case 1:
		return Float, true
	case 2:
		return FloatVec2, true
	case 3:
		return FloatVec3, true
	case 4:
		return FloatVec4, true
	case 16:
		return FloatMat4, true
	}
	return 0, false
}

func componentType(kind Kind) (uint32, error) {
	switch kind {
	case KindFloat32:
		return Float, nil
	case KindUint32:
		return UnsignedInt, nil
	}
	return 0, fmt.Errorf("unsupported array kind %q", kind)
}

// arrayLen returns the element count of a supported typed array.
func arrayLen(array any) (int, error) {
	switch a := array.(type) {
	case []float32:
		return len(a), nil
	case []uint32:
		return len(a), nil
	}
	return 0, fmt.Errorf("unsupported array type %T", array)
}

// AttributeBuffer is a vertex buffer bound to one attribute.
type AttributeBuffer struct {
	gl        GL
	id        uint32
	xtype     uint32
	itemSize  int
	divisor   int
	length    int
	allocated int
}

// NewAttributeBuffer uploads array (a []float32 or []uint32) into a new
// vertex buffer.
func NewAttributeBuffer(gl GL, array any, kind Kind, itemSize, divisor int) (*AttributeBuffer, error) {
	xtype, err := componentType(kind)
	if err != nil {
		return nil, err
	}
	if _, ok := AttribGLType(itemSize); !ok {
		return nil, fmt.Errorf("unsupported attribute item size %d", itemSize)
	}
	id := gl.CreateBuffer()
	if id == 0 {
		return nil, &ConfigError{Resource: "could not create vertex buffer"}
	}
	b := &AttributeBuffer{gl: gl, id: id, xtype: xtype, itemSize: itemSize, divisor: divisor}
	if err := b.UpdateData(array); err != nil {
		gl.DeleteBuffer(id)
		return nil, err
	}
	return b, nil
}

// UpdateData replaces the buffer contents. Data that fits the current
// allocation is written in place.
func (b *AttributeBuffer) UpdateData(array any) error {
	n, err := arrayLen(array)
	if err != nil {
		return err
	}
	b.gl.BindBuffer(ArrayBuffer, b.id)
	if n <= b.allocated && n > 0 {
		b.gl.BufferSubData(ArrayBuffer, 0, n*4, array)
	} else {
		b.gl.BufferData(ArrayBuffer, n*4, array, DynamicDraw)
		b.allocated = n
	}
	b.length = n
	return nil
}

// Length returns the number of array elements (not items) in the buffer.
func (b *AttributeBuffer) Length() int { return b.length }

// Bind points attribute location loc at this buffer. A 16-component item
// occupies four consecutive vec4 locations.
func (b *AttributeBuffer) Bind(loc int32) {
	gl := b.gl
	gl.BindBuffer(ArrayBuffer, b.id)
	if b.itemSize == 16 {
		const stride = 16 * 4
		for i := range 4 {
			l := uint32(loc) + uint32(i)
			gl.EnableVertexAttribArray(l)
			gl.VertexAttribPointer(l, 4, b.xtype, false, stride, i*16)
			gl.VertexAttribDivisor(l, uint32(b.divisor))
		}
		return
	}
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(b.itemSize), b.xtype, false, 0, 0)
	gl.VertexAttribDivisor(uint32(loc), uint32(b.divisor))
}

func (b *AttributeBuffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.gl.DeleteBuffer(b.id)
	b.id = 0
}

// ElementsBuffer is an index buffer of uint32 elements.
type ElementsBuffer struct {
	gl     GL
	id     uint32
	length int
}

func NewElementsBuffer(gl GL, indices []uint32) (*ElementsBuffer, error) {
	id := gl.CreateBuffer()
	if id == 0 {
		return nil, &ConfigError{Resource: "could not create element buffer"}
	}
	b := &ElementsBuffer{gl: gl, id: id}
	b.UpdateData(indices)
	return b, nil
}

func (b *ElementsBuffer) UpdateData(indices []uint32) {
	b.gl.BindBuffer(ElementArrayBuffer, b.id)
	b.gl.BufferData(ElementArrayBuffer, len(indices)*4, indices, StaticDraw)
	b.length = len(indices)
}

// Bind makes this the element buffer of the bound vertex array.
func (b *ElementsBuffer) Bind() { b.gl.BindBuffer(ElementArrayBuffer, b.id) }

func (b *ElementsBuffer) Length() int { return b.length }

func (b *ElementsBuffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.gl.DeleteBuffer(b.id)
	b.id = 0
}
