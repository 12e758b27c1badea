package gpu

import (
	"fmt"
	"math"
)

type TextureFormat string

const (
	FormatAlpha TextureFormat = "alpha"
	FormatRGB   TextureFormat = "rgb"
	FormatRGBA  TextureFormat = "rgba"
)

func (f TextureFormat) Channels() int {
	switch f {
	case FormatAlpha:
		return 1
	case FormatRGB:
		return 3
	}
	return 4
}

type TextureFilter string

const (
	FilterNearest TextureFilter = "nearest"
	FilterLinear  TextureFilter = "linear"
)

// TextureImage is a 2D image holding one item per entry of a per-group or
// per-instance array. Array holds exactly count*itemSize values; the unused
// tail of the last row is padded when the image is uploaded.
type TextureImage[T uint8 | float32] struct {
	Array  []T
	Width  int
	Height int
}

// CalculateTextureInfo returns the dimensions of the smallest near-square
// image that holds n items.
func CalculateTextureInfo(n int) (width, height int) {
	n = max(n, 1)
	width = int(math.Ceil(math.Sqrt(float64(n))))
	height = int(math.Ceil(float64(n) / float64(width)))
	return width, height
}

// NewTextureImage allocates an image for n items of itemSize values each.
func NewTextureImage[T uint8 | float32](n, itemSize int) *TextureImage[T] {
	w, h := CalculateTextureInfo(n)
	return &TextureImage[T]{Array: make([]T, n*itemSize), Width: w, Height: h}
}

// Count returns the number of items the image holds for itemSize.
func (t *TextureImage[T]) Count(itemSize int) int { return len(t.Array) / itemSize }

// Texture is a 2D GPU texture.
type Texture struct {
	gl     GL
	id     uint32
	kind   Kind
	format TextureFormat
	filter TextureFilter
}

func NewTexture(gl GL, kind Kind, format TextureFormat, filter TextureFilter) (*Texture, error) {
	if kind != KindImageUint8 && kind != KindImageFloat32 {
		return nil, fmt.Errorf("unsupported texture kind %q", kind)
	}
	id := gl.CreateTexture()
	if id == 0 {
		return nil, &ConfigError{Resource: "could not create texture"}
	}
	t := &Texture{gl: gl, id: id, kind: kind, format: format, filter: filter}
	mode := Nearest
	if filter == FilterLinear {
		mode = Linear
	}
	gl.BindTexture(Texture2D, id)
	gl.TexParameteri(Texture2D, TextureMinFilter, mode)
	gl.TexParameteri(Texture2D, TextureMagFilter, mode)
	gl.TexParameteri(Texture2D, TextureWrapS, ClampToEdge)
	gl.TexParameteri(Texture2D, TextureWrapT, ClampToEdge)
	return t, nil
}

func (t *Texture) glFormat() (internal int32, format uint32) {
	float := t.kind == KindImageFloat32
	switch t.format {
	case FormatAlpha:
		if float {
			return R32F, Red
		}
		return R8, Red
	case FormatRGB:
		if float {
			return RGB32F, RGB
		}
		return RGB8, RGB
	}
	if float {
		return RGBA32F, RGBA
	}
	return RGBA8, RGBA
}

// Load uploads a *TextureImage[uint8] or *TextureImage[float32].
func (t *Texture) Load(image any) error {
	internal, format := t.glFormat()
	n := t.format.Channels()
	t.gl.BindTexture(Texture2D, t.id)
	t.gl.PixelStorei(UnpackAlignment, 1)
	switch img := image.(type) {
	case *TextureImage[uint8]:
		if t.kind != KindImageUint8 {
			return &ConfigError{Resource: "texture image", Expected: string(t.kind), Actual: string(KindImageUint8)}
		}
		t.gl.TexImage2D(Texture2D, 0, internal, int32(img.Width), int32(img.Height), format, UnsignedByte, padded(img, n))
	case *TextureImage[float32]:
		if t.kind != KindImageFloat32 {
			return &ConfigError{Resource: "texture image", Expected: string(t.kind), Actual: string(KindImageFloat32)}
		}
		t.gl.TexImage2D(Texture2D, 0, internal, int32(img.Width), int32(img.Height), format, Float, padded(img, n))
	default:
		return fmt.Errorf("unsupported texture image %T", image)
	}
	return nil
}

func padded[T uint8 | float32](img *TextureImage[T], channels int) []T {
	size := img.Width * img.Height * channels
	if len(img.Array) >= size {
		return img.Array[:size]
	}
	out := make([]T, size)
	copy(out, img.Array)
	return out
}

// Bind binds the texture to texture unit unit.
func (t *Texture) Bind(unit uint32) {
	t.gl.ActiveTexture(Texture0 + unit)
	t.gl.BindTexture(Texture2D, t.id)
}

func (t *Texture) Destroy() {
	if t.id == 0 {
		return
	}
	t.gl.DeleteTexture(t.id)
	t.id = 0
}
