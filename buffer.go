package improc

import "fmt"

// PixelBuffer is the kind-independent view of a Buffer. Every *Buffer[T]
// implements it; the interface is sealed so that code holding a PixelBuffer
// can recover the concrete buffer with a type switch.
type PixelBuffer interface {
	Type() ImageType
	Kind() ElementKind
	Profile() ChannelProfile
	Width() int
	Height() int
	Channels() int
	StrideX() int
	StrideY() int
	Len() int

	// IsNil reports whether the interface holds a nil *Buffer.
	IsNil() bool

	// Float64At returns the element at linear index i widened to float64.
	Float64At(i int) float64

	// StoreFloat64 stores v at linear index i using the kind's store semantics.
	StoreFloat64(i int, v float64)

	clonePixels() PixelBuffer
	assign(src PixelBuffer) error
	reset()
}

// Buffer is a typed, channel-interleaved raster stored row-major in a single
// slice of length width*height*channels.
//
// Element (x, y, c) lives at index y*StrideY() + x*StrideX() + c. The strides
// are derived from width and the profile and are never stored separately.
//
// Thread safety: Buffer is not safe for concurrent mutation.
type Buffer[T Element] struct {
	kind    ElementKind
	profile ChannelProfile
	width   int
	height  int
	data    []T
}

// NewBuffer creates a buffer of the given kind and profile. T must be the
// storage type of kind. If data is non-nil it must hold exactly
// width*height*channels elements and is copied; otherwise the buffer is
// zero-initialized.
func NewBuffer[T Element](kind ElementKind, profile ChannelProfile, width, height int, data []T) (*Buffer[T], error) {
	if !kind.IsValid() {
		return nil, ErrInvalidElementKind
	}
	if !backs[T](kind) {
		var zero T
		return nil, fmt.Errorf("%w: %s is not stored as %T", ErrElementKindMismatch, kind, zero)
	}
	if !profile.IsValid() {
		return nil, ErrInvalidChannelProfile
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimension, width, height)
	}

	n := width * height * profile.Channels()
	if data != nil && len(data) != n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(data), n)
	}

	b := &Buffer[T]{
		kind:    kind,
		profile: profile,
		width:   width,
		height:  height,
		data:    make([]T, n),
	}
	copy(b.data, data)
	return b, nil
}

// FromValues creates a buffer from a plain numeric sequence. Each value is
// converted with the kind's store semantics (see Store).
func FromValues[T Element](kind ElementKind, profile ChannelProfile, width, height int, values []float64) (*Buffer[T], error) {
	b, err := NewBuffer[T](kind, profile, width, height, nil)
	if err != nil {
		return nil, err
	}
	if len(values) != len(b.data) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(values), len(b.data))
	}
	for i, v := range values {
		b.data[i] = Store[T](kind, v)
	}
	return b, nil
}

// Type returns the (kind, profile) pair of the buffer.
func (b *Buffer[T]) Type() ImageType {
	return ImageType{Kind: b.kind, Profile: b.profile}
}

// Kind returns the element kind.
func (b *Buffer[T]) Kind() ElementKind { return b.kind }

// Profile returns the channel profile.
func (b *Buffer[T]) Profile() ChannelProfile { return b.profile }

// Width returns the width in pixels.
func (b *Buffer[T]) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer[T]) Height() int { return b.height }

// Channels returns the number of channels per pixel.
func (b *Buffer[T]) Channels() int { return b.profile.Channels() }

// StrideX returns the element offset between horizontally adjacent pixels.
func (b *Buffer[T]) StrideX() int { return b.profile.Channels() }

// StrideY returns the element offset between vertically adjacent pixels.
func (b *Buffer[T]) StrideY() int { return b.width * b.profile.Channels() }

// Len returns the number of elements in the buffer.
func (b *Buffer[T]) Len() int { return len(b.data) }

// IsNil reports whether b is a nil pointer.
func (b *Buffer[T]) IsNil() bool { return b == nil }

// Data returns the backing slice. Writes through it modify the buffer.
func (b *Buffer[T]) Data() []T { return b.data }

// Index returns the linear index of channel c of pixel (x, y).
// No bounds checking is performed.
func (b *Buffer[T]) Index(x, y, c int) int {
	return y*b.StrideY() + x*b.StrideX() + c
}

// At returns channel c of pixel (x, y). Coordinates are not validated beyond
// the slice bounds check; use AtChecked when they may be out of range.
func (b *Buffer[T]) At(x, y, c int) T {
	return b.data[b.Index(x, y, c)]
}

// Set stores v in channel c of pixel (x, y) without validating coordinates.
func (b *Buffer[T]) Set(x, y, c int, v T) {
	b.data[b.Index(x, y, c)] = v
}

// inBounds reports whether (x, y, c) addresses an element of the buffer.
func (b *Buffer[T]) inBounds(x, y, c int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height && c >= 0 && c < b.profile.Channels()
}

// AtChecked is the bounds-checked variant of At.
func (b *Buffer[T]) AtChecked(x, y, c int) (T, error) {
	if !b.inBounds(x, y, c) {
		var zero T
		return zero, fmt.Errorf("%w: (%d, %d, %d) in %dx%d %s", ErrOutOfBounds, x, y, c, b.width, b.height, b.Type())
	}
	return b.At(x, y, c), nil
}

// SetChecked is the bounds-checked variant of Set.
func (b *Buffer[T]) SetChecked(x, y, c int, v T) error {
	if !b.inBounds(x, y, c) {
		return fmt.Errorf("%w: (%d, %d, %d) in %dx%d %s", ErrOutOfBounds, x, y, c, b.width, b.height, b.Type())
	}
	b.Set(x, y, c, v)
	return nil
}

// Pixel returns the channels of pixel (x, y) as a subslice of the buffer.
// Returns nil if the coordinates are out of bounds.
func (b *Buffer[T]) Pixel(x, y int) []T {
	if !b.inBounds(x, y, 0) {
		return nil
	}
	i := b.Index(x, y, 0)
	return b.data[i : i+b.StrideX()]
}

// Row returns the elements of row y. Returns nil if y is out of bounds.
func (b *Buffer[T]) Row(y int) []T {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.StrideY()
	return b.data[start : start+b.StrideY()]
}

// Float64At returns the element at linear index i widened to float64.
func (b *Buffer[T]) Float64At(i int) float64 {
	return float64(b.data[i])
}

// StoreFloat64 stores v at linear index i using the kind's store semantics.
func (b *Buffer[T]) StoreFloat64(i int, v float64) {
	b.data[i] = Store[T](b.kind, v)
}

// Fill sets every channel of every pixel to v.
func (b *Buffer[T]) Fill(v T) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Clear sets every element to zero.
func (b *Buffer[T]) Clear() {
	clear(b.data)
}

func (b *Buffer[T]) reset() { b.Clear() }

// FillPixel sets every pixel to the given channel values. Extra values are
// ignored; missing channels are left unchanged.
func (b *Buffer[T]) FillPixel(values ...T) {
	n := min(len(values), b.StrideX())
	for i := 0; i < len(b.data); i += b.StrideX() {
		copy(b.data[i:i+n], values[:n])
	}
}

// Clone creates a deep copy of the buffer.
func (b *Buffer[T]) Clone() *Buffer[T] {
	data := make([]T, len(b.data))
	copy(data, b.data)
	return &Buffer[T]{
		kind:    b.kind,
		profile: b.profile,
		width:   b.width,
		height:  b.height,
		data:    data,
	}
}

func (b *Buffer[T]) clonePixels() PixelBuffer {
	return b.Clone()
}

// assign copies the elements of src into b. src must be a buffer of the same
// storage type and length.
func (b *Buffer[T]) assign(src PixelBuffer) error {
	s, ok := src.(*Buffer[T])
	if !ok || s.kind != b.kind {
		return fmt.Errorf("%w: cannot copy %s into %s", ErrElementKindMismatch, src.Kind(), b.kind)
	}
	if len(s.data) != len(b.data) {
		return fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(s.data), len(b.data))
	}
	copy(b.data, s.data)
	return nil
}

// String returns a short description such as "Uint8ClampedRgba 640x480".
func (b *Buffer[T]) String() string {
	return fmt.Sprintf("%s %dx%d", b.Type(), b.width, b.height)
}
