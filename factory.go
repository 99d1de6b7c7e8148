package improc

import "fmt"

// constructor builds a zero-initialized buffer for one element kind.
type constructor func(kind ElementKind, profile ChannelProfile, width, height int) (PixelBuffer, error)

// constructors maps each element kind to the constructor of its Buffer type.
var constructors = [elementKindCount]constructor{
	U8Clamped: newPixelBuffer[uint8],
	U8:        newPixelBuffer[uint8],
	U16:       newPixelBuffer[uint16],
	U32:       newPixelBuffer[uint32],
	I8:        newPixelBuffer[int8],
	I16:       newPixelBuffer[int16],
	I32:       newPixelBuffer[int32],
	F32:       newPixelBuffer[float32],
	F64:       newPixelBuffer[float64],
}

func newPixelBuffer[T Element](kind ElementKind, profile ChannelProfile, width, height int) (PixelBuffer, error) {
	b, err := NewBuffer[T](kind, profile, width, height, nil)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// New creates a zero-initialized buffer of type t. The concrete value is a
// *Buffer[T] whose T is the storage type of t.Kind.
func New(t ImageType, width, height int) (PixelBuffer, error) {
	if !t.Kind.IsValid() {
		return nil, ErrInvalidElementKind
	}
	return constructors[t.Kind](t.Kind, t.Profile, width, height)
}

// NewFrom creates a buffer of type t holding a copy of src. src must have
// the same element kind and exactly width*height*channels elements.
func NewFrom(t ImageType, width, height int, src PixelBuffer) (PixelBuffer, error) {
	b, err := New(t, width, height)
	if err != nil {
		return nil, err
	}
	if IsNil(src) {
		return b, nil
	}
	if src.Kind() != t.Kind {
		return nil, fmt.Errorf("%w: cannot copy %s into %s", ErrElementKindMismatch, src.Kind(), t.Kind)
	}
	if err := b.assign(src); err != nil {
		return nil, err
	}
	return b, nil
}

// NewFromValues creates a buffer of type t from a plain numeric sequence,
// converting each value with the kind's store semantics.
func NewFromValues(t ImageType, width, height int, values []float64) (PixelBuffer, error) {
	b, err := New(t, width, height)
	if err != nil {
		return nil, err
	}
	if len(values) != b.Len() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(values), b.Len())
	}
	for i, v := range values {
		b.StoreFloat64(i, v)
	}
	return b, nil
}

// Clone returns a deep copy of b, or nil if b is nil.
func Clone(b PixelBuffer) PixelBuffer {
	if IsNil(b) {
		return nil
	}
	return b.clonePixels()
}

// IsNil reports whether b is nil or holds a nil *Buffer.
func IsNil(b PixelBuffer) bool {
	return b == nil || b.IsNil()
}

// As returns b as a *Buffer[T] if T is its storage type.
func As[T Element](b PixelBuffer) (*Buffer[T], bool) {
	t, ok := b.(*Buffer[T])
	return t, ok
}

// Equal reports whether a and b have the same type, dimensions and elements.
// Float elements are compared with ==, so NaN never equals NaN.
func Equal(a, b PixelBuffer) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if a.Type() != b.Type() || a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.Float64At(i) != b.Float64At(i) {
			return false
		}
	}
	return true
}
