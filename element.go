package improc

import "math"

// ElementKind identifies the numeric type stored in each channel of a pixel.
// It determines the backing Go type and how out-of-range values are stored.
type ElementKind uint8

const (
	// U8Clamped is 8-bit unsigned storage that saturates to [0, 255].
	// This is the native layout of canvas pixel data.
	U8Clamped ElementKind = iota

	// U8 is 8-bit unsigned storage with wraparound.
	U8

	// U16 is 16-bit unsigned storage with wraparound.
	U16

	// U32 is 32-bit unsigned storage with wraparound.
	U32

	// I8 is 8-bit signed storage with wraparound.
	I8

	// I16 is 16-bit signed storage with wraparound.
	I16

	// I32 is 32-bit signed storage with wraparound.
	I32

	// F32 is 32-bit floating point storage.
	F32

	// F64 is 64-bit floating point storage.
	F64

	// elementKindCount is the number of element kinds (for internal use).
	elementKindCount
)

// ElementKindInfo contains metadata about an element kind.
type ElementKindInfo struct {
	// Name is the canonical name used in image type names (e.g. "Uint8Clamped").
	Name string

	// BytesPerElement is the storage size of one channel value.
	BytesPerElement int

	// Bits is the width of integer kinds; 0 for floating kinds.
	Bits int

	// IsFloat indicates floating point storage (no rounding on store).
	IsFloat bool

	// IsSigned indicates a signed integer kind.
	IsSigned bool

	// IsClamped indicates that stores saturate instead of wrapping.
	IsClamped bool

	// Min and Max bound the nominal channel range. Floating kinds use [0, 1].
	// Max is also the value used for "white" and for opaque alpha.
	Min float64
	Max float64

	// Bias is the midpoint of the value range. It is added to the result of
	// zero-sum kernels so that edge responses stay centered.
	Bias float64
}

// elementKindTable contains metadata for each element kind.
var elementKindTable = [elementKindCount]ElementKindInfo{
	U8Clamped: {
		Name:            "Uint8Clamped",
		BytesPerElement: 1,
		Bits:            8,
		IsClamped:       true,
		Min:             0,
		Max:             math.MaxUint8,
		Bias:            0x80,
	},
	U8: {
		Name:            "Uint8",
		BytesPerElement: 1,
		Bits:            8,
		Min:             0,
		Max:             math.MaxUint8,
		Bias:            0x80,
	},
	U16: {
		Name:            "Uint16",
		BytesPerElement: 2,
		Bits:            16,
		Min:             0,
		Max:             math.MaxUint16,
		Bias:            0x8000,
	},
	U32: {
		Name:            "Uint32",
		BytesPerElement: 4,
		Bits:            32,
		Min:             0,
		Max:             math.MaxUint32,
		Bias:            0x80000000,
	},
	I8: {
		Name:            "Int8",
		BytesPerElement: 1,
		Bits:            8,
		IsSigned:        true,
		Min:             math.MinInt8,
		Max:             math.MaxInt8,
	},
	I16: {
		Name:            "Int16",
		BytesPerElement: 2,
		Bits:            16,
		IsSigned:        true,
		Min:             math.MinInt16,
		Max:             math.MaxInt16,
	},
	I32: {
		Name:            "Int32",
		BytesPerElement: 4,
		Bits:            32,
		IsSigned:        true,
		Min:             math.MinInt32,
		Max:             math.MaxInt32,
	},
	F32: {
		Name:            "Float32",
		BytesPerElement: 4,
		IsFloat:         true,
		IsSigned:        true,
		Min:             0,
		Max:             1,
		Bias:            0.5,
	},
	F64: {
		Name:            "Float64",
		BytesPerElement: 8,
		IsFloat:         true,
		IsSigned:        true,
		Min:             0,
		Max:             1,
		Bias:            0.5,
	},
}

// Info returns the ElementKindInfo for this kind.
func (k ElementKind) Info() ElementKindInfo {
	if k >= elementKindCount {
		return ElementKindInfo{}
	}
	return elementKindTable[k]
}

// IsValid returns true if k is a known element kind.
func (k ElementKind) IsValid() bool {
	return k < elementKindCount
}

// IsFloat returns true for floating point kinds.
func (k ElementKind) IsFloat() bool {
	return k.Info().IsFloat
}

// BytesPerElement returns the storage size of one channel value.
func (k ElementKind) BytesPerElement() int {
	return k.Info().BytesPerElement
}

// Max returns the maximum channel value (white, opaque alpha).
func (k ElementKind) Max() float64 {
	return k.Info().Max
}

// Bias returns the midpoint of the value range.
func (k ElementKind) Bias() float64 {
	return k.Info().Bias
}

// String returns the canonical name of the kind.
func (k ElementKind) String() string {
	if !k.IsValid() {
		return "Unknown"
	}
	return elementKindTable[k].Name
}

// ElementKinds returns every element kind in declaration order.
func ElementKinds() []ElementKind {
	kinds := make([]ElementKind, 0, elementKindCount)
	for k := ElementKind(0); k < elementKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseElementKind returns the kind whose canonical name matches s,
// ignoring case.
func ParseElementKind(s string) (ElementKind, error) {
	key := foldName(s)
	for k := ElementKind(0); k < elementKindCount; k++ {
		if foldName(elementKindTable[k].Name) == key {
			return k, nil
		}
	}
	return 0, ErrInvalidElementKind
}
