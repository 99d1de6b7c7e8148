package improc

import "math"

// Element is the set of Go types that back pixel buffers.
type Element interface {
	uint8 | uint16 | uint32 | int8 | int16 | int32 | float32 | float64
}

// wrapModulus is 2^32. Every integer kind is at most 32 bits wide, so reducing
// modulo 2^32 before conversion keeps the low bits that native wraparound keeps.
const wrapModulus = 1 << 32

// Store converts v to the storage type of kind using that kind's native
// store semantics:
//   - U8Clamped saturates to [0, 255] and rounds half to even
//   - other integer kinds truncate toward zero and wrap modulo 2^bits
//   - floating kinds store v unchanged (F32 loses precision)
//
// NaN stores as 0 for every integer kind.
func Store[T Element](kind ElementKind, v float64) T {
	info := kind.Info()
	if info.IsFloat {
		return T(v)
	}

	if info.IsClamped {
		switch {
		case math.IsNaN(v), v <= info.Min:
			return T(info.Min)
		case v >= info.Max:
			return T(info.Max)
		}
		return T(math.RoundToEven(v))
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Mod(math.Trunc(v), wrapModulus)
	return T(int64(v))
}

// Quantize rounds v to the nearest integer (half away from zero) for integer
// kinds and then stores it with Store. Floating kinds are stored as-is.
func Quantize[T Element](kind ElementKind, v float64) T {
	if !kind.IsFloat() {
		v = math.Round(v)
	}
	return Store[T](kind, v)
}

// backs reports whether T is the storage type of kind.
func backs[T Element](kind ElementKind) bool {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return kind == U8Clamped || kind == U8
	case uint16:
		return kind == U16
	case uint32:
		return kind == U32
	case int8:
		return kind == I8
	case int16:
		return kind == I16
	case int32:
		return kind == I32
	case float32:
		return kind == F32
	case float64:
		return kind == F64
	default:
		return false
	}
}
