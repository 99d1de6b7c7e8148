package process

import "github.com/gogpu/improc"

// valueKind is the category of a ValueType.
type valueKind uint8

const (
	kindInvalid valueKind = iota
	kindImage
	kindBool
	kindNumber
	kindBorder
)

// ValueType is the type of a value flowing through a port. Image types carry
// their (kind, profile) pair, so two images of different layouts have
// different value types. ValueType is comparable.
type ValueType struct {
	kind  valueKind
	image improc.ImageType
}

// Value types of non-image ports.
var (
	Bool   = ValueType{kind: kindBool}
	Number = ValueType{kind: kindNumber}
	Border = ValueType{kind: kindBorder}
)

// Image returns the value type of buffers of type t.
func Image(t improc.ImageType) ValueType {
	return ValueType{kind: kindImage, image: t}
}

// Images returns the value types of the given image types.
func Images(types ...improc.ImageType) []ValueType {
	out := make([]ValueType, len(types))
	for i, t := range types {
		out[i] = Image(t)
	}
	return out
}

// IsImage returns true for image value types.
func (v ValueType) IsImage() bool {
	return v.kind == kindImage
}

// ImageType returns the image type of an image value type.
func (v ValueType) ImageType() (improc.ImageType, bool) {
	return v.image, v.kind == kindImage
}

// String returns a readable name for the type.
func (v ValueType) String() string {
	switch v.kind {
	case kindImage:
		return v.image.String() + "Image"
	case kindBool:
		return "Boolean"
	case kindNumber:
		return "Number"
	case kindBorder:
		return "BorderPolicy"
	default:
		return "Invalid"
	}
}

// TypeOf returns the value type of v. It returns false for values that
// cannot flow through a port.
func TypeOf(v any) (ValueType, bool) {
	switch x := v.(type) {
	case improc.PixelBuffer:
		if improc.IsNil(x) {
			return ValueType{}, false
		}
		return Image(x.Type()), true
	case bool:
		return Bool, true
	case improc.BorderPolicy:
		return Border, true
	case int, int32, int64, float32, float64:
		return Number, true
	default:
		return ValueType{}, false
	}
}
