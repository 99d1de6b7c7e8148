package improc

// ImageType identifies a pixel buffer layout: an element kind paired with a
// channel profile. ImageType values are comparable and are used as map keys
// and for type checks in filter pipelines.
type ImageType struct {
	Kind    ElementKind
	Profile ChannelProfile
}

// Commonly used image types.
var (
	// CanvasRGBA is the layout of canvas and image.NRGBA pixel data.
	CanvasRGBA = ImageType{Kind: U8Clamped, Profile: Rgba}

	// Float32Gray is the default kernel layout.
	Float32Gray = ImageType{Kind: F32, Profile: Gray}

	// Float64Gray is the double precision kernel layout.
	Float64Gray = ImageType{Kind: F64, Profile: Gray}
)

// IsValid returns true if both the kind and the profile are known.
func (t ImageType) IsValid() bool {
	return t.Kind.IsValid() && t.Profile.IsValid()
}

// IsKernel returns true if buffers of this type can hold convolution weights.
func (t ImageType) IsKernel() bool {
	return t.Profile == Gray && t.Kind.IsFloat()
}

// String returns the type name, e.g. "Uint8ClampedRgba".
func (t ImageType) String() string {
	return t.Kind.String() + t.Profile.String()
}

// imageTypes is the full (kind, profile) table, built once at startup.
var imageTypes = buildImageTypes()

func buildImageTypes() []ImageType {
	types := make([]ImageType, 0, int(elementKindCount)*len(channelProfiles))
	for k := ElementKind(0); k < elementKindCount; k++ {
		for _, p := range channelProfiles {
			types = append(types, ImageType{Kind: k, Profile: p})
		}
	}
	return types
}

// AllImageTypes returns every supported image type ordered by kind, then
// profile. The returned slice is a copy.
func AllImageTypes() []ImageType {
	out := make([]ImageType, len(imageTypes))
	copy(out, imageTypes)
	return out
}

// ImageTypesOfKind returns the image types with the given element kind.
func ImageTypesOfKind(k ElementKind) []ImageType {
	var out []ImageType
	for _, t := range imageTypes {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// ImageTypesOfProfile returns the image types with the given channel profile.
func ImageTypesOfProfile(p ChannelProfile) []ImageType {
	var out []ImageType
	for _, t := range imageTypes {
		if t.Profile == p {
			out = append(out, t)
		}
	}
	return out
}
