package improc

// ChannelProfile describes the number and meaning of channels per pixel.
// The constant value equals the channel count.
type ChannelProfile uint8

const (
	// Gray is a single luminance channel.
	Gray ChannelProfile = 1

	// Rgb is three color channels without alpha.
	Rgb ChannelProfile = 3

	// Rgba is three color channels followed by alpha.
	Rgba ChannelProfile = 4
)

// channelProfiles lists the known profiles in canonical order.
var channelProfiles = [...]ChannelProfile{Gray, Rgb, Rgba}

// ChannelProfiles returns every channel profile in canonical order.
func ChannelProfiles() []ChannelProfile {
	out := make([]ChannelProfile, len(channelProfiles))
	copy(out, channelProfiles[:])
	return out
}

// IsValid returns true if p is a known profile.
func (p ChannelProfile) IsValid() bool {
	return p == Gray || p == Rgb || p == Rgba
}

// Channels returns the number of channels per pixel, or 0 for unknown profiles.
func (p ChannelProfile) Channels() int {
	if !p.IsValid() {
		return 0
	}
	return int(p)
}

// HasAlpha returns true if the last channel carries opacity.
func (p ChannelProfile) HasAlpha() bool {
	return p == Rgba
}

// ColorChannels returns the number of channels the convolution engine
// accumulates. Alpha is excluded.
func (p ChannelProfile) ColorChannels() int {
	if p.HasAlpha() {
		return p.Channels() - 1
	}
	return p.Channels()
}

// String returns the canonical name of the profile.
func (p ChannelProfile) String() string {
	switch p {
	case Gray:
		return "Gray"
	case Rgb:
		return "Rgb"
	case Rgba:
		return "Rgba"
	default:
		return "Unknown"
	}
}

// ParseChannelProfile returns the profile whose name matches s, ignoring case.
func ParseChannelProfile(s string) (ChannelProfile, error) {
	key := foldName(s)
	for _, p := range channelProfiles {
		if foldName(p.String()) == key {
			return p, nil
		}
	}
	return 0, ErrInvalidChannelProfile
}
