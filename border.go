package improc

// BorderPolicy selects what a convolution does when a kernel tap references a
// pixel outside the image.
type BorderPolicy uint8

const (
	// LeaveBlack treats outside pixels as 0. Border pixels darken.
	LeaveBlack BorderPolicy = iota

	// LeaveWhite treats outside pixels as the element kind's maximum.
	// Border pixels lighten.
	LeaveWhite

	// LeavePristine copies the source pixel unchanged wherever the kernel
	// footprint leaves the image.
	LeavePristine

	// CropImage only produces the pixels whose kernel footprint stays inside
	// the image. The output is smaller by the kernel half size on each side.
	CropImage

	// CropKernel ignores outside taps. Their weights are removed from the
	// normalization sum for that pixel.
	CropKernel

	// SquashKernel reports outside taps onto the nearest edge pixel, as if
	// the border row or column were duplicated outward.
	SquashKernel

	// MirrorImage samples the image reflected across its edges.
	MirrorImage

	borderPolicyCount
)

// DuplicateBorder is another name for SquashKernel.
const DuplicateBorder = SquashKernel

// DefaultBorderPolicy is the policy used when none is configured.
const DefaultBorderPolicy = SquashKernel

var borderPolicyNames = [borderPolicyCount]string{
	LeaveBlack:    "LeaveBlack",
	LeaveWhite:    "LeaveWhite",
	LeavePristine: "LeavePristine",
	CropImage:     "CropImage",
	CropKernel:    "CropKernel",
	SquashKernel:  "SquashKernel",
	MirrorImage:   "MirrorImage",
}

// IsValid returns true if p is a known policy.
func (p BorderPolicy) IsValid() bool {
	return p < borderPolicyCount
}

// Ordinal returns the integer value of the policy.
func (p BorderPolicy) Ordinal() int {
	return int(p)
}

// String returns the canonical name of the policy.
func (p BorderPolicy) String() string {
	if !p.IsValid() {
		return "Unknown"
	}
	return borderPolicyNames[p]
}

// Samples returns true if the policy maps outside coordinates onto real
// pixels (SquashKernel and MirrorImage).
func (p BorderPolicy) Samples() bool {
	return p == SquashKernel || p == MirrorImage
}

// Map maps coordinate coord on an axis of the given extent into [0, extent).
// In-range coordinates map to themselves. For outside coordinates:
//   - SquashKernel clamps to 0 or extent-1
//   - MirrorImage maps coord < 0 to 1-coord and coord >= extent to
//     2*extent-coord-1, then clamps if the kernel is wider than the image
//   - every other policy returns (coord, false); the tap does not sample
//     the image
//
// For extent = 4, MirrorImage maps -1 to 2, -2 to 3, 4 to 3 and 5 to 2.
func (p BorderPolicy) Map(coord, extent int) (int, bool) {
	if coord >= 0 && coord < extent {
		return coord, true
	}
	switch p {
	case SquashKernel:
		return clampCoord(coord, extent), true
	case MirrorImage:
		return clampCoord(mirrorCoord(coord, extent), extent), true
	default:
		return coord, false
	}
}

func mirrorCoord(coord, extent int) int {
	if coord < 0 {
		return 1 - coord
	}
	if coord >= extent {
		return 2*extent - coord - 1
	}
	return coord
}

// clampCoord clamps coord to [0, extent).
func clampCoord(coord, extent int) int {
	if coord < 0 {
		return 0
	}
	if coord >= extent {
		return extent - 1
	}
	return coord
}

// BorderPolicies returns every policy in ordinal order.
func BorderPolicies() []BorderPolicy {
	out := make([]BorderPolicy, 0, borderPolicyCount)
	for p := BorderPolicy(0); p < borderPolicyCount; p++ {
		out = append(out, p)
	}
	return out
}

// ParseBorderPolicy returns the policy named s, ignoring case and separators.
// "DuplicateBorder" is accepted as SquashKernel.
func ParseBorderPolicy(s string) (BorderPolicy, error) {
	key := foldName(s)
	if key == foldName("DuplicateBorder") {
		return DuplicateBorder, nil
	}
	for p := BorderPolicy(0); p < borderPolicyCount; p++ {
		if foldName(borderPolicyNames[p]) == key {
			return p, nil
		}
	}
	return 0, ErrInvalidBorderPolicy
}
