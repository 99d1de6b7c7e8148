package convolution

// Rect is a half-open pixel rectangle [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Width returns the number of columns, or 0 for an empty rectangle.
func (r Rect) Width() int {
	return max(r.X1-r.X0, 0)
}

// Height returns the number of rows, or 0 for an empty rectangle.
func (r Rect) Height() int {
	return max(r.Y1-r.Y0, 0)
}

// Pixels returns the number of pixels in the rectangle.
func (r Rect) Pixels() int {
	return r.Width() * r.Height()
}

// Empty returns true if the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.Pixels() == 0
}

// RegionID names one of the nine areas of the image partition.
type RegionID uint8

// Regions, in row-major order:
//
//	+----+-------+----+
//	| TL |   T   | TR |
//	+----+-------+----+
//	| L  |   C   | R  |
//	+----+-------+----+
//	| BL |   B   | BR |
//	+----+-------+----+
const (
	TopLeft RegionID = iota
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
	regionCount
)

// String returns the region name.
func (id RegionID) String() string {
	switch id {
	case TopLeft:
		return "TopLeft"
	case Top:
		return "Top"
	case TopRight:
		return "TopRight"
	case Left:
		return "Left"
	case Center:
		return "Center"
	case Right:
		return "Right"
	case BottomLeft:
		return "BottomLeft"
	case Bottom:
		return "Bottom"
	case BottomRight:
		return "BottomRight"
	default:
		return "Unknown"
	}
}

// Region is one area of the partition. OutX and OutY report whether kernel
// taps of pixels in the region can fall outside the image on that axis.
type Region struct {
	ID   RegionID
	Rect Rect
	OutX bool
	OutY bool
}

// Margins are the safe margins of an image for a kernel: every tap of a
// pixel in [Left, Right) x [Top, Bottom) stays inside the image.
type Margins struct {
	HalfWidth, HalfHeight    int
	Left, Right, Top, Bottom int
}

// SafeMargins computes the margins for an image of the given size and a
// kernel of size kw x kh. The half sizes use floor division, so even kernels
// are applied asymmetrically with tap offsets in [-half, size-half-1].
func SafeMargins(width, height, kw, kh int) Margins {
	halfW := kw >> 1
	halfH := kh >> 1
	return Margins{
		HalfWidth:  halfW,
		HalfHeight: halfH,
		Left:       halfW,
		Right:      width - halfW,
		Top:        halfH,
		Bottom:     height - halfH,
	}
}

// Partition splits a width x height image into the nine regions used by the
// engine. The regions never overlap and together cover every pixel exactly
// once. When the kernel is larger than the image the center and the strips
// next to it are empty and the corners absorb the remaining pixels.
func Partition(width, height, kw, kh int) [9]Region {
	m := SafeMargins(width, height, kw, kh)

	// Column and row cut points, clamped so that a kernel larger than the
	// image still yields non-overlapping ranges.
	x0 := min(m.Left, width)
	x1 := max(m.Right, x0)
	y0 := min(m.Top, height)
	y1 := max(m.Bottom, y0)

	cols := [3][2]int{{0, x0}, {x0, x1}, {x1, width}}
	rows := [3][2]int{{0, y0}, {y0, y1}, {y1, height}}

	var regions [9]Region
	for ry := range 3 {
		for rx := range 3 {
			id := RegionID(ry*3 + rx)
			regions[id] = Region{
				ID:   id,
				Rect: Rect{X0: cols[rx][0], Y0: rows[ry][0], X1: cols[rx][1], Y1: rows[ry][1]},
				OutX: rx != 1,
				OutY: ry != 1,
			}
		}
	}
	return regions
}
