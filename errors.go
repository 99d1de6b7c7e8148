package improc

import "errors"

// Construction errors.
var (
	// ErrDimension is returned when width or height is non-positive,
	// or when a destination buffer does not have the expected size.
	ErrDimension = errors.New("improc: invalid dimensions")

	// ErrDataLength is returned when initial data does not hold exactly
	// width*height*channels elements.
	ErrDataLength = errors.New("improc: data length does not match dimensions")

	// ErrInvalidElementKind is returned for unknown element kinds.
	ErrInvalidElementKind = errors.New("improc: invalid element kind")

	// ErrInvalidChannelProfile is returned for unknown channel profiles.
	ErrInvalidChannelProfile = errors.New("improc: invalid channel profile")

	// ErrOutOfBounds is returned by checked accessors for coordinates
	// outside the buffer.
	ErrOutOfBounds = errors.New("improc: coordinates out of bounds")
)

// Configuration errors.
var (
	// ErrKernelSize is returned when a kernel has a non-positive dimension
	// or is too large for the requested border policy.
	ErrKernelSize = errors.New("improc: invalid kernel size")

	// ErrChannelProfileMismatch is returned when a kernel is not Gray or when
	// input and output profiles differ.
	ErrChannelProfileMismatch = errors.New("improc: channel profile mismatch")

	// ErrElementKindMismatch is returned when a buffer's element kind cannot
	// represent the values it is asked to hold.
	ErrElementKindMismatch = errors.New("improc: element kind mismatch")

	// ErrInvalidBorderPolicy is returned for unknown border policies.
	ErrInvalidBorderPolicy = errors.New("improc: invalid border policy")
)
