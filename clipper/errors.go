package clipper

import "errors"

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input parameters")

	// ErrInvalidFillRule indicates a FillRule value outside EvenOdd..Negative
	ErrInvalidFillRule = errors.New("invalid fill rule")

	// ErrInvalidClipType indicates a ClipType value outside Intersection..Xor
	ErrInvalidClipType = errors.New("invalid clip type")

	// ErrInvalidJoinType indicates a JoinType value outside Square..Bevel
	ErrInvalidJoinType = errors.New("invalid join type")

	// ErrInvalidEndType indicates an EndType value outside ClosedPolygon..OpenButt
	ErrInvalidEndType = errors.New("invalid end type")

	// ErrInvalidOptions indicates an OffsetOptions value is out of range
	ErrInvalidOptions = errors.New("invalid offset options")
)
