package geometry

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used when comparing layout coordinates.
const Epsilon = 1e-5

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// RectFromSize constructs a Rect at the origin with the given size.
func RectFromSize(size Size) Rect {
	return RectFromLTWH(0, 0, size.Width, size.Height)
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Position returns the top-left corner.
func (r Rect) Position() Offset {
	return Offset{X: r.Left, Y: r.Top}
}

// WithWidth returns a copy of r with the same origin and a new width.
func (r Rect) WithWidth(width float64) Rect {
	return RectFromLTWH(r.Left, r.Top, width, r.Height())
}

// WithHeight returns a copy of r with the same origin and a new height.
func (r Rect) WithHeight(height float64) Rect {
	return RectFromLTWH(r.Left, r.Top, r.Width(), height)
}

// IsCloseTo reports whether every edge of r is within Epsilon of other.
// Two infinite edges of the same sign are considered close.
func (r Rect) IsCloseTo(other Rect) bool {
	return AreClose(r.Left, other.Left) &&
		AreClose(r.Top, other.Top) &&
		AreClose(r.Width(), other.Width()) &&
		AreClose(r.Height(), other.Height())
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Deflate shrinks the rect by the given thickness on each side.
func (r Rect) Deflate(t Thickness) Rect {
	return Rect{
		Left:   r.Left + t.Left,
		Top:    r.Top + t.Top,
		Right:  r.Right - t.Right,
		Bottom: r.Bottom - t.Bottom,
	}
}

// Intersect returns the intersection of two rectangles.
// Returns empty rect if they don't overlap.
func (r Rect) Intersect(other Rect) Rect {
	left := math.Max(r.Left, other.Left)
	top := math.Max(r.Top, other.Top)
	right := math.Min(r.Right, other.Right)
	bottom := math.Min(r.Bottom, other.Bottom)
	if left >= right || top >= bottom {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Union returns the smallest rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%g,%g -> %g,%g [W=%g H=%g]", r.Left, r.Top, r.Right, r.Bottom, r.Width(), r.Height())
}

// AreClose reports whether a and b differ by less than Epsilon.
func AreClose(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < Epsilon
}

// Clamp limits value to [lo, hi]. When lo > hi, lo wins.
func Clamp[T constraints.Float | constraints.Integer](value, lo, hi T) T {
	return max(min(value, hi), lo)
}

// IsInfOrNaN reports whether v is infinite or NaN.
func IsInfOrNaN(v float64) bool {
	return math.IsInf(v, 0) || math.IsNaN(v)
}
