// Package graphics provides the pixel geometry value types shared by the
// viewport and margin packages.
package graphics

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Sub returns the vector from other to o.
func (o Offset) Sub(other Offset) Offset {
	return Offset{X: o.X - other.X, Y: o.Y - other.Y}
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
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

// Origin returns the top-left corner.
func (r Rect) Origin() Offset {
	return Offset{X: r.Left, Y: r.Top}
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

// MoveTo returns a rect of the same size with its top-left corner at (x, y).
func (r Rect) MoveTo(x, y float64) Rect {
	return RectFromLTWH(x, y, r.Width(), r.Height())
}

// ApproxEqual reports whether both rects match within a small tolerance.
func (r Rect) ApproxEqual(other Rect) bool {
	return floatEqual(r.Left, other.Left) &&
		floatEqual(r.Top, other.Top) &&
		floatEqual(r.Right, other.Right) &&
		floatEqual(r.Bottom, other.Bottom)
}

// floatEqual returns true if two float64 values are approximately equal.
func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
