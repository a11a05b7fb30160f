// Package layout holds the inset types used to describe reserved edge space.
package layout

import "math"

// EdgeInsets describes space reserved along each edge of a rectangle,
// in pixels. Margin values throughout the module use this type.
type EdgeInsets struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// EdgeInsetsAll returns insets with the same value on every edge.
func EdgeInsetsAll(value float64) EdgeInsets {
	return EdgeInsets{Left: value, Top: value, Right: value, Bottom: value}
}

// EdgeInsetsLTRB returns insets from explicit left, top, right, bottom values.
func EdgeInsetsLTRB(left, top, right, bottom float64) EdgeInsets {
	return EdgeInsets{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Horizontal returns Left + Right.
func (e EdgeInsets) Horizontal() float64 {
	return e.Left + e.Right
}

// Vertical returns Top + Bottom.
func (e EdgeInsets) Vertical() float64 {
	return e.Top + e.Bottom
}

// IsZero reports whether every edge is zero.
func (e EdgeInsets) IsZero() bool {
	return e == EdgeInsets{}
}

// Clamp limits every edge to the range [0, max] of the matching edge.
func (e EdgeInsets) Clamp(max EdgeInsets) EdgeInsets {
	return EdgeInsets{
		Left:   clampEdge(e.Left, max.Left),
		Top:    clampEdge(e.Top, max.Top),
		Right:  clampEdge(e.Right, max.Right),
		Bottom: clampEdge(e.Bottom, max.Bottom),
	}
}

// Within reports whether every edge lies in [0, max] of the matching edge.
func (e EdgeInsets) Within(max EdgeInsets) bool {
	return e.Left >= 0 && e.Left <= max.Left &&
		e.Top >= 0 && e.Top <= max.Top &&
		e.Right >= 0 && e.Right <= max.Right &&
		e.Bottom >= 0 && e.Bottom <= max.Bottom
}

func clampEdge(v, max float64) float64 {
	return math.Max(0, math.Min(v, max))
}
