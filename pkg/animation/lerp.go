package animation

import "github.com/go-drift/margins/pkg/layout"

// LerpFloat64 linearly interpolates between two float64 values. The
// endpoints are returned exactly at t <= 0 and t >= 1.
func LerpFloat64(a, b float64, t float64) float64 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

// LerpEdgeInsets linearly interpolates between two EdgeInsets values.
func LerpEdgeInsets(a, b layout.EdgeInsets, t float64) layout.EdgeInsets {
	return layout.EdgeInsets{
		Left:   LerpFloat64(a.Left, b.Left, t),
		Top:    LerpFloat64(a.Top, b.Top, t),
		Right:  LerpFloat64(a.Right, b.Right, t),
		Bottom: LerpFloat64(a.Bottom, b.Bottom, t),
	}
}
