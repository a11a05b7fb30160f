package margins

import "math"

// DefaultActiveAreaFraction is the share of the viewport, measured from
// the edge a margin lives on, where a gesture must begin to reveal it.
const DefaultActiveAreaFraction = 0.25

// AxisInput describes one axis of a scroll for ScrollMargin. Start is the
// left or top edge, End the right or bottom edge.
type AxisInput struct {
	Delta float64

	MarginStart, MarginEnd         float64
	OverscrollStart, OverscrollEnd float64

	// TouchCoordinate is where the gesture began along this axis, in
	// view-local coordinates.
	TouchCoordinate float64

	ViewportStart, ViewportEnd float64
	PageStart, PageEnd         float64

	MaxMarginStart, MaxMarginEnd float64

	// NegativeOffset measures the residual against the end margin, as
	// right-to-left pages do horizontally.
	NegativeOffset bool

	// ActiveAreaFraction overrides DefaultActiveAreaFraction when positive.
	ActiveAreaFraction float64
}

// AxisResult is the outcome of ScrollMargin.
type AxisResult struct {
	MarginStart, MarginEnd float64
	// Residual is the part of the delta left for viewport translation.
	Residual float64

	delta float64
}

// Consumed returns the part of the delta absorbed by margin changes,
// computed as delta - Residual so that Consumed() + Residual equals the
// input delta. The margin change itself (old minus new margin on the
// residual's side) is rounded separately and may differ from Consumed by
// one ulp for non-integral inputs.
func (r AxisResult) Consumed() float64 {
	return r.delta - r.Residual
}

// ScrollMargin splits a scroll delta along one axis between margin changes
// and viewport translation.
//
// Scrolling toward the end edge first absorbs any overscroll past the start
// edge, then shrinks the start margin and grows the end margin. Growth is
// only unconditional for gestures that began inside the active area next to
// the end edge; other gestures grow the margin only by whatever remains once
// the viewport has reached the end of the page. Negative deltas mirror this.
func ScrollMargin(in AxisInput) AxisResult {
	fraction := in.ActiveAreaFraction
	if fraction <= 0 {
		fraction = DefaultActiveAreaFraction
	}
	extent := in.ViewportEnd - in.ViewportStart
	activeArea := extent * fraction

	start, end := in.MarginStart, in.MarginEnd
	if in.Delta >= 0 {
		marginDelta := math.Max(0, in.Delta-in.OverscrollStart)
		start = in.MarginStart - math.Min(marginDelta, in.MarginStart)
		if in.TouchCoordinate < extent-activeArea {
			marginDelta = math.Max(0, marginDelta-(in.PageEnd-in.ViewportEnd))
		}
		end = in.MarginEnd + math.Min(marginDelta, in.MaxMarginEnd-in.MarginEnd)
	} else {
		marginDelta := math.Max(0, -in.Delta-in.OverscrollEnd)
		end = in.MarginEnd - math.Min(marginDelta, in.MarginEnd)
		if in.TouchCoordinate > activeArea {
			marginDelta = math.Max(0, marginDelta-(in.ViewportStart-in.PageStart))
		}
		start = in.MarginStart + math.Min(marginDelta, in.MaxMarginStart-in.MarginStart)
	}

	residual := in.Delta - (in.MarginStart - start)
	if in.NegativeOffset {
		residual = in.Delta - (in.MarginEnd - end)
	}
	return AxisResult{MarginStart: start, MarginEnd: end, Residual: residual, delta: in.Delta}
}
