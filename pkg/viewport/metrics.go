// Package viewport defines the immutable viewport metrics snapshot that the
// margin engine reads and replaces, and the provider that owns it.
//
// A [Metrics] value describes a viewport rect scrolled over a larger page
// rect, plus the edge margins currently reserved on top of the viewport.
// Every mutator returns a new value; snapshots are never changed in place.
package viewport

import (
	"math"

	"github.com/go-drift/margins/pkg/graphics"
	"github.com/go-drift/margins/pkg/layout"
)

// Metrics is an immutable snapshot of viewport geometry.
type Metrics struct {
	// PageRect is the scrollable page surface.
	PageRect graphics.Rect
	// ViewportRect is the visible region in page coordinates. Its size is
	// the viewport extent.
	ViewportRect graphics.Rect
	// Margins are the edge margins currently reserved.
	Margins layout.EdgeInsets
	// RTL marks a right-to-left page, whose horizontal anchor is the right edge.
	RTL bool
}

// NewMetrics returns a snapshot with no margins.
func NewMetrics(page, viewport graphics.Rect) Metrics {
	return Metrics{PageRect: page, ViewportRect: viewport}
}

// Size returns the viewport size.
func (m Metrics) Size() graphics.Size {
	return m.ViewportRect.Size()
}

// Width returns the viewport width.
func (m Metrics) Width() float64 {
	return m.ViewportRect.Width()
}

// Height returns the viewport height.
func (m Metrics) Height() float64 {
	return m.ViewportRect.Height()
}

// PageWidth returns the page width.
func (m Metrics) PageWidth() float64 {
	return m.PageRect.Width()
}

// PageHeight returns the page height.
func (m Metrics) PageHeight() float64 {
	return m.PageRect.Height()
}

// WidthWithoutMargins returns the viewport width left after horizontal margins.
func (m Metrics) WidthWithoutMargins() float64 {
	return m.Width() - m.Margins.Horizontal()
}

// HeightWithoutMargins returns the viewport height left after vertical margins.
func (m Metrics) HeightWithoutMargins() float64 {
	return m.Height() - m.Margins.Vertical()
}

// Overscroll returns how far the viewport extends past the page on each
// edge. Edges that do not extend past the page report zero.
func (m Metrics) Overscroll() layout.EdgeInsets {
	return layout.EdgeInsets{
		Left:   math.Max(0, m.PageRect.Left-m.ViewportRect.Left),
		Top:    math.Max(0, m.PageRect.Top-m.ViewportRect.Top),
		Right:  math.Max(0, m.ViewportRect.Right-m.PageRect.Right),
		Bottom: math.Max(0, m.ViewportRect.Bottom-m.PageRect.Bottom),
	}
}

// MarginOffset returns the shift of the content anchor caused by the
// current margins. RTL pages anchor horizontally at the right edge.
func (m Metrics) MarginOffset() graphics.Offset {
	if m.RTL {
		return graphics.Offset{X: m.Margins.Left - m.Margins.Right, Y: m.Margins.Top}
	}
	return graphics.Offset{X: m.Margins.Left, Y: m.Margins.Top}
}

// WithMargins returns a copy with the given margins.
func (m Metrics) WithMargins(margins layout.EdgeInsets) Metrics {
	m.Margins = margins
	return m
}

// SetViewportOrigin returns a copy with the viewport moved to (x, y),
// keeping its size.
func (m Metrics) SetViewportOrigin(x, y float64) Metrics {
	m.ViewportRect = m.ViewportRect.MoveTo(x, y)
	return m
}

// TranslatedBy returns a copy with the viewport origin moved by (dx, dy).
// No clamping is applied; callers that need the scroll range enforced use
// OffsetViewportByAndClamp.
func (m Metrics) TranslatedBy(dx, dy float64) Metrics {
	m.ViewportRect = m.ViewportRect.Translate(dx, dy)
	return m
}

// OffsetViewportByAndClamp moves the viewport origin by (dx, dy) and keeps
// it inside the scrollable range of the page, accounting for margins.
func (m Metrics) OffsetViewportByAndClamp(dx, dy float64) Metrics {
	maxX := m.PageRect.Right - m.WidthWithoutMargins()
	maxY := m.PageRect.Bottom - m.HeightWithoutMargins()
	var x float64
	if m.RTL {
		x = math.Min(maxX, math.Max(m.ViewportRect.Left+dx, m.PageRect.Left))
	} else {
		x = math.Max(m.PageRect.Left, math.Min(m.ViewportRect.Left+dx, maxX))
	}
	y := math.Max(m.PageRect.Top, math.Min(m.ViewportRect.Top+dy, maxY))
	return m.SetViewportOrigin(x, y)
}
