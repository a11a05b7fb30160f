// Package margins animates and constrains the edge margins reserved around
// a scrollable viewport, such as the space taken by an overlay toolbar.
//
// A [Controller] owns the margin limits, the touch anchor, the pin flag and
// an [Animator]. Scroll deltas go through [ScrollMargin] on each axis, which
// lets margins absorb part of the delta before the viewport moves:
//
//	c := margins.NewController(store, margins.Options{})
//	c.SetMaxMargins(0, 40, 0, 0)
//	c.OnTouch(margins.TouchEvent{Phase: margins.TouchDown, Position: pos, PointerCount: 1})
//	c.Scroll(0, 12)
//
// Margins can always be hidden by scrolling. They are only revealed by a
// gesture that began in the quarter of the viewport next to the margin, or
// once the page has been scrolled to its end on that side.
//
// ShowMargins and HideMargins animate toward the limits or zero over 250ms
// with a decelerating curve, shifting the viewport origin each frame so the
// content does not jump. A scroll during an animation cancels it.
//
// Host chrome drives the same operations over the drift/viewport method
// channel once [Controller.ListenMethods] is installed on it.
package margins
