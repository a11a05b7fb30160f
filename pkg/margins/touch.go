package margins

import (
	"fmt"
	"sync"

	"github.com/go-drift/margins/pkg/graphics"
)

// TouchPhase is the stage of a pointer gesture.
type TouchPhase int

const (
	TouchDown TouchPhase = iota
	TouchMove
	TouchUp
	TouchCancel
)

func (p TouchPhase) String() string {
	switch p {
	case TouchDown:
		return "down"
	case TouchMove:
		return "move"
	case TouchUp:
		return "up"
	case TouchCancel:
		return "cancel"
	default:
		return fmt.Sprintf("TouchPhase(%d)", int(p))
	}
}

// ParseTouchPhase maps the wire name of a phase to its value.
func ParseTouchPhase(s string) (TouchPhase, bool) {
	switch s {
	case "down":
		return TouchDown, true
	case "move":
		return TouchMove, true
	case "up":
		return TouchUp, true
	case "cancel":
		return TouchCancel, true
	}
	return 0, false
}

// TouchEvent is a touch delivered by the host view. Position is in
// view-local coordinates, the same frame as the viewport extent.
type TouchEvent struct {
	Phase        TouchPhase
	Position     graphics.Offset
	PointerCount int
}

// TouchAnchor remembers where the most recent single-finger gesture began.
// The zero value is ready to use and reports the origin.
type TouchAnchor struct {
	mu  sync.RWMutex
	pos graphics.Offset
}

// Observe records e.Position if e is a single-pointer touch-down and
// reports whether the anchor moved. All other events are ignored.
func (a *TouchAnchor) Observe(e TouchEvent) bool {
	if e.Phase != TouchDown || e.PointerCount != 1 {
		return false
	}
	a.mu.Lock()
	a.pos = e.Position
	a.mu.Unlock()
	return true
}

// Position returns the last recorded touch-down point. It may be stale.
func (a *TouchAnchor) Position() graphics.Offset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}
