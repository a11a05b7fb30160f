package margins

import (
	"sync"

	"github.com/go-drift/margins/pkg/errors"
	"github.com/go-drift/margins/pkg/layout"
	"github.com/go-drift/margins/pkg/platform"
)

// Channel and method used to announce fixed margin changes to the host
// layout engine.
const (
	ViewportChannel           = "drift/viewport"
	FixedMarginsChangedMethod = "FixedMarginsChanged"
)

// HostNotifier receives the new limits whenever they change. Delivery is
// one-way; implementations handle their own failures.
type HostNotifier interface {
	FixedMarginsChanged(max layout.EdgeInsets)
}

// HostNotifierFunc adapts a function to HostNotifier.
type HostNotifierFunc func(max layout.EdgeInsets)

// FixedMarginsChanged calls f(max).
func (f HostNotifierFunc) FixedMarginsChanged(max layout.EdgeInsets) { f(max) }

// ChannelNotifier forwards limit changes over a platform method channel.
type ChannelNotifier struct {
	channel *platform.MethodChannel
}

// NewChannelNotifier creates a notifier on the drift/viewport channel.
func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{channel: platform.NewMethodChannel(ViewportChannel)}
}

// Channel returns the method channel the notifier sends on. Pass it to
// Controller.ListenMethods to serve host requests on the same channel.
func (n *ChannelNotifier) Channel() *platform.MethodChannel {
	return n.channel
}

// FixedMarginsChanged sends {top, right, bottom, left} to the host. Errors
// are reported through the global error handler.
func (n *ChannelNotifier) FixedMarginsChanged(max layout.EdgeInsets) {
	err := n.channel.Notify(FixedMarginsChangedMethod, map[string]any{
		"top":    max.Top,
		"right":  max.Right,
		"bottom": max.Bottom,
		"left":   max.Left,
	})
	if err != nil {
		errors.Report(&errors.DriftError{
			Op:      "margins.ChannelNotifier",
			Kind:    errors.KindPlatform,
			Channel: n.channel.Name(),
			Err:     err,
		})
	}
}

// Limits holds the maximum size of each margin.
type Limits struct {
	mu       sync.RWMutex
	max      layout.EdgeInsets
	notifier HostNotifier
}

// NewLimits creates zero limits. A nil notifier disables host notification.
func NewLimits(notifier HostNotifier) *Limits {
	return &Limits{notifier: notifier}
}

// SetMaxMargins replaces all four limits and notifies the host. Values are
// trusted to be finite and non-negative. Committed margins are not clamped
// here; the next scroll or animation pass works against the new limits.
func (l *Limits) SetMaxMargins(left, top, right, bottom float64) {
	max := layout.EdgeInsetsLTRB(left, top, right, bottom)
	l.mu.Lock()
	l.max = max
	l.mu.Unlock()

	if l.notifier != nil {
		l.notifier.FixedMarginsChanged(max)
	}
}

// Max returns the current limits.
func (l *Limits) Max() layout.EdgeInsets {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.max
}
