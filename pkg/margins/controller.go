package margins

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/margins/pkg/animation"
	"github.com/go-drift/margins/pkg/errors"
	"github.com/go-drift/margins/pkg/graphics"
	"github.com/go-drift/margins/pkg/layout"
	"github.com/go-drift/margins/pkg/platform"
	"github.com/go-drift/margins/pkg/viewport"
)

// TouchChannel is the event channel carrying touches from the host view.
const TouchChannel = "drift/viewport/touch"

// Options configures a Controller. The zero value is valid.
type Options struct {
	// Clock is the time source for animations. Nil uses the system clock.
	Clock animation.Clock
	// Scheduler runs animation ticks. Nil creates a TimerScheduler owned
	// by the controller and closed by Close.
	Scheduler animation.Scheduler
	// Notifier receives limit changes. Nil disables host notification.
	Notifier HostNotifier
	// Logger receives debug traces. Nil discards them.
	Logger *zap.Logger

	// Duration of show and hide animations. Defaults to DefaultDuration.
	Duration time.Duration
	// FrameInterval is the tick period requested from the scheduler.
	// Defaults to animation.DefaultFrameInterval.
	FrameInterval time.Duration
	// ActiveAreaFraction defaults to DefaultActiveAreaFraction. Values
	// above 1 are reported and clamped.
	ActiveAreaFraction float64
	// Curve eases animation progress. Defaults to animation.DecelerateCurve.
	Curve animation.Curve
}

func (o Options) withDefaults() Options {
	o.Clock = animation.ClockOrDefault(o.Clock)
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = animation.DefaultFrameInterval
	}
	if o.ActiveAreaFraction <= 0 {
		o.ActiveAreaFraction = DefaultActiveAreaFraction
	}
	if o.ActiveAreaFraction > 1 {
		errors.Report(&errors.DriftError{
			Op:   "margins.NewController",
			Kind: errors.KindInit,
			Err:  fmt.Errorf("active area fraction %v exceeds 1", o.ActiveAreaFraction),
		})
		o.ActiveAreaFraction = 1
	}
	if o.Curve == nil {
		o.Curve = animation.DecelerateCurve
	}
	return o
}

// Controller couples edge margins to scrolling and animates them in and
// out. It is the only mutator of animation and pin state. All methods are
// safe for concurrent use.
//
// Provider commits happen while the controller lock is held, so commit
// listeners must not call back into the controller.
type Controller struct {
	mu         sync.Mutex
	provider   viewport.Provider
	limits     *Limits
	anchor     TouchAnchor
	animator   *Animator
	pinned     bool
	activeArea float64
	logger     *zap.Logger

	ownedScheduler *animation.TimerScheduler
}

// NewController creates a controller that reads and commits snapshots
// through provider.
func NewController(provider viewport.Provider, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		provider:   provider,
		limits:     NewLimits(opts.Notifier),
		activeArea: opts.ActiveAreaFraction,
		logger:     opts.Logger,
	}
	if opts.Scheduler == nil {
		c.ownedScheduler = animation.NewTimerScheduler(opts.Clock)
		opts.Scheduler = c.ownedScheduler
	}
	c.animator = newAnimator(&c.mu, provider, opts)
	return c
}

// Animator returns the controller's animator.
func (c *Controller) Animator() *Animator {
	return c.animator
}

// SetMaxMargins replaces the margin limits and notifies the host.
func (c *Controller) SetMaxMargins(left, top, right, bottom float64) {
	c.limits.SetMaxMargins(left, top, right, bottom)
	c.logger.Debug("max margins changed", zap.Any("max", c.limits.Max()))
}

// MaxMargins returns the current limits.
func (c *Controller) MaxMargins() layout.EdgeInsets {
	return c.limits.Max()
}

// ShowMargins grows every margin to its limit.
func (c *Controller) ShowMargins(immediate bool) {
	c.animator.AnimateTo(c.limits.Max(), immediate)
}

// HideMargins shrinks every margin to zero.
func (c *Controller) HideMargins(immediate bool) {
	c.animator.AnimateTo(layout.EdgeInsets{}, immediate)
}

// SetMarginsPinned toggles whether scrolling may change margins. It does
// not affect a running animation.
func (c *Controller) SetMarginsPinned(pinned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinned == pinned {
		return
	}
	c.pinned = pinned
	c.logger.Debug("margins pinned", zap.Bool("pinned", pinned))
}

// MarginsPinned reports whether margins are pinned.
func (c *Controller) MarginsPinned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinned
}

// OnTouch feeds a touch event to the anchor tracker.
func (c *Controller) OnTouch(e TouchEvent) {
	c.anchor.Observe(e)
}

// TouchAnchor returns where the last single-finger gesture began.
func (c *Controller) TouchAnchor() graphics.Offset {
	return c.anchor.Position()
}

// ScrollBy returns metrics scrolled by (dx, dy), with margins absorbing as
// much of the delta as they can. Any running animation is canceled. The
// result is not committed.
func (c *Controller) ScrollBy(metrics viewport.Metrics, dx, dy float64) viewport.Metrics {
	c.mu.Lock()
	next := c.scrollByLocked(metrics, dx, dy)
	c.mu.Unlock()
	c.animator.flush()
	return next
}

// Scroll applies ScrollBy to the provider's current snapshot and commits
// the result as an intermediate frame.
func (c *Controller) Scroll(dx, dy float64) viewport.Metrics {
	c.mu.Lock()
	next := c.scrollByLocked(c.provider.ViewportMetrics(), dx, dy)
	c.provider.ForceViewportMetrics(next, false, false)
	c.mu.Unlock()
	c.animator.flush()
	return next
}

func (c *Controller) scrollByLocked(m viewport.Metrics, dx, dy float64) viewport.Metrics {
	c.animator.cancelLocked("scroll")
	if c.pinned {
		return m.TranslatedBy(dx, dy)
	}

	max := c.limits.Max()
	touch := c.anchor.Position()
	overscroll := m.Overscroll()
	margins := m.Margins

	if m.PageWidth() >= m.Width() {
		r := ScrollMargin(AxisInput{
			Delta:              dx,
			MarginStart:        margins.Left,
			MarginEnd:          margins.Right,
			OverscrollStart:    overscroll.Left,
			OverscrollEnd:      overscroll.Right,
			TouchCoordinate:    touch.X,
			ViewportStart:      m.ViewportRect.Left,
			ViewportEnd:        m.ViewportRect.Right,
			PageStart:          m.PageRect.Left,
			PageEnd:            m.PageRect.Right,
			MaxMarginStart:     max.Left,
			MaxMarginEnd:       max.Right,
			NegativeOffset:     m.RTL,
			ActiveAreaFraction: c.activeArea,
		})
		margins.Left, margins.Right, dx = r.MarginStart, r.MarginEnd, r.Residual
	}
	if m.PageHeight() >= m.Height() {
		r := ScrollMargin(AxisInput{
			Delta:              dy,
			MarginStart:        margins.Top,
			MarginEnd:          margins.Bottom,
			OverscrollStart:    overscroll.Top,
			OverscrollEnd:      overscroll.Bottom,
			TouchCoordinate:    touch.Y,
			ViewportStart:      m.ViewportRect.Top,
			ViewportEnd:        m.ViewportRect.Bottom,
			PageStart:          m.PageRect.Top,
			PageEnd:            m.PageRect.Bottom,
			MaxMarginStart:     max.Top,
			MaxMarginEnd:       max.Bottom,
			ActiveAreaFraction: c.activeArea,
		})
		margins.Top, margins.Bottom, dy = r.MarginStart, r.MarginEnd, r.Residual
	}

	return m.WithMargins(margins).TranslatedBy(dx, dy)
}

// ListenTouches subscribes to touch events arriving on ch. Payloads are
// objects of the form {"phase": "down", "x": 10, "y": 20, "pointers": 1};
// malformed payloads are reported and dropped.
func (c *Controller) ListenTouches(ch *platform.EventChannel) *platform.Subscription {
	touches := platform.NewStream(ch, func(data any) (TouchEvent, error) {
		return DecodeTouchEvent(ch.Name(), data)
	})
	return touches.Listen(c.OnTouch)
}

// DecodeTouchEvent converts a decoded channel payload to a TouchEvent.
// A missing "pointers" field means a single pointer; a present one must be
// a whole number of at least 1.
func DecodeTouchEvent(channel string, data any) (TouchEvent, error) {
	fail := func() (TouchEvent, error) {
		return TouchEvent{}, &errors.ParseError{Channel: channel, DataType: "TouchEvent", Got: data}
	}
	m, ok := data.(map[string]any)
	if !ok {
		return fail()
	}
	name, ok := m["phase"].(string)
	if !ok {
		return fail()
	}
	phase, ok := ParseTouchPhase(name)
	if !ok {
		return fail()
	}
	x, okX := m["x"].(float64)
	y, okY := m["y"].(float64)
	if !okX || !okY {
		return fail()
	}
	pointers := 1
	if raw, present := m["pointers"]; present {
		n, ok := raw.(float64)
		if !ok || n < 1 || n > math.MaxInt32 || n != math.Trunc(n) {
			return fail()
		}
		pointers = int(n)
	}
	return TouchEvent{Phase: phase, Position: graphics.Offset{X: x, Y: y}, PointerCount: pointers}, nil
}

// Close cancels any running animation and releases a scheduler created
// by the controller.
func (c *Controller) Close() {
	c.mu.Lock()
	c.animator.cancelLocked("close")
	c.mu.Unlock()
	c.animator.flush()
	if c.ownedScheduler != nil {
		c.ownedScheduler.Close()
	}
}
