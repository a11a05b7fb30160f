package margins

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/margins/pkg/animation"
	"github.com/go-drift/margins/pkg/layout"
	"github.com/go-drift/margins/pkg/viewport"
)

// DefaultDuration is the length of a show or hide animation.
const DefaultDuration = 250 * time.Millisecond

// AnimatorStatus is the state of an Animator.
type AnimatorStatus int

const (
	// AnimatorIdle means no animation is running.
	AnimatorIdle AnimatorStatus = iota
	// AnimatorRunning means a run is interpolating toward its target.
	AnimatorRunning
)

func (s AnimatorStatus) String() string {
	switch s {
	case AnimatorIdle:
		return "idle"
	case AnimatorRunning:
		return "running"
	default:
		return fmt.Sprintf("AnimatorStatus(%d)", int(s))
	}
}

// animationRun is one in-flight animation, identified by its ticker.
type animationRun struct {
	id    animation.TickerID
	start time.Time
	from  layout.EdgeInsets
	to    layout.EdgeInsets
}

// Animator drives the margins of the provider's snapshot toward a target
// over a fixed duration. It shares its lock with the owning Controller, so
// ticks and scrolls never interleave their read-modify-commit cycles.
type Animator struct {
	mu        sync.Locker
	provider  viewport.Provider
	scheduler animation.Scheduler
	clock     animation.Clock
	duration  time.Duration
	interval  time.Duration
	curve     animation.Curve
	logger    *zap.Logger

	run     *animationRun
	status  AnimatorStatus
	pending []AnimatorStatus

	listeners      map[int]func(AnimatorStatus)
	nextListenerID int
}

func newAnimator(mu sync.Locker, provider viewport.Provider, opts Options) *Animator {
	return &Animator{
		mu:        mu,
		provider:  provider,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		duration:  opts.Duration,
		interval:  opts.FrameInterval,
		curve:     opts.Curve,
		logger:    opts.Logger,
		listeners: make(map[int]func(AnimatorStatus)),
	}
}

// AnimateTo moves the margins to target. Any running animation is canceled
// first. With immediate set the target is committed at once with a forced
// redraw; otherwise a run starts from the current margins.
func (a *Animator) AnimateTo(target layout.EdgeInsets, immediate bool) {
	a.mu.Lock()
	a.animateToLocked(target, immediate)
	a.mu.Unlock()
	a.flush()
}

// Cancel stops the running animation, leaving margins where the last tick
// put them.
func (a *Animator) Cancel() {
	a.mu.Lock()
	a.cancelLocked("canceled")
	a.mu.Unlock()
	a.flush()
}

// Status returns the current state.
func (a *Animator) Status() AnimatorStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// IsAnimating reports whether a run is in progress.
func (a *Animator) IsAnimating() bool {
	return a.Status() == AnimatorRunning
}

// AddStatusListener registers a callback for status transitions. Callbacks
// run outside the lock, in registration order.
// Returns a function that removes the listener.
func (a *Animator) AddStatusListener(fn func(AnimatorStatus)) func() {
	a.mu.Lock()
	id := a.nextListenerID
	a.nextListenerID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *Animator) animateToLocked(target layout.EdgeInsets, immediate bool) {
	a.cancelLocked("replaced")

	current := a.provider.ViewportMetrics()
	if immediate {
		a.logger.Debug("margins set",
			zap.Any("from", current.Margins),
			zap.Any("to", target))
		a.provider.ForceViewportMetrics(current.WithMargins(target), true, true)
		return
	}

	run := &animationRun{
		start: a.clock.Now(),
		from:  current.Margins,
		to:    target,
	}
	a.run = run
	a.setStatusLocked(AnimatorRunning)
	a.logger.Debug("margin animation started",
		zap.Any("from", run.from),
		zap.Any("to", run.to),
		zap.Duration("duration", a.duration))
	// FrameScheduler never calls back from Start; TimerScheduler calls back
	// on its own goroutine, which blocks on the lock until run.id is set.
	run.id = a.scheduler.Start(a.interval, func(time.Duration) { a.tick(run) })
}

// cancelLocked ends the current run, if any. Reports whether one was running.
func (a *Animator) cancelLocked(reason string) bool {
	if a.run == nil {
		return false
	}
	a.scheduler.Stop(a.run.id)
	a.run = nil
	a.setStatusLocked(AnimatorIdle)
	a.logger.Debug("margin animation canceled", zap.String("reason", reason))
	return true
}

func (a *Animator) tick(run *animationRun) {
	a.mu.Lock()
	if a.run != run {
		// Stale tick from a canceled or replaced run.
		a.mu.Unlock()
		return
	}
	a.step(run)
	a.mu.Unlock()
	a.flush()
}

func (a *Animator) step(run *animationRun) {
	p := 1.0
	if a.duration > 0 {
		p = math.Min(1, float64(a.clock.Now().Sub(run.start))/float64(a.duration))
	}
	done := p >= 1
	eased := 1.0
	if !done {
		eased = a.curve(p)
	}

	old := a.provider.ViewportMetrics()
	next := old.WithMargins(animation.LerpEdgeInsets(run.from, run.to, eased))
	oldOffset, newOffset := old.MarginOffset(), next.MarginOffset()
	next = next.OffsetViewportByAndClamp(newOffset.X-oldOffset.X, newOffset.Y-oldOffset.Y)

	if done {
		a.scheduler.Stop(run.id)
		a.run = nil
		a.setStatusLocked(AnimatorIdle)
		a.logger.Debug("margin animation finished", zap.Any("margins", next.Margins))
	}
	a.provider.ForceViewportMetrics(next, done, done)
}

func (a *Animator) setStatusLocked(s AnimatorStatus) {
	if a.status == s {
		return
	}
	a.status = s
	a.pending = append(a.pending, s)
}

// flush delivers queued status transitions. Must be called without the lock.
func (a *Animator) flush() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	var listeners []func(AnimatorStatus)
	if len(pending) > 0 {
		ids := make([]int, 0, len(a.listeners))
		for id := range a.listeners {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			listeners = append(listeners, a.listeners[id])
		}
	}
	a.mu.Unlock()

	for _, s := range pending {
		for _, l := range listeners {
			l(s)
		}
	}
}
