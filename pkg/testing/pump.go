package testing

import (
	"errors"
	"time"

	"github.com/go-drift/margins/pkg/animation"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: tickers still active")

// FramePump drives a FrameScheduler from a FakeClock, one frame at a time.
type FramePump struct {
	Clock     *FakeClock
	Scheduler *animation.FrameScheduler
	// Interval is the clock advance per frame.
	Interval time.Duration

	frames int
}

// NewFramePump returns a pump with a fresh clock, a scheduler bound to it,
// and a 60 fps frame interval.
func NewFramePump() *FramePump {
	clk := NewFakeClock()
	return &FramePump{
		Clock:     clk,
		Scheduler: animation.NewFrameScheduler(clk),
		Interval:  animation.DefaultFrameInterval,
	}
}

// Pump advances the clock by one interval and steps the scheduler.
func (p *FramePump) Pump() {
	p.Clock.Advance(p.Interval)
	p.Scheduler.Step()
	p.frames++
}

// PumpFor pumps frames until at least d of clock time has passed.
// Returns the number of frames pumped.
func (p *FramePump) PumpFor(d time.Duration) int {
	n := 0
	for elapsed := time.Duration(0); elapsed < d; elapsed += p.Interval {
		p.Pump()
		n++
	}
	return n
}

// PumpAndSettle pumps frames until no tickers remain active.
// Returns ErrSettleTimeout if tickers are still active after timeout.
func (p *FramePump) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if !p.Scheduler.HasActiveTickers() {
			return nil
		}
		p.Pump()
		elapsed += p.Interval
	}
	if p.Scheduler.HasActiveTickers() {
		return ErrSettleTimeout
	}
	return nil
}

// Frames returns how many frames have been pumped.
func (p *FramePump) Frames() int {
	return p.frames
}
