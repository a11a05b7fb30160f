// Package animation provides the timing primitives behind margin animations:
// an injectable [Clock], easing curves, tweens, and a [Scheduler] that runs
// cancellable repeating tasks.
//
// # Scheduling
//
// A repeating task is started with [Scheduler.Start] and identified by the
// returned [TickerID]. Two schedulers are provided:
//
//   - [FrameScheduler]: tasks advance when the host frame loop calls Step.
//     Deterministic, and what tests use together with a fake clock.
//   - [TimerScheduler]: each task runs on its own goroutine at a fixed
//     period, mirroring a platform timer.
//
// Stop never blocks and may be called from inside the task itself. A task
// may still be mid-callback when Stop returns on another goroutine; owners
// that mutate shared state re-check their own token under their lock.
package animation

import (
	"slices"
	"sync"
	"time"

	"github.com/go-drift/margins/pkg/errors"
)

// DefaultFrameInterval is the tick period for 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// TickerID identifies a task started on a Scheduler. Zero is never issued
// and can be used as "no task".
type TickerID uint64

// TickFunc receives the time elapsed since its task was started.
type TickFunc func(elapsed time.Duration)

// Scheduler starts and stops repeating tasks.
type Scheduler interface {
	// Start begins calling fn roughly every period until Stop is called
	// with the returned id.
	Start(period time.Duration, fn TickFunc) TickerID
	// Stop cancels the task. Unknown or already stopped ids are ignored.
	Stop(id TickerID)
}

type frameTicker struct {
	callback TickFunc
	start    time.Time
}

// FrameScheduler runs every active task once per call to Step. The frame
// loop sets the cadence; the requested period is not used.
type FrameScheduler struct {
	clock   Clock
	mu      sync.Mutex
	nextID  TickerID
	tickers map[TickerID]*frameTicker
}

// NewFrameScheduler creates a frame-driven scheduler. A nil clock uses
// the system clock.
func NewFrameScheduler(clock Clock) *FrameScheduler {
	return &FrameScheduler{
		clock:   ClockOrDefault(clock),
		tickers: make(map[TickerID]*frameTicker),
	}
}

// Start registers fn to run on every subsequent Step.
func (s *FrameScheduler) Start(_ time.Duration, fn TickFunc) TickerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tickers[s.nextID] = &frameTicker{callback: fn, start: s.clock.Now()}
	return s.nextID
}

// Stop deactivates the task.
func (s *FrameScheduler) Stop(id TickerID) {
	s.mu.Lock()
	delete(s.tickers, id)
	s.mu.Unlock()
}

// Step advances all active tasks. It should be called once per frame.
// Tasks run in start order, outside the scheduler lock, so a task may
// start or stop tasks (including itself).
func (s *FrameScheduler) Step() {
	s.mu.Lock()
	if len(s.tickers) == 0 {
		s.mu.Unlock()
		return
	}
	ids := make([]TickerID, 0, len(s.tickers))
	for id := range s.tickers {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		s.mu.Lock()
		ticker, ok := s.tickers[id]
		s.mu.Unlock()
		if !ok || ticker.callback == nil {
			continue
		}
		ticker.callback(s.clock.Now().Sub(ticker.start))
	}
}

// HasActiveTickers returns true if any task is active.
func (s *FrameScheduler) HasActiveTickers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickers) > 0
}

// IsActive reports whether the task with the given id is still running.
func (s *FrameScheduler) IsActive(id TickerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tickers[id]
	return ok
}

type timerTask struct {
	done chan struct{}
	once sync.Once
}

func (t *timerTask) cancel() {
	t.once.Do(func() { close(t.done) })
}

// TimerScheduler runs each task on its own goroutine driven by a
// time.Ticker. The first tick fires immediately after Start.
type TimerScheduler struct {
	clock  Clock
	mu     sync.Mutex
	nextID TickerID
	tasks  map[TickerID]*timerTask
}

// NewTimerScheduler creates a wall-clock scheduler. A nil clock uses
// the system clock.
func NewTimerScheduler(clock Clock) *TimerScheduler {
	return &TimerScheduler{
		clock: ClockOrDefault(clock),
		tasks: make(map[TickerID]*timerTask),
	}
}

// Start launches a goroutine calling fn every period. A non-positive
// period uses DefaultFrameInterval.
func (s *TimerScheduler) Start(period time.Duration, fn TickFunc) TickerID {
	if period <= 0 {
		period = DefaultFrameInterval
	}
	task := &timerTask{done: make(chan struct{})}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.tasks[id] = task
	s.mu.Unlock()

	start := s.clock.Now()
	go s.loop(id, task, period, start, fn)
	return id
}

func (s *TimerScheduler) loop(id TickerID, task *timerTask, period time.Duration, start time.Time, fn TickFunc) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		if !s.IsActive(id) {
			return
		}
		s.fire(fn, s.clock.Now().Sub(start))
		select {
		case <-task.done:
			return
		case <-ticker.C:
		}
	}
}

func (s *TimerScheduler) fire(fn TickFunc, elapsed time.Duration) {
	defer errors.Recover("animation.TimerScheduler")
	if fn != nil {
		fn(elapsed)
	}
}

// Stop cancels the task. It does not wait for an in-flight callback.
func (s *TimerScheduler) Stop(id TickerID) {
	s.mu.Lock()
	task, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()
	if ok {
		task.cancel()
	}
}

// IsActive reports whether the task with the given id is still running.
func (s *TimerScheduler) IsActive(id TickerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	return ok
}

// Close stops every task.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = make(map[TickerID]*timerTask)
	s.mu.Unlock()
	for _, task := range tasks {
		task.cancel()
	}
}
