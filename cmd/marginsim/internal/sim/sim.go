// Package sim replays a scenario against a margin controller driven by a
// deterministic frame clock and records every committed snapshot.
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/margins/cmd/marginsim/internal/scenario"
	"github.com/go-drift/margins/pkg/margins"
	"github.com/go-drift/margins/pkg/platform"
	drifttest "github.com/go-drift/margins/pkg/testing"
	"github.com/go-drift/margins/pkg/viewport"
)

// Frame is one committed snapshot.
type Frame struct {
	Index int `json:"index"`
	// Time is the simulated clock offset from the start of the run.
	Time     time.Duration   `json:"-"`
	TimeMS   float64         `json:"timeMs"`
	Step     int             `json:"step"`
	Cause    string          `json:"cause"`
	Margins  scenario.Insets `json:"margins"`
	Viewport scenario.Rect   `json:"viewport"`
	Forced   bool            `json:"forced"`
}

// HostMessage is a limit change forwarded to the host layout engine.
type HostMessage struct {
	Step   int            `json:"step"`
	Method string         `json:"method"`
	Args   map[string]any `json:"args"`
}

// Result is the outcome of a run.
type Result struct {
	Name         string          `json:"name,omitempty"`
	Frames       []Frame         `json:"frames"`
	HostMessages []HostMessage   `json:"hostMessages"`
	Final        Frame           `json:"final"`
	MaxMargins   scenario.Insets `json:"maxMargins"`
	Duration     time.Duration   `json:"-"`
}

// Run replays s. The platform bridge is replaced for the duration of the
// run so traffic in both directions goes through the real channels.
func Run(s *scenario.Scenario, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bridge := platform.NewRecordingBridge()
	platform.SetNativeBridge(bridge)
	defer platform.SetNativeBridge(nil)

	initial := viewport.NewMetrics(s.Viewport.Page.Graphics(), s.Viewport.Viewport.Graphics()).
		WithMargins(s.Margins.EdgeInsets())
	initial.RTL = s.Viewport.RTL
	store := viewport.NewStore(initial)

	pump := drifttest.NewFramePump()
	pump.Interval = s.Animation.FrameInterval
	start := pump.Clock.Now()

	notifier := margins.NewChannelNotifier()
	ctrl := margins.NewController(store, margins.Options{
		Clock:              pump.Clock,
		Scheduler:          pump.Scheduler,
		Notifier:           notifier,
		Logger:             logger.Named("controller"),
		Duration:           s.Animation.Duration,
		FrameInterval:      s.Animation.FrameInterval,
		ActiveAreaFraction: s.Animation.ActiveArea,
		Curve:              s.Animation.EasingCurve(),
	})
	defer ctrl.Close()
	ctrl.ListenMethods(notifier.Channel())
	defer notifier.Channel().SetHandler(nil)

	touches := platform.NewEventChannel(margins.TouchChannel)
	sub := ctrl.ListenTouches(touches)
	defer sub.Cancel()

	res := &Result{Name: s.Name}
	stepIndex, cause := -1, "initial"
	store.AddListener(func(c viewport.Commit) {
		elapsed := pump.Clock.Now().Sub(start)
		res.Frames = append(res.Frames, Frame{
			Index:    len(res.Frames),
			Time:     elapsed,
			TimeMS:   float64(elapsed) / float64(time.Millisecond),
			Step:     stepIndex,
			Cause:    cause,
			Margins:  scenario.InsetsFrom(c.Metrics.Margins),
			Viewport: scenario.RectFrom(c.Metrics.ViewportRect),
			Forced:   c.ForceRedraw,
		})
	})

	hostCalls := 0
	collectHost := func() {
		calls := bridge.Calls()
		for _, call := range calls[hostCalls:] {
			if call.Channel != margins.ViewportChannel {
				continue
			}
			args, _ := call.Args.(map[string]any)
			res.HostMessages = append(res.HostMessages, HostMessage{Step: stepIndex, Method: call.Method, Args: args})
		}
		hostCalls = len(calls)
	}

	ctrl.SetMaxMargins(s.MaxMargins.Left, s.MaxMargins.Top, s.MaxMargins.Right, s.MaxMargins.Bottom)
	ctrl.SetMarginsPinned(s.Pinned)
	collectHost()

	for i, step := range s.Steps {
		stepIndex, cause = i, string(step.Kind)
		logger.Debug("step", zap.Int("index", i), zap.String("kind", cause), zap.Int("line", step.Line))
		if err := apply(ctrl, pump, step); err != nil {
			return nil, fmt.Errorf("steps[%d] (line %d): %w", i, step.Line, err)
		}
		collectHost()
	}

	stepIndex, cause = len(s.Steps), "settle"
	if err := pump.PumpAndSettle(s.Animation.Settle); err != nil {
		return nil, fmt.Errorf("animation did not settle within %v: %w", s.Animation.Settle, err)
	}

	final := store.ViewportMetrics()
	res.Final = Frame{
		Index:    len(res.Frames),
		Step:     stepIndex,
		Cause:    "final",
		Margins:  scenario.InsetsFrom(final.Margins),
		Viewport: scenario.RectFrom(final.ViewportRect),
	}
	res.Duration = pump.Clock.Now().Sub(start)
	res.Final.Time = res.Duration
	res.Final.TimeMS = float64(res.Duration) / float64(time.Millisecond)
	res.MaxMargins = scenario.InsetsFrom(ctrl.MaxMargins())

	logger.Debug("run finished",
		zap.Int("frames", len(res.Frames)),
		zap.Int("hostMessages", len(res.HostMessages)),
		zap.Duration("simulated", res.Duration))
	return res, nil
}

// apply performs one step. Ticks committed while pumping frames are
// attributed to the advance step.
func apply(ctrl *margins.Controller, pump *drifttest.FramePump, step scenario.Step) error {
	switch step.Kind {
	case scenario.StepTouch:
		payload, err := platform.DefaultCodec.Encode(map[string]any{
			"phase":    step.Touch.Phase,
			"x":        step.Touch.X,
			"y":        step.Touch.Y,
			"pointers": step.Touch.Pointers,
		})
		if err != nil {
			return err
		}
		return platform.HandleEvent(margins.TouchChannel, payload)
	case scenario.StepScroll:
		ctrl.Scroll(step.Scroll.DX, step.Scroll.DY)
	case scenario.StepShow:
		ctrl.ShowMargins(step.Immediate)
	case scenario.StepHide:
		ctrl.HideMargins(step.Immediate)
	case scenario.StepPin:
		ctrl.SetMarginsPinned(true)
	case scenario.StepUnpin:
		ctrl.SetMarginsPinned(false)
	case scenario.StepAdvance:
		pump.PumpFor(step.Advance)
	case scenario.StepMaxMargins:
		ctrl.SetMaxMargins(step.Max.Left, step.Max.Top, step.Max.Right, step.Max.Bottom)
	case scenario.StepCall:
		payload, err := platform.DefaultCodec.Encode(step.Call.Args)
		if err != nil {
			return err
		}
		_, err = platform.HandleMethodCall(margins.ViewportChannel, step.Call.Method, payload)
		return err
	default:
		return fmt.Errorf("unknown step %q", step.Kind)
	}
	return nil
}
