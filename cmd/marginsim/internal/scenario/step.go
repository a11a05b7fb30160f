package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/margins/pkg/margins"
)

// StepKind names what a step does.
type StepKind string

const (
	StepTouch      StepKind = "touch"
	StepScroll     StepKind = "scroll"
	StepShow       StepKind = "show"
	StepHide       StepKind = "hide"
	StepPin        StepKind = "pin"
	StepUnpin      StepKind = "unpin"
	StepAdvance    StepKind = "advance"
	StepMaxMargins StepKind = "maxMargins"
	StepCall       StepKind = "call"
)

// Step is a single scenario action. It is written as a one-key mapping
// ("scroll: {dy: 20}") or, for steps without arguments, a bare name
// ("show").
type Step struct {
	Kind StepKind
	// Line is the position of the step in the source file.
	Line int

	Touch     TouchStep
	Scroll    ScrollStep
	Immediate bool
	Advance   time.Duration
	Max       Insets
	Call      CallStep
}

// TouchStep is a touch delivered to the controller.
type TouchStep struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Phase    string  `yaml:"phase"`
	Pointers int     `yaml:"pointers"`
}

// CallStep is a host request delivered on the viewport method channel.
type CallStep struct {
	Method string         `yaml:"method"`
	Args   map[string]any `yaml:"args"`
}

// ScrollStep is a scroll delta.
type ScrollStep struct {
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

type animateArgs struct {
	Immediate bool `yaml:"immediate"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	s.Line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		s.Kind = StepKind(node.Value)
		switch s.Kind {
		case StepShow, StepHide, StepPin, StepUnpin:
			return nil
		}
		return fmt.Errorf("line %d: step %q needs arguments or is unknown", node.Line, node.Value)
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: step must be a name or a single-key mapping", node.Line)
	}

	if len(node.Content) != 2 {
		return fmt.Errorf("line %d: step must have exactly one key, got %d", node.Line, len(node.Content)/2)
	}
	key, value := node.Content[0], node.Content[1]
	s.Kind = StepKind(key.Value)
	empty := value.Kind == yaml.ScalarNode && value.Tag == "!!null"

	switch s.Kind {
	case StepTouch:
		s.Touch = TouchStep{Phase: "down", Pointers: 1}
		return decodeStrict(value, &s.Touch)
	case StepScroll:
		return decodeStrict(value, &s.Scroll)
	case StepShow, StepHide:
		if empty {
			return nil
		}
		var args animateArgs
		if err := decodeStrict(value, &args); err != nil {
			return err
		}
		s.Immediate = args.Immediate
		return nil
	case StepPin, StepUnpin:
		if !empty {
			return fmt.Errorf("line %d: %s takes no arguments", value.Line, s.Kind)
		}
		return nil
	case StepAdvance:
		return value.Decode(&s.Advance)
	case StepMaxMargins:
		return decodeStrict(value, &s.Max)
	case StepCall:
		return decodeStrict(value, &s.Call)
	}
	return fmt.Errorf("line %d: unknown step %q", key.Line, key.Value)
}

// decodeStrict decodes a mapping node into out, rejecting unknown keys.
func decodeStrict(node *yaml.Node, out any) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func (s Step) validate() error {
	switch s.Kind {
	case StepTouch:
		var err error
		if _, ok := margins.ParseTouchPhase(s.Touch.Phase); !ok {
			err = multierr.Append(err, fmt.Errorf("touch: unknown phase %q", s.Touch.Phase))
		}
		if s.Touch.Pointers < 1 {
			err = multierr.Append(err, fmt.Errorf("touch: pointers must be at least 1, got %d", s.Touch.Pointers))
		}
		if !finite(s.Touch.X, s.Touch.Y) {
			err = multierr.Append(err, errors.New("touch: coordinates must be finite"))
		}
		return err
	case StepScroll:
		if !finite(s.Scroll.DX, s.Scroll.DY) {
			return errors.New("scroll: deltas must be finite")
		}
	case StepAdvance:
		if s.Advance <= 0 {
			return fmt.Errorf("advance: duration must be positive, got %v", s.Advance)
		}
	case StepMaxMargins:
		return validateInsets("maxMargins", s.Max)
	case StepCall:
		if !slices.Contains(margins.ControlMethods, s.Call.Method) {
			return fmt.Errorf("call: unknown method %q (want one of %s)", s.Call.Method, strings.Join(margins.ControlMethods, ", "))
		}
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
