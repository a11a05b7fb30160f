// Package scenario loads marginsim scenario files.
//
// A scenario describes a viewport, margin limits and animation settings,
// followed by an ordered list of steps to replay against a margin
// controller:
//
//	version: v1.0.0
//	viewport:
//	  page: {width: 400, height: 4000}
//	  viewport: {width: 400, height: 800}
//	maxMargins: {top: 40}
//	animation: {curve: easeOut}
//	steps:
//	  - touch: {x: 200, y: 780}
//	  - scroll: {dy: -30}
//	  - show
//	  - call: {method: SetMarginsPinned, args: {pinned: true}}
//	  - advance: 300ms
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/margins/pkg/animation"
	"github.com/go-drift/margins/pkg/graphics"
	"github.com/go-drift/margins/pkg/layout"
	"github.com/go-drift/margins/pkg/margins"
)

// CurrentVersion is the newest scenario format this loader understands.
// Files declaring any v1 version are accepted.
const CurrentVersion = "v1.0.0"

// Scenario is the root of a scenario file.
type Scenario struct {
	Version    string          `yaml:"version"`
	Name       string          `yaml:"name,omitempty"`
	Viewport   ViewportConfig  `yaml:"viewport"`
	MaxMargins Insets          `yaml:"maxMargins"`
	Margins    Insets          `yaml:"margins"`
	Animation  AnimationConfig `yaml:"animation"`
	Pinned     bool            `yaml:"pinned"`
	Steps      []Step          `yaml:"steps"`
}

// ViewportConfig places the viewport over the page.
type ViewportConfig struct {
	Page     Rect `yaml:"page"`
	Viewport Rect `yaml:"viewport"`
	RTL      bool `yaml:"rtl"`
}

// Rect is a rectangle given by origin and size.
type Rect struct {
	Left   float64 `yaml:"left" json:"left"`
	Top    float64 `yaml:"top" json:"top"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Graphics converts r to a graphics.Rect.
func (r Rect) Graphics() graphics.Rect {
	return graphics.RectFromLTWH(r.Left, r.Top, r.Width, r.Height)
}

// RectFrom converts a graphics.Rect.
func RectFrom(r graphics.Rect) Rect {
	return Rect{Left: r.Left, Top: r.Top, Width: r.Width(), Height: r.Height()}
}

// Insets holds one value per edge.
type Insets struct {
	Left   float64 `yaml:"left" json:"left"`
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
}

// EdgeInsets converts i to layout.EdgeInsets.
func (i Insets) EdgeInsets() layout.EdgeInsets {
	return layout.EdgeInsetsLTRB(i.Left, i.Top, i.Right, i.Bottom)
}

// InsetsFrom converts layout.EdgeInsets.
func InsetsFrom(e layout.EdgeInsets) Insets {
	return Insets{Left: e.Left, Top: e.Top, Right: e.Right, Bottom: e.Bottom}
}

// AnimationConfig tunes show and hide animations. Zero values take the
// controller defaults.
type AnimationConfig struct {
	Duration      time.Duration `yaml:"duration"`
	FrameInterval time.Duration `yaml:"frameInterval"`
	ActiveArea    float64       `yaml:"activeArea"`
	// Curve names the easing curve, one of animation.CurveNames.
	Curve string `yaml:"curve"`
	// Settle bounds how long the simulator keeps pumping frames after the
	// last step while an animation is still running.
	Settle time.Duration `yaml:"settle"`
}

// EasingCurve returns the curve named by Curve, or nil when the name is
// unknown.
func (a AnimationConfig) EasingCurve() animation.Curve {
	curve, _ := animation.CurveByName(a.Curve)
	return curve
}

// Load reads and resolves the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario document, fills defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scenario is empty")
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve fills defaults and validates the scenario. Every problem found
// is returned in a single combined error.
func (s *Scenario) Resolve() error {
	s.Version = strings.TrimSpace(s.Version)
	if s.Version == "" {
		s.Version = CurrentVersion
	} else if !strings.HasPrefix(s.Version, "v") {
		s.Version = "v" + s.Version
	}
	if s.Animation.Duration == 0 {
		s.Animation.Duration = margins.DefaultDuration
	}
	if s.Animation.FrameInterval == 0 {
		s.Animation.FrameInterval = animation.DefaultFrameInterval
	}
	if s.Animation.ActiveArea == 0 {
		s.Animation.ActiveArea = margins.DefaultActiveAreaFraction
	}
	if s.Animation.Curve == "" {
		s.Animation.Curve = "decelerate"
	}
	if s.Animation.Settle == 0 {
		s.Animation.Settle = 10 * time.Second
	}
	if s.Viewport.Page == (Rect{}) {
		s.Viewport.Page = s.Viewport.Viewport
	}
	return s.validate()
}

func (s *Scenario) validate() error {
	var err error

	switch {
	case !semver.IsValid(s.Version):
		err = multierr.Append(err, fmt.Errorf("version %q is not a semantic version", s.Version))
	case semver.Major(s.Version) != semver.Major(CurrentVersion):
		err = multierr.Append(err, fmt.Errorf("version %s is not supported (want %s.x.x)", s.Version, semver.Major(CurrentVersion)))
	}

	err = multierr.Append(err, validateRect("viewport.page", s.Viewport.Page))
	err = multierr.Append(err, validateRect("viewport.viewport", s.Viewport.Viewport))
	err = multierr.Append(err, validateInsets("maxMargins", s.MaxMargins))
	err = multierr.Append(err, validateInsets("margins", s.Margins))
	if !s.Margins.EdgeInsets().Within(s.MaxMargins.EdgeInsets()) {
		err = multierr.Append(err, errors.New("margins: exceed maxMargins"))
	}

	if s.Animation.Duration < 0 {
		err = multierr.Append(err, fmt.Errorf("animation.duration: must be positive, got %v", s.Animation.Duration))
	}
	if s.Animation.FrameInterval < 0 {
		err = multierr.Append(err, fmt.Errorf("animation.frameInterval: must be positive, got %v", s.Animation.FrameInterval))
	}
	if s.Animation.Settle < 0 {
		err = multierr.Append(err, fmt.Errorf("animation.settle: must be positive, got %v", s.Animation.Settle))
	}
	if _, ok := animation.CurveByName(s.Animation.Curve); !ok {
		err = multierr.Append(err, fmt.Errorf("animation.curve: unknown curve %q (want one of %s)",
			s.Animation.Curve, strings.Join(animation.CurveNames, ", ")))
	}
	if a := s.Animation.ActiveArea; !(a > 0 && a <= 1) {
		err = multierr.Append(err, fmt.Errorf("animation.activeArea: must be in (0, 1], got %v", a))
	}

	if len(s.Steps) == 0 {
		err = multierr.Append(err, errors.New("steps: scenario has no steps"))
	}
	for i, step := range s.Steps {
		if stepErr := step.validate(); stepErr != nil {
			err = multierr.Append(err, fmt.Errorf("steps[%d] (line %d): %w", i, step.Line, stepErr))
		}
	}
	return err
}

func validateRect(name string, r Rect) error {
	for _, v := range []float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: values must be finite", name)
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%s: size must be positive, got %vx%v", name, r.Width, r.Height)
	}
	return nil
}

func validateInsets(name string, i Insets) error {
	for _, v := range []float64{i.Left, i.Top, i.Right, i.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s: values must be finite and non-negative", name)
		}
	}
	return nil
}
