package sim

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/margins/cmd/marginsim/internal/scenario"
	"github.com/go-drift/margins/pkg/errors"
	"github.com/go-drift/margins/pkg/platform"
)

const tallPage = `
name: reveal
viewport:
  page: {width: 400, height: 2000}
  viewport: {top: 500, width: 400, height: 800}
maxMargins: {top: 40, bottom: 40}
`

func mustParse(t *testing.T, doc string) *scenario.Scenario {
	t.Helper()
	s, err := scenario.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func run(t *testing.T, doc string) *Result {
	t.Helper()
	t.Cleanup(platform.ResetForTest)
	res, err := Run(mustParse(t, doc), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRunShowAnimatesToLimits(t *testing.T) {
	res := run(t, tallPage+"steps: [show]\n")

	if res.Final.Margins != (scenario.Insets{Top: 40, Bottom: 40}) {
		t.Errorf("final margins = %+v", res.Final.Margins)
	}
	if len(res.Frames) != 16 {
		t.Fatalf("got %d frames, want 16", len(res.Frames))
	}
	for i, f := range res.Frames {
		last := i == len(res.Frames)-1
		if f.Forced != last {
			t.Errorf("frame %d forced = %v", i, f.Forced)
		}
		if f.Step != 1 || f.Cause != "settle" {
			t.Errorf("frame %d attributed to step %d %q", i, f.Step, f.Cause)
		}
		if i > 0 && f.Margins.Top < res.Frames[i-1].Margins.Top {
			t.Errorf("frame %d top shrank: %v -> %v", i, res.Frames[i-1].Margins.Top, f.Margins.Top)
		}
	}
	if math.Abs(res.Final.Viewport.Top-540) > 1e-9 {
		t.Errorf("viewport top = %v, want 540 after compensating the top margin", res.Final.Viewport.Top)
	}
	if res.MaxMargins != (scenario.Insets{Top: 40, Bottom: 40}) {
		t.Errorf("MaxMargins = %+v", res.MaxMargins)
	}
}

func TestRunForwardsLimitsToHost(t *testing.T) {
	res := run(t, tallPage+`steps:
  - maxMargins: {top: 20, left: 5}
`)

	if len(res.HostMessages) != 2 {
		t.Fatalf("got %d host messages, want 2", len(res.HostMessages))
	}
	first, second := res.HostMessages[0], res.HostMessages[1]
	if first.Step != -1 || first.Method != "FixedMarginsChanged" || first.Args["top"] != 40.0 {
		t.Errorf("initial message = %+v", first)
	}
	if second.Step != 0 || second.Args["top"] != 20.0 || second.Args["left"] != 5.0 {
		t.Errorf("step message = %+v", second)
	}
	if len(res.Frames) != 0 {
		t.Errorf("limit changes committed %d frames", len(res.Frames))
	}
}

func TestRunTouchAnchorGatesScroll(t *testing.T) {
	tests := []struct {
		name         string
		touchY       float64
		wantTop      float64
		wantViewport float64
	}{
		{"gesture near top edge reveals", 100, 20, 500},
		{"gesture mid view scrolls page", 400, 0, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tallPage + "steps:\n" +
				"  - touch: {x: 200, y: " + jsonNumber(tt.touchY) + "}\n" +
				"  - scroll: {dy: -20}\n"
			res := run(t, doc)

			if res.Final.Margins.Top != tt.wantTop {
				t.Errorf("top = %v, want %v", res.Final.Margins.Top, tt.wantTop)
			}
			if res.Final.Viewport.Top != tt.wantViewport {
				t.Errorf("viewport top = %v, want %v", res.Final.Viewport.Top, tt.wantViewport)
			}
			if len(res.Frames) != 1 || res.Frames[0].Cause != "scroll" || res.Frames[0].Forced {
				t.Errorf("frames = %+v", res.Frames)
			}
		})
	}
}

func TestRunAdvanceAttributesFrames(t *testing.T) {
	res := run(t, tallPage+`steps:
  - show
  - advance: 100ms
  - hide: {immediate: true}
`)

	var advancing, hiding int
	for _, f := range res.Frames {
		switch f.Cause {
		case "advance":
			advancing++
		case "hide":
			hiding++
		}
	}
	if advancing != 7 {
		t.Errorf("advance frames = %d, want 7", advancing)
	}
	if hiding != 1 {
		t.Errorf("hide frames = %d, want 1", hiding)
	}
	if res.Final.Margins != (scenario.Insets{}) {
		t.Errorf("final margins = %+v", res.Final.Margins)
	}
}

func TestRunHostRequests(t *testing.T) {
	res := run(t, tallPage+`steps:
  - call: {method: SetMaxMargins, args: {top: 24}}
  - call: {method: ShowMargins, args: {immediate: true}}
  - call: {method: SetMarginsPinned, args: {pinned: true}}
  - scroll: {dy: 30}
`)

	if res.MaxMargins != (scenario.Insets{Top: 24}) {
		t.Errorf("MaxMargins = %+v", res.MaxMargins)
	}
	if len(res.HostMessages) != 2 || res.HostMessages[1].Step != 0 || res.HostMessages[1].Args["top"] != 24.0 {
		t.Errorf("host messages = %+v", res.HostMessages)
	}
	if len(res.Frames) != 2 {
		t.Fatalf("got %d frames, want 2: %+v", len(res.Frames), res.Frames)
	}
	if f := res.Frames[0]; f.Cause != "call" || f.Step != 1 || f.Margins.Top != 24 || !f.Forced {
		t.Errorf("show frame = %+v", f)
	}
	if res.Final.Margins.Top != 24 {
		t.Errorf("pinned margins changed on scroll: %+v", res.Final.Margins)
	}
}

func TestRunRejectsMalformedHostRequest(t *testing.T) {
	t.Cleanup(platform.ResetForTest)
	s := mustParse(t, tallPage+`steps:
  - call: {method: SetMarginsPinned, args: {pinned: maybe}}
`)

	_, err := Run(s, nil)
	var parseErr *errors.ParseError
	if !stderrors.As(err, &parseErr) || !strings.Contains(err.Error(), "steps[0]") {
		t.Errorf("err = %v", err)
	}
}

func TestRunUsesConfiguredCurve(t *testing.T) {
	res := run(t, tallPage+`animation: {curve: linear}
steps: [show]
`)

	if len(res.Frames) != 16 {
		t.Fatalf("got %d frames, want 16", len(res.Frames))
	}
	for _, f := range res.Frames[:len(res.Frames)-1] {
		want := 40 * float64(f.Time) / float64(250*time.Millisecond)
		if math.Abs(f.Margins.Top-want) > 1e-9 {
			t.Errorf("frame %d top = %v, want %v on a linear curve", f.Index, f.Margins.Top, want)
		}
	}

	decelerated := run(t, tallPage+"steps: [show]\n")
	if res.Frames[0].Margins.Top >= decelerated.Frames[0].Margins.Top {
		t.Errorf("linear first frame %v should trail decelerate %v",
			res.Frames[0].Margins.Top, decelerated.Frames[0].Margins.Top)
	}
}

func TestRunRejectsUnknownStep(t *testing.T) {
	t.Cleanup(platform.ResetForTest)
	s := mustParse(t, tallPage+"steps: [show]\n")
	s.Steps = append(s.Steps, scenario.Step{Kind: "jump", Line: 9})

	if _, err := Run(s, nil); err == nil || !strings.Contains(err.Error(), "steps[1] (line 9)") {
		t.Errorf("err = %v", err)
	}
}

func TestWriteText(t *testing.T) {
	res := run(t, tallPage+"steps: [show]\n")

	var buf bytes.Buffer
	if err := WriteText(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"frame",
		"host: step -1 FixedMarginsChanged top=40 right=0 bottom=40 left=0",
		"final after 266.666656ms",
		"(16 frames)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 1+16+1+1 {
		t.Errorf("got %d lines:\n%s", lines, out)
	}
}

func TestWriteJSON(t *testing.T) {
	res := run(t, tallPage+"steps: [show]\n")

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Name   string `json:"name"`
		Frames []struct {
			Forced  bool            `json:"forced"`
			Margins scenario.Insets `json:"margins"`
		} `json:"frames"`
		Final struct {
			Cause string `json:"cause"`
		} `json:"final"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Name != "reveal" || len(decoded.Frames) != 16 || decoded.Final.Cause != "final" {
		t.Errorf("decoded = %+v", decoded)
	}
	if last := decoded.Frames[15]; !last.Forced || last.Margins.Top != 40 {
		t.Errorf("last frame = %+v", last)
	}
}

func TestWritePNG(t *testing.T) {
	res := run(t, tallPage+"steps: [show]\n")

	var buf bytes.Buffer
	if err := WritePNG(&buf, res); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != timelineWidth || b.Dy() != timelineHeight {
		t.Errorf("bounds = %v", b)
	}
	if got := color.RGBAModel.Convert(img.At(timelineWidth-1, timelineHeight-1)); got != backgroundColor {
		t.Errorf("corner = %v, want background", got)
	}
}

func TestRenderTimelineWithoutFrames(t *testing.T) {
	res := &Result{Final: Frame{Cause: "final"}}
	img := RenderTimeline(res)
	if img.Bounds().Dx() != timelineWidth {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func jsonNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
