package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDriftErrorWithChannel(t *testing.T) {
	err := &DriftError{
		Op:      "margins.ChannelNotifier",
		Kind:    KindPlatform,
		Channel: "drift/viewport",
		Err:     stderrors.New("bridge down"),
	}
	got := err.Error()
	want := "margins.ChannelNotifier [platform] channel=drift/viewport: bridge down"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDriftErrorUnwrap(t *testing.T) {
	inner := &ParseError{Channel: "drift/viewport/touch", DataType: "TouchEvent", Got: 42}
	err := &DriftError{Op: "margins.ListenTouches", Kind: KindParsing, Err: inner}

	var pe *ParseError
	if !stderrors.As(err, &pe) {
		t.Fatal("expected errors.As to find the ParseError")
	}
	if pe.Channel != "drift/viewport/touch" {
		t.Errorf("Channel = %q", pe.Channel)
	}
	if !strings.Contains(err.Error(), "[parsing]") {
		t.Errorf("error string %q should contain kind", err.Error())
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindPlatform, "platform"},
		{KindParsing, "parsing"},
		{KindInit, "init"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *PanicError
		want string
	}{
		{"without op", &PanicError{Value: "test panic"}, "panic: test panic"},
		{"with op", &PanicError{Op: "animation.TimerScheduler", Value: "test panic"}, "panic in animation.TimerScheduler: test panic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrorString(t *testing.T) {
	err := &ParseError{Channel: "drift/test", DataType: "TestEvent", Got: 123}
	want := "failed to parse TestEvent from channel drift/test: got int"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *DriftError
	SetHandler(&testHandler{onError: func(err *DriftError) { captured = err }})
	t.Cleanup(func() { SetHandler(nil) })

	Report(&DriftError{
		Op:   "test.op",
		Kind: KindInit,
		Err:  &ParseError{Channel: "test", DataType: "Test", Got: nil},
	})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}

	Report(nil)
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	t.Cleanup(func() { SetHandler(nil) })

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestReportPanicSetsTimestamp(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	t.Cleanup(func() { SetHandler(nil) })

	ReportPanic(&PanicError{Value: "v"})
	if captured == nil || captured.Timestamp.IsZero() {
		t.Error("expected timestamped panic")
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := getHandler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", getHandler())
	}
}

func TestLogHandlerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewLogHandler(zap.New(core), true)

	h.HandleError(&DriftError{
		Op:         "margins.ChannelNotifier",
		Kind:       KindPlatform,
		Channel:    "drift/viewport",
		Err:        stderrors.New("boom"),
		StackTrace: "frame",
		Timestamp:  time.Now(),
	})
	h.HandlePanic(&PanicError{Op: "animation.TimerScheduler", Value: "bad"})
	h.HandleError(nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["channel"] != "drift/viewport" {
		t.Errorf("channel field = %v", fields["channel"])
	}
	if fields["kind"] != "platform" {
		t.Errorf("kind field = %v", fields["kind"])
	}
	if fields["stack"] != "frame" {
		t.Errorf("stack field = %v", fields["stack"])
	}
	if entries[1].Message != "drift panic" {
		t.Errorf("message = %q", entries[1].Message)
	}
}

type testHandler struct {
	onError func(*DriftError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *DriftError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
