package platform

import "sync"

// noopBridge is a NativeBridge that accepts all calls without side effects.
type noopBridge struct{}

func (noopBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	return DefaultCodec.Encode(nil)
}
func (noopBridge) StartEventStream(string) error { return nil }
func (noopBridge) StopEventStream(string) error  { return nil }

// SetupTestBridge installs a no-op native bridge for testing. The cleanup
// function should be testing.T.Cleanup or equivalent; it registers a
// teardown that calls ResetForTest.
//
//	platform.SetupTestBridge(t.Cleanup)
func SetupTestBridge(cleanup func(func())) {
	SetNativeBridge(noopBridge{})
	cleanup(ResetForTest)
}

// RecordedCall is one method invocation captured by a RecordingBridge.
type RecordedCall struct {
	Channel string
	Method  string
	Args    any
}

// RecordingBridge is a NativeBridge that records method calls and returns
// Err (if set) from every invocation. Safe for concurrent use.
type RecordingBridge struct {
	mu      sync.Mutex
	calls   []RecordedCall
	streams map[string]bool

	// Err is returned from InvokeMethod when non-nil.
	Err error
}

// NewRecordingBridge returns an empty recording bridge.
func NewRecordingBridge() *RecordingBridge {
	return &RecordingBridge{streams: make(map[string]bool)}
}

// InvokeMethod decodes and records the call.
func (b *RecordingBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	decoded, err := DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.calls = append(b.calls, RecordedCall{Channel: channel, Method: method, Args: decoded})
	callErr := b.Err
	b.mu.Unlock()
	if callErr != nil {
		return nil, callErr
	}
	return DefaultCodec.Encode(nil)
}

// StartEventStream marks the stream as running.
func (b *RecordingBridge) StartEventStream(channel string) error {
	b.mu.Lock()
	b.streams[channel] = true
	b.mu.Unlock()
	return nil
}

// StopEventStream marks the stream as stopped.
func (b *RecordingBridge) StopEventStream(channel string) error {
	b.mu.Lock()
	b.streams[channel] = false
	b.mu.Unlock()
	return nil
}

// Calls returns a copy of the recorded calls.
func (b *RecordingBridge) Calls() []RecordedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedCall, len(b.calls))
	copy(out, b.calls)
	return out
}

// StreamActive reports whether the native stream for channel is running.
func (b *RecordingBridge) StreamActive(channel string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streams[channel]
}
