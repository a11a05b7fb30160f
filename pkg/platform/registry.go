package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/margins/pkg/errors"
)

// channelRegistry manages all registered platform channels.
type channelRegistry struct {
	methodChannels map[string]*MethodChannel
	eventChannels  map[string]*EventChannel
	mu             sync.RWMutex
}

var registry = &channelRegistry{
	methodChannels: make(map[string]*MethodChannel),
	eventChannels:  make(map[string]*EventChannel),
}

func (r *channelRegistry) registerMethod(name string, ch *MethodChannel) {
	r.mu.Lock()
	r.methodChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) registerEvent(name string, ch *EventChannel) {
	r.mu.Lock()
	r.eventChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) getMethodChannel(name string) *MethodChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.methodChannels[name]
}

func (r *channelRegistry) getEventChannel(name string) *EventChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.eventChannels[name]
}

func (r *channelRegistry) allEventChannels() []*EventChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channels := make([]*EventChannel, 0, len(r.eventChannels))
	for _, ch := range r.eventChannels {
		channels = append(channels, ch)
	}
	return channels
}

// NativeBridge defines the interface for calling native platform code.
type NativeBridge interface {
	// InvokeMethod calls a method on the native side.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)

	// StartEventStream tells native to start sending events for a channel.
	StartEventStream(channel string) error

	// StopEventStream tells native to stop sending events for a channel.
	StopEventStream(channel string) error
}

var (
	bridgeMu     sync.RWMutex
	nativeBridge NativeBridge
)

func currentBridge() NativeBridge {
	bridgeMu.RLock()
	defer bridgeMu.RUnlock()
	return nativeBridge
}

// SetNativeBridge installs the native bridge implementation.
//
// Event channels that acquired subscriptions before a bridge was available
// have their streams started now; startup errors are dispatched to their
// subscribers' error handlers.
func SetNativeBridge(bridge NativeBridge) {
	bridgeMu.Lock()
	nativeBridge = bridge
	bridgeMu.Unlock()
	if bridge == nil {
		return
	}

	for _, ch := range registry.allEventChannels() {
		ch.mu.Lock()
		shouldStart := len(ch.subscriptions) > 0 && !ch.started
		if shouldStart {
			ch.started = true
		}
		ch.mu.Unlock()

		if shouldStart {
			if err := startEventStream(ch.name); err != nil {
				ch.mu.Lock()
				ch.started = false
				ch.mu.Unlock()
				ch.dispatchError(err)
			}
		}
	}
}

func invokeNative(channel, method string, args any) (any, error) {
	bridge := currentBridge()
	if bridge == nil {
		return nil, ErrPlatformUnavailable
	}

	argsData, err := DefaultCodec.Encode(args)
	if err != nil {
		return nil, err
	}

	resultData, err := bridge.InvokeMethod(channel, method, argsData)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Decode(resultData)
}

func startEventStream(channel string) error {
	return controlEventStream("platform.startEventStream", channel, NativeBridge.StartEventStream)
}

func stopEventStream(channel string) error {
	return controlEventStream("platform.stopEventStream", channel, NativeBridge.StopEventStream)
}

func controlEventStream(op, channel string, fn func(NativeBridge, string) error) error {
	bridge := currentBridge()
	err := ErrPlatformUnavailable
	if bridge != nil {
		err = fn(bridge, channel)
	}
	if err != nil {
		errors.Report(&errors.DriftError{
			Op:      op,
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
	}
	return err
}

// HandleMethodCall is called from the bridge when native invokes a Go method.
func HandleMethodCall(channel, method string, argsData []byte) ([]byte, error) {
	ch := registry.getMethodChannel(channel)
	if ch == nil {
		return nil, ErrChannelNotFound
	}

	args, err := DefaultCodec.Decode(argsData)
	if err != nil {
		return nil, err
	}

	result, err := ch.handleCall(method, args)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Encode(result)
}

// HandleEvent is called from the bridge when native sends an event.
func HandleEvent(channel string, eventData []byte) error {
	ch, err := lookupEventChannel("platform.HandleEvent", channel)
	if err != nil {
		return err
	}

	data, err := DefaultCodec.Decode(eventData)
	if err != nil {
		ch.dispatchError(err)
		return err
	}

	ch.dispatchEvent(data)
	return nil
}

// HandleEventError is called from the bridge when an event stream errors.
func HandleEventError(channel string, code, message string) error {
	ch, err := lookupEventChannel("platform.HandleEventError", channel)
	if err != nil {
		return err
	}
	ch.dispatchError(NewChannelError(code, message))
	return nil
}

// HandleEventDone is called from the bridge when an event stream ends.
func HandleEventDone(channel string) error {
	ch, err := lookupEventChannel("platform.HandleEventDone", channel)
	if err != nil {
		return err
	}
	ch.dispatchDone()
	return nil
}

func lookupEventChannel(op, channel string) (*EventChannel, error) {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.DriftError{
			Op:      op,
			Kind:    errors.KindPlatform,
			Channel: channel,
			Err:     err,
		})
		return nil, err
	}
	return ch, nil
}

// ResetForTest clears the native bridge and every event subscription.
// Registered channels stay registered. This should only be called from tests.
func ResetForTest() {
	bridgeMu.Lock()
	nativeBridge = nil
	bridgeMu.Unlock()

	for _, ch := range registry.allEventChannels() {
		ch.mu.Lock()
		for _, sub := range ch.subscriptions {
			sub.canceled.Store(true)
		}
		ch.subscriptions = nil
		ch.started = false
		ch.mu.Unlock()
	}
}
