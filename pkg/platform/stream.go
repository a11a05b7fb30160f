package platform

import "github.com/go-drift/margins/pkg/errors"

// Stream decodes the events of an EventChannel into typed values.
// Every listener receives every value independently.
type Stream[T any] struct {
	channel *EventChannel
	parser  func(data any) (T, error)
}

// NewStream wraps channel. The parser converts raw event data to T; values
// it rejects are reported through errors.Report and dropped.
func NewStream[T any](channel *EventChannel, parser func(data any) (T, error)) *Stream[T] {
	return &Stream[T]{channel: channel, parser: parser}
}

// Listen subscribes handler to parsed values. Stream errors from the host
// are reported as platform errors.
func (s *Stream[T]) Listen(handler func(T)) *Subscription {
	name := s.channel.Name()
	return s.channel.Listen(EventHandler{
		OnEvent: func(data any) {
			val, err := s.parser(data)
			if err != nil {
				errors.Report(&errors.DriftError{
					Op:      "stream.parse",
					Kind:    errors.KindParsing,
					Channel: name,
					Err:     err,
				})
				return
			}
			handler(val)
		},
		OnError: func(err error) {
			errors.Report(&errors.DriftError{
				Op:      "stream.error",
				Kind:    errors.KindPlatform,
				Channel: name,
				Err:     err,
			})
		},
	})
}
