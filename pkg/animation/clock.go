package animation

import "time"

// Clock provides time for animations. The default implementation uses
// system time; tests inject a fake clock through component options.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockOrDefault returns c, or SystemClock when c is nil.
func ClockOrDefault(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
