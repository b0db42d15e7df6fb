// Package clock abstracts wall-clock reads so that elapsed-hour masking
// and horizon clamping can be pinned to a fixed instant in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by time.Now.
func System() Clock { return systemClock{} }

// Fixed is a manually controlled Clock. Not safe for concurrent Set;
// tests advance it from a single goroutine.
type Fixed struct {
	current time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{current: t} }

func (f *Fixed) Now() time.Time { return f.current }

func (f *Fixed) Set(t time.Time) { f.current = t }

func (f *Fixed) Advance(d time.Duration) time.Time {
	f.current = f.current.Add(d)
	return f.current
}
