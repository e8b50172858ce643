package internal

import "time"

// Cancel stops a pending timer. Calling it after the timer already fired,
// or more than once, is a no-op.
type Cancel func()

// Clock is the platform scheduler collaborator spec.md §1/§4.2 treats as
// out of scope: delay/throttle/debounce depend on it but the graph engine
// itself does not define it. Expressed as an interface (rather than calling
// time.AfterFunc directly) so tests can supply a deterministic fake instead
// of sleeping.
type Clock interface {
	// AfterFunc schedules f to run after d and returns a Cancel for it.
	AfterFunc(d time.Duration, f func()) Cancel
}

// RealClock is the default Clock, backed by the standard library timer.
type RealClock struct{}

// AfterFunc implements Clock using time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, f func()) Cancel {
	timer := time.AfterFunc(d, f)
	return func() { timer.Stop() }
}
