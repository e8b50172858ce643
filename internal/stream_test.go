package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeTimer is one outstanding AfterFunc call recorded by fakeClock.
type fakeTimer struct {
	d         time.Duration
	f         func()
	cancelled bool
}

// fakeClock lets delay/throttle/debounce tests fire timers deterministically
// instead of sleeping (SPEC_FULL.md's rationale for the Clock interface).
type fakeClock struct {
	scheduled []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Cancel {
	tm := &fakeTimer{d: d, f: f}
	c.scheduled = append(c.scheduled, tm)
	return func() { tm.cancelled = true }
}

// fire runs every timer scheduled so far that hasn't been cancelled, then
// forgets them, so a test can simulate "Δ elapses" one step at a time.
func (c *fakeClock) fire() {
	pending := c.scheduled
	c.scheduled = nil
	for _, tm := range pending {
		if !tm.cancelled {
			tm.f()
		}
	}
}

type captureListener struct {
	got []any
}

func (c *captureListener) push(_ Tick, v any)    { c.got = append(c.got, v) }
func (c *captureListener) changeStateDown(State) {}

func TestDelayStreamEmitsAfterTimerFires(t *testing.T) {
	g := NewGraph()
	clock := &fakeClock{}
	sink := NewSinkStream()
	delayed := NewDelayStream(g, sink, time.Second, clock)

	cap := &captureListener{}
	delayed.AddListener(cap, CurrentTick())

	g.Propagate(func(t Tick) { sink.Push(t, 1) })
	assert.Empty(t, cap.got, "delay must not emit before the timer fires")

	clock.fire()
	assert.Equal(t, []any{1}, cap.got)
}

func TestDelayStreamCancelsPendingTimersOnDeactivate(t *testing.T) {
	g := NewGraph()
	clock := &fakeClock{}
	sink := NewSinkStream()
	delayed := NewDelayStream(g, sink, time.Second, clock)

	cap := &captureListener{}
	node, _ := delayed.AddListener(cap, CurrentTick())

	g.Propagate(func(t Tick) { sink.Push(t, 1) })
	delayed.RemoveListener(node)

	clock.fire()
	assert.Empty(t, cap.got, "a fired timer after deactivate must not publish")
}

func TestThrottleStreamSilencesUntilTimerFires(t *testing.T) {
	g := NewGraph()
	clock := &fakeClock{}
	sink := NewSinkStream()
	throttled := NewThrottleStream(g, sink, time.Second, clock)

	cap := &captureListener{}
	throttled.AddListener(cap, CurrentTick())

	g.Propagate(func(t Tick) { sink.Push(t, 1) })
	g.Propagate(func(t Tick) { sink.Push(t, 2) })
	assert.Equal(t, []any{1}, cap.got, "occurrences during the silence window are dropped")

	clock.fire()
	g.Propagate(func(t Tick) { sink.Push(t, 3) })
	assert.Equal(t, []any{1, 3}, cap.got)
}

func TestDebounceStreamEmitsMostRecentAfterQuiet(t *testing.T) {
	g := NewGraph()
	clock := &fakeClock{}
	sink := NewSinkStream()
	debounced := NewDebounceStream(g, sink, time.Second, clock)

	cap := &captureListener{}
	debounced.AddListener(cap, CurrentTick())

	g.Propagate(func(t Tick) { sink.Push(t, 1) })
	g.Propagate(func(t Tick) { sink.Push(t, 2) })
	assert.Empty(t, cap.got, "each occurrence resets the timer before it fires")

	clock.fire()
	assert.Equal(t, []any{2}, cap.got)
}
