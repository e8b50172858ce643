package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfBehavior(t *testing.T) {
	g := NewGraph()
	b := OfBehavior(g, 42)
	assert.Equal(t, 42, At(b))
}

func TestSinkBehaviorPublishAndSubscribe(t *testing.T) {
	g := NewGraph()
	b := NewSinkBehavior(g, 1)

	var got []int
	b.Subscribe(func(v int) { got = append(got, v) })

	b.Publish(2)
	b.Publish(3)

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 3, At(&b.Behavior))
}

func TestMapBehavior(t *testing.T) {
	g := NewGraph()
	b := NewSinkBehavior(g, 2)
	doubled := MapBehavior(&b.Behavior, func(v int) int { return v * 2 })
	doubled.Subscribe(func(int) {})

	assert.Equal(t, 4, At(doubled))
	b.Publish(5)
	assert.Equal(t, 10, At(doubled))
}

func TestLift2(t *testing.T) {
	g := NewGraph()
	a := NewSinkBehavior(g, 2)
	b := NewSinkBehavior(g, 3)
	sum := Lift2(g, func(x, y int) int { return x + y }, &a.Behavior, &b.Behavior)
	sum.Subscribe(func(int) {})

	assert.Equal(t, 5, At(sum))
	a.Publish(10)
	assert.Equal(t, 13, At(sum))
}

// TestStepperDelayedCommit exercises the delayed-stepper invariant: within
// the tick the driving stream fires, direct push-subscribers of the
// stepper see the new value immediately, but sampling the stepper during
// that same tick still sees the old value.
func TestStepperDelayedCommit(t *testing.T) {
	g := NewGraph()
	trigger := NewSinkStream[int](g)
	stepper := NewStepperBehavior(g, 0, &trigger.Stream)

	var pushed []int
	var sampledDuringPush []int

	trigger.Stream.Subscribe(func(int) {
		sampledDuringPush = append(sampledDuringPush, At(stepper))
	})
	stepper.Subscribe(func(v int) { pushed = append(pushed, v) })

	assert.Equal(t, 0, At(stepper))

	trigger.Push(1)
	assert.Equal(t, []int{0}, sampledDuringPush, "same-tick sample must still see the old value")
	assert.Equal(t, []int{0, 1}, pushed, "direct push-subscriber sees the replayed initial value then the new one")
	assert.Equal(t, 1, At(stepper), "after the tick, the new value is visible")

	trigger.Push(2)
	assert.Equal(t, []int{0, 1}, sampledDuringPush)
	assert.Equal(t, 2, At(stepper))
}

func TestScanBehavior(t *testing.T) {
	g := NewGraph()
	trigger := NewSinkStream[int](g)
	total := NewScanBehavior(g, func(v int, acc int) int { return acc + v }, 0, &trigger.Stream)
	total.Subscribe(func(int) {})

	assert.Equal(t, 0, At(total))
	trigger.Push(1)
	assert.Equal(t, 1, At(total))
	trigger.Push(2)
	assert.Equal(t, 3, At(total))
}

func TestChainBehavior(t *testing.T) {
	g := NewGraph()
	mode := NewSinkBehavior(g, "a")
	a := OfBehavior(g, 1)
	b := OfBehavior(g, 2)

	chained := ChainBehavior(&mode.Behavior, func(m string) *Behavior[int] {
		if m == "a" {
			return a
		}
		return b
	})
	chained.Subscribe(func(int) {})

	assert.Equal(t, 1, At(chained))
	mode.Publish("b")
	assert.Equal(t, 2, At(chained))
}

func TestSwitcherBehavior(t *testing.T) {
	g := NewGraph()
	a := OfBehavior(g, "a")
	b := OfBehavior(g, "b")
	stream := NewSinkStream[*Behavior[string]](g)

	sw := SwitcherBehavior(a, &stream.Stream)

	var got []string
	sw.Subscribe(func(v string) { got = append(got, v) })

	assert.Equal(t, "a", At(sw))
	stream.Push(b)
	assert.Equal(t, "b", At(sw))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSwitchToBehavior(t *testing.T) {
	g := NewGraph()
	initial := OfBehavior(g, 1)
	other := OfBehavior(g, 2)
	fut := NewSinkFuture[*Behavior[int]](g)

	st := SwitchToBehavior(initial, &fut.Future)
	st.Subscribe(func(int) {})
	assert.Equal(t, 1, At(st))

	fut.Resolve(other)
	assert.Equal(t, 2, At(st))
}

func TestMomentBehaviorTracksDependencies(t *testing.T) {
	g := NewGraph()
	flag := NewSinkBehavior(g, true)
	a := NewSinkBehavior(g, 1)
	b := NewSinkBehavior(g, 100)

	m := NewMomentBehavior(g, func(s *MomentSampler) int {
		if SampleIn(s, &flag.Behavior) {
			return SampleIn(s, &a.Behavior)
		}
		return SampleIn(s, &b.Behavior)
	})
	m.Subscribe(func(int) {})

	assert.Equal(t, 1, At(m))

	a.Publish(2)
	assert.Equal(t, 2, At(m))

	flag.Publish(false)
	assert.Equal(t, 100, At(m))

	// a no longer a dependency; updating it must not move m.
	a.Publish(999)
	assert.Equal(t, 100, At(m))

	b.Publish(200)
	assert.Equal(t, 200, At(m))
}

func TestIntegrateBehavior(t *testing.T) {
	g := NewGraph()
	rate := NewSinkBehavior(g, 0.0)
	area := IntegrateBehavior(&rate.Behavior)

	var got []float64
	area.Subscribe(func(v float64) { got = append(got, v) })

	assert.Equal(t, 0.0, At(area))
	rate.Publish(2.0)
	rate.Publish(2.0)
	assert.GreaterOrEqual(t, At(area), 0.0)
	assert.Len(t, got, 3)
}
