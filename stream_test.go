package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkStream(t *testing.T) {
	t.Run("subscribers only see occurrences after subscribe", func(t *testing.T) {
		g := NewGraph()
		s := NewSinkStream[int](g)

		var got []int
		s.Push(1)

		s.Stream.Subscribe(func(v int) { got = append(got, v) })
		s.Push(2)
		s.Push(3)

		assert.Equal(t, []int{2, 3}, got)
	})

	t.Run("deactivate stops delivery", func(t *testing.T) {
		g := NewGraph()
		s := NewSinkStream[int](g)

		var got []int
		sub := s.Stream.Subscribe(func(v int) { got = append(got, v) })

		s.Push(1)
		sub.Deactivate()
		s.Push(2)

		assert.Equal(t, []int{1}, got)
	})
}

func TestMapStream(t *testing.T) {
	g := NewGraph()
	s := NewSinkStream[int](g)
	doubled := MapStream(&s.Stream, func(v int) int { return v * 2 })

	var got []int
	doubled.Subscribe(func(v int) { got = append(got, v) })

	s.Push(3)
	s.Push(4)

	assert.Equal(t, []int{6, 8}, got)
}

func TestFilterStream(t *testing.T) {
	g := NewGraph()
	s := NewSinkStream[int](g)
	evens := FilterStream(&s.Stream, func(v int) bool { return v%2 == 0 })

	var got []int
	evens.Subscribe(func(v int) { got = append(got, v) })

	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		s.Push(v)
	}

	assert.Equal(t, []int{2, 4, 6}, got)
}

func TestScanStream(t *testing.T) {
	g := NewGraph()
	s := NewSinkStream[int](g)
	sum := ScanStream(&s.Stream, func(v int, acc int) int { return acc + v }, 0)

	var got []int
	sum.Subscribe(func(v int) { got = append(got, v) })

	s.Push(1)
	s.Push(2)
	s.Push(3)

	assert.Equal(t, []int{1, 3, 6}, got)
}

func TestMergeStreams(t *testing.T) {
	g := NewGraph()
	a := NewSinkStream[string](g)
	b := NewSinkStream[string](g)
	merged := MergeStreams(&a.Stream, &b.Stream)

	var got []string
	merged.Subscribe(func(v string) { got = append(got, v) })

	a.Push("a1")
	b.Push("b1")
	a.Push("a2")

	assert.Equal(t, []string{"a1", "b1", "a2"}, got)
}

func TestSplitStream(t *testing.T) {
	g := NewGraph()
	s := NewSinkStream[int](g)
	evens, odds := SplitStream(&s.Stream, func(v int) bool { return v%2 == 0 })

	var gotEvens, gotOdds []int
	evens.Subscribe(func(v int) { gotEvens = append(gotEvens, v) })
	odds.Subscribe(func(v int) { gotOdds = append(gotOdds, v) })

	for _, v := range []int{1, 2, 3, 4} {
		s.Push(v)
	}

	assert.Equal(t, []int{2, 4}, gotEvens)
	assert.Equal(t, []int{1, 3}, gotOdds)
}

func TestSnapshotStream(t *testing.T) {
	g := NewGraph()
	label := NewSinkBehavior(g, "a")
	trigger := NewSinkStream[int](g)
	snaps := SnapshotStream(&trigger.Stream, &label.Behavior)

	var got []string
	snaps.Subscribe(func(v string) { got = append(got, v) })

	trigger.Push(1)
	label.Publish("b")
	trigger.Push(2)

	assert.Equal(t, []string{"a", "b"}, got)
}

// TestSnapshotStreamKeepsDerivedBehaviorActive reproduces spec.md §8
// scenario B: snapshotting a stepper with the very stream that drives it
// must see the pre-occurrence value, and the stepper must actually be kept
// active by the snapshot so its own last stays current.
func TestSnapshotStreamKeepsDerivedBehaviorActive(t *testing.T) {
	g := NewGraph()
	s := NewSinkStream[int](g)
	stepper := NewStepperBehavior(g, 0, &s.Stream)
	snap := SnapshotStream(&s.Stream, stepper)

	var got []int
	snap.Subscribe(func(v int) { got = append(got, v) })

	s.Push(1)
	s.Push(2)

	assert.Equal(t, []int{0, 1}, got)
}

func TestKeepWhenStream(t *testing.T) {
	g := NewGraph()
	gate := NewSinkBehavior(g, true)
	s := NewSinkStream[int](g)
	kept := KeepWhenStream(&s.Stream, &gate.Behavior)

	var got []int
	kept.Subscribe(func(v int) { got = append(got, v) })

	s.Push(1)
	gate.Publish(false)
	s.Push(2)
	gate.Publish(true)
	s.Push(3)

	assert.Equal(t, []int{1, 3}, got)
}
