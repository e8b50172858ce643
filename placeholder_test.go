package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderBuffersThenForwards(t *testing.T) {
	g := NewGraph()
	ph := NewPlaceholder[int](g)

	doubled := MapStream(ph.AsStream(), func(v int) int { return v * 2 })

	var got []int
	doubled.Subscribe(func(v int) { got = append(got, v) })

	source := NewSinkStream[int](g)
	err := ph.ReplaceWithStream(&source.Stream)
	assert.NoError(t, err)

	source.Push(5)
	source.Push(6)

	assert.Equal(t, []int{10, 12}, got)
}

func TestPlaceholderDoubleReplaceErrors(t *testing.T) {
	g := NewGraph()
	ph := NewPlaceholder[int](g)

	a := NewSinkStream[int](g)
	b := NewSinkStream[int](g)

	assert.NoError(t, ph.ReplaceWithStream(&a.Stream))
	err := ph.ReplaceWithStream(&b.Stream)
	assert.Error(t, err)
}

func TestPlaceholderAsBehaviorCycle(t *testing.T) {
	g := NewGraph()
	ph := NewPlaceholder[int](g)

	derived := MapBehavior(ph.AsBehavior(), func(v int) int { return v + 1 })
	derived.Subscribe(func(int) {})

	sink := NewSinkBehavior(g, 10)
	require := assert.New(t)
	require.NoError(ph.ReplaceWithBehavior(&sink.Behavior))

	assert.Equal(t, 11, At(derived))
	sink.Publish(20)
	assert.Equal(t, 21, At(derived))
}
