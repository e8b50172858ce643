package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haldorn/reactive/internal"
)

func TestOfFutureResolvesImmediately(t *testing.T) {
	g := NewGraph()
	f := OfFuture(g, "done")

	var got string
	f.Subscribe(func(v string) { got = v })
	assert.Equal(t, "done", got)
}

func TestNeverFutureNeverResolves(t *testing.T) {
	g := NewGraph()
	f := NeverFuture[int](g)

	called := false
	f.Subscribe(func(int) { called = true })
	assert.False(t, called)
}

func TestSinkFutureResolvesOnce(t *testing.T) {
	g := NewGraph()
	f := NewSinkFuture[int](g)

	var got []int
	f.Subscribe(func(v int) { got = append(got, v) })

	f.Resolve(1)
	f.Resolve(2) // second call is a no-op, per spec.md §8 property 3

	assert.Equal(t, []int{1}, got)

	// subscribing after resolution replays the stored value immediately.
	var later int
	f.Subscribe(func(v int) { later = v })
	assert.Equal(t, 1, later)
}

func TestMapFuture(t *testing.T) {
	g := NewGraph()
	f := NewSinkFuture[int](g)
	doubled := MapFuture(&f.Future, func(v int) int { return v * 2 })

	var got int
	doubled.Subscribe(func(v int) { got = v })

	f.Resolve(21)
	assert.Equal(t, 42, got)
}

func TestCombineFutureEarliestWins(t *testing.T) {
	g := NewGraph()
	a := NewSinkFuture[string](g)
	b := NewSinkFuture[string](g)
	combined := CombineFuture(&a.Future, &b.Future)

	var got string
	combined.Subscribe(func(v string) { got = v })

	b.Resolve("b wins")
	a.Resolve("too late")

	assert.Equal(t, "b wins", got)
}

func TestFlatMapFuture(t *testing.T) {
	g := NewGraph()
	outer := NewSinkFuture[int](g)

	flat := FlatMapFuture(&outer.Future, func(v int) *Future[int] {
		return OfFuture(g, v*10)
	})

	var got int
	flat.Subscribe(func(v int) { got = v })

	outer.Resolve(4)
	assert.Equal(t, 40, got)
}

func TestFromPromiseFutureResolves(t *testing.T) {
	g := NewGraph()
	thenable := internal.ThenableFunc(func(resolve func(v any), reject func(error)) {
		resolve(42)
	})
	f := FromPromiseFuture[int](g, thenable)

	var got int
	f.Subscribe(func(v int) { got = v })

	assert.Equal(t, 42, got)
}

func TestFromPromiseFutureRejectionNeverResolves(t *testing.T) {
	g := NewGraph()
	thenable := internal.ThenableFunc(func(resolve func(v any), reject func(error)) {
		reject(errors.New("boom"))
	})
	f := FromPromiseFuture[int](g, thenable)

	called := false
	f.Subscribe(func(int) { called = true })

	assert.False(t, called)
}

func TestNextOccurenceResolvesOnNextOccurrenceAfterSample(t *testing.T) {
	g := NewGraph()
	s := NewSinkStream[int](g)
	nb := NextOccurence(&s.Stream)
	nb.Subscribe(func(*Future[int]) {})

	fut1 := At(nb)
	var got1 int
	fut1.Subscribe(func(v int) { got1 = v })

	s.Push(1)
	assert.Equal(t, 1, got1)

	fut2 := At(nb)
	var got2 int
	fut2.Subscribe(func(v int) { got2 = v })

	s.Push(2)
	assert.Equal(t, 2, got2)
	assert.Equal(t, 1, got1, "the first future must not be affected by the second occurrence")
}
