package reactive

import "github.com/haldorn/reactive/internal"

// Placeholder[T] stands in for a Stream or Behavior that doesn't exist
// yet, letting consumers be wired against it before the producer is built
// — the mechanism spec.md §4.5 describes for tying cyclic graphs. Build
// downstream combinators against AsStream()/AsBehavior(), build the real
// upstream construct from those combinators, then call ReplaceWithStream
// or ReplaceWithBehavior to close the loop.
type Placeholder[T any] struct {
	g    *Graph
	core *internal.Placeholder
}

// NewPlaceholder creates an unreplaced placeholder.
func NewPlaceholder[T any](g *Graph) *Placeholder[T] {
	return &Placeholder[T]{g: g, core: internal.NewPlaceholder()}
}

// Replaced reports whether a ReplaceWith* call has run.
func (p *Placeholder[T]) Replaced() bool { return p.core.Replaced() }

// AsStream views the placeholder as a Stream[T]. Subscribing before
// replacement buffers the listener; it fires once the placeholder is
// replaced and the underlying source pushes.
func (p *Placeholder[T]) AsStream() *Stream[T] {
	return &Stream[T]{g: p.g, core: p.core}
}

// AsBehavior views the placeholder as a Behavior[T]. Sampling before
// replacement panics, matching spec.md §4.5's explicit error case.
func (p *Placeholder[T]) AsBehavior() *Behavior[T] {
	return &Behavior[T]{g: p.g, core: p.core}
}

// ReplaceWithStream ties the knot, binding the placeholder to a concrete
// Stream. Returns an error if called a second time.
func (p *Placeholder[T]) ReplaceWithStream(s *Stream[T]) error {
	var err error
	p.g.g.Propagate(func(t internal.Tick) {
		err = p.core.ReplaceWith(s.core, t)
	})
	return err
}

// ReplaceWithBehavior ties the knot, binding the placeholder to a concrete
// Behavior. Returns an error if called a second time.
func (p *Placeholder[T]) ReplaceWithBehavior(b *Behavior[T]) error {
	var err error
	p.g.g.Propagate(func(t internal.Tick) {
		err = p.core.ReplaceWith(b.core, t)
	})
	return err
}
