package reactive

import "github.com/haldorn/reactive/internal"

// Future[T] resolves at most once, then replays its value forever (spec.md
// §3 "Future").
type Future[T any] struct {
	g    *Graph
	core internal.Reactive
}

func (f *Future[T]) reactiveKind() string { return "future" }

// Subscribe registers cb; if f is already resolved cb fires immediately
// with the stored value (spec.md §3, §8 property 3).
func (f *Future[T]) Subscribe(cb func(T)) *Subscription {
	l := &callbackListener{onPush: func(_ internal.Tick, v any) { cb(v.(T)) }}
	node, _ := f.core.AddListener(l, internal.CurrentTick())
	return &Subscription{target: f.core, node: node}
}

// OfFuture is already resolved with v at construction (spec.md §4.4
// "of(v)").
func OfFuture[T any](g *Graph, v T) *Future[T] {
	return &Future[T]{g: g, core: internal.NewOfFuture(v)}
}

// NeverFuture never resolves (spec.md §4.4 "never()").
func NeverFuture[T any](g *Graph) *Future[T] {
	return &Future[T]{g: g, core: internal.NewNeverFuture()}
}

// SinkFuture is externally resolved (spec.md §6 "sink futures accept
// resolve(v) (once)").
type SinkFuture[T any] struct {
	Future[T]
	sink *internal.SinkFuture
}

func NewSinkFuture[T any](g *Graph) *SinkFuture[T] {
	sink := internal.NewSinkFuture()
	return &SinkFuture[T]{Future: Future[T]{g: g, core: sink}, sink: sink}
}

// Resolve settles the future with v. A second call is a no-op (spec.md §8
// property 3).
func (s *SinkFuture[T]) Resolve(v T) {
	s.g.g.Propagate(func(t internal.Tick) { s.sink.Publish(t, v) })
}

// MapFuture resolves with f(v) once parent resolves (spec.md §4.4
// "map(f)").
func MapFuture[A, B any](parent *Future[A], f func(A) B) *Future[B] {
	core := internal.NewMapFuture(parent.core, func(v any) any { return f(v.(A)) })
	return &Future[B]{g: parent.g, core: core}
}

// CombineFuture resolves with whichever of a, b resolves first (spec.md
// §4.4 "combine(f1, f2)").
func CombineFuture[T any](a, b *Future[T]) *Future[T] {
	core := internal.NewCombineFuture(a.core, b.core)
	return &Future[T]{g: a.g, core: core}
}

// Lift2Future resolves once both a and b have resolved.
func Lift2Future[A, B, C any](g *Graph, f func(A, B) C, a *Future[A], b *Future[B]) *Future[C] {
	core := internal.NewLiftFuture(func(vals []any) any {
		return f(vals[0].(A), vals[1].(B))
	}, []internal.Reactive{a.core, b.core})
	return &Future[C]{g: g, core: core}
}

// Lift3Future is Lift2Future generalized to three parents.
func Lift3Future[A, B, C, D any](g *Graph, f func(A, B, C) D, a *Future[A], b *Future[B], c *Future[C]) *Future[D] {
	core := internal.NewLiftFuture(func(vals []any) any {
		return f(vals[0].(A), vals[1].(B), vals[2].(C))
	}, []internal.Reactive{a.core, b.core, c.core})
	return &Future[D]{g: g, core: core}
}

// FlatMapFuture resolves with whatever future fn produces once parent
// resolves (spec.md §4.4 "flatMap(f)").
func FlatMapFuture[A, B any](parent *Future[A], fn func(A) *Future[B]) *Future[B] {
	core := internal.NewFlatMapFuture(parent.core, func(v any) internal.Reactive {
		return fn(v.(A)).core
	})
	return &Future[B]{g: parent.g, core: core}
}

// FromPromiseFuture bridges a Thenable into a Future (spec.md §4.4
// "fromPromise(p)"). A rejection leaves the future unresolved forever
// (spec.md §9 Open Question (b)).
func FromPromiseFuture[T any](g *Graph, p internal.Thenable) *Future[T] {
	core := internal.NewFromPromiseFuture(g.g, p)
	return &Future[T]{g: g, core: core}
}

// NextOccurence is a Behavior<Future> whose value at any sample time t
// resolves on s's next occurrence strictly after t (spec.md §4.4
// "nextOccurence(stream)").
func NextOccurence[T any](s *Stream[T]) *Behavior[*Future[T]] {
	base := internal.NewNextOccurenceBehavior(s.core)
	wrapped := internal.NewMapBehavior(base, func(v any) any {
		return &Future[T]{g: s.g, core: v.(internal.Reactive)}
	})
	return &Behavior[*Future[T]]{g: s.g, core: wrapped}
}
