package reactive

import (
	"time"

	"github.com/haldorn/reactive/internal"
)

// Stream[T] is a discrete sequence of occurrences of T (spec.md §3
// "Stream"). It carries no current value — Subscribe only ever delivers
// values produced after the call, matching the ordering rule in spec.md
// §4.2.
type Stream[T any] struct {
	g    *Graph
	core internal.Reactive
}

func (s *Stream[T]) reactiveKind() string { return "stream" }

// Subscribe registers cb to run on every future occurrence.
func (s *Stream[T]) Subscribe(cb func(T)) *Subscription {
	l := &callbackListener{onPush: func(_ internal.Tick, v any) { cb(v.(T)) }}
	node, _ := s.core.AddListener(l, internal.CurrentTick())
	return &Subscription{target: s.core, node: node}
}

// SinkStream is an externally driven Stream (spec.md §6 "sink streams
// accept push(v)").
type SinkStream[T any] struct {
	Stream[T]
	sink *internal.SinkStream
}

// NewSinkStream creates a stream driven by calling Push.
func NewSinkStream[T any](g *Graph) *SinkStream[T] {
	sink := internal.NewSinkStream()
	return &SinkStream[T]{Stream: Stream[T]{g: g, core: sink}, sink: sink}
}

// Push publishes v to every current subscriber at a fresh tick.
func (s *SinkStream[T]) Push(v T) {
	s.g.g.Propagate(func(t internal.Tick) { s.sink.Push(t, v) })
}

// EmptyStream never emits (spec.md §8 property 6).
func EmptyStream[T any](g *Graph) *Stream[T] {
	return &Stream[T]{g: g, core: internal.NewEmptyStream()}
}

// MapStream emits f(a) for every occurrence a.
func MapStream[A, B any](s *Stream[A], f func(A) B) *Stream[B] {
	core := internal.NewMapStream(s.core, func(v any) any { return f(v.(A)) })
	return &Stream[B]{g: s.g, core: core}
}

// MapToStream emits the fixed value v, ignoring each occurrence's payload.
func MapToStream[A, B any](s *Stream[A], v B) *Stream[B] {
	core := internal.NewMapToStream(s.core, v)
	return &Stream[B]{g: s.g, core: core}
}

// FilterStream emits a iff p(a).
func FilterStream[A any](s *Stream[A], p func(A) bool) *Stream[A] {
	core := internal.NewFilterStream(s.core, func(v any) bool { return p(v.(A)) })
	return &Stream[A]{g: s.g, core: core}
}

// ScanStream holds an accumulator seeded at seed, emitting f(a, acc) and
// updating acc to the emitted value on every occurrence.
func ScanStream[A, Acc any](s *Stream[A], f func(a A, acc Acc) Acc, seed Acc) *Stream[Acc] {
	core := internal.NewScanSStream(s.core, func(v, acc any) any {
		return f(v.(A), acc.(Acc))
	}, seed)
	return &Stream[Acc]{g: s.g, core: core}
}

// adaptPredicateBehavior bridges a Behavior[func(A) bool] into the
// internal.BehaviorLike holding func(any) bool that FilterApplyStream
// expects, since Go's type system gives those two function types no
// relationship to each other despite A being concrete at each call site.
func adaptPredicateBehavior[A any](pB *Behavior[func(A) bool]) internal.BehaviorLike {
	return internal.NewMapBehavior(pB.core, func(v any) any {
		pred := v.(func(A) bool)
		return func(x any) bool { return pred(x.(A)) }
	})
}

// FilterApplyStream emits a iff (at pB)(a).
func FilterApplyStream[A any](s *Stream[A], pB *Behavior[func(A) bool]) *Stream[A] {
	core := internal.NewFilterApplyStream(s.core, adaptPredicateBehavior(pB))
	return &Stream[A]{g: s.g, core: core}
}

// KeepWhenStream emits a iff (at bB) is true.
func KeepWhenStream[A any](s *Stream[A], bB *Behavior[bool]) *Stream[A] {
	core := internal.NewKeepWhenStream(s.core, bB.core)
	return &Stream[A]{g: s.g, core: core}
}

// SnapshotStream emits (at bB) on every occurrence of s.
func SnapshotStream[A, B any](s *Stream[A], bB *Behavior[B]) *Stream[B] {
	core := internal.NewSnapshotStream(s.core, bB.core)
	return &Stream[B]{g: s.g, core: core}
}

// SnapshotWithStream emits f(a, at bB) on every occurrence of s.
func SnapshotWithStream[A, B, C any](s *Stream[A], f func(a A, b B) C, bB *Behavior[B]) *Stream[C] {
	core := internal.NewSnapshotWithStream(s.core, func(v, b any) any {
		return f(v.(A), b.(B))
	}, bB.core)
	return &Stream[C]{g: s.g, core: core}
}

// MergeStreams passes through whichever of its parents pushes (spec.md
// §4.2 "merge"/"combine" — combine is merge generalized to N streams).
func MergeStreams[A any](streams ...*Stream[A]) *Stream[A] {
	parents := make([]internal.Reactive, len(streams))
	for i, s := range streams {
		parents[i] = s.core
	}
	core := internal.NewMergeStream(parents...)
	return &Stream[A]{g: streams[0].g, core: core}
}

// CombineStreams is merge generalized to N streams (spec.md §4.2
// "combine(...)" — the same pass-through rule as MergeStreams).
func CombineStreams[A any](streams ...*Stream[A]) *Stream[A] {
	return MergeStreams(streams...)
}

// SplitStream partitions s into the occurrences matching pred and those
// that don't, sharing a single upstream subscription between the two.
func SplitStream[A any](s *Stream[A], pred func(A) bool) (matched, unmatched *Stream[A]) {
	t, f := internal.NewSplit(s.core, func(v any) bool { return pred(v.(A)) })
	return &Stream[A]{g: s.g, core: t}, &Stream[A]{g: s.g, core: f}
}

// SwitchStream delegates to whichever Stream bB currently holds, swapping
// whenever bB updates (spec.md §4.2 "switchStream").
func SwitchStream[A any](bB *Behavior[*Stream[A]]) *Stream[A] {
	adapted := internal.NewMapBehavior(bB.core, func(v any) any {
		return v.(*Stream[A]).core
	})
	core := internal.NewSwitchStream(adapted)
	return &Stream[A]{g: bB.g, core: core}
}

// DelayStream emits each occurrence of s after a fixed wall-clock delay,
// scheduled against the platform clock (spec.md §4.2 "delay Δ").
func DelayStream[A any](s *Stream[A], d time.Duration) *Stream[A] {
	core := internal.NewDelayStream(s.g.g, s.core, d, internal.RealClock{})
	return &Stream[A]{g: s.g, core: core}
}

// ThrottleStream emits the first occurrence of s, then silences every
// further occurrence until d has passed since that emission (spec.md §4.2
// "throttle Δ").
func ThrottleStream[A any](s *Stream[A], d time.Duration) *Stream[A] {
	core := internal.NewThrottleStream(s.g.g, s.core, d, internal.RealClock{})
	return &Stream[A]{g: s.g, core: core}
}

// DebounceStream resets its timer on every occurrence of s and emits the
// most-recent one once d has passed without a further occurrence (spec.md
// §4.2 "debounce Δ").
func DebounceStream[A any](s *Stream[A], d time.Duration) *Stream[A] {
	core := internal.NewDebounceStream(s.g.g, s.core, d, internal.RealClock{})
	return &Stream[A]{g: s.g, core: core}
}
