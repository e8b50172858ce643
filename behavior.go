package reactive

import "github.com/haldorn/reactive/internal"

// Behavior[T] is a continuously defined, sampleable value (spec.md §3
// "Behavior"). Unlike a Stream it has a current reading: Subscribe
// delivers it immediately, and At samples it without side effects.
type Behavior[T any] struct {
	g    *Graph
	core internal.BehaviorLike
}

func (b *Behavior[T]) reactiveKind() string { return "behavior" }

// At samples b's current value without side effects on the graph (spec.md
// §6 "at(behavior)").
func At[T any](b *Behavior[T]) T {
	return internal.SampleBehavior(b.core, internal.CurrentTick()).(T)
}

// Subscribe registers cb and immediately invokes it once with the current
// value (spec.md §4.3: a new observer of a Behavior sees the current value
// synchronously, then every subsequent change). Pushes made while the
// listener is being attached are not passed on, so the current value is
// delivered exactly once. A Behavior with no value yet (one derived from an
// unreplaced placeholder) first invokes cb when a value arrives.
func (b *Behavior[T]) Subscribe(cb func(T)) *Subscription {
	attaching := true
	l := &callbackListener{onPush: func(_ internal.Tick, v any) {
		if !attaching {
			cb(v.(T))
		}
	}}
	t := internal.CurrentTick()
	node, s := b.core.AddListener(l, t)
	attaching = false
	if s.IsPulling() {
		cb(At(b))
	} else if v, ok := b.core.Last(); ok {
		cb(v.(T))
	}
	return &Subscription{target: b.core, node: node}
}

// Observe is the richer subscription spec.md §6 describes: push fires on
// every change, beginPulling fires when b enters Pull/OnlyPull state and
// its return value (endPulling) fires when b leaves it.
func (b *Behavior[T]) Observe(push func(T), beginPulling func() func()) *Subscription {
	var endPulling func()
	l := &callbackListener{
		onPush: func(_ internal.Tick, v any) { push(v.(T)) },
		onChangeState: func(s internal.State) {
			if s.IsPulling() {
				if beginPulling != nil {
					endPulling = beginPulling()
				}
			} else if endPulling != nil {
				endPulling()
				endPulling = nil
			}
		},
	}
	t := internal.CurrentTick()
	node, s := b.core.AddListener(l, t)
	if s.IsPulling() && beginPulling != nil {
		endPulling = beginPulling()
	}
	return &Subscription{target: b.core, node: node}
}

// OfBehavior is a constant (spec.md §4.3 "of(v)").
func OfBehavior[T any](g *Graph, v T) *Behavior[T] {
	return &Behavior[T]{g: g, core: internal.NewOfBehavior(v)}
}

// FromFunctionBehavior samples fn fresh on every pull (spec.md §4.3
// "fromFunction(fn)").
func FromFunctionBehavior[T any](g *Graph, fn func() T) *Behavior[T] {
	core := internal.NewFunctionBehavior(func() any { return fn() })
	return &Behavior[T]{g: g, core: core}
}

// SinkBehavior is an externally driven Behavior (spec.md §6 "sink
// behaviors accept publish(v)").
type SinkBehavior[T any] struct {
	Behavior[T]
	sink *internal.SinkBehavior
}

func NewSinkBehavior[T any](g *Graph, initial T) *SinkBehavior[T] {
	sink := internal.NewSinkBehavior(initial)
	return &SinkBehavior[T]{Behavior: Behavior[T]{g: g, core: sink}, sink: sink}
}

// Publish updates the behavior's current value at a fresh tick.
func (s *SinkBehavior[T]) Publish(v T) {
	s.g.g.Propagate(func(t internal.Tick) { s.sink.Publish(t, v) })
}

// ProducerBehavior is driven by an external source that activates on 0→1
// listeners and deactivates on 1→0 (spec.md §4.3 "producer(initial,
// activate)").
type ProducerBehavior[T any] struct{ Behavior[T] }

func NewProducerBehavior[T any](g *Graph, initial T, activate func(push func(T)) (deactivate func())) *ProducerBehavior[T] {
	core := internal.NewProducerBehavior(g.g, initial, func(push func(v any)) func() {
		return activate(func(v T) { push(v) })
	})
	return &ProducerBehavior[T]{Behavior[T]{g: g, core: core}}
}

// NewStepperBehavior starts at initial and adopts each occurrence of
// stream (spec.md §4.3 "stepper(initial, stream)" — the delayed-stepper
// invariant, §8 property 4).
func NewStepperBehavior[T any](g *Graph, initial T, stream *Stream[T]) *Behavior[T] {
	core := internal.NewStepperBehavior(g.g, initial, stream.core)
	return &Behavior[T]{g: g, core: core}
}

// NewScanBehavior accumulates over stream starting at seed, taken at
// construction time — every call is an independent accumulator (spec.md
// §4.3 "scan-behavior").
func NewScanBehavior[T, Acc any](g *Graph, f func(v T, acc Acc) Acc, seed Acc, stream *Stream[T]) *Behavior[Acc] {
	core := internal.NewScanBehavior(g.g, func(v, acc any) any {
		return f(v.(T), acc.(Acc))
	}, seed, stream.core)
	return &Behavior[Acc]{g: g, core: core}
}

// MapBehavior emits f(at b) on every change to b and on every pull.
func MapBehavior[A, B any](b *Behavior[A], f func(A) B) *Behavior[B] {
	core := internal.NewMapBehavior(b.core, func(v any) any { return f(v.(A)) })
	return &Behavior[B]{g: b.g, core: core}
}

// Lift2 combines two Behaviors with f, Push only while both are Push
// (spec.md §4.3 "lift(f, b1..bn)").
func Lift2[A, B, C any](g *Graph, f func(A, B) C, a *Behavior[A], b *Behavior[B]) *Behavior[C] {
	core := internal.NewLiftBehavior(func(vals []any) any {
		return f(vals[0].(A), vals[1].(B))
	}, []internal.BehaviorLike{a.core, b.core})
	return &Behavior[C]{g: g, core: core}
}

// Lift3 is Lift2 generalized to three parents.
func Lift3[A, B, C, D any](g *Graph, f func(A, B, C) D, a *Behavior[A], b *Behavior[B], c *Behavior[C]) *Behavior[D] {
	core := internal.NewLiftBehavior(func(vals []any) any {
		return f(vals[0].(A), vals[1].(B), vals[2].(C))
	}, []internal.BehaviorLike{a.core, b.core, c.core})
	return &Behavior[D]{g: g, core: core}
}

// ApBehavior applies a Behavior of functions to a Behavior of arguments
// (spec.md §4.3 "ap(fB, xB)").
func ApBehavior[A, B any](fB *Behavior[func(A) B], xB *Behavior[A]) *Behavior[B] {
	adaptedF := internal.NewMapBehavior(fB.core, func(v any) any {
		fn := v.(func(A) B)
		return func(x any) any { return fn(x.(A)) }
	})
	core := internal.NewApBehavior(adaptedF, xB.core)
	return &Behavior[B]{g: fB.g, core: core}
}

// ChainBehavior re-derives its inner Behavior from outer's current value on
// every change (spec.md §4.3 "chain(fn)").
func ChainBehavior[A, B any](outer *Behavior[A], fn func(A) *Behavior[B]) *Behavior[B] {
	core := internal.NewChainBehavior(outer.core, func(v any) internal.BehaviorLike {
		return fn(v.(A)).core
	})
	return &Behavior[B]{g: outer.g, core: core}
}

// MomentSampler is handed to a moment body so its reads can be recorded
// for dynamic dependency tracking (spec.md §4.3 "moment(body)").
type MomentSampler struct {
	sample func(internal.BehaviorLike) any
}

// SampleIn reads b's current value from inside a moment body, recording
// the dependency.
func SampleIn[T any](s *MomentSampler, b *Behavior[T]) T {
	return s.sample(b.core).(T)
}

// NewMomentBehavior recomputes body on every push from any Behavior it
// read during its previous run, re-subscribing to exactly that read set
// each time (spec.md §9 "the only combinator whose parent set mutates").
func NewMomentBehavior[T any](g *Graph, body func(s *MomentSampler) T) *Behavior[T] {
	core := internal.NewMomentBehavior(func(sample func(internal.BehaviorLike) any) any {
		return body(&MomentSampler{sample: sample})
	})
	return &Behavior[T]{g: g, core: core}
}

// IntegrateBehavior approximates the integral of b over observed ticks via
// the trapezoid rule (spec.md §4.3 "integrate(behavior)").
func IntegrateBehavior(b *Behavior[float64]) *Behavior[float64] {
	core := internal.NewIntegrateBehavior(b.core)
	return &Behavior[float64]{g: b.g, core: core}
}

// SwitcherBehavior starts at initial and replaces its inner Behavior with
// whatever stream last pushed (spec.md §4.3 "switcher(initial, stream)").
func SwitcherBehavior[T any](initial *Behavior[T], stream *Stream[*Behavior[T]]) *Behavior[T] {
	adapted := internal.NewMapStream(stream.core, func(v any) any {
		return v.(*Behavior[T]).core
	})
	core := internal.NewSwitcherBehavior(initial.core, adapted)
	return &Behavior[T]{g: initial.g, core: core}
}

// SwitchToBehavior starts at initial and permanently switches to the
// Behavior future resolves with (spec.md §4.3 "switchTo(initial, future)").
func SwitchToBehavior[T any](initial *Behavior[T], future *Future[*Behavior[T]]) *Behavior[T] {
	adapted := internal.NewMapFuture(future.core, func(v any) any {
		return v.(*Behavior[T]).core
	})
	core := internal.NewSwitchToBehavior(initial.core, adapted)
	return &Behavior[T]{g: initial.g, core: core}
}
