package internal

import "time"

// StreamCore is Base under the Stream's name. A Stream never exposes
// pull() (spec.md §3 "Stream: no stored current value"). Every combinator
// below either adopts its single driving stream parent's state outright,
// or (merge) takes JoinParentStates over its parents, which reports Pull or
// OnlyPull rather than Inactive when no parent is Push yet (for example,
// merging unreplaced placeholders).
type StreamCore struct {
	Base
}

// push and changeStateDown make a bare StreamCore (the two branches NewSplit
// returns) satisfy Reactive. The splitter publishes to the branches
// directly, so nothing pushes to them as a listener.
func (s *StreamCore) push(Tick, any)        { panic(ErrIllegalPush) }
func (s *StreamCore) changeStateDown(State) {}

func NewStreamCore(initial State, alwaysActive bool, activate func(t Tick), deactivate func()) *StreamCore {
	return &StreamCore{NewBase(initial, alwaysActive, activate, deactivate)}
}

// --- sink ----------------------------------------------------------------

// SinkStream is always active and Push (spec.md §3 "A sink stream is
// always active"); external code drives it via Push.
type SinkStream struct{ *StreamCore }

func NewSinkStream() *SinkStream {
	return &SinkStream{NewStreamCore(Push, true, nil, nil)}
}

func (s *SinkStream) push(Tick, any)         { panic(ErrIllegalPush) }
func (s *SinkStream) changeStateDown(State) {}

// Push publishes v to every current listener at tick t.
func (s *SinkStream) Push(t Tick, v any) {
	s.Base.Publish(t, v)
}

// --- empty -----------------------------------------------------------------

// EmptyStream never emits and has no parents — used as a base case (e.g.
// spec.md §8 property 6 "snapshot(b, empty_stream) never fires").
type EmptyStream struct{ *StreamCore }

func NewEmptyStream() *EmptyStream {
	return &EmptyStream{NewStreamCore(Push, true, nil, nil)}
}

func (s *EmptyStream) push(Tick, any)         { panic(ErrIllegalPush) }
func (s *EmptyStream) changeStateDown(State) {}

// --- single-parent transforms: map / mapTo / filter / scanS -------------

// singleParentStream is the shared shape of every Stream combinator with
// exactly one Stream parent: subscribe on activate, unsubscribe on
// deactivate, adopt the parent's state outright.
type singleParentStream struct {
	*StreamCore
	parent     Reactive
	parentNode *ListenerNode
}

func newSingleParentStream(parent Reactive, forward Listener) *singleParentStream {
	sp := &singleParentStream{parent: parent}
	sp.StreamCore = NewStreamCore(Inactive, false, func(t Tick) {
		var s State
		sp.parentNode, s = Attach(parent, forward, t)
		sp.Base.SetState(s)
	}, func() {
		Detach(parent, sp.parentNode)
		sp.parentNode = nil
	})
	return sp
}

// MapStream emits f(a) for every parent occurrence a.
type MapStream struct {
	*singleParentStream
	f func(v any) any
}

func NewMapStream(parent Reactive, f func(v any) any) *MapStream {
	m := &MapStream{f: f}
	m.singleParentStream = newSingleParentStream(parent, m)
	return m
}

func (m *MapStream) push(t Tick, v any)      { m.Base.Publish(t, m.f(v)) }
func (m *MapStream) changeStateDown(s State) { m.Base.SetState(s) }

// MapToStream emits the fixed value v, ignoring the parent's payload.
type MapToStream struct {
	*singleParentStream
	value any
}

func NewMapToStream(parent Reactive, value any) *MapToStream {
	m := &MapToStream{value: value}
	m.singleParentStream = newSingleParentStream(parent, m)
	return m
}

func (m *MapToStream) push(t Tick, _ any)     { m.Base.Publish(t, m.value) }
func (m *MapToStream) changeStateDown(s State) { m.Base.SetState(s) }

// FilterStream emits a iff p(a).
type FilterStream struct {
	*singleParentStream
	p func(v any) bool
}

func NewFilterStream(parent Reactive, p func(v any) bool) *FilterStream {
	f := &FilterStream{p: p}
	f.singleParentStream = newSingleParentStream(parent, f)
	return f
}

func (f *FilterStream) push(t Tick, v any) {
	if f.p(v) {
		f.Base.Publish(t, v)
	}
}
func (f *FilterStream) changeStateDown(s State) { f.Base.SetState(s) }

// ScanSStream holds an accumulator; emits f(a, acc) and updates acc to the
// emitted value (spec.md §4.2 "scanS f s0").
type ScanSStream struct {
	*singleParentStream
	f   func(v, acc any) any
	acc any
}

func NewScanSStream(parent Reactive, f func(v, acc any) any, seed any) *ScanSStream {
	s := &ScanSStream{f: f, acc: seed}
	s.singleParentStream = newSingleParentStream(parent, s)
	return s
}

func (s *ScanSStream) push(t Tick, v any) {
	next := s.f(v, s.acc)
	s.acc = next
	s.Base.Publish(t, next)
}
func (s *ScanSStream) changeStateDown(st State) { s.Base.SetState(st) }

// --- behavior-dependent single-parent: filterApply / keepWhen / snapshot* ---

// behaviorKeepAliveSlot subscribes to a Behavior parent purely to keep it
// active so its Last() stays current; it reacts to nothing itself, since
// the owning combinator re-samples the behavior directly at push time.
type behaviorKeepAliveSlot struct{}

func (behaviorKeepAliveSlot) push(Tick, any)        {}
func (behaviorKeepAliveSlot) changeStateDown(State) {}

// FilterApplyStream emits a iff (pull pB)(a) — pB is a Behavior<func(any)bool>.
type FilterApplyStream struct {
	*StreamCore
	parent     Reactive
	parentNode *ListenerNode
	pB         BehaviorLike
	pBNode     *ListenerNode
}

func NewFilterApplyStream(parent Reactive, pB BehaviorLike) *FilterApplyStream {
	fa := &FilterApplyStream{parent: parent, pB: pB}
	fa.StreamCore = NewStreamCore(Inactive, false, fa.activate, fa.deactivate)
	return fa
}

func (fa *FilterApplyStream) activate(t Tick) {
	fa.pBNode, _ = Attach(fa.pB, behaviorKeepAliveSlot{}, t)
	var s State
	fa.parentNode, s = Attach(fa.parent, fa, t)
	fa.Base.SetState(s)
}

func (fa *FilterApplyStream) deactivate() {
	Detach(fa.parent, fa.parentNode)
	fa.parentNode = nil
	Detach(fa.pB, fa.pBNode)
	fa.pBNode = nil
}

func (fa *FilterApplyStream) push(t Tick, v any) {
	pred := SampleBehavior(fa.pB, t).(func(any) bool)
	if pred(v) {
		fa.Base.Publish(t, v)
	}
}
func (fa *FilterApplyStream) changeStateDown(s State) { fa.Base.SetState(s) }

// KeepWhenStream emits a iff (pull bB) is truthy.
type KeepWhenStream struct {
	*StreamCore
	parent     Reactive
	parentNode *ListenerNode
	bB         BehaviorLike
	bBNode     *ListenerNode
}

func NewKeepWhenStream(parent Reactive, bB BehaviorLike) *KeepWhenStream {
	kw := &KeepWhenStream{parent: parent, bB: bB}
	kw.StreamCore = NewStreamCore(Inactive, false, kw.activate, kw.deactivate)
	return kw
}

func (kw *KeepWhenStream) activate(t Tick) {
	kw.bBNode, _ = Attach(kw.bB, behaviorKeepAliveSlot{}, t)
	var s State
	kw.parentNode, s = Attach(kw.parent, kw, t)
	kw.Base.SetState(s)
}

func (kw *KeepWhenStream) deactivate() {
	Detach(kw.parent, kw.parentNode)
	kw.parentNode = nil
	Detach(kw.bB, kw.bBNode)
	kw.bBNode = nil
}

func (kw *KeepWhenStream) push(t Tick, v any) {
	if truthy(SampleBehavior(kw.bB, t)) {
		kw.Base.Publish(t, v)
	}
}
func (kw *KeepWhenStream) changeStateDown(s State) { kw.Base.SetState(s) }

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	default:
		return v != nil
	}
}

// SnapshotStream emits (pull bB) on every parent occurrence.
type SnapshotStream struct {
	*StreamCore
	parent     Reactive
	parentNode *ListenerNode
	bB         BehaviorLike
	bBNode     *ListenerNode
}

func NewSnapshotStream(parent Reactive, bB BehaviorLike) *SnapshotStream {
	s := &SnapshotStream{parent: parent, bB: bB}
	s.StreamCore = NewStreamCore(Inactive, false, s.activate, s.deactivate)
	return s
}

func (s *SnapshotStream) activate(t Tick) {
	s.bBNode, _ = Attach(s.bB, behaviorKeepAliveSlot{}, t)
	var st State
	s.parentNode, st = Attach(s.parent, s, t)
	s.Base.SetState(st)
}

func (s *SnapshotStream) deactivate() {
	Detach(s.parent, s.parentNode)
	s.parentNode = nil
	Detach(s.bB, s.bBNode)
	s.bBNode = nil
}

func (s *SnapshotStream) push(t Tick, _ any) {
	s.Base.Publish(t, SampleBehavior(s.bB, t))
}
func (s *SnapshotStream) changeStateDown(st State) { s.Base.SetState(st) }

// SnapshotWithStream emits f(a, pull bB).
type SnapshotWithStream struct {
	*StreamCore
	parent     Reactive
	parentNode *ListenerNode
	bB         BehaviorLike
	bBNode     *ListenerNode
	f          func(v, b any) any
}

func NewSnapshotWithStream(parent Reactive, f func(v, b any) any, bB BehaviorLike) *SnapshotWithStream {
	s := &SnapshotWithStream{parent: parent, bB: bB, f: f}
	s.StreamCore = NewStreamCore(Inactive, false, s.activate, s.deactivate)
	return s
}

func (s *SnapshotWithStream) activate(t Tick) {
	s.bBNode, _ = Attach(s.bB, behaviorKeepAliveSlot{}, t)
	var st State
	s.parentNode, st = Attach(s.parent, s, t)
	s.Base.SetState(st)
}

func (s *SnapshotWithStream) deactivate() {
	Detach(s.parent, s.parentNode)
	s.parentNode = nil
	Detach(s.bB, s.bBNode)
	s.bBNode = nil
}

func (s *SnapshotWithStream) push(t Tick, v any) {
	s.Base.Publish(t, s.f(v, SampleBehavior(s.bB, t)))
}
func (s *SnapshotWithStream) changeStateDown(st State) { s.Base.SetState(st) }

// --- merge / combine: N-ary pass-through ---------------------------------

// mergeSlot forwards every parent's occurrences to its MergeStream; one slot
// is shared by all parents.
type mergeSlot struct {
	owner *MergeStream
}

func (sl *mergeSlot) push(t Tick, v any)     { sl.owner.Base.Publish(t, v) }
func (sl *mergeSlot) changeStateDown(State) {} // the owner's state is computed only at activation

// MergeStream passes through whichever of its N parents pushes (spec.md
// §4.2 "merge" and "combine(...)" share the same pass-through rule; combine
// is just merge generalized to N streams).
type MergeStream struct {
	*StreamCore
	parents []Reactive
	nodes   []*ListenerNode
}

func NewMergeStream(parents ...Reactive) *MergeStream {
	m := &MergeStream{parents: parents}
	m.StreamCore = NewStreamCore(Inactive, false, m.activate, m.deactivate)
	return m
}

func (m *MergeStream) activate(t Tick) {
	m.nodes = make([]*ListenerNode, len(m.parents))
	states := make([]State, len(m.parents))
	slot := &mergeSlot{owner: m}
	for i, p := range m.parents {
		m.nodes[i], states[i] = Attach(p, slot, t)
	}
	m.Base.SetState(JoinParentStates(states, true))
}

func (m *MergeStream) deactivate() {
	for i, p := range m.parents {
		Detach(p, m.nodes[i])
	}
	m.nodes = nil
}

func (m *MergeStream) push(t Tick, v any)     { m.Base.Publish(t, v) }
func (m *MergeStream) changeStateDown(State) {}

// --- split -----------------------------------------------------------------

// splitter backs the two child streams Split returns, sharing one upstream
// subscription via a refcount (see doc on NewSplit).
type splitter struct {
	parent      Reactive
	pred        func(v any) bool
	parentNode  *ListenerNode
	refs        int
	trueBranch  *StreamCore
	falseBranch *StreamCore
}

// NewSplit builds the two streams produced by spec.md §4.2 "split p": one
// emits when p(a), the other when !p(a). They share a single subscription
// to parent, reference-counted across both branches' own activation.
func NewSplit(parent Reactive, pred func(v any) bool) (trueStream, falseStream *StreamCore) {
	sp := &splitter{parent: parent, pred: pred}
	sp.trueBranch = NewStreamCore(Inactive, false, sp.ref, sp.unref)
	sp.falseBranch = NewStreamCore(Inactive, false, sp.ref, sp.unref)
	return sp.trueBranch, sp.falseBranch
}

func (sp *splitter) ref(t Tick) {
	sp.refs++
	if sp.refs == 1 {
		var s State
		sp.parentNode, s = Attach(sp.parent, sp, t)
		sp.trueBranch.SetState(s)
		sp.falseBranch.SetState(s)
	}
}

func (sp *splitter) unref() {
	sp.refs--
	if sp.refs == 0 {
		Detach(sp.parent, sp.parentNode)
		sp.parentNode = nil
	}
}

func (sp *splitter) push(t Tick, v any) {
	if sp.pred(v) {
		sp.trueBranch.Publish(t, v)
	} else {
		sp.falseBranch.Publish(t, v)
	}
}

func (sp *splitter) changeStateDown(s State) {
	sp.trueBranch.SetState(s)
	sp.falseBranch.SetState(s)
}

// --- switchStream: delegate to the current inner stream --------------------

// SwitchStream delegates to the Stream currently held by a Behavior<Stream>
// (bB), swapping which inner stream it forwards from whenever bB updates
// (spec.md §4.2 "switchStream bB<S>", §4.6 switching engine).
type SwitchStream struct {
	*StreamCore
	bB        BehaviorLike
	bNode     *ListenerNode
	current   Reactive
	innerNode *ListenerNode
}

func NewSwitchStream(bB BehaviorLike) *SwitchStream {
	ss := &SwitchStream{bB: bB}
	ss.StreamCore = NewStreamCore(Inactive, false, ss.activate, ss.deactivate)
	return ss
}

func (ss *SwitchStream) activate(t Tick) {
	ss.bNode, _ = Attach(ss.bB, ss, t)

	inner := SampleBehavior(ss.bB, t).(Reactive)
	ss.Base.SetState(ss.swapInner(inner, t))
}

func (ss *SwitchStream) deactivate() {
	Detach(ss.current, ss.innerNode)
	ss.current, ss.innerNode = nil, nil
	Detach(ss.bB, ss.bNode)
	ss.bNode = nil
}

func (ss *SwitchStream) swapInner(next Reactive, t Tick) State {
	if next == ss.current {
		return ss.State()
	}
	Detach(ss.current, ss.innerNode)
	ss.current = next
	var s State
	ss.innerNode, s = Attach(next, &switchStreamInnerSlot{ss}, t)
	return s
}

// push is called when bB itself pushes a new inner stream (bB is in Push
// state, e.g. a stepper of streams).
func (ss *SwitchStream) push(t Tick, v any) {
	ss.Base.SetState(ss.swapInner(v.(Reactive), t))
}
func (ss *SwitchStream) changeStateDown(State) {}

type switchStreamInnerSlot struct{ ss *SwitchStream }

func (s *switchStreamInnerSlot) push(t Tick, v any)     { s.ss.Base.Publish(t, v) }
func (s *switchStreamInnerSlot) changeStateDown(State) {}

// --- delay / throttle / debounce: platform-timer combinators ---------------

// DelayStream emits each parent occurrence after a fixed wall-clock delay
// (spec.md §4.2 "delay Δ"). Timers are cancelled on deactivate (spec.md §6
// "Timers held by delay/throttle/debounce are cleared when the node
// deactivates").
type DelayStream struct {
	*StreamCore
	graph      *Graph
	parent     Reactive
	parentNode *ListenerNode
	d          time.Duration
	clock      Clock
	pending    map[*time.Duration]Cancel // keyed by a unique pointer per in-flight timer
}

func NewDelayStream(g *Graph, parent Reactive, d time.Duration, clock Clock) *DelayStream {
	ds := &DelayStream{graph: g, parent: parent, d: d, clock: clock, pending: map[*time.Duration]Cancel{}}
	ds.StreamCore = NewStreamCore(Inactive, false, ds.activate, ds.deactivate)
	return ds
}

func (ds *DelayStream) activate(t Tick) {
	var s State
	ds.parentNode, s = Attach(ds.parent, ds, t)
	ds.Base.SetState(s)
}

func (ds *DelayStream) deactivate() {
	Detach(ds.parent, ds.parentNode)
	ds.parentNode = nil
	for key, cancel := range ds.pending {
		cancel()
		delete(ds.pending, key)
	}
}

func (ds *DelayStream) push(_ Tick, v any) {
	key := new(time.Duration)
	ds.pending[key] = ds.clock.AfterFunc(ds.d, func() {
		ds.graph.Propagate(func(t Tick) {
			delete(ds.pending, key)
			ds.Base.Publish(t, v)
		})
	})
}

func (ds *DelayStream) changeStateDown(s State) { ds.Base.SetState(s) }

// ThrottleStream emits the first occurrence, then silences every further
// occurrence until Δ has passed since that emission (spec.md §4.2
// "throttle Δ").
type ThrottleStream struct {
	*StreamCore
	graph      *Graph
	parent     Reactive
	parentNode *ListenerNode
	d          time.Duration
	clock      Clock
	silenced   bool
	cancel     Cancel
}

func NewThrottleStream(g *Graph, parent Reactive, d time.Duration, clock Clock) *ThrottleStream {
	ts := &ThrottleStream{graph: g, parent: parent, d: d, clock: clock}
	ts.StreamCore = NewStreamCore(Inactive, false, ts.activate, ts.deactivate)
	return ts
}

func (ts *ThrottleStream) activate(t Tick) {
	var s State
	ts.parentNode, s = Attach(ts.parent, ts, t)
	ts.Base.SetState(s)
}

func (ts *ThrottleStream) deactivate() {
	Detach(ts.parent, ts.parentNode)
	ts.parentNode = nil
	if ts.cancel != nil {
		ts.cancel()
		ts.cancel = nil
	}
	ts.silenced = false
}

func (ts *ThrottleStream) push(t Tick, v any) {
	if ts.silenced {
		return
	}
	ts.silenced = true
	ts.Base.Publish(t, v)
	ts.cancel = ts.clock.AfterFunc(ts.d, func() {
		ts.graph.Propagate(func(Tick) {
			ts.silenced = false
			ts.cancel = nil
		})
	})
}

func (ts *ThrottleStream) changeStateDown(s State) { ts.Base.SetState(s) }

// DebounceStream resets its timer on every occurrence and emits the
// most-recent one once Δ has passed without a further occurrence (spec.md
// §4.2 "debounce Δ").
type DebounceStream struct {
	*StreamCore
	graph      *Graph
	parent     Reactive
	parentNode *ListenerNode
	d          time.Duration
	clock      Clock
	cancel     Cancel
}

func NewDebounceStream(g *Graph, parent Reactive, d time.Duration, clock Clock) *DebounceStream {
	db := &DebounceStream{graph: g, parent: parent, d: d, clock: clock}
	db.StreamCore = NewStreamCore(Inactive, false, db.activate, db.deactivate)
	return db
}

func (db *DebounceStream) activate(t Tick) {
	var s State
	db.parentNode, s = Attach(db.parent, db, t)
	db.Base.SetState(s)
}

func (db *DebounceStream) deactivate() {
	Detach(db.parent, db.parentNode)
	db.parentNode = nil
	if db.cancel != nil {
		db.cancel()
		db.cancel = nil
	}
}

func (db *DebounceStream) push(_ Tick, v any) {
	if db.cancel != nil {
		db.cancel()
	}
	db.cancel = db.clock.AfterFunc(db.d, func() {
		db.graph.Propagate(func(t Tick) {
			db.cancel = nil
			db.Base.Publish(t, v)
		})
	})
}

func (db *DebounceStream) changeStateDown(s State) { db.Base.SetState(s) }
