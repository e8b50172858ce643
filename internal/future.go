package internal

// FutureCore is the shared machinery for every Future operator node
// (spec.md §3 "Future", §4.4). It is to Future what Base is to all
// reactives, plus the Done-terminal behavior: once resolved, a value is
// stored forever and new listeners fire synchronously instead of linking
// into the list.
type FutureCore struct {
	Base

	value    any
	hasValue bool
	// resolveTick is the tick at which resolution happened; replayed to
	// listeners that subscribe after the fact.
	resolveTick Tick
}

// NewFutureCore constructs an unresolved (or, for of, pre-resolved)
// FutureCore.
func NewFutureCore(initial State, alwaysActive bool, activate func(t Tick), deactivate func()) *FutureCore {
	return &FutureCore{Base: NewBase(initial, alwaysActive, activate, deactivate)}
}

// Resolved reports whether this future has stored its value. A derived
// future can adopt Done from a resolving parent through changeStateDown
// before the parent's push reaches it; it is only resolved once Resolve
// has stored its own value.
func (f *FutureCore) Resolved() bool { return f.hasValue }

// Value returns the stored value and whether resolution has happened.
func (f *FutureCore) Value() (any, bool) { return f.value, f.hasValue }

// Resolve stores v as the result and enters Done, publishing to current
// listeners and unsubscribing parents via teardown. A second call (or a
// call after Resolve already ran) is silently ignored, per spec.md §6/§8
// property 3 — "double resolve leaves state unchanged and does not
// re-notify".
func (f *FutureCore) Resolve(t Tick, v any, teardown func()) {
	if f.Resolved() {
		return
	}

	f.value = v
	f.hasValue = true
	f.resolveTick = t

	if teardown != nil {
		teardown()
	}

	f.Base.SetState(Done)
	f.Base.Publish(t, v)
}

// AddListener overrides Base.AddListener: a Done future fires the new
// listener immediately with the stored value instead of linking it
// (spec.md §3 "once Done, new listeners are immediately fired with the
// stored value").
func (f *FutureCore) AddListener(l Listener, t Tick) (*ListenerNode, State) {
	if f.Resolved() {
		if f.hasValue {
			l.push(f.resolveTick, f.value)
		}
		return nil, Done
	}

	return f.Base.AddListener(l, t)
}

// RemoveListener overrides Base.RemoveListener to tolerate the nil node
// AddListener hands back for an already-Done future.
func (f *FutureCore) RemoveListener(n *ListenerNode) {
	if n == nil {
		return
	}
	f.Base.RemoveListener(n)
}

// --- of / never -------------------------------------------------------

// OfFuture is already Done at construction (spec.md §4.4 "of(v): state
// Done, time=−∞").
type OfFuture struct{ *FutureCore }

func NewOfFuture(v any) *OfFuture {
	core := NewFutureCore(Done, true, nil, nil)
	core.value = v
	core.hasValue = true
	core.resolveTick = 0
	return &OfFuture{core}
}

func (f *OfFuture) push(Tick, any)         { panic(ErrIllegalPush) }
func (f *OfFuture) changeStateDown(State) {}

// NeverFuture never resolves. Per the teacher's source and spec.md §9 Open
// Question territory, "Done, never emits" is internally inconsistent with
// §3's "Done ⇒ replay stored value on subscribe" invariant (there is no
// stored value to replay), so this implementation keeps NeverFuture
// permanently non-Done instead: listeners link normally and simply never
// get pushed to. Documented in DESIGN.md.
type NeverFuture struct{ *FutureCore }

func NewNeverFuture() *NeverFuture {
	return &NeverFuture{NewFutureCore(Pull, true, nil, nil)}
}

func (f *NeverFuture) push(Tick, any)         { panic(ErrIllegalPush) }
func (f *NeverFuture) changeStateDown(State) {}
func (f *NeverFuture) Pull(Tick) any          { return nil }

// --- sink ---------------------------------------------------------------

// SinkFuture is externally resolved via Resolve (spec.md §6: "sink futures
// accept resolve(v) (once)").
type SinkFuture struct{ *FutureCore }

func NewSinkFuture() *SinkFuture {
	return &SinkFuture{NewFutureCore(Push, true, nil, nil)}
}

func (f *SinkFuture) push(Tick, any)         { panic(ErrIllegalPush) }
func (f *SinkFuture) changeStateDown(State) {}

// Publish resolves the sink future. Exposed as Publish to match the naming
// the generic wrapper uses uniformly across sink kinds; semantically this
// is spec.md's resolve(v).
func (f *SinkFuture) Publish(t Tick, v any) {
	f.Resolve(t, v, nil)
}

// --- map -------------------------------------------------------------------

// MapFuture resolves with f(v) once its parent resolves (spec.md §4.4
// "map(f)").
type MapFuture struct {
	*FutureCore
	parent Reactive
	node   *ListenerNode
	f      func(v any) any
}

func NewMapFuture(parent Reactive, f func(v any) any) *MapFuture {
	mf := &MapFuture{parent: parent, f: f}
	mf.FutureCore = NewFutureCore(Inactive, false, mf.activate, mf.deactivate)
	return mf
}

func (mf *MapFuture) activate(t Tick) {
	var s State
	mf.node, s = mf.parent.AddListener(mf, t)
	mf.Base.SetState(s)
}

func (mf *MapFuture) deactivate() {
	mf.parent.RemoveListener(mf.node)
	mf.node = nil
}

func (mf *MapFuture) push(t Tick, v any) {
	mf.Resolve(t, mf.f(v), mf.deactivate)
}

func (mf *MapFuture) changeStateDown(s State) {
	if !mf.Resolved() {
		mf.Base.SetState(s)
	}
}

// --- combine: earliest of two wins --------------------------------------

// CombineFuture resolves with whichever of two parent futures resolves
// first (spec.md §4.4 "combine(f1, f2): resolves with whichever resolves
// first; both parents unsubscribed on resolve").
type CombineFuture struct {
	*FutureCore
	a, b  Reactive
	nodeA *ListenerNode
	nodeB *ListenerNode
}

func NewCombineFuture(a, b Reactive) *CombineFuture {
	cf := &CombineFuture{a: a, b: b}
	cf.FutureCore = NewFutureCore(Inactive, false, cf.activate, cf.deactivate)
	return cf
}

func (cf *CombineFuture) activate(t Tick) {
	var sa, sb State
	cf.nodeA, sa = cf.a.AddListener(cf, t)
	cf.nodeB, sb = cf.b.AddListener(cf, t)
	cf.Base.SetState(JoinParentStates([]State{sa, sb}, true))
}

func (cf *CombineFuture) deactivate() {
	cf.a.RemoveListener(cf.nodeA)
	cf.b.RemoveListener(cf.nodeB)
	cf.nodeA, cf.nodeB = nil, nil
}

func (cf *CombineFuture) push(t Tick, v any) {
	cf.Resolve(t, v, cf.deactivate)
}

func (cf *CombineFuture) changeStateDown(s State) {
	if !cf.Resolved() {
		cf.Base.SetState(s)
	}
}

// --- lift: all must resolve ----------------------------------------------

// LiftFuture resolves once every parent has resolved, applying fn to all
// collected values in parent order (spec.md §4.4 "lift(f, fs…)").
type LiftFuture struct {
	*FutureCore
	parents []Reactive
	nodes   []*ListenerNode
	values  []any
	have    []bool
	missing int
	fn      func(vals []any) any
}

func NewLiftFuture(fn func(vals []any) any, parents []Reactive) *LiftFuture {
	lf := &LiftFuture{
		fn:      fn,
		parents: parents,
		values:  make([]any, len(parents)),
		have:    make([]bool, len(parents)),
		missing: len(parents),
	}
	lf.FutureCore = NewFutureCore(Inactive, false, lf.activate, lf.deactivate)
	return lf
}

func (lf *LiftFuture) activate(t Tick) {
	lf.nodes = make([]*ListenerNode, len(lf.parents))
	states := make([]State, len(lf.parents))
	for i, p := range lf.parents {
		lf.nodes[i], states[i] = p.AddListener(&liftFutureSlot{lf, i}, t)
	}
	lf.Base.SetState(JoinParentStates(states, true))
}

func (lf *LiftFuture) deactivate() {
	for i, p := range lf.parents {
		p.RemoveListener(lf.nodes[i])
	}
	lf.nodes = nil
}

// liftFutureSlot is a thin Listener that remembers which parent index it
// belongs to, since LiftFuture subscribes to N parents with one shared node
// type each needing its own identity.
type liftFutureSlot struct {
	lf  *LiftFuture
	idx int
}

func (s *liftFutureSlot) push(t Tick, v any) {
	lf := s.lf
	if !lf.have[s.idx] {
		lf.have[s.idx] = true
		lf.missing--
	}
	lf.values[s.idx] = v

	if lf.missing == 0 {
		result := lf.fn(lf.values)
		lf.Resolve(t, result, lf.deactivate)
	}
}

func (s *liftFutureSlot) changeStateDown(State) {}

// --- flatMap --------------------------------------------------------------

// FlatMapFuture: two-stage resolution. On the outer future's resolve, fn is
// invoked and the result future is subscribed to; FlatMapFuture resolves
// when that inner future resolves (spec.md §4.4 "flatMap(f)").
type FlatMapFuture struct {
	*FutureCore
	outer      Reactive
	fn         func(v any) Reactive
	outerNode  *ListenerNode
	inner      Reactive
	innerNode  *ListenerNode
}

func NewFlatMapFuture(outer Reactive, fn func(v any) Reactive) *FlatMapFuture {
	ff := &FlatMapFuture{outer: outer, fn: fn}
	ff.FutureCore = NewFutureCore(Inactive, false, ff.activate, ff.deactivate)
	return ff
}

func (ff *FlatMapFuture) activate(t Tick) {
	var s State
	ff.outerNode, s = ff.outer.AddListener(ff, t)
	ff.Base.SetState(s)
}

func (ff *FlatMapFuture) deactivate() {
	if ff.inner != nil {
		ff.inner.RemoveListener(ff.innerNode)
		ff.inner, ff.innerNode = nil, nil
	}
	ff.outer.RemoveListener(ff.outerNode)
}

// push is invoked either by the outer future (stage 1) or, because both
// stages implement the same Listener dispatch, would be ambiguous if
// FlatMapFuture itself subscribed to both with the same receiver — so the
// inner subscription uses flatMapInnerSlot instead.
func (ff *FlatMapFuture) push(t Tick, v any) {
	ff.inner = ff.fn(v)
	ff.innerNode, _ = ff.inner.AddListener(&flatMapInnerSlot{ff}, t)
}

func (ff *FlatMapFuture) changeStateDown(s State) {
	if !ff.Resolved() {
		ff.Base.SetState(s)
	}
}

type flatMapInnerSlot struct{ ff *FlatMapFuture }

func (s *flatMapInnerSlot) push(t Tick, v any) {
	s.ff.Resolve(t, v, s.ff.deactivate)
}

func (s *flatMapInnerSlot) changeStateDown(state State) {
	if !s.ff.Resolved() {
		s.ff.Base.SetState(state)
	}
}

// --- fromPromise ------------------------------------------------------

// FromPromiseFuture bridges a Thenable into a Future (spec.md §4.4
// "fromPromise(p)"). Rejections are swallowed — the future simply never
// resolves — matching the teacher-adjacent source's documented behavior
// (spec.md §9 Open Question (b), §7 "bridge-error").
type FromPromiseFuture struct {
	*FutureCore
	graph *Graph
	p     Thenable
}

func NewFromPromiseFuture(g *Graph, p Thenable) *FromPromiseFuture {
	pf := &FromPromiseFuture{graph: g, p: p}
	pf.FutureCore = NewFutureCore(Inactive, false, pf.activate, nil)
	return pf
}

func (pf *FromPromiseFuture) activate(Tick) {
	pf.p.Then(
		func(v any) {
			pf.graph.Propagate(func(t Tick) { pf.Resolve(t, v, nil) })
		},
		func(error) {
			// ErrBridge is the documented, unsurfaced outcome (see type doc).
			_ = ErrBridge
		},
	)
}

func (pf *FromPromiseFuture) push(Tick, any)         { panic(ErrIllegalPush) }
func (pf *FromPromiseFuture) changeStateDown(State) {}
