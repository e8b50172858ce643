package internal

// BehaviorCore is the shared machinery for every Behavior operator node
// (spec.md §3 "Behavior", §4.3). Beyond Base it tracks the last pushed
// value, which is what lets a brand-new listener on a Push-class Behavior
// read a value immediately instead of waiting for the next occurrence —
// unlike a Stream, a Behavior always has a "current" reading.
type BehaviorCore struct {
	Base

	last    any
	hasLast bool
}

// NewBehaviorCore constructs an unactivated BehaviorCore. Constructors that
// need an initial last value (sink, producer, of) set it directly after.
func NewBehaviorCore(initial State, alwaysActive bool, activate func(t Tick), deactivate func()) *BehaviorCore {
	return &BehaviorCore{Base: NewBase(initial, alwaysActive, activate, deactivate)}
}

// Last returns the most recently stored value and whether one exists yet.
func (b *BehaviorCore) Last() (any, bool) { return b.last, b.hasLast }

// Pull implements Pullable's fallback: a node with no Pull of its own
// (the common case — most Behaviors only ever reach Push) falls back to the
// last pushed value, panicking if none has ever landed. Concrete operators
// whose class can be Pull/OnlyPull define their own Pull and never hit this.
func (b *BehaviorCore) Pull(Tick) any {
	if b.hasLast {
		return b.last
	}
	panic(ErrStateInvariant)
}

// setLast records v as the current value without notifying anyone — the
// half of Publish that stepper and the scan-behavior need to defer past
// commit (see graph.go committer).
func (b *BehaviorCore) setLast(v any) {
	b.last = v
	b.hasLast = true
}

// Publish records v as last and fans it out, which is what every Behavior
// operator wants except the ones that defer the "last" half (stepper,
// scan-behavior) to preserve the delayed-stepper invariant.
func (b *BehaviorCore) Publish(t Tick, v any) {
	b.setLast(v)
	b.Base.Publish(t, v)
}

// AddListener overrides Base.AddListener: a Push-class Behavior with an
// existing value fires the newly attached listener immediately (spec.md
// §4.3 "a new child observer of a Push behavior must see f(last)
// synchronously"), in addition to linking it normally so it keeps receiving
// future occurrences. This is the mechanism that makes switching,
// chaining and every single-parent Behavior combinator "just work" without
// each one re-implementing the replay.
func (b *BehaviorCore) AddListener(l Listener, t Tick) (*ListenerNode, State) {
	n, s := b.Base.AddListener(l, t)
	if s == Push && b.hasLast {
		l.push(t, b.last)
	}
	return n, s
}

// BehaviorLike is what every Behavior operator satisfies: a Reactive that
// can also be pulled and read without side effects. Stream combinators that
// take a Behavior parameter (filterApply, keepWhen, snapshot, switchStream)
// are written against this rather than a concrete type.
type BehaviorLike interface {
	Reactive
	Pullable
	Last() (any, bool)
}

// SampleBehavior reads b's current value the way spec.md §3 defines
// sampling: pull() while Pull/OnlyPull, otherwise the last pushed value.
// Sampling a Push-class Behavior that has never pushed (e.g. one that is
// still Inactive) is a state-invariant violation — spec.md §8 expects
// callers to subscribe (even a no-op observer) before sampling a derived
// Behavior, matching scenario C's subscribe-then-at ordering.
func SampleBehavior(b BehaviorLike, t Tick) any {
	if b.State().IsPulling() {
		return b.Pull(t)
	}
	v, ok := b.Last()
	if !ok {
		panic(ErrStateInvariant)
	}
	return v
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		panic(ErrStateInvariant)
	}
}

// --- of / fromFunction: pure leaves --------------------------------------

// OfBehavior is a constant, OnlyPull forever (spec.md §4.3 "of(v): OnlyPull,
// never transitions").
type OfBehavior struct {
	*BehaviorCore
	value any
}

func NewOfBehavior(v any) *OfBehavior {
	ob := &OfBehavior{value: v}
	ob.BehaviorCore = NewBehaviorCore(OnlyPull, true, nil, nil)
	return ob
}

func (o *OfBehavior) Pull(Tick) any         { return o.value }
func (o *OfBehavior) push(Tick, any)        { panic(ErrIllegalPush) }
func (o *OfBehavior) changeStateDown(State) {}

// FunctionBehavior samples an external function on every pull (spec.md
// §4.3 "fromFunction(fn): Pull, pull()=fn()"). Unlike Of it is labeled Pull
// rather than OnlyPull — purely a classification distinction per spec.md,
// since a leaf has no parents to ever push regardless.
type FunctionBehavior struct {
	*BehaviorCore
	fn func() any
}

func NewFunctionBehavior(fn func() any) *FunctionBehavior {
	fb := &FunctionBehavior{fn: fn}
	fb.BehaviorCore = NewBehaviorCore(Pull, true, nil, nil)
	return fb
}

func (f *FunctionBehavior) Pull(Tick) any      { return f.fn() }
func (f *FunctionBehavior) push(Tick, any)     { panic(ErrIllegalPush) }
func (f *FunctionBehavior) changeStateDown(State) {}

// --- sink / producer: externally driven ----------------------------------

// SinkBehavior is Push forever, updated externally via Publish (spec.md §6
// "sink behaviors accept publish(v)").
type SinkBehavior struct{ *BehaviorCore }

func NewSinkBehavior(initial any) *SinkBehavior {
	sb := &SinkBehavior{NewBehaviorCore(Push, true, nil, nil)}
	sb.setLast(initial)
	return sb
}

func (s *SinkBehavior) push(Tick, any)        { panic(ErrIllegalPush) }
func (s *SinkBehavior) changeStateDown(State) {}

// ProducerBehavior activates an external source on 0→1 and deactivates it
// on 1→0 (spec.md §4.3 "producer(initial, activate): activate returns a
// deactivator; invoked push(v) while active is Push").
type ProducerBehavior struct {
	*BehaviorCore
	graph       *Graph
	activateFn  func(push func(v any)) func()
	deactivator func()
}

func NewProducerBehavior(g *Graph, initial any, activateFn func(push func(v any)) func()) *ProducerBehavior {
	pb := &ProducerBehavior{graph: g, activateFn: activateFn}
	pb.BehaviorCore = NewBehaviorCore(Inactive, false, pb.activate, pb.deactivate)
	pb.setLast(initial)
	return pb
}

func (pb *ProducerBehavior) activate(t Tick) {
	pb.Base.SetState(Push)
	pb.deactivator = pb.activateFn(func(v any) {
		pb.graph.Propagate(func(tt Tick) { pb.Publish(tt, v) })
	})
}

func (pb *ProducerBehavior) deactivate() {
	if pb.deactivator != nil {
		pb.deactivator()
		pb.deactivator = nil
	}
	pb.Base.SetState(Inactive)
}

func (pb *ProducerBehavior) push(Tick, any)        { panic(ErrIllegalPush) }
func (pb *ProducerBehavior) changeStateDown(State) {}

// --- single-parent: map -----------------------------------------------------

// singleParentBehavior is the Behavior analogue of singleParentStream, with
// the addition of a pull path: the node adopts its parent's state outright
// and, when Pull/OnlyPull, computes its value on demand via pullFn rather
// than caching one.
type singleParentBehavior struct {
	*BehaviorCore
	parent     BehaviorLike
	parentNode *ListenerNode
	pull       func(t Tick) any
}

func newSingleParentBehavior(parent BehaviorLike, forward Listener, pull func(t Tick) any) *singleParentBehavior {
	sp := &singleParentBehavior{parent: parent}
	sp.BehaviorCore = NewBehaviorCore(Inactive, false, func(t Tick) {
		var s State
		sp.parentNode, s = Attach(parent, forward, t)
		sp.Base.SetState(s)
	}, func() {
		Detach(parent, sp.parentNode)
		sp.parentNode = nil
	})
	sp.pull = pull
	return sp
}

// pull overrides BehaviorCore's fallback Pull when set.
func (sp *singleParentBehavior) Pull(t Tick) any {
	if sp.pull != nil {
		return sp.pull(t)
	}
	return sp.BehaviorCore.Pull(t)
}

// MapBehavior emits f(parent) on every parent push and computes f(parent)
// on demand when pulled.
type MapBehavior struct {
	*singleParentBehavior
	f func(v any) any
}

func NewMapBehavior(parent BehaviorLike, f func(any) any) *MapBehavior {
	m := &MapBehavior{f: f}
	m.singleParentBehavior = newSingleParentBehavior(parent, m, func(t Tick) any {
		return f(SampleBehavior(parent, t))
	})
	return m
}

func (m *MapBehavior) push(t Tick, v any)      { m.Publish(t, m.f(v)) }
func (m *MapBehavior) changeStateDown(s State) { m.Base.SetState(s) }

// --- ap / lift: N-ary application -----------------------------------------

// apSlot remembers which Lift/Ap instance it belongs to so one listener
// type can be shared across all N parent subscriptions.
type apSlot struct{ owner *LiftBehavior }

func (s *apSlot) push(t Tick, v any) {
	if s.owner.State() == Push {
		s.owner.recompute(t)
	}
}

func (s *apSlot) changeStateDown(State) {
	s.owner.Base.SetState(s.owner.classify())
}

// LiftBehavior applies fn to every parent's current value, Push only when
// every parent is Push; otherwise OnlyPull if any parent is OnlyPull, and
// Pull if none is (spec.md §4.3 "lift(f, b1..bn)"). Ap is the same
// combinator specialized to two parents, one of which holds a function.
type LiftBehavior struct {
	*BehaviorCore
	parents []BehaviorLike
	nodes   []*ListenerNode
	fn      func(vals []any) any
}

func NewLiftBehavior(fn func(vals []any) any, parents []BehaviorLike) *LiftBehavior {
	l := &LiftBehavior{fn: fn, parents: parents}
	l.BehaviorCore = NewBehaviorCore(Inactive, false, l.activate, l.deactivate)
	return l
}

// NewApBehavior specializes LiftBehavior to Behavior<func(any) any> applied
// to a single argument Behavior (spec.md §4.3 "ap(fB, xB)").
func NewApBehavior(fB, xB BehaviorLike) *LiftBehavior {
	return NewLiftBehavior(func(vals []any) any {
		f := vals[0].(func(any) any)
		return f(vals[1])
	}, []BehaviorLike{fB, xB})
}

func (l *LiftBehavior) classify() State {
	sawOnlyPull := false
	allPush := true
	for _, p := range l.parents {
		st := p.State()
		if st != Push {
			allPush = false
		}
		if st == OnlyPull {
			sawOnlyPull = true
		}
	}
	if allPush {
		return Push
	}
	if sawOnlyPull {
		return OnlyPull
	}
	return Pull
}

func (l *LiftBehavior) sample(t Tick) any {
	vals := make([]any, len(l.parents))
	for i, p := range l.parents {
		vals[i] = SampleBehavior(p, t)
	}
	return l.fn(vals)
}

func (l *LiftBehavior) Pull(t Tick) any { return l.sample(t) }

func (l *LiftBehavior) activate(t Tick) {
	l.nodes = make([]*ListenerNode, len(l.parents))
	slot := &apSlot{owner: l}
	for i, p := range l.parents {
		l.nodes[i], _ = Attach(p, slot, t)
	}
	s := l.classify()
	l.Base.SetState(s)
	if s == Push {
		l.Publish(t, l.sample(t))
	}
}

func (l *LiftBehavior) deactivate() {
	for i, p := range l.parents {
		Detach(p, l.nodes[i])
	}
	l.nodes = nil
}

func (l *LiftBehavior) recompute(t Tick) {
	l.Publish(t, l.sample(t))
}

func (l *LiftBehavior) push(Tick, any)        {}
func (l *LiftBehavior) changeStateDown(State) {}

// --- stepper: delayed update ----------------------------------------------

// StepperBehavior starts at an initial value and adopts each stream
// occurrence (spec.md §4.3 "stepper(initial, stream)"). The value visible
// to SampleBehavior during the very tick an occurrence arrives is still the
// previous one — the "delayed stepper" invariant, spec.md §8 property 4 —
// while listeners subscribed to the stepper directly are pushed the new
// value immediately. This is the same pending/commit split the teacher
// uses for Signal writes (internal/signal.go pendingValue, Commit()):
// Publish (fan-out, new value) happens now; the stored "last" used by
// future same-tick samples is only overwritten once the Graph flushes.
type StepperBehavior struct {
	*BehaviorCore
	graph      *Graph
	parent     Reactive
	parentNode *ListenerNode

	pendingValue any
	hasPending   bool
}

func NewStepperBehavior(g *Graph, initial any, stream Reactive) *StepperBehavior {
	st := &StepperBehavior{graph: g, parent: stream}
	st.BehaviorCore = NewBehaviorCore(Inactive, false, st.activate, st.deactivate)
	st.setLast(initial)
	return st
}

func (st *StepperBehavior) activate(t Tick) {
	var s State
	st.parentNode, s = Attach(st.parent, st, t)
	if s == Push {
		st.Base.SetState(Push)
	} else {
		// A stepper is meaningless over a stream that never pushes, but the
		// state class still tracks the driving stream honestly.
		st.Base.SetState(s)
	}
}

func (st *StepperBehavior) deactivate() {
	Detach(st.parent, st.parentNode)
	st.parentNode = nil
}

// push stores the new value as pending, schedules the commit that will make
// it visible to Pull-style sampling next tick, and fans the new value out
// to this stepper's own listeners right away.
func (st *StepperBehavior) push(t Tick, v any) {
	st.pendingValue = v
	st.hasPending = true
	st.graph.ScheduleCommit(st)
	st.Base.Publish(t, v)
}

func (st *StepperBehavior) changeStateDown(s State) { st.Base.SetState(s) }

// commit implements the Graph committer interface.
func (st *StepperBehavior) commit() {
	if st.hasPending {
		st.setLast(st.pendingValue)
		st.hasPending = false
	}
}

// --- scan-behavior: fresh accumulator per construction ---------------------

// ScanBehavior accumulates over a stream starting from seed at construction
// time (spec.md §4.3 "scan-behavior(f, s0, stream): yields a fresh Behavior
// per sample point whose accumulator starts at s0 — older instances keep
// accumulating independently"). That freshness is simply a property of
// this being an ordinary constructor: every call starts a new, independent
// accumulator. Uses the same delayed-commit split as stepper so a scan
// behavior can safely participate in a feedback loop that samples itself.
type ScanBehavior struct {
	*BehaviorCore
	graph      *Graph
	f          func(v, acc any) any
	parent     Reactive
	parentNode *ListenerNode

	acc          any
	pendingAcc   any
	hasPending   bool
}

func NewScanBehavior(g *Graph, f func(v, acc any) any, seed any, stream Reactive) *ScanBehavior {
	sc := &ScanBehavior{graph: g, f: f, parent: stream, acc: seed}
	sc.BehaviorCore = NewBehaviorCore(Inactive, false, sc.activate, sc.deactivate)
	sc.setLast(seed)
	return sc
}

func (sc *ScanBehavior) activate(t Tick) {
	var s State
	sc.parentNode, s = Attach(sc.parent, sc, t)
	sc.Base.SetState(s)
}

func (sc *ScanBehavior) deactivate() {
	Detach(sc.parent, sc.parentNode)
	sc.parentNode = nil
}

func (sc *ScanBehavior) push(t Tick, v any) {
	next := sc.f(v, sc.acc)
	sc.acc = next
	sc.pendingAcc = next
	sc.hasPending = true
	sc.graph.ScheduleCommit(sc)
	sc.Base.Publish(t, next)
}

func (sc *ScanBehavior) changeStateDown(s State) { sc.Base.SetState(s) }

func (sc *ScanBehavior) commit() {
	if sc.hasPending {
		sc.setLast(sc.pendingAcc)
		sc.hasPending = false
	}
}

// --- chain: monadic flatMap --------------------------------------------

// ChainBehavior re-derives its inner Behavior from the outer's current
// value and forwards the inner's occurrences (spec.md §4.3 "chain(fn)").
// State is the join of the outer and the currently attached inner; a push
// to a since-replaced inner never reaches here because it was detached
// before the new one was attached (spec.md §8 property 7).
type ChainBehavior struct {
	*BehaviorCore
	outer     BehaviorLike
	fn        func(v any) BehaviorLike
	outerNode *ListenerNode
	inner     BehaviorLike
	innerNode *ListenerNode
}

func NewChainBehavior(outer BehaviorLike, fn func(any) BehaviorLike) *ChainBehavior {
	c := &ChainBehavior{outer: outer, fn: fn}
	c.BehaviorCore = NewBehaviorCore(Inactive, false, c.activate, c.deactivate)
	return c
}

func (c *ChainBehavior) Pull(t Tick) any {
	inner := c.fn(SampleBehavior(c.outer, t))
	return SampleBehavior(inner, t)
}

func (c *ChainBehavior) joinedState() State {
	is := Inactive
	if c.inner != nil {
		is = c.inner.State()
	}
	return JoinParentStates([]State{c.outer.State(), is}, true)
}

func (c *ChainBehavior) swapInner(next BehaviorLike, t Tick) {
	Detach(c.inner, c.innerNode)
	c.inner = next
	var is State
	c.innerNode, is = Attach(next, &chainInnerSlot{c}, t)
	// A Push inner replays its value through chainInnerSlot; a pull-class
	// inner under a Push outer is sampled and published here so last holds
	// the new inner's value.
	if is.IsPulling() && c.outer.State() == Push {
		c.Publish(t, SampleBehavior(next, t))
	}
}

func (c *ChainBehavior) activate(t Tick) {
	var so State
	c.outerNode, so = Attach(c.outer, c, t)
	_ = so
	c.swapInner(c.fn(SampleBehavior(c.outer, t)), t)
	c.Base.SetState(c.joinedState())
}

func (c *ChainBehavior) deactivate() {
	Detach(c.inner, c.innerNode)
	c.inner, c.innerNode = nil, nil
	Detach(c.outer, c.outerNode)
	c.outerNode = nil
}

// push is driven by the outer Behavior producing a new value.
func (c *ChainBehavior) push(t Tick, v any) {
	c.swapInner(c.fn(v), t)
	c.Base.SetState(c.joinedState())
}

func (c *ChainBehavior) changeStateDown(State) {
	c.Base.SetState(c.joinedState())
}

type chainInnerSlot struct{ c *ChainBehavior }

func (s *chainInnerSlot) push(t Tick, v any)     { s.c.Publish(t, v) }
func (s *chainInnerSlot) changeStateDown(State) { s.c.Base.SetState(s.c.joinedState()) }

// --- moment: dynamic dependency tracking -----------------------------------

// MomentBehavior recomputes body on every push from any Behavior it read
// during its previous run, re-subscribing to exactly the read set each time
// (spec.md §4.3 "moment(body)", §9 design note "the only combinator whose
// parent set mutates over time"). body is handed a sample function instead
// of reading SampleBehavior directly so reads can be recorded.
type MomentBehavior struct {
	*BehaviorCore
	body func(sample func(BehaviorLike) any) any
	deps map[BehaviorLike]*ListenerNode
}

func NewMomentBehavior(body func(sample func(BehaviorLike) any) any) *MomentBehavior {
	m := &MomentBehavior{body: body, deps: map[BehaviorLike]*ListenerNode{}}
	m.BehaviorCore = NewBehaviorCore(Inactive, false, m.activate, m.deactivate)
	return m
}

// runBody executes body once. When track is true, reads are recorded and
// the dependency set is diffed against the previous run: stale
// subscriptions are dropped, new ones added.
func (m *MomentBehavior) runBody(t Tick, track bool) any {
	seen := map[BehaviorLike]bool{}
	result := m.body(func(b BehaviorLike) any {
		if track {
			seen[b] = true
		}
		return SampleBehavior(b, t)
	})

	if track {
		for b, node := range m.deps {
			if !seen[b] {
				Detach(b, node)
				delete(m.deps, b)
			}
		}
		for b := range seen {
			if _, ok := m.deps[b]; !ok {
				// Reserve the entry first: Attach can replay b's current
				// value into momentSlot, which re-enters runBody.
				m.deps[b] = nil
				node, _ := Attach(b, &momentSlot{m}, t)
				m.deps[b] = node
			}
		}
	}

	return result
}

func (m *MomentBehavior) classify() State {
	states := make([]State, 0, len(m.deps))
	for b := range m.deps {
		states = append(states, b.State())
	}
	return JoinParentStates(states, true)
}

func (m *MomentBehavior) recompute(t Tick) {
	result := m.runBody(t, true)
	m.Base.SetState(m.classify())
	if m.State() == Push {
		m.Publish(t, result)
	}
}

func (m *MomentBehavior) activate(t Tick) { m.recompute(t) }

func (m *MomentBehavior) deactivate() {
	for b, node := range m.deps {
		Detach(b, node)
		delete(m.deps, b)
	}
}

func (m *MomentBehavior) Pull(t Tick) any { return m.runBody(t, true) }

func (m *MomentBehavior) push(Tick, any)        {}
func (m *MomentBehavior) changeStateDown(State) {}

type momentSlot struct{ m *MomentBehavior }

func (s *momentSlot) push(t Tick, _ any)    { s.m.recompute(t) }
func (s *momentSlot) changeStateDown(State) { s.m.Base.SetState(s.m.classify()) }

// --- integrate: trapezoidal approximation ----------------------------------

// IntegrateBehavior approximates the integral of a numeric parent Behavior
// over observed ticks via the trapezoid rule, starting from zero at
// activation (spec.md §4.3 "integrate(behavior)").
type IntegrateBehavior struct {
	*BehaviorCore
	parent     BehaviorLike
	parentNode *ListenerNode

	lastTick Tick
	lastVal  float64
	accum    float64
}

func NewIntegrateBehavior(parent BehaviorLike) *IntegrateBehavior {
	ib := &IntegrateBehavior{parent: parent}
	ib.BehaviorCore = NewBehaviorCore(Inactive, false, ib.activate, ib.deactivate)
	return ib
}

func (ib *IntegrateBehavior) activate(t Tick) {
	var s State
	ib.parentNode, s = Attach(ib.parent, ib, t)
	ib.lastTick = t
	ib.lastVal = toFloat(SampleBehavior(ib.parent, t))
	ib.accum = 0
	ib.Base.SetState(s)
	if s == Push {
		ib.Publish(t, ib.accum)
	}
}

func (ib *IntegrateBehavior) deactivate() {
	Detach(ib.parent, ib.parentNode)
	ib.parentNode = nil
}

func (ib *IntegrateBehavior) advance(t Tick) float64 {
	newVal := toFloat(SampleBehavior(ib.parent, t))
	dt := float64(t - ib.lastTick)
	ib.accum += (ib.lastVal + newVal) / 2 * dt
	ib.lastTick = t
	ib.lastVal = newVal
	return ib.accum
}

func (ib *IntegrateBehavior) Pull(t Tick) any { return ib.advance(t) }

func (ib *IntegrateBehavior) push(t Tick, _ any) {
	ib.Publish(t, ib.advance(t))
}

func (ib *IntegrateBehavior) changeStateDown(s State) { ib.Base.SetState(s) }

// --- switcher / switchTo: switching engine ---------------------------------

// SwitcherBehavior starts at initial and replaces its inner Behavior with
// whatever a driving Stream<Behavior> last pushed (spec.md §4.3
// "switcher(initial, stream)", §4.6 switching engine). Re-attaching to a
// Push inner via Attach/BehaviorCore.AddListener already replays its current
// value, so no separate publish is made for it; a pull-class inner is
// sampled and published explicitly on the switch (spec.md §9 Open Question
// (a): every switch publishes the new inner's value exactly once).
type SwitcherBehavior struct {
	*BehaviorCore
	stream      Reactive
	streamNode  *ListenerNode
	current     BehaviorLike
	currentNode *ListenerNode
}

func NewSwitcherBehavior(initial BehaviorLike, stream Reactive) *SwitcherBehavior {
	sw := &SwitcherBehavior{stream: stream, current: initial}
	sw.BehaviorCore = NewBehaviorCore(Inactive, false, sw.activate, sw.deactivate)
	return sw
}

func (sw *SwitcherBehavior) Pull(t Tick) any { return SampleBehavior(sw.current, t) }

func (sw *SwitcherBehavior) activate(t Tick) {
	var ss State
	sw.streamNode, ss = Attach(sw.stream, sw, t)
	_ = ss
	var cs State
	sw.currentNode, cs = Attach(sw.current, &switcherInnerSlot{sw}, t)
	sw.Base.SetState(cs)
}

func (sw *SwitcherBehavior) deactivate() {
	Detach(sw.current, sw.currentNode)
	sw.currentNode = nil
	Detach(sw.stream, sw.streamNode)
	sw.streamNode = nil
}

// push is the stream handing over the next inner Behavior to switch to.
func (sw *SwitcherBehavior) push(t Tick, v any) {
	next := v.(BehaviorLike)
	Detach(sw.current, sw.currentNode)
	sw.current = next
	var cs State
	sw.currentNode, cs = Attach(next, &switcherInnerSlot{sw}, t)
	sw.Base.SetState(cs)
	if cs.IsPulling() {
		sw.Publish(t, SampleBehavior(next, t))
	}
}

func (sw *SwitcherBehavior) changeStateDown(State) {}

type switcherInnerSlot struct{ sw *SwitcherBehavior }

func (s *switcherInnerSlot) push(t Tick, v any)     { s.sw.Publish(t, v) }
func (s *switcherInnerSlot) changeStateDown(ns State) { s.sw.Base.SetState(ns) }

// SwitchToBehavior starts at initial and permanently switches to the
// Behavior a one-shot Future resolves with (spec.md §4.3 "switchTo(initial,
// future)"). A resolved Future never fires twice (§8 property 3), so this
// switches at most once and then behaves exactly like its inner.
type SwitchToBehavior struct {
	*BehaviorCore
	future      Reactive
	futureNode  *ListenerNode
	current     BehaviorLike
	currentNode *ListenerNode
}

func NewSwitchToBehavior(initial BehaviorLike, future Reactive) *SwitchToBehavior {
	st := &SwitchToBehavior{future: future, current: initial}
	st.BehaviorCore = NewBehaviorCore(Inactive, false, st.activate, st.deactivate)
	return st
}

func (st *SwitchToBehavior) Pull(t Tick) any { return SampleBehavior(st.current, t) }

func (st *SwitchToBehavior) activate(t Tick) {
	var fs State
	st.futureNode, fs = Attach(st.future, st, t)
	_ = fs
	var cs State
	st.currentNode, cs = Attach(st.current, &switchToInnerSlot{st}, t)
	st.Base.SetState(cs)
}

func (st *SwitchToBehavior) deactivate() {
	Detach(st.current, st.currentNode)
	st.currentNode = nil
	Detach(st.future, st.futureNode)
	st.futureNode = nil
}

// push fires once, when the future resolves with the Behavior to switch to.
func (st *SwitchToBehavior) push(t Tick, v any) {
	next := v.(BehaviorLike)
	Detach(st.current, st.currentNode)
	st.current = next
	var cs State
	st.currentNode, cs = Attach(next, &switchToInnerSlot{st}, t)
	st.Base.SetState(cs)
	if cs.IsPulling() {
		st.Publish(t, SampleBehavior(next, t))
	}
	st.futureNode = nil
}

func (st *SwitchToBehavior) changeStateDown(State) {}

type switchToInnerSlot struct{ st *SwitchToBehavior }

func (s *switchToInnerSlot) push(t Tick, v any)     { s.st.Publish(t, v) }
func (s *switchToInnerSlot) changeStateDown(ns State) { s.st.Base.SetState(ns) }

// --- nextOccurence: Behavior<Future> over a Stream -------------------------

// pendingOccurenceFuture is one of NextOccurenceBehavior's one-shot futures:
// a leaf Future resolved externally by the behavior that owns it, exactly
// like SinkFuture.
type pendingOccurenceFuture struct{ *FutureCore }

func newPendingOccurenceFuture() *pendingOccurenceFuture {
	return &pendingOccurenceFuture{NewFutureCore(Push, true, nil, nil)}
}

func (f *pendingOccurenceFuture) push(Tick, any)        { panic(ErrIllegalPush) }
func (f *pendingOccurenceFuture) changeStateDown(State) {}

// NextOccurenceBehavior samples to a Future that resolves on stream's next
// occurrence strictly after the sample tick (spec.md §4.4
// "nextOccurence(stream)"). Every time stream fires, the pending future is
// resolved and swapped for a fresh one, so later samples wait for the
// occurrence after that.
type NextOccurenceBehavior struct {
	*BehaviorCore
	stream     Reactive
	streamNode *ListenerNode
	current    *pendingOccurenceFuture
}

func NewNextOccurenceBehavior(stream Reactive) *NextOccurenceBehavior {
	nb := &NextOccurenceBehavior{stream: stream}
	nb.BehaviorCore = NewBehaviorCore(Inactive, false, nb.activate, nb.deactivate)
	nb.current = newPendingOccurenceFuture()
	nb.setLast(nb.current)
	return nb
}

func (nb *NextOccurenceBehavior) activate(t Tick) {
	var s State
	nb.streamNode, s = Attach(nb.stream, nb, t)
	nb.Base.SetState(s)
}

func (nb *NextOccurenceBehavior) deactivate() {
	Detach(nb.stream, nb.streamNode)
	nb.streamNode = nil
}

// push is the stream producing an occurrence: resolve the pending future
// with it and start a fresh one for whatever comes next.
func (nb *NextOccurenceBehavior) push(t Tick, v any) {
	resolved := nb.current
	nb.current = newPendingOccurenceFuture()
	resolved.Resolve(t, v, nil)
	nb.Publish(t, nb.current)
}

func (nb *NextOccurenceBehavior) changeStateDown(s State) { nb.Base.SetState(s) }
