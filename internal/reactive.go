package internal

// Reactive is the structural contract every node in the propagation graph
// satisfies (spec.md §3 "Reactive (abstract)"). Rather than a class
// hierarchy, each operator (map, filter, scan, ...) is its own Go type
// embedding *Base and implementing push/changeStateDown itself — the
// "sealed variant of reactive kinds plus an operator variant" from spec.md
// §9's design note, expressed the way Go expresses sum types: small
// concrete types behind a shared interface.
type Reactive interface {
	Listener

	// AddListener links node and, on the 0→1 edge, activates: subscribes to
	// parents and computes the node's initial state. Returns the resulting
	// state so the caller can synchronize a freshly attached observer.
	AddListener(l Listener, t Tick) (*ListenerNode, State)

	// RemoveListener unlinks node and, on the 1→0 edge, deactivates:
	// unsubscribes from parents.
	RemoveListener(n *ListenerNode)

	// State returns the node's current propagation state.
	State() State
}

// Pullable is implemented by Behavior operator nodes: anything that can be
// sampled without side effects when in Pull/OnlyPull state.
type Pullable interface {
	Pull(t Tick) any
}

// Base is the shared state machine embedded by every concrete operator
// node: listener list, activation edge-triggering, and state propagation
// (spec.md §4.1). It deliberately does not know how to push or pull a
// value — that dispatch is operator-specific and lives on the embedding
// type, which is why Base itself does not implement Listener.
type Base struct {
	state State

	listeners ListenerList

	// alwaysActive is true for sinks and constants: the invariant
	// state=Inactive⇔nrOfListeners=0 does not apply to them — they are
	// active regardless of listener count. Producers are not alwaysActive:
	// their external source starts on the 0→1 listener edge.
	alwaysActive bool

	// onActivate subscribes to parents (or, for a producer, starts its
	// external source) and computes the initial state; nil for reactives
	// with nothing to start (sinks, Of).
	onActivate func(t Tick)

	// onDeactivate unsubscribes from parents; nil alongside onActivate.
	onDeactivate func()
}

// NewBase constructs a Base. activate/deactivate may be nil for leaf nodes.
func NewBase(initial State, alwaysActive bool, activate func(t Tick), deactivate func()) Base {
	return Base{
		state:        initial,
		alwaysActive: alwaysActive,
		onActivate:   activate,
		onDeactivate: deactivate,
	}
}

// State returns the current propagation state.
func (b *Base) State() State { return b.state }

// NrOfListeners returns the current listener count (spec.md §3).
func (b *Base) NrOfListeners() int { return b.listeners.Len() }

// AddListener implements Reactive.AddListener.
func (b *Base) AddListener(l Listener, t Tick) (*ListenerNode, State) {
	wasInactive := b.listeners.Len() == 0 && !b.alwaysActive

	n := b.listeners.PushBack(l)

	if wasInactive && b.onActivate != nil {
		b.onActivate(t)
	}

	return n, b.state
}

// RemoveListener implements Reactive.RemoveListener.
func (b *Base) RemoveListener(n *ListenerNode) {
	b.listeners.Remove(n)

	if b.listeners.Len() == 0 && !b.alwaysActive && b.onDeactivate != nil {
		b.onDeactivate()
	}
}

// Publish fans a value out to every listener in insertion order, per the
// depth-first-in-listener-order rule of spec.md §4.2. Listeners added
// during this walk (a combinator that subscribes reentrantly from within a
// push callback) are excluded — ListenerList.Each already enforces that.
func (b *Base) Publish(t Tick, v any) {
	b.listeners.Each(func(n *ListenerNode) {
		n.Listener().push(t, v)
	})
}

// SetState sets the node's state and, if it actually changed, propagates
// changeStateDown to every listener. Idempotent when newState == b.state,
// per spec.md §4.1.
func (b *Base) SetState(newState State) {
	if newState == b.state {
		return
	}
	b.state = newState

	b.listeners.Each(func(n *ListenerNode) {
		n.Listener().changeStateDown(newState)
	})
}
