package internal

// Placeholder is the deferred reactive spec.md §4.5 describes: a stand-in
// used as a parent reference by combinators built before the thing it
// stands for exists, which is what makes cyclic wiring possible (build the
// consumer against the placeholder, build the producer from the consumer,
// then tie the knot with ReplaceWith). It works equally as a Stream or a
// Behavior placeholder — whichever the embedder samples or subscribes to
// determines which capability actually gets exercised.
//
// Before ReplaceWith: listeners that try to subscribe are buffered rather
// than linked anywhere (there is nothing to link them to yet), and
// sampling as a Behavior panics with ErrPlaceholderNotReplaced — there is
// no value to produce.
//
// After ReplaceWith: Placeholder becomes a transparent proxy. Every
// Reactive/Pullable method forwards straight to the concrete source, so
// combinators that captured the Placeholder itself as their parent keep
// working forever without ever needing to know the swap happened.
type Placeholder struct {
	source   Reactive
	replaced bool
	pending  ListenerList
}

// NewPlaceholder creates an unreplaced placeholder.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Replaced reports whether ReplaceWith has run.
func (p *Placeholder) Replaced() bool { return p.replaced }

// ReplaceWith binds the placeholder to its concrete source, transferring
// every buffered listener onto it and notifying each of the state
// transition out of Inactive. Returns ErrPlaceholderAlreadyReplaced if
// called a second time (spec.md §4.5 "double-replacement error").
func (p *Placeholder) ReplaceWith(source Reactive, t Tick) error {
	if p.replaced {
		return ErrPlaceholderAlreadyReplaced
	}

	p.source = source
	p.replaced = true

	p.pending.Each(func(n *ListenerNode) {
		l := n.Listener()
		_, s := source.AddListener(l, t)
		l.changeStateDown(s)
	})
	p.pending = ListenerList{}

	return nil
}

// AddListener implements Reactive. Before replacement the listener is only
// buffered (state Inactive, since nothing can flow yet); after, it forwards
// to source.
func (p *Placeholder) AddListener(l Listener, t Tick) (*ListenerNode, State) {
	if p.replaced {
		return p.source.AddListener(l, t)
	}
	return p.pending.PushBack(l), Inactive
}

// RemoveListener implements Reactive.
func (p *Placeholder) RemoveListener(n *ListenerNode) {
	if p.replaced {
		p.source.RemoveListener(n)
		return
	}
	p.pending.Remove(n)
}

// State implements Reactive.
func (p *Placeholder) State() State {
	if p.replaced {
		return p.source.State()
	}
	return Inactive
}

// push/changeStateDown exist to satisfy Reactive/Listener; a Placeholder is
// never itself the target of a push from some other parent — it only ever
// stands in as a parent reference for others — so these simply forward once
// replaced and are otherwise unreachable in practice.
func (p *Placeholder) push(t Tick, v any) {
	if p.replaced {
		if l, ok := p.source.(Listener); ok {
			l.push(t, v)
		}
	}
}

func (p *Placeholder) changeStateDown(s State) {
	if p.replaced {
		if l, ok := p.source.(Listener); ok {
			l.changeStateDown(s)
		}
	}
}

// Pull implements Pullable, forwarding to source's Pull once replaced.
// Sampling before replacement is the error case §4.5 names explicitly.
func (p *Placeholder) Pull(t Tick) any {
	if !p.replaced {
		panic(ErrPlaceholderNotReplaced)
	}
	pullable, ok := p.source.(Pullable)
	if !ok {
		panic(ErrStateInvariant)
	}
	return pullable.Pull(t)
}

// Last implements the Last() half of BehaviorLike, so a Placeholder used as
// a Behavior parent can be passed anywhere a BehaviorLike is expected.
func (p *Placeholder) Last() (any, bool) {
	if !p.replaced {
		return nil, false
	}
	bl, ok := p.source.(BehaviorLike)
	if !ok {
		return nil, false
	}
	return bl.Last()
}
