package reactive

import "github.com/haldorn/reactive/internal"

// Subscription is a handle returned by Subscribe/Observe; call Deactivate
// to stop receiving notifications (spec.md §6 "subscribe returns a
// subscription handle with deactivate()").
type Subscription struct {
	target internal.Reactive
	node   *internal.ListenerNode
}

// Deactivate unsubscribes. Safe to call more than once.
func (s *Subscription) Deactivate() {
	if s.node == nil {
		return
	}
	s.target.RemoveListener(s.node)
	s.node = nil
}

// callbackListener adapts plain push/changeStateDown callbacks into an
// internal.Listener, the way every facade-level subscription is wired to
// the engine underneath.
type callbackListener struct {
	onPush         func(t internal.Tick, v any)
	onChangeState  func(s internal.State)
}

func (c *callbackListener) push(t internal.Tick, v any) {
	if c.onPush != nil {
		c.onPush(t, v)
	}
}

func (c *callbackListener) changeStateDown(s internal.State) {
	if c.onChangeState != nil {
		c.onChangeState(s)
	}
}

// Kinded is implemented by Stream[T], Behavior[T] and Future[T], letting
// IsStream/IsBehavior/IsFuture distinguish between them structurally
// without a type switch per instantiation (spec.md §6 type predicates).
type Kinded interface {
	reactiveKind() string
}

// IsStream reports whether v is a Stream[T] for some T.
func IsStream(v Kinded) bool { return v.reactiveKind() == "stream" }

// IsBehavior reports whether v is a Behavior[T] for some T.
func IsBehavior(v Kinded) bool { return v.reactiveKind() == "behavior" }

// IsFuture reports whether v is a Future[T] for some T.
func IsFuture(v Kinded) bool { return v.reactiveKind() == "future" }
