package internal

// This file holds the small pieces shared by every switching combinator —
// chain, switcher, switchTo, switchStream (spec.md §4.6). There is
// deliberately no single "SwitchEngine" type: the four combinators differ
// in how they obtain a new inner reactive (recompute a function vs. read a
// pushed value vs. a one-shot future) and in whether the outer is itself a
// Behavior or a Future, so each owns its own small struct in stream.go /
// behavior.go. What they share is these two steps from spec.md §4.6:
//
//  1. detach from the old inner reactive, attach to the new one
//  2. if both sides are Behaviors, immediately publish the new value so
//     `last` stays consistent, then propagate changeStateDown if the
//     state class changed
//
// Attach and Detach cover step 1 only. For step 2, a Push inner replays its
// value on Attach (BehaviorCore.AddListener); chain, switcher and switchTo
// sample and publish a pull-class inner themselves.

// Attach subscribes forward as a listener of inner, returning the new
// listener node and inner's state.
func Attach(inner Reactive, forward Listener, t Tick) (*ListenerNode, State) {
	return inner.AddListener(forward, t)
}

// Detach unsubscribes node from inner. Safe to call with a nil node.
func Detach(inner Reactive, node *ListenerNode) {
	if inner == nil || node == nil {
		return
	}
	inner.RemoveListener(node)
}
