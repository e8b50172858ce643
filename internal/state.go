package internal

// State is the lifecycle/propagation mode of a Reactive (spec.md §3).
type State int

const (
	// Inactive: no listeners, not subscribed to parents.
	Inactive State = iota
	// Push: notified synchronously by parents; observers get values pushed
	// to them.
	Push
	// Pull: exposes pull(); observers must sample.
	Pull
	// OnlyPull: Pull that can never transition to Push (e.g. Behavior.Of).
	OnlyPull
	// Done: terminal. Futures only.
	Done
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Push:
		return "Push"
	case Pull:
		return "Pull"
	case OnlyPull:
		return "OnlyPull"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// IsPulling reports whether values must be obtained via pull() rather than
// being pushed.
func (s State) IsPulling() bool {
	return s == Pull || s == OnlyPull
}

// JoinParentStates computes the state a derived node should adopt given its
// parents' states, per spec.md §3 invariants:
//
//	Push     if any parent is Push and the operator supports pushing
//	Pull     if all relevant parents are Pull/OnlyPull (none Push)
//	OnlyPull if any parent is OnlyPull and none is Push
//
// canPush is false for operators that can never themselves be in Push state
// regardless of parents; every caller in this package passes true.
func JoinParentStates(parents []State, canPush bool) State {
	if len(parents) == 0 {
		return OnlyPull
	}

	sawOnlyPull := false
	for _, p := range parents {
		if p == Push && canPush {
			return Push
		}
		if p == OnlyPull {
			sawOnlyPull = true
		}
	}

	if sawOnlyPull {
		return OnlyPull
	}
	return Pull
}
