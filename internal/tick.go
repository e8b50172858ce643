package internal

import "sync/atomic"

// Tick stamps one externally-initiated propagation. It is monotonically
// non-decreasing and is threaded unchanged through the resulting fan-out,
// per spec.md §1/§5.
type Tick int64

// globalTick is the process-wide monotonic counter. Unlike the teacher's
// per-goroutine *Scheduler.clock (internal/scheduler.go), this runtime has a
// single clock shared by every Graph: spec.md §5 treats "tick" as a global
// notion stamped on each externally-initiated propagation, not a per-runtime
// one, so a package-level counter is the faithful reading.
var globalTick atomic.Int64

// NextTick advances and returns the new current tick. Called exactly once
// per externally-initiated propagation (publish, push, resolve, producer
// callback, timer fire, promise settlement — spec.md §5).
func NextTick() Tick {
	return Tick(globalTick.Add(1))
}

// CurrentTick returns the tick last handed out, without advancing it.
func CurrentTick() Tick {
	return Tick(globalTick.Load())
}
