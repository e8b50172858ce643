package internal

import (
	"strconv"

	"github.com/petermattis/goid"
)

// Graph is the propagation context every Reactive is built against. The
// teacher (internal/runtime.go, internal/tracker.go) keys a *Runtime per
// goroutine via goid because its signal graph is meant to be touched from
// many goroutines concurrently, each with its own isolated runtime. This
// runtime's domain is the opposite: spec.md §5 makes single-threaded
// cooperative execution a hard non-goal boundary, so Graph repurposes the
// same goid-based identification to enforce that boundary instead of
// papering over it — one Graph is owned by the goroutine that created it,
// and every externally-initiated entry point must prove it is still running
// there.
type Graph struct {
	ownerGID int64
	pending  []committer
}

// NewGraph creates a graph bound to the calling goroutine.
func NewGraph() *Graph {
	return &Graph{ownerGID: goid.Get()}
}

// assertOwnerGoroutine panics if called from a goroutine other than the one
// that created g. Called through Enter, so at every entry point that
// advances the tick (push, publish, resolve, placeholder replacement,
// producer callback, timer/promise re-entry); sampling with At does not
// go through it.
func (g *Graph) assertOwnerGoroutine() {
	if gid := goid.Get(); gid != g.ownerGID {
		panic("reactive: graph accessed from goroutine " +
			strconv.FormatInt(gid, 10) + ", but was created on goroutine " +
			strconv.FormatInt(g.ownerGID, 10) +
			" (this runtime is single-threaded cooperative)")
	}
}

// Enter is the single choke point external collaborators (sinks, producers,
// timers, promise bridges) call through before mutating the graph. It
// asserts the goroutine guard, advances the tick, and returns it.
func (g *Graph) Enter() Tick {
	g.assertOwnerGoroutine()
	return NextTick()
}

// committer is implemented by nodes that defer part of their own update to
// the end of a tick — currently stepper and the scan-behavior, whose stored
// "last" must lag one tick behind the value they just pushed downstream (the
// "delayed stepper" invariant, spec.md §4.3, §8 property 4). Modeled on the
// teacher's own pending/commit split (internal/signal.go pendingValue +
// Commit(), internal/queue.go NodeQueue).
type committer interface {
	commit()
}

// ScheduleCommit registers c to run its deferred update once the current
// tick's propagation finishes. Safe to call more than once per tick for the
// same c; commit() is expected to be idempotent.
func (g *Graph) ScheduleCommit(c committer) {
	g.pending = append(g.pending, c)
}

// Flush runs every commit scheduled during the tick just propagated, then
// clears the queue. Every external entry point calls this after running its
// propagation function — see Propagate.
func (g *Graph) Flush() {
	pending := g.pending
	g.pending = nil
	for _, c := range pending {
		c.commit()
	}
}

// Propagate is the standard shape of an external entry point: advance the
// tick, run fn, then flush deferred commits. Sinks, producers, timers and
// promise bridges should all go through this rather than calling Enter and
// Flush separately.
func (g *Graph) Propagate(fn func(t Tick)) {
	t := g.Enter()
	fn(t)
	g.Flush()
}

