// Package reactive is a push/pull FRP core: Streams carry discrete
// occurrences, Behaviors carry a continuously sampled current value,
// Futures resolve once, and Placeholders let all three be wired into
// cycles before the thing they stand for exists.
//
// Every construct in this package is generic sugar over a single
// non-generic engine in the internal package — the same shape the teacher
// this project grew out of used for its own Signal/Computed pair, wrapping
// internal.Signal behind a generic sig.Signal[T] facade.
package reactive

import "github.com/haldorn/reactive/internal"

// Graph is the propagation context every construct in this package is
// created against — one per goroutine, matching spec.md §5's
// single-threaded-cooperative model. Pushing to a sink, resolving a
// future, or replacing a placeholder from any goroutine other than the one
// that created the Graph panics.
type Graph struct {
	g *internal.Graph
}

// NewGraph creates a graph bound to the calling goroutine.
func NewGraph() *Graph {
	return &Graph{g: internal.NewGraph()}
}
