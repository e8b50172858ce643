package main

import (
	"fmt"

	reactive "github.com/haldorn/reactive"
)

func main() {
	g := reactive.NewGraph()

	clicks := reactive.NewSinkStream[int](g)
	count := reactive.NewScanBehavior(g, func(_ int, acc int) int { return acc + 1 }, 0, &clicks.Stream)

	count.Subscribe(func(n int) {
		fmt.Println("  [COUNT] clicks so far:", n)
	})

	fmt.Println("Pushing three clicks...")
	clicks.Push(1)
	clicks.Push(1)
	clicks.Push(1)

	fmt.Println("\nStepper behavior delayed by one tick...")
	ticks := reactive.NewSinkStream[int](g)
	delayed := reactive.NewStepperBehavior(g, 0, &ticks.Stream)

	ticks.Stream.Subscribe(func(n int) {
		fmt.Println("  [STREAM] occurrence:", n, "- stepper still reads", reactive.At(delayed))
	})
	delayed.Subscribe(func(n int) {
		fmt.Println("  [BEHAVIOR] stepper updated to:", n)
	})

	ticks.Push(1)
	fmt.Println("After the tick, sampling directly:", reactive.At(delayed))

	fmt.Println("\nTying a cycle with a placeholder...")
	ph := reactive.NewPlaceholder[int](g)
	doubled := reactive.MapStream(ph.AsStream(), func(n int) int { return n * 2 })
	doubled.Subscribe(func(n int) {
		fmt.Println("  [PLACEHOLDER] doubled:", n)
	})

	source := reactive.NewSinkStream[int](g)
	if err := ph.ReplaceWithStream(&source.Stream); err != nil {
		fmt.Println("replace failed:", err)
	}
	source.Push(21)
}
