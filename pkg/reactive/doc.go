// Package reactive is the dependency-tracking core of reactor.
//
// Reactive data lives in targets: *Object (a tracked view over a
// map[string]any), *List (a tracked ordered collection), *Ref (a single
// tracked cell) and *Computed (a lazily cached derivation). Every target
// owns a dependency map from key to the set of effects that read that key.
//
// An Effect is a tracked computation. While it runs it is the active effect
// of its goroutine, and every tracked read creates an edge from the
// (target, key) pair to the effect. Before each rerun the effect removes all
// of its edges, so after a run it is subscribed to exactly the keys that run
// read:
//
//	state := reactive.NewObject(map[string]any{"count": 0})
//
//	e := reactive.NewEffect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	defer e.Stop()
//
//	state.Set("count", 1) // prints "count is 1"
//
// Writes trigger subscribers synchronously unless the effect has a
// scheduler. A JobQueue is a scheduler that coalesces reruns: an effect
// queued many times runs once per Flush.
//
//	q := reactive.NewJobQueue()
//	e := reactive.NewEffect(render, reactive.WithScheduler(q.Queue))
//	state.Set("a", 1)
//	state.Set("b", 2)
//	q.Flush() // render runs once
//
// Computed values are lazy. Invalidation only flips a dirty flag and
// notifies the computed's own subscribers; the getter runs on the next Get:
//
//	total := reactive.NewComputed(func() int {
//	    return state.Get("a").(int) + state.Get("b").(int)
//	})
//
// Tracking state is kept per goroutine, so independent goroutines can run
// their own reactive graphs (for example concurrent server renders). A single
// graph must not be shared across goroutines.
package reactive
