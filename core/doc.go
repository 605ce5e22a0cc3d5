// Package core composes unidirectional state-transition reducers with
// lifecycle-correct effect cancellation.
//
// Allowed here:
// - the Reducer, Effect, and Store contracts and their combinators
// - cancellation identity (CancelToken), both Canceller implementations,
//   and the process-scoped CancelRegistry
// - the Combine and Presents composition operators
//
// Not allowed here:
// - rendering, key handling, or any other view-binding concern
// - application state, actions, or environments (those live with the app)
//
// The concurrency contract is single-threaded cooperative: one Store worker
// runs every reducer invocation for a state tree sequentially; effects run
// on arbitrary goroutines, but their outputs fold back into the same serial
// queue. Processing of an action (state mutation, effect spawning, and any
// cancellation its predicate decided) fully completes before the next
// action begins.
package core
