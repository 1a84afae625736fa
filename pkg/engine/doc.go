// Package engine orchestrates layout runs.
//
// An [Engine] owns a registry of [layout.Algorithm]s, a set of named
// [Template]s and a bounded [History] of committed results. Every layout
// operation resolves the requested algorithm, merges the caller's config
// over the algorithm defaults and [layout.GlobalDefaults], validates it, and
// only then reads the graph.
//
// # Operations
//
//   - [Engine.Layout] computes and commits a layout
//   - [Engine.Preview] computes without committing
//   - [Engine.Optimize] searches config perturbations and commits the best
//   - [Engine.ApplyTemplate] lays out with a named preset
//   - [Engine.Suggestions] ranks algorithms for a graph's topology
//   - [Engine.Back] and [Engine.Forward] browse the history
//
// Layout operations block and are serialised by a one-slot semaphore whose
// acquisition honours context cancellation. Callers that want asynchronous
// behaviour run them on their own goroutines.
//
// # Events
//
// Listeners registered with [Engine.On] receive layout:started,
// layout:completed and layout:failed around committing operations, then one
// node:position:update per node and one edge:path:update per edge path for
// the caller to apply. A failed operation never touches the history.
package engine
