// Package selector provides derived-value computation over a state
// snapshot: plain one-argument functions applied directly, and memoized
// selectors that recompute only when a declared dependency's output
// changes.
//
// Memoization is per selector instance. Two structurally identical
// selectors never share a cache, and a cache is only valid for the
// single goroutine (or actor) that owns the enclosing store.
package selector
