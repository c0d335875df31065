// Package store implements a per-session state container.
//
// A Store owns composed state split into named slices, each updated by a
// reducer handler. Actions are routed to slices by explicit target list,
// explicit prefix override, or the dot-prefix of the action type, then
// gated by per-slice throttle (leading-edge) and debounce
// (trailing-edge) rules before handlers run. Observers subscribe with a
// selector and are notified only when the selected value actually
// changes.
//
// A Store is designed for single-owner use: one session actor performs
// all dispatches, subscriptions, and reads. An internal mutex
// serializes the few entry points that arrive from other goroutines
// (debounce timer firings, recipient-death cleanup, the optional
// mailbox), so the owner never needs external locking.
package store
