// Package engine implements the unidirectional state/effect runtime that
// drives every dex screen.
//
// # Architecture
//
// Single-writer loop:
//
//	Send(action) ──> queue ──> Run loop ──> reducer(state, action)
//	                   ▲            │              │
//	                   │            │   publish    │ effect
//	                   │            ▼              ▼
//	                   │         State()      interpret (loop goroutine)
//	                   │                           │
//	                   └──── task goroutines ◄─────┘
//
// Only the Run goroutine reduces or interprets effects. Tasks run on their
// own goroutines and can only reach the state by returning an action, which
// re-enters the same FIFO queue.
//
// # Effects
//
//   - None: nothing
//   - Send(a): enqueue a without a goroutine
//   - Async(task) / AsyncTagged(tag, task): run task concurrently
//   - Merge(effs...): run all, results interleave freely
//   - Cancel(tag): revoke everything started under tag
//   - Debounce(eff, tag, d): cancel tag, then run eff under tag after d
//
// # Cancellation
//
// Each tag has a generation. Work started under a tag carries a guard holding
// the generation current at start; Cancel and Debounce replace the
// generation. The guard is checked again when the resulting action is
// dequeued, inside the loop, so revocation and commit can never race: once a
// Cancel has been interpreted, no earlier work under that tag reaches the
// reducer. Task contexts are cancelled too, so well-behaved I/O stops early.
//
// # Composition
//
// Reducers compose with Combine, Scope (always-present child) and IfLet
// (optional child). Child effects are lifted into the parent action type with
// Map, which keeps tags and delays intact.
package engine
