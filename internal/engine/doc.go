// Package engine implements the history view state engine.
//
// The engine owns one history.State and evolves it only by reducing
// actions, one at a time, on a single goroutine.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every action, whether it came from the UI or from the history store's
// change feed, goes through Submit into one FIFO queue. Exactly one goroutine
// drains the queue and calls Reduce. This ensures:
//   - The reducer never runs concurrently with itself
//   - Actions are applied in arrival order
//   - Replaying the same actions from the same state gives the same state
//
// Processing Flow:
//  1. Producers call Submit (UI gestures, feed bridge, confirmation dialogs)
//  2. The run loop dequeues one action and stamps it with Clock.Next()
//  3. Reduce returns the next state and zero or more effects
//  4. The state is published to state subscribers (last value wins)
//  5. Each effect is handed to exactly one effect subscriber, or dropped
//
// Streams:
// State subscriptions always see the most recent state; a subscriber that
// falls behind skips intermediate states, and a new subscriber receives the
// current state immediately. Effect subscriptions are one-shot: an effect is
// never replayed, and one emitted while nobody listens is dropped.
//
// Lifecycle:
// Start launches the run loop and the feed bridge. Dispose stops both,
// closes every subscription and turns Submit into a no-op. Dispose is
// idempotent and also runs when the context given to Start ends.
package engine
