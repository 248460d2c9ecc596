// Package store provides SQLite-backed storage for browsing history.
//
// The store keeps one row per page per source per UTC day, keyed by the
// content-addressed id from history.ItemID. Recording the same page again
// on the same day moves the existing row to the new visit time.
//
// # Ordering
//
// List and every snapshot are ordered by visited_at DESC, id ASC COLLATE
// BINARY, so equal timestamps still give a stable order.
//
// # Change feed
//
// Subscribe implements engine.HistorySource. Each subscriber gets a full
// snapshot right away and another after every committed write. Writes that
// land while a snapshot is being read coalesce into one follow-up snapshot.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
