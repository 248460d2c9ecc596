// Package history defines the data model of the history view engine.
//
// This package contains value types only. The engine, the store, the
// harness and the CLI all import history; history imports nothing internal.
//
// Key design constraints:
//   - State is a value; every transition produces a full replacement
//   - Item slices inside a State are never mutated in place
//   - Action and Effect are closed sets (unexported marker methods), so
//     only the variants declared here can exist
//   - Item identity is content-addressed (see ItemID)
package history
