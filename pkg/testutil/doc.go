// Package testutil provides shared test infrastructure: an in-memory
// types.FS implementation with error injection, and helpers for
// building workspace snapshots in tests.
package testutil
