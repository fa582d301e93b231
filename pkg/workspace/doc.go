// Package workspace models a multi-project source tree as a sequence of
// immutable snapshots plus a live, process-wide model with an atomic
// replace operation.
//
// A Snapshot is never mutated in place: every change derives a new
// snapshot value from the old one. The live Workspace hands out its
// current snapshot for concurrent reads and serializes commits; a commit
// fails when another request committed in between (last writer wins, no
// retry).
//
// Document text lives in Revisions. Each revision carries an opaque
// monotonic token; two revisions with different tokens are treated as
// different text even when the characters happen to match, which keeps
// change detection free of content hashing.
package workspace
