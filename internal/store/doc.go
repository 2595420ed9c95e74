// Package store persists assembled provenance packages to SQLite.
//
// One database holds the runs of a session: a row per Execution, a row
// per DataObject, and a row per used/wasGeneratedBy edge. All writes are
// idempotent on the urn identifiers, so re-saving a run after EndRun or
// Publish is safe and refreshes only the mutable fields.
//
// Reads are deterministically ordered (seq, then identifier with binary
// collation; edges by recorded position) so a reconstructed graph
// serializes byte-identically every time.
package store
