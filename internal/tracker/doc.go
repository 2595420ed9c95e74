// Package tracker coordinates provenance capture for one run.
//
// The Coordinator is the single owner of the active Execution: it begins
// and ends runs, resolves artifact identity, deduplicates by canonical
// path, and appends used/wasGeneratedBy edges. It is constructed
// explicitly at session start and disposed at session end; call sites
// receive it by reference or through NewContext.
//
// Tracking is best-effort metadata, never a gate on the caller's real
// I/O: every failure in this package is reported as a diagnostic and the
// wrapped operation's outcome is untouched.
package tracker
