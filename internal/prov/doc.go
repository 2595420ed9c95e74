// Package prov defines the provenance data model for a single tracked run:
// the Execution record, the DataObject artifact nodes it owns, and the
// derived node/edge graph handed to exporters.
//
// Identity rules (the core correctness property of the model):
//   - ExecutionID and DataPackageID are assigned exactly once, at
//     construction, and never reassigned.
//   - A DataObject's identity within a run is its canonical resolved path.
//     One logical artifact gets exactly one identifier for the lifetime of
//     one run, no matter how many times it is rewritten.
//   - Identity is scoped per run. The same file touched in two runs yields
//     two distinct DataObjects with two distinct identifiers.
//
// The package is pure data plus identity logic. It performs no I/O beyond
// path resolution and holds no global state; ownership of an Execution and
// its object table belongs to the tracker coordinator.
package prov
