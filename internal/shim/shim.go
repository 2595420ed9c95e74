// Package shim redirects designated output operations through the tracker
// while staying behaviorally transparent to the caller: same arguments,
// same return value, same filesystem effects.
//
// Interception is opt-in and explicit. A call site wraps its real
// operation once with Wrap and uses the wrapped operation everywhere; no
// runtime function shadowing is involved.
package shim

import (
	"github.com/lineal-io/lineal/internal/tracker"
)

// WriteOp is the signature of an observable output operation: a
// heterogeneous argument list of the (data, destination, options...) or
// (data, table, destination, options...) form.
type WriteOp func(args ...any) error

// Shim wraps output operations for one coordinator.
//
// Re-entrancy: a real operation that itself invokes another wrapped
// operation (directly or through a library callback) must not be tracked
// twice. The shim keeps a per-shim depth guard; nested invocations
// delegate straight to the real operation.
//
// Thread-safety: the guard is per-shim state without synchronization, so
// one Shim serves one goroutine's call chain. Wrap separate shims for
// concurrent workers; they can share a coordinator, which is itself
// synchronized.
type Shim struct {
	coord *tracker.Coordinator
	depth int
}

// New creates a shim bound to coord.
func New(coord *tracker.Coordinator) *Shim {
	return &Shim{coord: coord}
}

// Wrap returns op with tracking attached.
//
// Order of effects, reproduced deliberately:
//  1. The real operation runs first, with the original arguments
//     unmodified. Its error (or nil) is what the wrapped call returns.
//  2. Tracking runs after, best-effort. The destination must exist on
//     disk for identity resolution, which the completed write guarantees.
//  3. Tracking failures (unsupported shape, unresolvable path) are
//     reported to the coordinator's diagnostics and never alter the
//     result of step 1.
//
// When capture is disabled, only step 1 happens.
func (s *Shim) Wrap(op WriteOp) WriteOp {
	return func(args ...any) error {
		if s.depth > 0 {
			return op(args...)
		}

		s.depth++
		err := s.call(op, args)
		s.depth--
		return err
	}
}

func (s *Shim) call(op WriteOp, args []any) error {
	err := op(args...)

	if !s.coord.CaptureEnabled() {
		return err
	}

	shape, shapeErr := tracker.ParseArgs(args)
	if shapeErr != nil {
		s.coord.ReportShapeError(shapeErr)
		return err
	}

	// RecordOutput reports its own failures; nothing to do with the
	// return value here.
	s.coord.RecordOutput(shape)
	return err
}
