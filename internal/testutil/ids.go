// Package testutil provides deterministic stand-ins for the tracker's
// identifier and time sources, so tests and golden comparisons produce
// identical bytes on every run.
package testutil

import (
	"fmt"
	"sync"
)

// FixedIDSource returns predetermined identifiers for testing.
//
// This enables deterministic test execution and golden graph comparison.
// Tests provide a known sequence of urns and verify exact output.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDSource struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDSource creates a source that returns ids in order.
//
// Example:
//
//	ids := testutil.NewFixedIDSource("urn:uuid:run", "urn:uuid:pkg", "urn:uuid:obj-1")
//	ids.NewURN() // "urn:uuid:run"
//	ids.NewURN() // "urn:uuid:pkg"
func NewFixedIDSource(ids ...string) *FixedIDSource {
	return &FixedIDSource{ids: ids}
}

// NewURN returns the next predetermined identifier.
//
// Panics when all identifiers have been consumed. Running out mid-test
// means the test's expectations are already wrong; failing fast beats
// minting an unexpected id.
func (s *FixedIDSource) NewURN() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.ids) {
		panic(fmt.Sprintf("FixedIDSource: all %d identifiers consumed", len(s.ids)))
	}
	id := s.ids[s.idx]
	s.idx++
	return id
}

// SequentialIDSource mints "urn:test:<n>" identifiers, counting from 1.
// Useful when a test needs an unbounded supply of distinct, readable ids.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDSource struct {
	mu   sync.Mutex
	next int
}

// NewURN returns the next sequential identifier.
func (s *SequentialIDSource) NewURN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("urn:test:%d", s.next)
}
