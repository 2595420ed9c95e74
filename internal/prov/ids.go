package prov

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDSource mints identifiers for executions, data packages, and objects.
//
// Implementations must return non-empty, collision-free-in-practice tokens.
// The tracker treats a minted identifier that already exists in the object
// table as a fatal DUPLICATE_IDENTIFIER condition.
type IDSource interface {
	NewURN() string
}

// RandomIDSource mints urn:uuid identifiers over random 128-bit UUIDs.
//
// Uses github.com/google/uuid for RFC 4122 compliant version 4 UUIDs,
// so collision probability is negligible for any realistic run count.
//
// Thread-safety: RandomIDSource is stateless and safe for concurrent use.
type RandomIDSource struct{}

// NewURN returns a new urn:uuid identifier.
//
// Format: "urn:uuid:550e8400-e29b-41d4-a716-446655440000" (45 characters)
//
// Panics if UUID generation fails (should never happen in practice).
func (RandomIDSource) NewURN() string {
	return "urn:uuid:" + uuid.Must(uuid.NewRandom()).String()
}

// SequenceCounter assigns monotonically increasing run ordinals within a
// session. Ordinals are for display and ordering; they are not unique
// across sessions.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceCounter struct {
	mu   sync.Mutex
	next int64
}

// Next increments and returns the next ordinal. The first call returns 1.
func (c *SequenceCounter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return c.next
}

// Current returns the most recently assigned ordinal without incrementing.
func (c *SequenceCounter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// validateURN rejects empty identifiers early, before they can reach the
// object table or the store.
func validateURN(id string) error {
	if id == "" {
		return fmt.Errorf("empty identifier")
	}
	return nil
}
