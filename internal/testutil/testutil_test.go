package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDSource_ReturnsInOrder(t *testing.T) {
	ids := NewFixedIDSource("urn:a", "urn:b")
	assert.Equal(t, "urn:a", ids.NewURN())
	assert.Equal(t, "urn:b", ids.NewURN())
}

func TestFixedIDSource_PanicsWhenExhausted(t *testing.T) {
	ids := NewFixedIDSource("urn:a")
	ids.NewURN()
	assert.Panics(t, func() { ids.NewURN() })
}

func TestSequentialIDSource(t *testing.T) {
	ids := &SequentialIDSource{}
	assert.Equal(t, "urn:test:1", ids.NewURN())
	assert.Equal(t, "urn:test:2", ids.NewURN())
	assert.Equal(t, "urn:test:3", ids.NewURN())
}

func TestFrozenClock(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now(), "time does not pass on its own")

	clock.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), clock.Now())
}

func TestFixedProbe_Deterministic(t *testing.T) {
	env := FixedProbe().Snapshot()
	assert.Equal(t, "tester", env.Account)
	assert.Equal(t, "testhost", env.HostID)
	assert.Equal(t, "go-test", env.Runtime)
	assert.Equal(t, "testos/amd64", env.OS)
	assert.Equal(t, "example.com/app v1.0.0", env.Modules)
}
