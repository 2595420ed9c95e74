package prov

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackError_Message(t *testing.T) {
	err := NewTrackError(ErrCodePathResolution, "destination does not exist").WithPath("/data/out.png")
	assert.Equal(t, "PATH_RESOLUTION_FAILED: destination does not exist (path=/data/out.png)", err.Error())

	bare := NewTrackError(ErrCodeUnsupportedShape, "no string destination")
	assert.Equal(t, "UNSUPPORTED_CALL_SHAPE: no string destination", bare.Error())
}

func TestTrackError_Details(t *testing.T) {
	err := NewTrackError(ErrCodeDuplicateIdentifier, "collision").
		WithDetail("identifier", "urn:test:1").
		WithDetail("existing_path", "/a")

	assert.Equal(t, "urn:test:1", err.Details["identifier"])
	assert.Equal(t, "/a", err.Details["existing_path"])
}

func TestIsTrackError(t *testing.T) {
	err := NewTrackError(ErrCodeNoActiveRun, "no run")

	assert.True(t, IsTrackError(err, ErrCodeNoActiveRun))
	assert.False(t, IsTrackError(err, ErrCodePathResolution))
	assert.False(t, IsTrackError(assert.AnError, ErrCodeNoActiveRun))
}
