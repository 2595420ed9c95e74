package prov

import "fmt"

// TrackError represents a failure detected while recording provenance.
//
// Tracking errors are diagnostic, never fatal to the wrapped operation:
// the real I/O has already happened (or will happen regardless) by the time
// one of these is raised. Callers surface them as diagnostics and move on.
type TrackError struct {
	// Code identifies the error category.
	Code TrackErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the destination involved, when one was identified.
	Path string

	// Details contains additional context.
	Details map[string]string
}

// TrackErrorCode categorizes tracking errors.
type TrackErrorCode string

const (
	// ErrCodeUnsupportedShape indicates no destination argument was found
	// at a supported position in the intercepted call.
	ErrCodeUnsupportedShape TrackErrorCode = "UNSUPPORTED_CALL_SHAPE"

	// ErrCodePathResolution indicates the destination could not be resolved
	// to an existing filesystem entry.
	ErrCodePathResolution TrackErrorCode = "PATH_RESOLUTION_FAILED"

	// ErrCodeDuplicateIdentifier indicates two distinct artifacts received
	// the same identifier. This corrupts the identity invariant and is
	// treated as unrecoverable.
	ErrCodeDuplicateIdentifier TrackErrorCode = "DUPLICATE_IDENTIFIER"

	// ErrCodeNoActiveRun indicates a capture was attempted with no run
	// in progress.
	ErrCodeNoActiveRun TrackErrorCode = "NO_ACTIVE_RUN"
)

// Error implements the error interface.
func (e *TrackError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewTrackError creates a tracking error with the given code and message.
func NewTrackError(code TrackErrorCode, message string) *TrackError {
	return &TrackError{Code: code, Message: message}
}

// WithPath attaches the destination path to the error.
func (e *TrackError) WithPath(path string) *TrackError {
	e.Path = path
	return e
}

// WithDetail attaches a key/value pair to the error's details.
func (e *TrackError) WithDetail(key, value string) *TrackError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsTrackError reports whether err is a TrackError with the given code.
func IsTrackError(err error, code TrackErrorCode) bool {
	te, ok := err.(*TrackError)
	return ok && te.Code == code
}
