package prov

import (
	"fmt"
	"time"
)

// TimeFormat renders timestamps with microsecond precision and an explicit
// UTC offset. The offset must survive a render/parse round trip; formats
// that drop it (or collapse UTC to "Z"-less local time) fail the round-trip
// property the exporter depends on.
const TimeFormat = "2006-01-02T15:04:05.000000-07:00"

// FormatTime renders t in TimeFormat.
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

// ParseTime parses a timestamp previously rendered with FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeFormat, s)
}

// Environment holds the host descriptors captured once at run start.
// All fields are best-effort strings; a failed lookup yields the
// documented fallback, never an error.
type Environment struct {
	// Account is the invoking user's account name.
	Account string `json:"account_name"`

	// HostID is the host name, "localhost" when lookup fails.
	HostID string `json:"host_id"`

	// Runtime describes the execution engine version.
	Runtime string `json:"runtime"`

	// OS describes the host operating system.
	OS string `json:"operating_system"`

	// Modules is an opaque snapshot of the dependency environment at
	// run start.
	Modules string `json:"module_dependencies"`
}

// Execution is the provenance node for one tracked run.
//
// ID and PackageID are assigned exactly once, at construction. The object
// table never contains two DataObjects with the same resolved path; the
// path is the deduplication key and Register enforces it.
type Execution struct {
	// ID is the run's urn identifier, assigned at construction.
	ID string `json:"execution_id"`

	// PackageID identifies the logical data package this run's artifacts
	// belong to, assigned at construction.
	PackageID string `json:"data_package_id"`

	// Tag is an optional user-supplied label.
	Tag string `json:"tag,omitempty"`

	// Seq is the run's ordinal within the session.
	Seq int64 `json:"seq"`

	// StartedAt, EndedAt, PublishedAt are TimeFormat timestamps.
	// EndedAt and PublishedAt are empty until the event occurs.
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`

	// Application is the name of the top-level script that initiated the
	// run, supplied by the caller.
	Application string `json:"software_application"`

	// Env holds the host descriptors captured at construction.
	Env Environment `json:"environment"`

	// ErrorMessage is set at most once, on abnormal termination.
	ErrorMessage string `json:"error_message,omitempty"`

	// Objects maps object identifier to DataObject. Insertion order is
	// irrelevant; keys are unique; resolved paths are unique.
	Objects map[string]*DataObject `json:"objects"`

	// InputIDs lists identifiers consumed by the run, in first-use order.
	InputIDs []string `json:"input_ids,omitempty"`

	// OutputIDs lists identifiers produced by the run, in the order the
	// artifacts were first finalized as outputs. An identifier appears at
	// most once even when the artifact was rewritten.
	OutputIDs []string `json:"output_ids,omitempty"`
}

// NewExecution constructs the run record. Construction is failure-free:
// identifiers come from ids, the start timestamp from now, and every
// environment descriptor arrives pre-resolved (with fallbacks applied)
// in env.
func NewExecution(ids IDSource, seq int64, tag, application string, env Environment, now time.Time) *Execution {
	return &Execution{
		ID:          ids.NewURN(),
		PackageID:   ids.NewURN(),
		Tag:         tag,
		Seq:         seq,
		StartedAt:   FormatTime(now),
		Application: application,
		Env:         env,
		Objects:     make(map[string]*DataObject),
	}
}

// ObjectByPath returns the object whose resolved path equals path.
func (e *Execution) ObjectByPath(path string) (*DataObject, bool) {
	for _, obj := range e.Objects {
		if obj.ResolvedPath == path {
			return obj, true
		}
	}
	return nil, false
}

// Register inserts or replaces obj in the object table, keyed by its
// identifier.
//
// Returns a DUPLICATE_IDENTIFIER TrackError if the identifier is already
// bound to a different resolved path: that would mean the ID source
// collided, which corrupts artifact identity and cannot be recovered.
func (e *Execution) Register(obj *DataObject) error {
	if err := validateURN(obj.ID); err != nil {
		return NewTrackError(ErrCodeDuplicateIdentifier,
			fmt.Sprintf("invalid identifier: %v", err)).WithPath(obj.ResolvedPath)
	}

	if existing, ok := e.Objects[obj.ID]; ok && existing.ResolvedPath != obj.ResolvedPath {
		return NewTrackError(ErrCodeDuplicateIdentifier,
			"identifier already bound to a different path").
			WithPath(obj.ResolvedPath).
			WithDetail("identifier", obj.ID).
			WithDetail("existing_path", existing.ResolvedPath)
	}

	e.Objects[obj.ID] = obj
	return nil
}

// AppendOutput records id as an output. Repeat appends of the same id are
// ignored: a rewrite of an already-registered artifact is "updated", not
// "re-generated", so OutputIDs stays duplicate-free.
func (e *Execution) AppendOutput(id string) {
	for _, existing := range e.OutputIDs {
		if existing == id {
			return
		}
	}
	e.OutputIDs = append(e.OutputIDs, id)
}

// AppendInput records id as an input, with the same dedup rule as
// AppendOutput.
func (e *Execution) AppendInput(id string) {
	for _, existing := range e.InputIDs {
		if existing == id {
			return
		}
	}
	e.InputIDs = append(e.InputIDs, id)
}

// End stamps the run's end time. Later calls overwrite the timestamp;
// the final End before export wins.
func (e *Execution) End(now time.Time) {
	e.EndedAt = FormatTime(now)
}

// Publish stamps the run's publish time.
func (e *Execution) Publish(now time.Time) {
	e.PublishedAt = FormatTime(now)
}

// Fail records the abnormal-termination message. Only the first non-empty
// message sticks.
func (e *Execution) Fail(message string) {
	if e.ErrorMessage == "" {
		e.ErrorMessage = message
	}
}
