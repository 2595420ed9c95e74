package tracker

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lineal-io/lineal/internal/environ"
	"github.com/lineal-io/lineal/internal/prov"
)

// Config holds the two capture toggles consulted around every intercepted
// operation. How they are loaded is the config package's business.
type Config struct {
	// Capture enables provenance recording. Disabled means intercepted
	// operations run untracked.
	Capture bool

	// Debug emits a diagnostic log line for every tracking failure.
	Debug bool
}

// Options configures a Coordinator. Zero-value fields get defaults:
// random urn:uuid identifiers, wall-clock time, the real host probe, a
// working-directory resolver, and a discard logger.
type Options struct {
	Config      Config
	Application string

	IDs      prov.IDSource
	Now      func() time.Time
	Probe    *environ.Probe
	Resolver *prov.Resolver
	Logger   *slog.Logger
}

// Coordinator owns the active Execution and its object table for the
// lifetime of one run. It is constructed explicitly at session start and
// passed by reference (or threaded through a context) to every intercepted
// call site; there is no package-level instance.
//
// Thread-safety: all methods are safe for concurrent use. The mutex is
// held for the whole resolve-dedup-record sequence so identity resolution
// and table mutation are atomic with respect to other intercepted calls.
type Coordinator struct {
	mu sync.Mutex

	cfg         Config
	application string

	ids      prov.IDSource
	now      func() time.Time
	probe    *environ.Probe
	resolver *prov.Resolver
	logger   *slog.Logger

	seq   prov.SequenceCounter
	run   *prov.Execution
	diags []error
}

// New creates a Coordinator.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		cfg:         opts.Config,
		application: opts.Application,
		ids:         opts.IDs,
		now:         opts.Now,
		probe:       opts.Probe,
		resolver:    opts.Resolver,
		logger:      opts.Logger,
	}

	if c.ids == nil {
		c.ids = prov.RandomIDSource{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.probe == nil {
		c.probe = environ.Default()
	}
	if c.resolver == nil {
		c.resolver = &prov.Resolver{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return c
}

// CaptureEnabled reports whether provenance recording is on.
func (c *Coordinator) CaptureEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Capture
}

// SetCapture toggles recording. Takes effect for the next intercepted
// operation; it does not rewrite history.
func (c *Coordinator) SetCapture(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Capture = enabled
}

// BeginRun creates a new Execution and makes it the active run, replacing
// any previous one. The previous run's in-memory state is discarded; runs
// are not chained automatically, so export before beginning the next run.
func (c *Coordinator) BeginRun(tag string) *prov.Execution {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := c.probe.Snapshot()
	c.run = prov.NewExecution(c.ids, c.seq.Next(), tag, c.application, env, c.now())
	c.diags = nil
	return c.run
}

// EndRun stamps the active run's end time. A non-empty errMsg records
// abnormal termination; only the first message sticks.
func (c *Coordinator) EndRun(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run == nil {
		return
	}
	c.run.End(c.now())
	if errMsg != "" {
		c.run.Fail(errMsg)
	}
}

// Publish stamps the active run's publish time. Called by exporters once
// the assembled package has been handed off.
func (c *Coordinator) Publish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != nil {
		c.run.Publish(c.now())
	}
}

// Run returns the active Execution, or nil when no run is in progress.
func (c *Coordinator) Run() *prov.Execution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run
}

// RecordOutput registers the destination of an intercepted output call as
// a produced artifact of the active run.
//
// The real operation has already completed by the time this runs; a
// failure here is a diagnostic, never a rollback. Sequence, under one
// mutex acquisition:
//  1. no-op when capture is disabled
//  2. resolve the destination to its canonical path
//  3. reuse the identifier of an existing object with that path, or mint
//     a new one
//  4. insert/replace the object record (format refreshed from the path)
//  5. append to OutputIDs on first registration only; a rewrite of the
//     same path is "updated", not "re-generated"
func (c *Coordinator) RecordOutput(shape CallShape) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record(shape.Destination(), prov.RelationWasGeneratedBy)
}

// RecordInput registers a source path consumed by the active run. Input
// capture follows the identical identity and dedup rules as outputs; only
// the edge kind differs.
func (c *Coordinator) RecordInput(source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record(source, prov.RelationUsed)
}

// record is the shared resolve-dedup-register sequence. Caller holds mu.
func (c *Coordinator) record(dest string, rel prov.Relation) error {
	if !c.cfg.Capture {
		return nil
	}

	if c.run == nil {
		return c.report(prov.NewTrackError(prov.ErrCodeNoActiveRun,
			"capture attempted with no run in progress").WithPath(dest))
	}

	resolved, err := c.resolver.Resolve(dest)
	if err != nil {
		return c.report(err)
	}

	var id string
	if existing, ok := c.run.ObjectByPath(resolved); ok {
		id = existing.ID
	} else {
		id = c.ids.NewURN()
	}

	if err := c.run.Register(prov.NewDataObject(id, resolved)); err != nil {
		return c.report(err)
	}

	switch rel {
	case prov.RelationUsed:
		c.run.AppendInput(id)
	default:
		c.run.AppendOutput(id)
	}
	return nil
}

// ReportShapeError records an UNSUPPORTED_CALL_SHAPE (or any other
// pre-tracking) diagnostic raised by the shim before tracking could start.
func (c *Coordinator) ReportShapeError(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report(err)
}

// Graph returns the provenance graph derived from the active run, or nil
// when no run is in progress.
func (c *Coordinator) Graph() *prov.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run == nil {
		return nil
	}
	return prov.BuildGraph(c.run)
}

// Diagnostics returns the tracking failures reported since BeginRun.
func (c *Coordinator) Diagnostics() []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]error, len(c.diags))
	copy(out, c.diags)
	return out
}

// report appends a diagnostic and logs it when debug is on. Caller holds
// mu. Returns err for convenience at call sites.
func (c *Coordinator) report(err error) error {
	c.diags = append(c.diags, err)
	if c.cfg.Debug {
		c.logger.Warn("tracking failure", "error", err)
	}
	return err
}
