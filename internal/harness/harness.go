// Package harness provides a conformance testing framework for the
// provenance tracker.
//
// A scenario is a YAML file declaring a sequence of intercepted writes
// and the expected object table, edge counts, and diagnostics. The
// harness runs every step against a real coordinator and shim, with
// deterministic identifier and time sources, in a throwaway work
// directory. Golden comparison serializes the resulting graph with the
// canonical exporter and diffs it against a checked-in snapshot, with the
// work directory path scrubbed so snapshots are host-independent.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lineal-io/lineal/internal/prov"
	"github.com/lineal-io/lineal/internal/shim"
	"github.com/lineal-io/lineal/internal/testutil"
	"github.com/lineal-io/lineal/internal/tracker"
)

// frozenStart is the wall-clock time every scenario run starts at.
var frozenStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Graph is the run's provenance graph, for golden comparison.
	Graph *prov.Graph `json:"-"`

	// WorkDir is the canonical scenario work directory, for path
	// scrubbing.
	WorkDir string `json:"-"`
}

// addError records an expectation failure and marks the result failed.
func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario in workDir and evaluates its expectations.
//
// The coordinator uses sequential test identifiers and a frozen clock so
// two runs of the same scenario produce identical graphs.
func Run(scenario *Scenario, workDir string) (*Result, error) {
	// Symlink-resolve up front so expected paths compare equal to the
	// tracker's canonical ones (temp dirs are symlinked on some hosts).
	canonical, err := filepath.EvalSymlinks(workDir)
	if err != nil {
		return nil, fmt.Errorf("canonicalize work dir: %w", err)
	}

	coord := tracker.New(tracker.Options{
		Config:      tracker.Config{Capture: true},
		Application: "harness",
		IDs:         &testutil.SequentialIDSource{},
		Now:         testutil.NewFrozenClock(frozenStart).Now,
		Probe:       testutil.FixedProbe(),
		Resolver:    &prov.Resolver{WorkDir: canonical},
	})
	coord.BeginRun(scenario.Tag)

	write := shim.New(coord).Wrap(func(args ...any) error {
		return realWrite(canonical, args)
	})

	for _, input := range scenario.Inputs {
		path := filepath.Join(canonical, input)
		if err := os.WriteFile(path, []byte("input"), 0o644); err != nil {
			return nil, fmt.Errorf("seed input %s: %w", input, err)
		}
		coord.RecordInput(input)
	}

	for i, step := range scenario.Writes {
		if err := write(stepArgs(step)...); err != nil {
			return nil, fmt.Errorf("write step %d: %w", i+1, err)
		}
	}

	coord.EndRun("")

	result := &Result{Pass: true, Graph: coord.Graph(), WorkDir: canonical}
	evaluate(scenario, coord, result)
	return result, nil
}

// stepArgs assembles the argument list for one write step.
func stepArgs(step WriteStep) []any {
	data := []byte(step.Content)
	if step.Malformed {
		// No string argument at all: the real operation can still find
		// its destination through the data payload in realWrite, but the
		// shim cannot.
		return []any{data, malformedDest(step.Destination)}
	}
	if step.Indexed {
		return []any{data, map[string]any{}, step.Destination}
	}
	return []any{data, step.Destination}
}

// malformedDest hides the destination from the shape parser while keeping
// it recoverable by the real operation.
type malformedDest string

// realWrite is the observed output operation: it writes the data payload
// to the destination under dir. It accepts both supported shapes plus the
// malformed one, so transparency holds even when tracking cannot.
func realWrite(dir string, args []any) error {
	var dest string
	var data []byte

	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			if dest == "" {
				dest = v
			}
		case malformedDest:
			dest = string(v)
		case []byte:
			data = v
		}
	}
	if dest == "" {
		return fmt.Errorf("real write: no destination")
	}

	return os.WriteFile(filepath.Join(dir, dest), data, 0o644)
}

// evaluate checks the scenario's expectations against the finished run.
func evaluate(scenario *Scenario, coord *tracker.Coordinator, result *Result) {
	run := coord.Run()
	expect := scenario.Expect

	if len(run.Objects) != len(expect.Objects)+expect.InputCount {
		result.addError("expected %d objects, got %d",
			len(expect.Objects)+expect.InputCount, len(run.Objects))
	}

	for _, want := range expect.Objects {
		obj, ok := objectByPathSuffix(run, want.Path)
		if !ok {
			result.addError("no object with path suffix %q", want.Path)
			continue
		}
		if obj.FormatID != want.Format {
			result.addError("object %q: expected format %q, got %q",
				want.Path, want.Format, obj.FormatID)
		}
	}

	if len(run.OutputIDs) != expect.OutputCount {
		result.addError("expected %d output ids, got %d", expect.OutputCount, len(run.OutputIDs))
	}
	if len(run.InputIDs) != expect.InputCount {
		result.addError("expected %d input ids, got %d", expect.InputCount, len(run.InputIDs))
	}
	if diags := coord.Diagnostics(); len(diags) != expect.Diagnostics {
		result.addError("expected %d diagnostics, got %d: %v", expect.Diagnostics, len(diags), diags)
	}
}

// objectByPathSuffix finds the run object whose resolved path ends with
// suffix.
func objectByPathSuffix(run *prov.Execution, suffix string) (*prov.DataObject, bool) {
	for _, obj := range run.Objects {
		if strings.HasSuffix(obj.ResolvedPath, suffix) {
			return obj, true
		}
	}
	return nil, false
}
