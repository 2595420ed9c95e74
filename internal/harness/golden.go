package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/lineal-io/lineal/internal/export"
)

// scrubToken replaces the scenario work directory in golden snapshots, so
// the same golden file matches on every host.
const scrubToken = "WORKDIR"

// RunWithGolden executes a scenario and compares its exported graph
// against a golden file stored in testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The comparison uses the canonical PROV export, so any drift in object
// identity, edge order, or serialization shows up as a byte diff.
//
// Returns error if scenario execution fails; expectation and golden
// mismatches fail t directly.
func RunWithGolden(t *testing.T, scenario *Scenario, workDir string) error {
	t.Helper()

	result, err := Run(scenario, workDir)
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	data, err := export.Marshal(result.Graph)
	if err != nil {
		return err
	}
	data = bytes.ReplaceAll(data, []byte(result.WorkDir), []byte(scrubToken))

	g := goldie.New(t)
	g.Assert(t, scenario.Name, data)
	return nil
}
