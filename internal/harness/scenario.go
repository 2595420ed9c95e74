package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for the tracker.
// A scenario declares a sequence of intercepted writes (and optional
// input touches) and asserts on the resulting object table and edges.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are stored
	// under testdata/{Name}.golden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Tag is the run tag passed to BeginRun.
	Tag string `yaml:"tag,omitempty"`

	// Writes lists the intercepted output calls, in order.
	Writes []WriteStep `yaml:"writes"`

	// Inputs lists source files recorded as consumed, in order.
	// Files are created in the work directory before the run starts.
	Inputs []string `yaml:"inputs,omitempty"`

	// Expect asserts on the final run state.
	Expect Expectation `yaml:"expect"`
}

// WriteStep is one intercepted output call.
type WriteStep struct {
	// Destination is the raw destination argument, relative to the
	// scenario's work directory.
	Destination string `yaml:"destination"`

	// Content is the data written by the real operation.
	Content string `yaml:"content,omitempty"`

	// Indexed selects the (data, table, destination) call shape instead
	// of (data, destination).
	Indexed bool `yaml:"indexed,omitempty"`

	// Malformed drops the destination from the argument list entirely,
	// producing an unsupported call shape. The real operation still
	// writes Destination so transparency can be asserted.
	Malformed bool `yaml:"malformed,omitempty"`
}

// Expectation asserts on the run after all steps have executed.
type Expectation struct {
	// Objects lists expected artifact objects as (path suffix, format)
	// pairs. Exactly these objects must exist, one per distinct path.
	Objects []ObjectExpect `yaml:"objects,omitempty"`

	// OutputCount is the expected length of OutputIDs.
	OutputCount int `yaml:"output_count"`

	// InputCount is the expected length of InputIDs.
	InputCount int `yaml:"input_count,omitempty"`

	// Diagnostics is the expected number of reported tracking failures.
	Diagnostics int `yaml:"diagnostics,omitempty"`
}

// ObjectExpect is one expected artifact object.
type ObjectExpect struct {
	// Path is matched as a suffix of the object's resolved path.
	Path string `yaml:"path"`

	// Format is the expected media-type classifier.
	Format string `yaml:"format"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(s.Writes) == 0 && len(s.Inputs) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one write or input is required", path)
	}

	return &s, nil
}
