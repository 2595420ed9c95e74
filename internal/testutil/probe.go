package testutil

import (
	"os"

	"github.com/lineal-io/lineal/internal/environ"
)

// FixedProbe returns an environment probe with canned descriptors, so
// Execution records are identical across hosts and test runs.
func FixedProbe() *environ.Probe {
	return &environ.Probe{
		Username: func() (string, error) { return "tester", nil },
		Hostname: func() (string, error) { return "testhost", nil },
		Runtime:  func() string { return "go-test" },
		OS:       func() string { return "testos/amd64" },
		Modules:  func() (string, error) { return "example.com/app v1.0.0", nil },
	}
}

// FailingProbe returns a probe whose fallible lookups all fail, for
// exercising the documented fallbacks.
func FailingProbe() *environ.Probe {
	fail := func() (string, error) { return "", os.ErrNotExist }
	return &environ.Probe{
		Username: fail,
		Hostname: fail,
		Runtime:  func() string { return "" },
		OS:       func() string { return "" },
		Modules:  fail,
	}
}
