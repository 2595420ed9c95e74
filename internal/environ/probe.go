// Package environ captures the host descriptors recorded on an Execution.
//
// Every lookup is a field on Probe so tests can substitute failing or
// canned lookups deterministically. Every lookup has a documented
// fallback; taking a snapshot can never fail.
package environ

import (
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/lineal-io/lineal/internal/prov"
)

// FallbackHostID is substituted when the hostname lookup fails or returns
// empty. Run creation must never fail on name-resolution problems.
const FallbackHostID = "localhost"

// Probe resolves host descriptors. The zero value is not usable; construct
// with Default and override individual lookups as needed.
type Probe struct {
	// Username resolves the invoking user's account name.
	// Fallback on error or empty result: "".
	Username func() (string, error)

	// Hostname resolves the host name.
	// Fallback on error or empty result: FallbackHostID.
	Hostname func() (string, error)

	// Runtime describes the execution engine version. Never fails.
	Runtime func() string

	// OS describes the host operating system. Never fails.
	OS func() string

	// Modules snapshots the dependency environment as one opaque string.
	// Fallback on error: "".
	Modules func() (string, error)
}

// Default returns a Probe backed by the real host environment.
func Default() *Probe {
	return &Probe{
		Username: username,
		Hostname: os.Hostname,
		Runtime:  runtime.Version,
		OS:       osDescriptor,
		Modules:  moduleSnapshot,
	}
}

// Snapshot resolves every descriptor, applying fallbacks. It never fails.
func (p *Probe) Snapshot() prov.Environment {
	env := prov.Environment{
		HostID:  FallbackHostID,
		Runtime: p.Runtime(),
		OS:      p.OS(),
	}

	if name, err := p.Username(); err == nil {
		env.Account = name
	}

	if host, err := p.Hostname(); err == nil && host != "" {
		env.HostID = host
	}

	if mods, err := p.Modules(); err == nil {
		env.Modules = mods
	}

	return env
}

// username resolves the account name in a platform-appropriate way.
// Windows sessions expose the name through USERNAME; POSIX hosts go
// through the user database first and fall back to USER.
func username() (string, error) {
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name, nil
		}
	}

	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}

	if name := os.Getenv("USER"); name != "" {
		return name, nil
	}

	return "", os.ErrNotExist
}

// osDescriptor is a best-effort human-readable OS description.
func osDescriptor() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// moduleSnapshot renders the build's module dependency list, one
// "path version" pair per line. A binary built without module info
// yields an error and the empty fallback applies.
func moduleSnapshot() (string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", os.ErrNotExist
	}

	var b strings.Builder
	b.WriteString(info.Main.Path)
	for _, dep := range info.Deps {
		b.WriteString("\n")
		b.WriteString(dep.Path)
		b.WriteString(" ")
		b.WriteString(dep.Version)
	}
	return b.String(), nil
}
