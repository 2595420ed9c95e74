package prov

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver maps a raw destination argument to the canonical absolute path
// used as the deduplication key.
//
// Resolution order:
//  1. Each SearchPath directory, in order, joined with the raw name.
//     This handles destinations that are already addressable by name
//     through a configured lookup path.
//  2. The raw name itself: absolute paths as-is, relative paths joined
//     with WorkDir (or the process working directory when WorkDir is "").
//
// A candidate only resolves if it exists as a stat-able filesystem entry.
// The winning candidate is canonicalized with symlink and relative-segment
// resolution so that repeated resolutions of the same artifact always
// produce byte-identical keys. Inconsistent canonicalization here would
// silently break deduplication.
type Resolver struct {
	// WorkDir is the base for relative destinations. Empty means the
	// process working directory, queried per call.
	WorkDir string

	// SearchPath lists directories consulted before WorkDir.
	SearchPath []string
}

// Resolve returns the canonical absolute path for raw.
//
// Returns a PATH_RESOLUTION_FAILED TrackError if raw is empty or no
// candidate exists on the filesystem.
func (r *Resolver) Resolve(raw string) (string, error) {
	if raw == "" {
		return "", NewTrackError(ErrCodePathResolution, "empty destination")
	}

	for _, dir := range r.SearchPath {
		candidate := filepath.Join(dir, raw)
		if resolved, ok := canonicalize(candidate); ok {
			return resolved, nil
		}
	}

	candidate := raw
	if !filepath.IsAbs(raw) {
		base := r.WorkDir
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", NewTrackError(ErrCodePathResolution,
					fmt.Sprintf("working directory unavailable: %v", err)).WithPath(raw)
			}
			base = wd
		}
		candidate = filepath.Join(base, raw)
	}

	if resolved, ok := canonicalize(candidate); ok {
		return resolved, nil
	}

	return "", NewTrackError(ErrCodePathResolution,
		"destination does not exist or is not stat-able").WithPath(raw)
}

// canonicalize resolves symlinks and relative segments and verifies the
// path exists. Returns ok=false if the path cannot be resolved or stat'd.
func canonicalize(path string) (string, bool) {
	if _, err := os.Stat(path); err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}

	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", false
	}

	return filepath.Clean(abs), true
}
