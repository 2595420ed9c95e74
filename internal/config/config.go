// Package config loads the capture configuration: the two tracking
// toggles, the store path, and the application name.
//
// Files are YAML, validated against an embedded CUE schema before use so
// a typo'd key or mistyped value fails loudly at session start instead of
// silently disabling capture.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the tracking configuration consulted by the coordinator.
type Config struct {
	// Capture enables provenance recording.
	Capture bool `yaml:"capture"`

	// Debug logs a diagnostic for every tracking failure.
	Debug bool `yaml:"debug"`

	// Store is the SQLite database path for assembled packages.
	Store string `yaml:"store"`

	// Application names the top-level script that initiates runs.
	Application string `yaml:"application"`
}

// Default returns the configuration used when no file is present:
// capture on, debug off, a session database in the working directory.
func Default() Config {
	return Config{
		Capture: true,
		Store:   "lineal.db",
	}
}

// Load reads and validates the configuration file at path.
//
// A missing file is not an error; Default applies. A present file must
// pass schema validation: unknown keys and mistyped values are rejected
// with the CUE error positions.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Validate(data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Store == "" {
		cfg.Store = Default().Store
	}

	return cfg, nil
}

// Validate checks raw YAML config bytes against the embedded CUE schema.
func Validate(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
