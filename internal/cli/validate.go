package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lineal-io/lineal/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a lineal YAML configuration file against its schema.

Checks syntax, rejects unknown keys, and verifies value types without
applying the configuration. Useful for catching a typo'd toggle before a
tracked run starts with capture silently disabled.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitCommandError, "config file not readable")
	}

	if err := config.Validate(data); err != nil {
		formatter.Error(ErrCodeInvalidConfig, err.Error(),
			ValidationResult{Valid: false, Errors: []string{err.Error()}})
		return NewExitError(ExitFailure, "config validation failed")
	}

	return formatter.Success(ValidationResult{Valid: true})
}
