package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineal-io/lineal/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List every run stored in the provenance database.

Runs are ordered by session sequence number. Each row shows the run's
execution id, its tag, its start and end times, and how many artifact
objects it recorded.

Example:
  lineal runs --db ./lineal.db
  lineal runs --db ./lineal.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	summaries, err := st.ListRuns(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	formatter.VerboseLog("found %d run(s)", len(summaries))

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs recorded")
		return nil
	}

	var b strings.Builder
	for _, sum := range summaries {
		fmt.Fprintf(&b, "#%d  %s", sum.Seq, sum.ExecutionID)
		if sum.Tag != "" {
			fmt.Fprintf(&b, "  [%s]", sum.Tag)
		}
		fmt.Fprintf(&b, "\n    started: %s", sum.StartedAt)
		if sum.EndedAt != "" {
			fmt.Fprintf(&b, "  ended: %s", sum.EndedAt)
		}
		fmt.Fprintf(&b, "\n    package: %s  objects: %d\n", sum.PackageID, sum.ObjectCount)
	}
	fmt.Fprint(formatter.Writer, b.String())
	return nil
}
