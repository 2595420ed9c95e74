package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineal-io/lineal/internal/prov"
	"github.com/lineal-io/lineal/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is the JSON payload for the show command.
type ShowResult struct {
	Execution *prov.Execution `json:"execution"`
	Edges     []prov.Edge     `json:"edges"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <execution-id>",
		Short: "Show one run's objects and edges",
		Long: `Show a stored run: its environment descriptors, every artifact
object it recorded, and the used/wasGeneratedBy edges connecting them.

Example:
  lineal show --db ./lineal.db urn:uuid:550e8400-e29b-41d4-a716-446655440000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, executionID string, cmd *cobra.Command) error {
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

	graph, err := st.ReadGraph(context.Background(), executionID)
	if errors.Is(err, sql.ErrNoRows) {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("no run with execution id %s", executionID), nil)
		return NewExitError(ExitFailure, "run not found")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ShowResult{Execution: graph.Execution, Edges: graph.Edges})
	}

	exec := graph.Execution
	var b strings.Builder
	fmt.Fprintf(&b, "run #%d  %s\n", exec.Seq, exec.ID)
	fmt.Fprintf(&b, "package:     %s\n", exec.PackageID)
	if exec.Tag != "" {
		fmt.Fprintf(&b, "tag:         %s\n", exec.Tag)
	}
	fmt.Fprintf(&b, "started:     %s\n", exec.StartedAt)
	if exec.EndedAt != "" {
		fmt.Fprintf(&b, "ended:       %s\n", exec.EndedAt)
	}
	if exec.PublishedAt != "" {
		fmt.Fprintf(&b, "published:   %s\n", exec.PublishedAt)
	}
	fmt.Fprintf(&b, "application: %s\n", exec.Application)
	fmt.Fprintf(&b, "host:        %s (%s, %s)\n", exec.Env.HostID, exec.Env.OS, exec.Env.Runtime)
	if exec.ErrorMessage != "" {
		fmt.Fprintf(&b, "error:       %s\n", exec.ErrorMessage)
	}

	fmt.Fprintf(&b, "\nobjects (%d):\n", len(graph.Objects))
	for _, obj := range graph.Objects {
		fmt.Fprintf(&b, "  %s  %s  %s\n", obj.ID, obj.FormatID, obj.ResolvedPath)
	}

	fmt.Fprintf(&b, "\nedges (%d):\n", len(graph.Edges))
	for _, edge := range graph.Edges {
		fmt.Fprintf(&b, "  %s --%s--> %s\n", edge.ExecutionID, edge.Relation, edge.ObjectID)
	}

	fmt.Fprint(formatter.Writer, b.String())
	return nil
}
