package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lineal-io/lineal/internal/export"
	"github.com/lineal-io/lineal/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Output   string // destination file; empty means stdout
	Pretty   bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <execution-id>",
		Short: "Export a run as PROV JSON",
		Long: `Export a stored run's provenance graph as a PROV-JSON document.

The document is serialized canonically (sorted keys, NFC-normalized
strings), so exporting the same run twice produces byte-identical output.

Example:
  lineal export --db ./lineal.db urn:uuid:550e8400-... > package.json
  lineal export --db ./lineal.db --pretty urn:uuid:550e8400-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the JSON output (non-canonical)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, executionID string, cmd *cobra.Command) error {
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

	data, err := export.Marshal(graph)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to serialize provenance", err)
	}

	if opts.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return WrapExitError(ExitCommandError, "failed to indent output", err)
		}
		data = buf.Bytes()
	}

	formatter.VerboseLog("exported %d object(s), %d edge(s)", len(graph.Objects), len(graph.Edges))

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output file", err)
		}
		return nil
	}

	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}
