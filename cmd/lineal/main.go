// Command lineal inspects and exports recorded provenance packages.
package main

import (
	"fmt"
	"os"

	"github.com/lineal-io/lineal/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
