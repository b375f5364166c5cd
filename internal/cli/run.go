// internal/cli/run.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cursegen/cursegen"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full discovery and generation pipeline",
	Long: `Resolve the ncurses libraries, probe ABI features, generate the
constants sources and the support archive, and emit build directives on
standard output.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	o, err := cursegen.New(config)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	return o.Run()
}
