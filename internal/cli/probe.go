// internal/cli/probe.go
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cursegen/cursegen"
	"github.com/cursegen/cursegen/pkg/emit"
	"github.com/cursegen/cursegen/pkg/pkgconf"
	"github.com/cursegen/cursegen/pkg/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show which libraries the metadata capability resolves",
	Long: `Query the package-metadata capability for each logical library and
report what resolved, without emitting directives or generating anything.
Useful for diagnosing discovery problems before a real run.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	wide := cursegen.ResolveWide(config.Wide, runtime.GOOS)
	fmt.Printf("Wideness: %v\n", wide)

	// Directives are a side effect of successful queries; discard them here,
	// this command only reports.
	client, err := pkgconf.New(emit.New(io.Discard, io.Discard))
	if err != nil {
		fmt.Printf("Metadata capability: not available (%v)\n", err)
	}

	for _, logical := range probe.All {
		names := probe.Names(logical, wide)
		fmt.Printf("\n%s (candidates: %s)\n", logical, strings.Join(names, ", "))

		var lib *pkgconf.Library
		if client != nil {
			lib = probe.Find(client, names)
		}
		if lib == nil {
			fmt.Printf("  not found; fallback name would be %q\n", names.Fallback())
			continue
		}
		fmt.Printf("  matched:  %s\n", lib.Name)
		fmt.Printf("  libs:     %s\n", strings.Join(lib.Libs, " "))
		if len(lib.IncludeDirs) > 0 {
			fmt.Printf("  includes: %s\n", strings.Join(lib.IncludeDirs, " "))
		}
		if len(lib.LinkDirs) > 0 {
			fmt.Printf("  linkdirs: %s\n", strings.Join(lib.LinkDirs, " "))
		}
	}
	return nil
}
