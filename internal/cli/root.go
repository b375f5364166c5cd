// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cursegen/cursegen"
)

var (
	cfgFile  string
	outDir   string
	compiler string
	csrcDir  string
	narrow   bool
	noMenu   bool
	noPanel  bool
	keep     bool
	debug    bool
	config   *cursegen.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cursegen",
	Short: "ncurses discovery and cgo binding preparation",
	Long: `cursegen - ncurses discovery and cgo binding preparation

Locates the installed ncurses library (plus the menu, panel and tinfo
companions), probes ABI-affecting features, generates Go constant sources
from the system headers, and emits the linker directives the main build
needs. Run it before 'go build', typically from go:generate or a Makefile.`,
	Version: "0.1.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cursegen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "build-scoped output directory (default \"out\")")
	rootCmd.PersistentFlags().StringVar(&compiler, "compiler", "", "C compiler to use (CC environment variable still wins)")
	rootCmd.PersistentFlags().StringVar(&csrcDir, "csrc", "", "directory with introspection C sources (default: embedded copies)")
	rootCmd.PersistentFlags().BoolVar(&narrow, "narrow", false, "use the narrow (non wide-character) library variants")
	rootCmd.PersistentFlags().BoolVar(&noMenu, "no-menu", false, "skip the menu extension library")
	rootCmd.PersistentFlags().BoolVar(&noPanel, "no-panel", false, "skip the panel extension library")
	rootCmd.PersistentFlags().BoolVar(&keep, "keep-artifacts", false, "keep transient probe sources and binaries")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug diagnostics")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = cursegen.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = cursegen.DefaultConfig()
	}

	// Override config with flags
	if outDir != "" {
		config.OutDir = outDir
	}
	if compiler != "" {
		config.Compiler = compiler
	}
	if csrcDir != "" {
		config.CsrcDir = csrcDir
	}
	if narrow {
		config.Wide = false
	}
	if noMenu {
		config.Menu = false
	}
	if noPanel {
		config.Panel = false
	}
	if keep {
		config.KeepArtifacts = true
	}
	if debug {
		config.Debug = true
	}
}
