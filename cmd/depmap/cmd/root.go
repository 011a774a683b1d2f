// # cmd/depmap/cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "1.0.0"
	Commit  = "unknown"
)

// Persistent flags shared by every subcommand.
var (
	cfgFile     string
	excludeSpec string
	verbose     bool
)

// errCyclesFound signals the reserved exit code for the circular command.
// It carries no message: the cycle listing is already on stdout.
var errCyclesFound = errors.New("circular imports found")

var rootCmd = &cobra.Command{
	Use:   "depmap",
	Short: "Dependency mapper for Python and Go projects",
	Long: `depmap scans a project, extracts imports with tree-sitter, and builds a
module dependency graph.

From the graph it derives:
  - dependency trees with cycle annotations
  - circular import chains (exit code 2 when found)
  - coupling metrics (fan-in, fan-out, instability)
  - orphan modules (entry points and dead code candidates)
  - full text/JSON/Markdown reports and DOT/Mermaid/TSV exports`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command. Exit codes: 0 success, 1 failure,
// 2 circular imports found by the circular command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errCyclesFound) {
			os.Exit(2)
		}
		fmt.Printf("[X] Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./depmap.toml",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&excludeSpec, "exclude", "",
		"Comma-separated dirs to exclude")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
}
