// # cmd/depmap/cmd/orphans.go
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans <path>",
	Short: "List modules no other module imports",
	Long: `Orphans lists modules with zero importers. A module that still
imports others is labelled an entry point; one with no edges at all is
standalone and a dead-code candidate.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrphans,
}

func init() {
	rootCmd.AddCommand(orphansCmd)
}

func runOrphans(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(formatScanSummary(res))
	cmd.Println()

	orphans := graph.Orphans(res.Snapshot)
	if len(orphans) == 0 {
		cmd.Println("[OK] All modules are imported by at least one other module.")
		return nil
	}

	cmd.Printf("ORPHAN MODULES (%d found)\n", len(orphans))
	cmd.Println(strings.Repeat("-", 50))
	for _, o := range orphans {
		label := "standalone / potential dead code"
		if o.Kind == graph.EntryPoint {
			label = "entry point / orchestrator"
		}
		cmd.Printf("  %s (%s)\n", o.Module, label)
	}
	return nil
}
