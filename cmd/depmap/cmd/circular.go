// # cmd/depmap/cmd/circular.go
package cmd

import (
	"github.com/spf13/cobra"

	"depmap/internal/graph"
	"depmap/internal/observability"
)

var circularMaxLength int

var circularCmd = &cobra.Command{
	Use:   "circular <path>",
	Short: "Detect circular import chains",
	Long: `Circular lists every elementary import cycle up to --max-length
modules. Each cycle is reported once, rotated to start at its
alphabetically smallest member.

Exit code 2 when cycles are found, 0 when the graph is clean.`,
	Args: cobra.ExactArgs(1),
	RunE: runCircular,
}

func init() {
	circularCmd.Flags().IntVar(&circularMaxLength, "max-length", 20, "Maximum cycle length to report")
	rootCmd.AddCommand(circularCmd)
}

func runCircular(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(formatScanSummary(res))
	cmd.Println()

	cycles := graph.FindCycles(res.Snapshot, circularMaxLength)
	observability.CyclesFound.Set(float64(len(cycles)))

	if len(cycles) == 0 {
		cmd.Println("[OK] No circular imports detected!")
		return nil
	}

	cmd.Printf("[!] Found %d circular import chain(s):\n", len(cycles))
	cmd.Println()
	for i, cycle := range cycles {
		cmd.Printf("  Cycle %d: %s\n", i+1, graph.CycleChain(cycle))
	}
	return errCyclesFound
}
