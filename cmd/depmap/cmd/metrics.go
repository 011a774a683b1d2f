// # cmd/depmap/cmd/metrics.go
package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
)

var (
	metricsSort string
	metricsJSON bool
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <path>",
	Short: "Show coupling metrics per module",
	Long: `Metrics prints fan-in, fan-out and instability for every module.
Instability is fan_out / (fan_in + fan_out): 1.0 means the module only
depends on others, 0.0 means it is only depended upon.

Highly unstable modules (>= 0.8) are marked [!]; stable, widely imported
modules (<= 0.2) are marked [stable].`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().StringVarP(&metricsSort, "sort", "s", "instability",
		"Sort by field (instability, fan_in, fan_out, name)")
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(formatScanSummary(res))
	cmd.Println()

	metrics, err := graph.ComputeMetrics(res.Snapshot, metricsSort)
	if err != nil {
		return err
	}

	if metricsJSON {
		data, err := json.MarshalIndent(metrics, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("COUPLING METRICS")
	cmd.Println(strings.Repeat("-", 70))
	cmd.Printf("%-40s %7s %8s %8s\n", "Module", "Fan-In", "Fan-Out", "Instab.")
	cmd.Println(strings.Repeat("-", 70))

	for _, m := range metrics {
		marker := ""
		if m.Instability >= 0.8 {
			marker = " [!]"
		} else if m.Instability <= 0.2 && m.FanIn > 0 {
			marker = " [stable]"
		}
		cmd.Printf("%-40s %7d %8d %8.3f%s\n", m.Module, m.FanIn, m.FanOut, m.Instability, marker)
	}
	return nil
}
