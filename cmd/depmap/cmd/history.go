// # cmd/depmap/cmd/history.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/config"
	"depmap/internal/history"
)

var (
	historyRoot  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded scan snapshots",
	Long: `History lists scans recorded in the snapshot store, newest first.
Recording is enabled via the [history] config section.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRoot, "root", "", "Only show scans of this root path")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum rows to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("no history path configured (set [history] path in %s)", cfgFile)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(historyRoot, historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("(no scans recorded)")
		return nil
	}

	cmd.Printf("%-20s %-30s %7s %7s %7s %7s %8s\n",
		"Timestamp", "Root", "Files", "Modules", "Edges", "Cycles", "Instab.")
	cmd.Println(strings.Repeat("-", 92))
	for _, r := range records {
		root := r.Root
		if len(root) > 30 {
			root = "..." + root[len(root)-27:]
		}
		cmd.Printf("%-20s %-30s %7d %7d %7d %7d %8.3f\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"), root,
			r.FileCount, r.ModuleCount, r.EdgeCount, r.CycleCount,
			r.MeanInstability)
	}
	return nil
}
