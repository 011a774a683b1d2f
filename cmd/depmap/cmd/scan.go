// # cmd/depmap/cmd/scan.go
package cmd

import (
	"github.com/spf13/cobra"

	"depmap/internal/report"
)

var (
	scanJSON     bool
	scanMarkdown bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a project and print a summary",
	Long: `Scan walks the given project (or single source file), builds the
dependency graph and prints a one-line summary. With --json or --markdown
the full report follows the summary.

Example:
  depmap scan ./myproject --exclude tests,docs`,
	Args: cobra.ExactArgs(1),
	RunE: runScanCmd,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the full report as JSON")
	scanCmd.Flags().BoolVar(&scanMarkdown, "markdown", false, "Print the full report as Markdown")
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(formatScanSummary(res))

	if scanJSON || scanMarkdown {
		gen := newReportGenerator(res)
		var out string
		if scanJSON {
			out, err = gen.JSON()
		} else {
			out, err = gen.Markdown()
		}
		if err != nil {
			return err
		}
		cmd.Println(out)
	}

	return nil
}

func newReportGenerator(res *scanResult) *report.Generator {
	return &report.Generator{
		Root:           res.Root,
		Version:        Version,
		Snapshot:       res.Snapshot,
		Stats:          res.Stats,
		MaxCycleLength: res.Cfg.Limits.MaxCycleLength,
		MaxTreeDepth:   res.Cfg.Limits.MaxTreeDepth,
	}
}
