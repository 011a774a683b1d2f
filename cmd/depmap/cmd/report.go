// # cmd/depmap/cmd/report.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	reportJSON     bool
	reportMarkdown bool
	reportOutput   string
)

var reportCmd = &cobra.Command{
	Use:   "report <path>",
	Short: "Generate a full dependency report",
	Long: `Report combines the dependency tree, circular import chains,
coupling metrics and orphan listing into one document. The default is
plain text; --json and --markdown select other formats, --output writes
to a file instead of stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output as JSON")
	reportCmd.Flags().BoolVar(&reportMarkdown, "markdown", false, "Output as Markdown")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Save report to file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	gen := newReportGenerator(res)
	var out string
	switch {
	case reportJSON:
		out, err = gen.JSON()
	case reportMarkdown:
		out, err = gen.Markdown()
	default:
		out, err = gen.Text()
	}
	if err != nil {
		return err
	}

	if reportOutput != "" {
		if err := os.WriteFile(reportOutput, []byte(out), 0o644); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		cmd.Printf("[OK] Report saved to: %s\n", reportOutput)
		return nil
	}

	cmd.Println(out)
	return nil
}
