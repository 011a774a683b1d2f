// # cmd/depmap/cmd/graph.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
	"depmap/internal/output"
)

var (
	graphOutput      string
	graphFormat      string
	graphNoHighlight bool
)

var graphCmd = &cobra.Command{
	Use:   "graph <path>",
	Short: "Export the dependency graph",
	Long: `Graph exports the dependency graph for external tooling. Formats:
  dot      Graphviz digraph (default), cycle edges highlighted in red
  mermaid  Mermaid flowchart for Markdown embedding
  tsv      tab-separated edge list

Example:
  depmap graph ./myproject -o deps.dot
  dot -Tpng deps.dot -o deps.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Save graph to file")
	graphCmd.Flags().StringVar(&graphFormat, "format", "dot", "Export format (dot, mermaid, tsv)")
	graphCmd.Flags().BoolVar(&graphNoHighlight, "no-highlight", false, "Disable cycle highlighting")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var cycles [][]string
	if !graphNoHighlight {
		cycles = graph.FindCycles(res.Snapshot, res.Cfg.Limits.MaxCycleLength)
	}

	var out, label string
	switch graphFormat {
	case "dot":
		label = "DOT"
		out, err = output.NewDOTGenerator(res.Snapshot).Generate(cycles)
	case "mermaid":
		label = "Mermaid"
		out, err = output.NewMermaidGenerator(res.Snapshot).Generate(cycles)
	case "tsv":
		label = "TSV"
		out, err = output.NewTSVGenerator(res.Snapshot).Generate()
	default:
		return fmt.Errorf("unknown graph format %q (valid: dot, mermaid, tsv)", graphFormat)
	}
	if err != nil {
		return err
	}

	if graphOutput != "" {
		if err := os.WriteFile(graphOutput, []byte(out), 0o644); err != nil {
			return fmt.Errorf("saving graph: %w", err)
		}
		cmd.Printf("[OK] %s graph saved to: %s\n", label, graphOutput)
		if graphFormat == "dot" {
			stem := strings.TrimSuffix(filepath.Base(graphOutput), filepath.Ext(graphOutput))
			cmd.Printf("     Render with: dot -Tpng %s -o %s.png\n", graphOutput, stem)
		}
		return nil
	}

	cmd.Println(out)
	return nil
}
