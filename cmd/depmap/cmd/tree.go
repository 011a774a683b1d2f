// # cmd/depmap/cmd/tree.go
package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
)

var (
	treeModule string
	treeDepth  int
)

var treeCmd = &cobra.Command{
	Use:   "tree <path>",
	Short: "Print the dependency tree",
	Long: `Tree prints the local dependency tree, one branch per root module.
Modules already on the current branch are marked [circular] and not
expanded further.

Example:
  depmap tree ./myproject --module myproject.core --depth 4`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVarP(&treeModule, "module", "m", "", "Start tree from this module")
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", graph.DefaultMaxTreeDepth, "Maximum tree depth")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	res, err := scanProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(formatScanSummary(res))
	cmd.Println()
	cmd.Println("DEPENDENCY TREE")
	cmd.Println(strings.Repeat("-", 50))

	tree, err := graph.RenderTree(res.Snapshot, treeModule, treeDepth)
	if err != nil {
		if errors.Is(err, graph.ErrModuleNotFound) {
			cmd.Printf("[!] Module '%s' not found in scan results.\n", treeModule)
			return nil
		}
		return err
	}

	if strings.TrimSpace(tree) == "" {
		cmd.Println("(no local dependencies found)")
	} else {
		cmd.Println(tree)
	}
	return nil
}
