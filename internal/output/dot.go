// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"depmap/internal/graph"
)

type DOTGenerator struct {
	snapshot *graph.Snapshot
}

func NewDOTGenerator(s *graph.Snapshot) *DOTGenerator {
	return &DOTGenerator{snapshot: s}
}

// Generate renders the graph as Graphviz DOT. Edges belonging to a cycle
// are drawn red; pass nil cycles to disable highlighting.
func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleEdges := cycleEdgeSet(cycles)
	cycleModules := cycleModuleSet(cycles)

	for _, id := range d.snapshot.Nodes() {
		info, _ := d.snapshot.Module(id)
		label := id
		if info.Lines > 0 {
			label = fmt.Sprintf("%s\\n(%d lines)", id, info.Lines)
		}
		if cycleModules[id] {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"mistyrose\", style=\"rounded,filled\", color=\"red\", penwidth=2.0];\n", id, label))
		} else {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", id, label))
		}
	}
	buf.WriteString("\n")

	for _, edge := range d.snapshot.Edges() {
		if cycleEdges[edge[0]+"->"+edge[1]] {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", edge[0], edge[1]))
		} else {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\"];\n", edge[0], edge[1]))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// cycleEdgeSet marks every consecutive pair in each cycle, including the
// closing edge back to the start.
func cycleEdgeSet(cycles [][]string) map[string]bool {
	edges := make(map[string]bool)
	for _, cycle := range cycles {
		for i := range cycle {
			from := cycle[i]
			to := cycle[(i+1)%len(cycle)]
			edges[from+"->"+to] = true
		}
	}
	return edges
}

func cycleModuleSet(cycles [][]string) map[string]bool {
	set := make(map[string]bool)
	for _, cycle := range cycles {
		for _, m := range cycle {
			set[m] = true
		}
	}
	return set
}
