package output

import (
	"fmt"
	"strings"
	"unicode"

	"depmap/internal/graph"
)

type MermaidGenerator struct {
	snapshot *graph.Snapshot
}

func NewMermaidGenerator(s *graph.Snapshot) *MermaidGenerator {
	return &MermaidGenerator{snapshot: s}
}

// Generate renders the graph as a Mermaid flowchart. Cycle members get a
// red node class and cycle edges a red link style; pass nil cycles to
// disable highlighting.
func (m *MermaidGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	nodes := m.snapshot.Nodes()
	ids := makeMermaidIDs(nodes)
	cycleEdges := cycleEdgeSet(cycles)
	cycleModules := cycleModuleSet(cycles)

	for _, id := range nodes {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[id], escapeMermaidLabel(id)))
	}

	b.WriteString("\n")
	if len(nodes) > 0 {
		b.WriteString("  classDef internalNode fill:#f7fbff,stroke:#4d6480,stroke-width:1px;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(nodes, ids), ","))
		b.WriteString(" internalNode;\n")
	}
	if len(cycleModules) > 0 {
		cycleNames := intersectOrdered(nodes, cycleModules)
		if len(cycleNames) > 0 {
			b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px;\n")
			b.WriteString("  class ")
			b.WriteString(strings.Join(toIDs(cycleNames, ids), ","))
			b.WriteString(" cycleNode;\n")
		}
	}

	b.WriteString("\n")
	linkIndex := 0
	var cycleLinkIndexes []int
	for _, edge := range m.snapshot.Edges() {
		edgeLabel := ""
		if cycleEdges[edge[0]+"->"+edge[1]] {
			edgeLabel = "|CYCLE|"
			cycleLinkIndexes = append(cycleLinkIndexes, linkIndex)
		}
		b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[edge[0]], edgeLabel, ids[edge[1]]))
		linkIndex++
	}
	if len(cycleLinkIndexes) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinkIndexes)))
	}

	return b.String(), nil
}

// makeMermaidIDs assigns a unique sanitized identifier per module name.
func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		id := sanitizeMermaidID(name)
		candidate := id
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", id, n)
		}
		used[candidate] = true
		ids[name] = candidate
	}
	return ids
}

func sanitizeMermaidID(module string) string {
	if module == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range module {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "m"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

func escapeMermaidLabel(label string) string {
	label = strings.ReplaceAll(label, "\"", "#quot;")
	return strings.ReplaceAll(label, "\n", "\\n")
}

func toIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, ids[name])
	}
	return out
}

func intersectOrdered(ordered []string, set map[string]bool) []string {
	var out []string
	for _, name := range ordered {
		if set[name] {
			out = append(out, name)
		}
	}
	return out
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
