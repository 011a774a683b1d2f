// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"depmap/internal/graph"
)

type TSVGenerator struct {
	snapshot *graph.Snapshot
}

func NewTSVGenerator(s *graph.Snapshot) *TSVGenerator {
	return &TSVGenerator{snapshot: s}
}

func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tFile\tLanguage\n")
	for _, edge := range t.snapshot.Edges() {
		info, _ := t.snapshot.Module(edge[0])
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\n",
			edge[0], edge[1], info.Path, info.Language))
	}

	return buf.String(), nil
}
