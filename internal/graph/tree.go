// # internal/graph/tree.go
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxTreeDepth bounds tree traversal below each root.
const DefaultMaxTreeDepth = 10

var ErrModuleNotFound = errors.New("module not found")

// OrphanKind distinguishes why a module has no importers.
type OrphanKind int

const (
	// EntryPoint modules import others but nothing imports them.
	EntryPoint OrphanKind = iota
	// Standalone modules have no local edges in either direction.
	Standalone
)

func (k OrphanKind) String() string {
	if k == Standalone {
		return "standalone"
	}
	return "entry point"
}

type Orphan struct {
	Module string
	Kind   OrphanKind
}

// Orphans returns every module with zero fan-in, ascending by id. These
// are potential entry points, standalone scripts, or dead code.
func Orphans(s *Snapshot) []Orphan {
	var orphans []Orphan
	for _, id := range s.nodes {
		if len(s.pred[id]) > 0 {
			continue
		}
		kind := EntryPoint
		if len(s.succ[id]) == 0 {
			kind = Standalone
		}
		orphans = append(orphans, Orphan{Module: id, Kind: kind})
	}
	return orphans
}

// treeFrame is one expanded module in the iterative tree walk.
type treeFrame struct {
	node   string
	prefix string
	next   int
}

// RenderTree formats the dependency tree as indented text. With an empty
// start it renders every zero-fan-in root (or all modules when none
// exist); otherwise it renders the subtree below start. A module already
// on the current path is printed once with a [circular] marker instead of
// being expanded. maxDepth bounds expansion below each root.
func RenderTree(s *Snapshot, start string, maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}

	var roots []string
	if start != "" {
		if !s.Has(start) {
			return "", fmt.Errorf("%w: %s", ErrModuleNotFound, start)
		}
		roots = []string{start}
	} else {
		for _, id := range s.nodes {
			if len(s.pred[id]) == 0 {
				roots = append(roots, id)
			}
		}
		if len(roots) == 0 {
			// Every module sits inside a cycle; show them all.
			roots = s.Nodes()
		}
	}

	var lines []string
	for i, root := range roots {
		lines = append(lines, root)
		lines = renderSubtree(s, root, maxDepth, lines)
		if i < len(roots)-1 {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n"), nil
}

// renderSubtree walks below root with an explicit frame stack so depth is
// a loop condition rather than call-stack growth.
func renderSubtree(s *Snapshot, root string, maxDepth int, lines []string) []string {
	stack := []treeFrame{{node: root}}
	onPath := map[string]bool{root: true}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		succ := s.succ[f.node]

		if f.next >= len(succ) {
			delete(onPath, f.node)
			stack = stack[:len(stack)-1]
			continue
		}

		dep := succ[f.next]
		f.next++
		last := f.next == len(succ)

		connector := "|-- "
		extension := "|   "
		if last {
			connector = "`-- "
			extension = "    "
		}

		switch {
		case onPath[dep]:
			lines = append(lines, f.prefix+connector+dep+" [circular]")
		case len(stack) >= maxDepth:
			lines = append(lines, f.prefix+connector+dep)
		default:
			lines = append(lines, f.prefix+connector+dep)
			onPath[dep] = true
			stack = append(stack, treeFrame{node: dep, prefix: f.prefix + extension})
		}
	}
	return lines
}
