// # internal/graph/detect.go
package graph

import (
	"sort"
	"strings"
)

// DefaultMaxCycleLength bounds reported cycle length; longer candidate
// paths are abandoned without being reported.
const DefaultMaxCycleLength = 20

// frame is one level of the iterative depth-first search. next indexes the
// successor to visit when the frame resumes.
type frame struct {
	node string
	next int
}

// FindCycles returns every distinct elementary cycle in the snapshot, each
// normalized to start at its lexicographically smallest member and listed
// without the closing repeat. A module importing itself is reported as a
// length-1 cycle. Results are ordered by starting id, ties by length.
func FindCycles(s *Snapshot, maxLen int) [][]string {
	if maxLen <= 0 {
		maxLen = DefaultMaxCycleLength
	}

	var cycles [][]string
	seen := make(map[string]struct{})

	// Every node is explored as a potential cycle start; visited state is
	// reset per start so cycles reachable only through already-explored
	// territory are still found. Dedup happens on the normalized form.
	for _, start := range s.nodes {
		visited := make(map[string]bool, len(s.nodes))
		onPath := make(map[string]bool)
		path := make([]string, 0, maxLen)
		stack := []frame{{node: start}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]

			if f.next == 0 {
				visited[f.node] = true
				onPath[f.node] = true
				path = append(path, f.node)
			}

			succ := s.succ[f.node]
			if f.next >= len(succ) || len(path) > maxLen {
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				delete(onPath, f.node)
				continue
			}

			dep := succ[f.next]
			f.next++

			if onPath[dep] {
				if cycle := extractCycle(path, dep); cycle != nil {
					key := strings.Join(cycle, "\x00")
					if _, dup := seen[key]; !dup {
						seen[key] = struct{}{}
						cycles = append(cycles, cycle)
					}
				}
				continue
			}
			if !visited[dep] {
				stack = append(stack, frame{node: dep})
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		if cycles[i][0] != cycles[j][0] {
			return cycles[i][0] < cycles[j][0]
		}
		return len(cycles[i]) < len(cycles[j])
	})
	return cycles
}

// CycleChain formats a cycle for display, repeating the first member so
// the chain reads as closed: [a b] becomes "a -> b -> a".
func CycleChain(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	closed := make([]string, 0, len(cycle)+1)
	closed = append(closed, cycle...)
	closed = append(closed, cycle[0])
	return strings.Join(closed, " -> ")
}

// extractCycle takes the path suffix beginning at node and rotates it to
// start at the smallest id.
func extractCycle(path []string, node string) []string {
	start := -1
	for i, m := range path {
		if m == node {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	cycle := path[start:]
	minIdx := 0
	for i, m := range cycle {
		if m < cycle[minIdx] {
			minIdx = i
		}
	}

	normalized := make([]string, 0, len(cycle))
	normalized = append(normalized, cycle[minIdx:]...)
	normalized = append(normalized, cycle[:minIdx]...)
	return normalized
}
