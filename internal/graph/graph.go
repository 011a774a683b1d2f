// # internal/graph/graph.go
package graph

import "sort"

// ModuleInfo carries the per-module facts recorded during discovery.
type ModuleInfo struct {
	ID         string
	Path       string
	Language   string
	IsPackage  bool
	Lines      int
	ParseError string
	Imports    ImportClassification
}

// ImportClassification groups a module's import targets by how they
// resolved. Each list is sorted and deduplicated.
type ImportClassification struct {
	Local        []string `json:"local,omitempty"`
	Stdlib       []string `json:"stdlib,omitempty"`
	ThirdParty   []string `json:"third_party,omitempty"`
	Unresolvable []string `json:"unresolvable,omitempty"`
}

// Builder accumulates modules and edges during a scan. Build freezes the
// accumulated state into a Snapshot; the builder can keep accumulating for
// a later Build without affecting snapshots already handed out.
type Builder struct {
	modules map[string]ModuleInfo
	edges   map[string]map[string]struct{}
}

func NewBuilder() *Builder {
	return &Builder{
		modules: make(map[string]ModuleInfo),
		edges:   make(map[string]map[string]struct{}),
	}
}

func (b *Builder) AddModule(info ModuleInfo) {
	b.modules[info.ID] = info
}

// AddEdge records a dependency. Duplicate edges collapse; edges touching a
// module that was never added are dropped at Build time.
func (b *Builder) AddEdge(from, to string) {
	set := b.edges[from]
	if set == nil {
		set = make(map[string]struct{})
		b.edges[from] = set
	}
	set[to] = struct{}{}
}

// Build produces an immutable snapshot with deterministic ordering: node
// list and every adjacency list sorted ascending by module id.
func (b *Builder) Build() *Snapshot {
	s := &Snapshot{
		modules: make(map[string]ModuleInfo, len(b.modules)),
		succ:    make(map[string][]string, len(b.modules)),
		pred:    make(map[string][]string, len(b.modules)),
	}

	s.nodes = make([]string, 0, len(b.modules))
	for id, info := range b.modules {
		s.nodes = append(s.nodes, id)
		s.modules[id] = info
	}
	sort.Strings(s.nodes)

	for from, targets := range b.edges {
		if _, ok := b.modules[from]; !ok {
			continue
		}
		for to := range targets {
			if _, ok := b.modules[to]; !ok {
				continue
			}
			s.succ[from] = append(s.succ[from], to)
			s.pred[to] = append(s.pred[to], from)
			s.edgeCount++
		}
	}
	for _, adj := range s.succ {
		sort.Strings(adj)
	}
	for _, adj := range s.pred {
		sort.Strings(adj)
	}

	return s
}

// Snapshot is a frozen dependency graph. All accessors return copies or
// read-only views; nothing mutates a snapshot after Build.
type Snapshot struct {
	nodes     []string
	modules   map[string]ModuleInfo
	succ      map[string][]string
	pred      map[string][]string
	edgeCount int
}

// Nodes returns all module ids in ascending order.
func (s *Snapshot) Nodes() []string {
	out := make([]string, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func (s *Snapshot) Module(id string) (ModuleInfo, bool) {
	info, ok := s.modules[id]
	return info, ok
}

func (s *Snapshot) Has(id string) bool {
	_, ok := s.modules[id]
	return ok
}

// ImportsOf returns the modules id depends on, ascending.
func (s *Snapshot) ImportsOf(id string) []string {
	return append([]string(nil), s.succ[id]...)
}

// ImportersOf returns the modules depending on id, ascending.
func (s *Snapshot) ImportersOf(id string) []string {
	return append([]string(nil), s.pred[id]...)
}

func (s *Snapshot) Len() int {
	return len(s.nodes)
}

func (s *Snapshot) EdgeCount() int {
	return s.edgeCount
}

// Edges returns every edge as a [from, to] pair, ordered by source then
// target id.
func (s *Snapshot) Edges() [][2]string {
	out := make([][2]string, 0, s.edgeCount)
	for _, from := range s.nodes {
		for _, to := range s.succ[from] {
			out = append(out, [2]string{from, to})
		}
	}
	return out
}
