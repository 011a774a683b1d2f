// Package report renders full dependency analysis reports in text,
// Markdown and JSON form.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"depmap/internal/graph"
	"depmap/internal/scanner"
)

// Generator assembles a report from one scan's snapshot and stats.
type Generator struct {
	Root           string
	Version        string
	Snapshot       *graph.Snapshot
	Stats          scanner.Stats
	MaxCycleLength int
	MaxTreeDepth   int
}

const sep = "======================================================================"
const rule = "----------------------------------------------------------------------"

func (g *Generator) Text() (string, error) {
	s := g.Snapshot
	cycles := graph.FindCycles(s, g.MaxCycleLength)
	metrics, err := graph.ComputeMetrics(s, graph.SortByInstability)
	if err != nil {
		return "", err
	}
	orphans := graph.Orphans(s)

	var lines []string
	lines = append(lines,
		sep,
		"DEPMAP - DEPENDENCY ANALYSIS REPORT",
		sep,
		fmt.Sprintf("Project: %s", g.Root),
		fmt.Sprintf("Scanned: %d source files", g.Stats.FilesScanned),
		fmt.Sprintf("Parse errors: %d", g.Stats.ParseErrors),
		fmt.Sprintf("Scan time: %.3fs", g.Stats.Elapsed.Seconds()),
		fmt.Sprintf("Modules: %d", s.Len()),
		fmt.Sprintf("Dependencies: %d", s.EdgeCount()),
		"",
	)

	lines = append(lines, sep, "DEPENDENCY TREE", rule)
	tree, err := graph.RenderTree(s, "", g.MaxTreeDepth)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tree) != "" {
		lines = append(lines, tree)
	} else {
		lines = append(lines, "(no local dependencies found)")
	}
	lines = append(lines, "")

	lines = append(lines, sep, "CIRCULAR IMPORTS", rule)
	if len(cycles) > 0 {
		lines = append(lines, fmt.Sprintf("[!] Found %d circular import chain(s):", len(cycles)), "")
		for i, cycle := range cycles {
			lines = append(lines, fmt.Sprintf("  Cycle %d: %s", i+1, graph.CycleChain(cycle)))
		}
	} else {
		lines = append(lines, "[OK] No circular imports detected!")
	}
	lines = append(lines, "")

	lines = append(lines, sep, "COUPLING METRICS", rule)
	if len(metrics) > 0 {
		lines = append(lines, fmt.Sprintf("%-40s %7s %8s %8s", "Module", "Fan-In", "Fan-Out", "Instab."))
		lines = append(lines, rule)
		for _, m := range metrics {
			lines = append(lines, fmt.Sprintf("%-40s %7d %8d %8.3f", m.Module, m.FanIn, m.FanOut, m.Instability))
		}
	} else {
		lines = append(lines, "(no modules to analyze)")
	}
	lines = append(lines, "")

	lines = append(lines, sep, "ORPHAN MODULES (no inbound imports)", rule)
	if len(orphans) > 0 {
		for _, o := range orphans {
			label := "standalone / potential dead code"
			if o.Kind == graph.EntryPoint {
				label = "entry point / orchestrator"
			}
			lines = append(lines, fmt.Sprintf("  %s (%s)", o.Module, label))
		}
	} else {
		lines = append(lines, "(all modules are imported by at least one other)")
	}
	lines = append(lines, "")

	if g.Stats.ParseErrors > 0 {
		lines = append(lines, sep, "PARSE ERRORS", rule)
		for _, id := range s.Nodes() {
			if info, _ := s.Module(id); info.ParseError != "" {
				lines = append(lines, fmt.Sprintf("  %s: %s", id, info.ParseError))
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, sep, "Report generated by depmap v"+g.Version, sep)
	return strings.Join(lines, "\n"), nil
}

type jsonModule struct {
	Filepath   string                     `json:"filepath"`
	Language   string                     `json:"language"`
	LineCount  int                        `json:"line_count"`
	IsPackage  bool                       `json:"is_package"`
	FanIn      int                        `json:"fan_in"`
	FanOut     int                        `json:"fan_out"`
	ParseError string                     `json:"parse_error,omitempty"`
	Imports    graph.ImportClassification `json:"import_classification"`
}

type jsonCycle struct {
	Cycle  []string `json:"cycle"`
	Length int      `json:"length"`
}

type jsonReport struct {
	Version string `json:"depmap_version"`
	Project string `json:"project"`
	Summary struct {
		TotalFiles      int     `json:"total_files"`
		TotalModules    int     `json:"total_modules"`
		TotalDeps       int     `json:"total_dependencies"`
		ParseErrors     int     `json:"parse_errors"`
		ScanTimeSeconds float64 `json:"scan_time_seconds"`
		CircularCount   int     `json:"circular_import_count"`
		OrphanCount     int     `json:"orphan_count"`
	} `json:"summary"`
	Modules         map[string]jsonModule `json:"modules"`
	Dependencies    map[string][]string   `json:"dependencies"`
	Dependents      map[string][]string   `json:"dependents"`
	CircularImports []jsonCycle           `json:"circular_imports"`
	CouplingMetrics []graph.Metric        `json:"coupling_metrics"`
	Orphans         []string              `json:"orphans"`
}

func (g *Generator) JSON() (string, error) {
	s := g.Snapshot
	cycles := graph.FindCycles(s, g.MaxCycleLength)
	metrics, err := graph.ComputeMetrics(s, graph.SortByName)
	if err != nil {
		return "", err
	}
	orphans := graph.Orphans(s)

	var r jsonReport
	r.Version = g.Version
	r.Project = g.Root
	r.Summary.TotalFiles = g.Stats.FilesScanned
	r.Summary.TotalModules = s.Len()
	r.Summary.TotalDeps = s.EdgeCount()
	r.Summary.ParseErrors = g.Stats.ParseErrors
	r.Summary.ScanTimeSeconds = float64(g.Stats.Elapsed.Milliseconds()) / 1000
	r.Summary.CircularCount = len(cycles)
	r.Summary.OrphanCount = len(orphans)

	r.Modules = make(map[string]jsonModule, s.Len())
	r.Dependencies = make(map[string][]string)
	r.Dependents = make(map[string][]string)
	for _, id := range s.Nodes() {
		info, _ := s.Module(id)
		r.Modules[id] = jsonModule{
			Filepath:   info.Path,
			Language:   info.Language,
			LineCount:  info.Lines,
			IsPackage:  info.IsPackage,
			FanIn:      len(s.ImportersOf(id)),
			FanOut:     len(s.ImportsOf(id)),
			ParseError: info.ParseError,
			Imports:    info.Imports,
		}
		if deps := s.ImportsOf(id); len(deps) > 0 {
			r.Dependencies[id] = deps
		}
		if importers := s.ImportersOf(id); len(importers) > 0 {
			r.Dependents[id] = importers
		}
	}

	r.CircularImports = make([]jsonCycle, 0, len(cycles))
	for _, c := range cycles {
		r.CircularImports = append(r.CircularImports, jsonCycle{Cycle: c, Length: len(c)})
	}
	r.CouplingMetrics = metrics
	r.Orphans = make([]string, 0, len(orphans))
	for _, o := range orphans {
		r.Orphans = append(r.Orphans, o.Module)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) Markdown() (string, error) {
	s := g.Snapshot
	cycles := graph.FindCycles(s, g.MaxCycleLength)
	metrics, err := graph.ComputeMetrics(s, graph.SortByInstability)
	if err != nil {
		return "", err
	}
	orphans := graph.Orphans(s)

	var lines []string
	lines = append(lines,
		"# depmap - Dependency Analysis Report",
		"",
		fmt.Sprintf("**Project:** `%s`  ", g.Root),
		fmt.Sprintf("**Files Scanned:** %d  ", g.Stats.FilesScanned),
		fmt.Sprintf("**Modules Found:** %d  ", s.Len()),
		fmt.Sprintf("**Dependencies:** %d  ", s.EdgeCount()),
		fmt.Sprintf("**Parse Errors:** %d  ", g.Stats.ParseErrors),
		fmt.Sprintf("**Scan Time:** %.3fs  ", g.Stats.Elapsed.Seconds()),
		"",
	)

	status := "[OK]"
	if len(cycles) > 0 {
		status = "[!] FOUND"
	}
	lines = append(lines,
		"## Summary",
		"",
		"| Metric | Value |",
		"|--------|-------|",
		fmt.Sprintf("| Source Files | %d |", g.Stats.FilesScanned),
		fmt.Sprintf("| Local Modules | %d |", s.Len()),
		fmt.Sprintf("| Dependencies | %d |", s.EdgeCount()),
		fmt.Sprintf("| Circular Imports | %d %s |", len(cycles), status),
		fmt.Sprintf("| Orphan Modules | %d |", len(orphans)),
		fmt.Sprintf("| Parse Errors | %d |", g.Stats.ParseErrors),
		"",
	)

	tree, err := graph.RenderTree(s, "", g.MaxTreeDepth)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tree) == "" {
		tree = "(no local dependencies)"
	}
	lines = append(lines, "## Dependency Tree", "", "```", tree, "```", "")

	lines = append(lines, "## Circular Imports", "")
	if len(cycles) > 0 {
		lines = append(lines, fmt.Sprintf("**[!] %d circular import chain(s) detected:**", len(cycles)), "")
		for i, cycle := range cycles {
			lines = append(lines, fmt.Sprintf("%d. `%s`", i+1, graph.CycleChain(cycle)))
		}
	} else {
		lines = append(lines, "**[OK] No circular imports detected!**")
	}
	lines = append(lines, "")

	lines = append(lines, "## Coupling Metrics", "")
	if len(metrics) > 0 {
		lines = append(lines, "| Module | Fan-In | Fan-Out | Instability |")
		lines = append(lines, "|--------|--------|---------|-------------|")
		for _, m := range metrics {
			lines = append(lines, fmt.Sprintf("| %s | %d | %d | %.3f |", m.Module, m.FanIn, m.FanOut, m.Instability))
		}
	} else {
		lines = append(lines, "(no modules to analyze)")
	}
	lines = append(lines, "")

	lines = append(lines, "## Orphan Modules", "")
	if len(orphans) > 0 {
		lines = append(lines, "These modules are not imported by any other local module:", "")
		for _, o := range orphans {
			label := "standalone / dead code"
			if o.Kind == graph.EntryPoint {
				label = "entry point"
			}
			lines = append(lines, fmt.Sprintf("- `%s` (%s)", o.Module, label))
		}
	} else {
		lines = append(lines, "All modules are imported by at least one other.")
	}
	lines = append(lines, "", "---", fmt.Sprintf("*Generated by depmap v%s*", g.Version))

	return strings.Join(lines, "\n"), nil
}
