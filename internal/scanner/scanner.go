// # internal/scanner/scanner.go
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"depmap/internal/graph"
	"depmap/internal/observability"
	"depmap/internal/parser"
	"depmap/internal/resolver"
)

// ErrPathNotFound is the only fatal scan error; everything else is
// absorbed into Stats.
var ErrPathNotFound = errors.New("path not found")

// DefaultExcludes skips the usual build, VCS and environment noise.
var DefaultExcludes = []string{
	"__pycache__", ".git", ".venv", "venv", "env", "node_modules",
	".tox", ".eggs", "build", "dist", ".pytest_cache", ".mypy_cache",
}

type Options struct {
	// Exclude patterns match directory and file base names; empty uses
	// DefaultExcludes. Patterns are gobwas globs.
	Exclude []string
	// Languages restricts scanning; empty means every registered
	// language.
	Languages []string
	// Workers bounds parallel extraction; <=0 uses GOMAXPROCS via the
	// runtime default of one worker per file batch.
	Workers int
	// Stdlib overrides the embedded standard library tables.
	Stdlib *resolver.Table
}

type Stats struct {
	FilesScanned int           `json:"files_scanned"`
	ParseErrors  int           `json:"parse_errors"`
	Modules      int           `json:"modules"`
	Edges        int           `json:"edges"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Scanner discovers source files under a root, extracts their imports and
// assembles a dependency graph snapshot.
type Scanner struct {
	parser *parser.Parser
}

func New() *Scanner {
	p := parser.NewParser(parser.NewGrammarLoader())
	p.RegisterExtractor("python", &parser.PythonExtractor{})
	p.RegisterExtractor("go", &parser.GoExtractor{})
	return &Scanner{parser: p}
}

// Scan walks root (a directory or single source file), parses every
// matching file and builds an immutable graph snapshot. File-level parse
// failures are recovered: the module is registered with zero imports and
// counted in Stats.ParseErrors.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (*graph.Snapshot, Stats, error) {
	start := time.Now()
	ctx, span := observability.StartScanSpan(ctx, root)
	defer span.End()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, Stats{}, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrPathNotFound, root)
		observability.RecordError(span, err)
		return nil, Stats{}, err
	}

	namingRoot := absRoot
	var paths []string
	if info.IsDir() {
		paths, err = s.collectFiles(absRoot, opts)
		if err != nil {
			observability.RecordError(span, err)
			return nil, Stats{}, err
		}
	} else {
		if !parser.SupportedFile(absRoot) || !languageWanted(parser.DetectLanguage(absRoot), opts.Languages) {
			return nil, Stats{}, fmt.Errorf("%w: %s is not a supported source file", ErrPathNotFound, root)
		}
		namingRoot = filepath.Dir(absRoot)
		paths = []string{absRoot}
	}

	files, err := s.parseAll(ctx, paths, opts.Workers)
	if err != nil {
		observability.RecordError(span, err)
		return nil, Stats{}, err
	}

	snapshot, stats, err := s.assemble(files, namingRoot, opts)
	if err != nil {
		observability.RecordError(span, err)
		return nil, Stats{}, err
	}
	stats.Elapsed = time.Since(start)

	observability.ScanDuration.Observe(stats.Elapsed.Seconds())
	observability.FilesScanned.Add(float64(stats.FilesScanned))
	observability.ParseFailures.Add(float64(stats.ParseErrors))
	observability.GraphNodes.Set(float64(stats.Modules))
	observability.GraphEdges.Set(float64(stats.Edges))
	observability.RecordScanResult(span, stats.FilesScanned, stats.ParseErrors, stats.Modules, stats.Edges)

	slog.Debug("scan complete",
		"root", root,
		"files", stats.FilesScanned,
		"modules", stats.Modules,
		"edges", stats.Edges,
		"parse_errors", stats.ParseErrors,
		"elapsed", stats.Elapsed,
	)
	return snapshot, stats, nil
}

func (s *Scanner) collectFiles(root string, opts Options) ([]string, error) {
	patterns := opts.Exclude
	if len(patterns) == 0 {
		patterns = DefaultExcludes
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != root {
				for _, g := range globs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		if !parser.SupportedFile(path) || !languageWanted(parser.DetectLanguage(path), opts.Languages) {
			return nil
		}
		for _, g := range globs {
			if g.Match(base) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// parseAll extracts imports across a bounded worker pool. Results keep the
// input ordering so downstream assembly is deterministic.
func (s *Scanner) parseAll(ctx context.Context, paths []string, workers int) ([]*parser.File, error) {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	files := make([]*parser.File, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				file := s.parseOne(paths[i])
				mu.Lock()
				files[i] = file
				mu.Unlock()
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case <-ctx.Done():
			mu.Lock()
			firstErr = ctx.Err()
			mu.Unlock()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return files, nil
}

// parseOne never fails: unreadable or unparseable files come back as a
// File carrying a ParseError with zero imports.
func (s *Scanner) parseOne(path string) *parser.File {
	lang := parser.DetectLanguage(path)
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read file", "path", path, "error", err)
		return &parser.File{
			Path:       path,
			Language:   lang,
			ParseError: fmt.Sprintf("read error: %v", err),
			ParsedAt:   time.Now(),
		}
	}

	parseStart := time.Now()
	file, err := s.parser.ParseFile(path, content)
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(parseStart).Seconds())
	if err != nil {
		slog.Warn("failed to parse file", "path", path, "error", err)
		return &parser.File{
			Path:       path,
			Language:   lang,
			ParseError: err.Error(),
			ParsedAt:   time.Now(),
		}
	}
	return file
}

// assemble names every file, registers modules, resolves imports and
// builds the snapshot. Files are processed in module-id order so the
// result is independent of extraction scheduling.
func (s *Scanner) assemble(files []*parser.File, namingRoot string, opts Options) (*graph.Snapshot, Stats, error) {
	goNamer := resolver.NewGoNamer()
	pyNamer := resolver.PythonNamer{}

	for _, f := range files {
		var err error
		switch f.Language {
		case "go":
			f.Module, err = goNamer.ModuleID(f.Path, namingRoot)
		default:
			f.Module, err = pyNamer.ModuleID(f.Path, namingRoot)
		}
		if err != nil {
			return nil, Stats{}, fmt.Errorf("derive module id for %s: %w", f.Path, err)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Module != files[j].Module {
			return files[i].Module < files[j].Module
		}
		return files[i].Path < files[j].Path
	})

	registry := resolver.NewRegistry()
	for _, f := range files {
		registry.Add(f.Module)
	}
	res := resolver.New(registry, opts.Stdlib)

	builder := graph.NewBuilder()
	stats := Stats{FilesScanned: len(files)}

	for _, f := range files {
		info := graph.ModuleInfo{
			ID:         f.Module,
			Path:       f.Path,
			Language:   f.Language,
			IsPackage:  f.IsPackage,
			Lines:      f.Lines,
			ParseError: f.ParseError,
		}
		if f.ParseError != "" {
			stats.ParseErrors++
			builder.AddModule(info)
			continue
		}
		for _, imp := range f.Imports {
			switch r := res.Resolve(imp, f.Module, f.Language); r.Class {
			case resolver.Local:
				builder.AddEdge(f.Module, r.Module)
				info.Imports.Local = append(info.Imports.Local, r.Module)
			case resolver.StandardLibrary:
				info.Imports.Stdlib = append(info.Imports.Stdlib, displayRef(imp))
			case resolver.ThirdParty:
				info.Imports.ThirdParty = append(info.Imports.ThirdParty, displayRef(imp))
			default:
				info.Imports.Unresolvable = append(info.Imports.Unresolvable, displayRef(imp))
			}
		}
		info.Imports.Local = sortedSet(info.Imports.Local)
		info.Imports.Stdlib = sortedSet(info.Imports.Stdlib)
		info.Imports.ThirdParty = sortedSet(info.Imports.ThirdParty)
		info.Imports.Unresolvable = sortedSet(info.Imports.Unresolvable)
		builder.AddModule(info)
	}

	snapshot := builder.Build()
	stats.Modules = snapshot.Len()
	stats.Edges = snapshot.EdgeCount()
	return snapshot, stats, nil
}

// displayRef names an import target for classification output. Relative
// refs keep their leading dots so `from .. import x` stays readable.
func displayRef(imp parser.RawImport) string {
	if imp.Level > 0 {
		return strings.Repeat(".", imp.Level) + imp.Ref
	}
	return imp.Ref
}

func sortedSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	sort.Strings(values)
	out := values[:0]
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func languageWanted(lang string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if w == lang {
			return true
		}
	}
	return false
}
