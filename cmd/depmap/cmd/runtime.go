// # cmd/depmap/cmd/runtime.go
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"depmap/internal/config"
	"depmap/internal/graph"
	"depmap/internal/history"
	"depmap/internal/scanner"
)

// scanResult bundles everything a subcommand needs after one scan.
type scanResult struct {
	Root     string
	Snapshot *graph.Snapshot
	Stats    scanner.Stats
	Cfg      *config.Config
}

// scanProject loads the config, applies flag overrides and runs a single
// scan. When history recording is enabled the snapshot counters are saved;
// a failed save is logged, never fatal.
func scanProject(ctx context.Context, path string) (*scanResult, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	exclude := cfg.Exclude.Patterns
	if excludeSpec != "" {
		exclude = strings.Split(excludeSpec, ",")
	}

	snap, stats, err := scanner.New().Scan(ctx, path, scanner.Options{
		Exclude: exclude,
		Workers: cfg.Limits.Workers,
		Stdlib:  cfg.StdlibTable(),
	})
	if err != nil {
		return nil, err
	}

	res := &scanResult{Root: path, Snapshot: snap, Stats: stats, Cfg: cfg}
	if cfg.History.Enabled && cfg.History.Path != "" {
		recordScan(res)
	}
	return res, nil
}

func recordScan(res *scanResult) {
	store, err := history.Open(res.Cfg.History.Path)
	if err != nil {
		slog.Warn("history store unavailable", "path", res.Cfg.History.Path, "error", err)
		return
	}
	defer store.Close()

	cycles := graph.FindCycles(res.Snapshot, res.Cfg.Limits.MaxCycleLength)
	orphans := graph.Orphans(res.Snapshot)
	metrics, _ := graph.ComputeMetrics(res.Snapshot, graph.SortByName)
	var mean float64
	if len(metrics) > 0 {
		for _, m := range metrics {
			mean += m.Instability
		}
		mean /= float64(len(metrics))
	}

	_, err = store.Save(history.Record{
		Root:            res.Root,
		FileCount:       res.Stats.FilesScanned,
		ModuleCount:     res.Stats.Modules,
		EdgeCount:       res.Stats.Edges,
		CycleCount:      len(cycles),
		OrphanCount:     len(orphans),
		ParseErrors:     res.Stats.ParseErrors,
		MeanInstability: mean,
		Elapsed:         res.Stats.Elapsed,
	})
	if err != nil {
		slog.Warn("failed to record scan", "error", err)
	}
}

// formatScanSummary mirrors the summary block printed before most command
// output.
func formatScanSummary(res *scanResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[OK] Scan complete: %s\n", res.Root)
	fmt.Fprintf(&b, "     Files: %d | Modules: %d | Dependencies: %d | Time: %.3fs",
		res.Stats.FilesScanned, res.Stats.Modules, res.Stats.Edges,
		res.Stats.Elapsed.Seconds())
	if res.Stats.ParseErrors > 0 {
		fmt.Fprintf(&b, "\n     [!] %d file(s) had parse errors", res.Stats.ParseErrors)
	}
	return b.String()
}
