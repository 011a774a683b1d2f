// # cmd/depmap/cmd/watch.go
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"depmap/internal/config"
	"depmap/internal/graph"
	"depmap/internal/observability"
	"depmap/internal/scanner"
	"depmap/internal/watcher"
)

var (
	watchUI     bool
	watchListen string
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-scan on file changes and report cycles live",
	Long: `Watch keeps the dependency graph current: file changes trigger a
debounced re-scan and a delta summary. With --ui a terminal dashboard
lists cycles and orphans live; --listen serves Prometheus /metrics and
/health while watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchUI, "ui", false, "Run the terminal dashboard")
	watchCmd.Flags().StringVar(&watchListen, "listen", "", "Serve /metrics and /health on this address")
	rootCmd.AddCommand(watchCmd)
}

// watchSession owns the scan loop shared by plain and TUI watch modes.
type watchSession struct {
	root    string
	cfg     *config.Config
	exclude []string
	scanner *scanner.Scanner
	program *tea.Program

	mu         sync.Mutex
	lastScan   time.Time
	scanCount  int
	lastCycles int
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	exclude := cfg.Exclude.Patterns
	if excludeSpec != "" {
		exclude = strings.Split(excludeSpec, ",")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchUI {
		divertLogs()
	}

	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "depmap",
		ServiceVersion: Version,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		SampleRate:     cfg.Observability.SampleRate,
	})
	if err != nil {
		return err
	}
	defer tp.Shutdown(context.Background())

	ws := &watchSession{
		root:    args[0],
		cfg:     cfg,
		exclude: exclude,
		scanner: scanner.New(),
	}

	listen := watchListen
	if listen == "" {
		listen = cfg.Observability.Listen
	}
	if listen != "" {
		srv := observability.NewServer(listen, ws.health)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Stop(context.Background())
	}

	// Initial scan before watching so the first delta has a baseline.
	res, cycles, orphans, err := ws.rescan(ctx)
	if err != nil {
		return err
	}
	if !watchUI {
		cmd.Println(formatScanSummary(res))
		cmd.Println(ws.formatDelta(res, cycles, nil))
	}

	// The watcher callback reads ws.program, so the program must exist
	// before the first filesystem event can fire.
	var p *tea.Program
	if watchUI {
		p = tea.NewProgram(initialModel(), tea.WithAltScreen())
		ws.program = p
	}

	w, err := watcher.NewWatcher(cfg.Watch.Debounce, exclude, func(paths []string) {
		ws.handleChanges(ctx, paths)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch([]string{args[0]}); err != nil {
		return err
	}

	if !watchUI {
		<-ctx.Done()
		return nil
	}

	go p.Send(updateMsg{
		cycles:      cycles,
		orphans:     orphans,
		moduleCount: res.Stats.Modules,
		fileCount:   res.Stats.FilesScanned,
	})
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err = p.Run()
	return err
}

func (ws *watchSession) rescan(ctx context.Context) (*scanResult, [][]string, []graph.Orphan, error) {
	snap, stats, err := ws.scanner.Scan(ctx, ws.root, scanner.Options{
		Exclude: ws.exclude,
		Workers: ws.cfg.Limits.Workers,
		Stdlib:  ws.cfg.StdlibTable(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	res := &scanResult{Root: ws.root, Snapshot: snap, Stats: stats, Cfg: ws.cfg}
	cycles := graph.FindCycles(snap, ws.cfg.Limits.MaxCycleLength)
	orphans := graph.Orphans(snap)
	observability.CyclesFound.Set(float64(len(cycles)))

	ws.mu.Lock()
	ws.lastScan = time.Now()
	ws.scanCount++
	ws.mu.Unlock()

	if ws.cfg.History.Enabled && ws.cfg.History.Path != "" {
		recordScan(res)
	}
	return res, cycles, orphans, nil
}

func (ws *watchSession) handleChanges(ctx context.Context, paths []string) {
	slog.Debug("files changed", "count", len(paths))

	res, cycles, orphans, err := ws.rescan(ctx)
	if err != nil {
		slog.Error("rescan failed", "error", err)
		return
	}

	if ws.program != nil {
		ws.program.Send(updateMsg{
			cycles:      cycles,
			orphans:     orphans,
			moduleCount: res.Stats.Modules,
			fileCount:   res.Stats.FilesScanned,
		})
		return
	}

	fmt.Println(ws.formatDelta(res, cycles, paths))
}

// formatDelta renders the per-rescan status line, coloring the cycle count
// and showing the change against the previous scan.
func (ws *watchSession) formatDelta(res *scanResult, cycles [][]string, changed []string) string {
	ws.mu.Lock()
	prev := ws.lastCycles
	ws.lastCycles = len(cycles)
	ws.mu.Unlock()

	stamp := statusStyle.Render(time.Now().Format("15:04:05"))
	var b strings.Builder
	if len(changed) > 0 {
		fmt.Fprintf(&b, "%s rescan (%d changed): %d modules | %d deps | %.3fs\n",
			stamp, len(changed), res.Stats.Modules, res.Stats.Edges,
			res.Stats.Elapsed.Seconds())
	} else {
		fmt.Fprintf(&b, "%s watching %s\n", stamp, res.Root)
	}

	if len(cycles) == 0 {
		b.WriteString("  " + successStyle.Render("[OK] no circular imports"))
	} else {
		delta := ""
		if diff := len(cycles) - prev; diff != 0 && len(changed) > 0 {
			delta = fmt.Sprintf(" (%+d)", diff)
		}
		b.WriteString("  " + cycleStyle.Render(
			fmt.Sprintf("[!] %d circular import chain(s)%s", len(cycles), delta)))
		for _, c := range cycles {
			b.WriteString("\n      " + graph.CycleChain(c))
		}
	}
	return b.String()
}

func (ws *watchSession) health() observability.HealthStatus {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	status := "up"
	if ws.scanCount == 0 {
		status = "starting"
	}
	return observability.HealthStatus{
		Status:    status,
		LastScan:  ws.lastScan,
		ScanCount: ws.scanCount,
	}
}

// divertLogs sends slog output to a state-dir file so it does not corrupt
// the TUI.
func divertLogs() {
	logPath := resolveLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "depmap", "depmap.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "depmap", "depmap.log")
	}

	return "depmap.log"
}
