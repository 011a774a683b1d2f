package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "depmap_scan_seconds",
		Help:    "Time spent on a full dependency scan.",
		Buckets: prometheus.DefBuckets,
	})

	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depmap_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depmap_files_scanned_total",
		Help: "Total number of source files scanned.",
	})

	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depmap_parse_failures_total",
		Help: "Total number of files registered with a parse error.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depmap_graph_nodes_total",
		Help: "Number of modules in the latest dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depmap_graph_edges_total",
		Help: "Number of edges in the latest dependency graph.",
	})

	CyclesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depmap_cycles_found",
		Help: "Number of circular import chains in the latest scan.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depmap_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
