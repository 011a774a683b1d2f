// # internal/graph/metrics.go
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Metric is the coupling measurement for one module. Instability is
// fan_out / (fan_in + fan_out): 0 means maximally stable (only depended
// on), 1 means maximally unstable (only depending).
type Metric struct {
	Module      string  `json:"module"`
	FanIn       int     `json:"fan_in"`
	FanOut      int     `json:"fan_out"`
	Instability float64 `json:"instability"`
}

const (
	SortByName        = "name"
	SortByFanIn       = "fan_in"
	SortByFanOut      = "fan_out"
	SortByInstability = "instability"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

// ComputeMetrics derives coupling metrics for every module in the
// snapshot, ordered by the requested key. Isolated modules have
// instability 0.
func ComputeMetrics(s *Snapshot, sortBy string) ([]Metric, error) {
	switch sortBy {
	case SortByName, SortByFanIn, SortByFanOut, SortByInstability:
	case "":
		sortBy = SortByInstability
	default:
		return nil, fmt.Errorf("%w: %q (valid: fan_in, fan_out, instability, name)", ErrUnknownSortKey, sortBy)
	}

	metrics := make([]Metric, 0, s.Len())
	for _, id := range s.nodes {
		fanOut := len(s.succ[id])
		fanIn := len(s.pred[id])

		instability := 0.0
		if total := fanIn + fanOut; total > 0 {
			instability = math.Round(float64(fanOut)/float64(total)*1000) / 1000
		}

		metrics = append(metrics, Metric{
			Module:      id,
			FanIn:       fanIn,
			FanOut:      fanOut,
			Instability: instability,
		})
	}

	switch sortBy {
	case SortByName:
		// Already in id order.
	case SortByFanIn:
		sort.SliceStable(metrics, func(i, j int) bool {
			return metrics[i].FanIn > metrics[j].FanIn
		})
	case SortByFanOut:
		sort.SliceStable(metrics, func(i, j int) bool {
			return metrics[i].FanOut > metrics[j].FanOut
		})
	case SortByInstability:
		sort.SliceStable(metrics, func(i, j int) bool {
			return metrics[i].Instability > metrics[j].Instability
		})
	}

	return metrics, nil
}
