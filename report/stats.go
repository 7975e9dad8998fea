// Package report turns finished simulations into statistics, the JSON trace
// consumed by the Gantt viewer, console tables and an HTTP view.
package report

import (
	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/util"
)

// Stats compares a parallel run with its sequential baseline.
type Stats struct {
	ParallelTime   int     `json:"parallelTime"`
	SequentialTime int     `json:"sequentialTime"`
	Acceleration   float64 `json:"acceleration"`
	Effectiveness  float64 `json:"effectiveness"`
}

// Utilization returns the share of unit clocks that were not idle, rounded
// to two decimals. An empty run has utilization 0.
func Utilization(units []*core.Unit, elapsed int) float64 {
	total := elapsed * len(units)
	if total == 0 {
		return 0
	}

	idle := 0
	for _, u := range units {
		for _, e := range u.Logs() {
			if e.Clock <= elapsed && e.Phase == core.Idle {
				idle++
			}
		}
	}

	return util.Round2(float64(total-idle) / float64(total))
}

// Speedup returns sequential/parallel rounded to two decimals. Two empty runs
// have speedup 1. A zero parallel time with work in the baseline gives 0.
func Speedup(sequential, parallel int) float64 {
	if parallel == 0 {
		if sequential == 0 {
			return 1
		}

		return 0
	}

	return util.Round2(float64(sequential) / float64(parallel))
}

// ComputeStats collects the statistics of a pair of runs.
func ComputeStats(parallel, sequential Run) Stats {
	return Stats{
		ParallelTime:   parallel.ElapsedCycles(),
		SequentialTime: sequential.ElapsedCycles(),
		Acceleration:   Speedup(sequential.ElapsedCycles(), parallel.ElapsedCycles()),
		Effectiveness:  Utilization(parallel.Units(), parallel.ElapsedCycles()),
	}
}

// Run is a finished simulation.
type Run interface {
	ElapsedCycles() int
	Units() []*core.Unit
}
