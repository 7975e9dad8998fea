package core

import (
	"github.com/Bogdan-Zinovij/pzks/program"
)

// Mode selects how a unit binds to operators.
type Mode string

const (
	// Parallel units are bound to a single operator.
	Parallel Mode = "parallel"

	// Sequential units take any operator and retarget on every task.
	Sequential Mode = "sequential"
)

// LatencyTable maps an operator to the number of processing cycles it takes.
type LatencyTable map[program.Operator]int

// DefaultLatencyTable returns the reference latencies.
func DefaultLatencyTable() LatencyTable {
	return LatencyTable{
		program.Add: 2,
		program.Sub: 3,
		program.Mul: 4,
		program.Div: 8,
	}
}

// Cycles returns the latency of op and whether it is known.
func (t LatencyTable) Cycles(op program.Operator) (int, bool) {
	c, ok := t[op]
	return c, ok && c > 0
}

// Clone returns a copy of the table.
func (t LatencyTable) Clone() LatencyTable {
	c := make(LatencyTable, len(t))
	for op, cycles := range t {
		c[op] = cycles
	}

	return c
}
