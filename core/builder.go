package core

import (
	"fmt"

	"github.com/Bogdan-Zinovij/pzks/program"
)

// Builder can create new calculation units.
type Builder struct {
	port     DataPort
	mode     Mode
	operator program.Operator
	latency  LatencyTable
}

// NewBuilder creates a builder for parallel units with the reference
// latencies.
func NewBuilder() Builder {
	return Builder{
		mode:    Parallel,
		latency: DefaultLatencyTable(),
	}
}

// WithPort sets the store port the unit reads from and writes to.
func (b Builder) WithPort(port DataPort) Builder {
	b.port = port
	return b
}

// WithMode sets whether the unit is bound to one operator.
func (b Builder) WithMode(mode Mode) Builder {
	b.mode = mode
	return b
}

// WithOperator sets the operator of a parallel unit. Sequential units use
// it only until their first assignment.
func (b Builder) WithOperator(op program.Operator) Builder {
	b.operator = op
	return b
}

// WithLatency sets the operator latency table.
func (b Builder) WithLatency(latency LatencyTable) Builder {
	b.latency = latency.Clone()
	return b
}

// Build creates a unit.
func (b Builder) Build(name string) *Unit {
	if b.port == nil {
		panic("unit " + name + " has no store port")
	}

	if b.mode == Parallel {
		if _, ok := b.latency.Cycles(b.operator); !ok {
			panic(fmt.Sprintf("unit %s: no latency for operator %q", name, b.operator))
		}
	}

	return &Unit{
		name:     name,
		mode:     b.mode,
		operator: b.operator,
		latency:  b.latency,
		port:     b.port,
		clock:    1,
		phase:    Idle,
	}
}
