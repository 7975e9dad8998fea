// Package config describes the vector system platform and builds the unit
// pool and the shared store from that description.
package config

import (
	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/program"
	"github.com/Bogdan-Zinovij/pzks/store"
)

// PoolBuilder can build the store and the unit pool of a platform.
type PoolBuilder struct {
	platform  *Platform
	constants []program.Constant
}

// WithPlatform sets the platform to build.
func (b PoolBuilder) WithPlatform(platform *Platform) PoolBuilder {
	b.platform = platform
	return b
}

// WithConstants sets the constants pre-loaded into the store.
func (b PoolBuilder) WithConstants(constants []program.Constant) PoolBuilder {
	b.constants = constants
	return b
}

// BuildStore creates the shared store.
func (b PoolBuilder) BuildStore() *store.Store {
	entries := make([]store.Entry, 0, len(b.constants))
	for _, c := range b.constants {
		entries = append(entries, store.Entry{TaskID: c.ID, Value: c.Value})
	}

	return store.MakeBuilder().
		WithConstants(entries).
		WithThrottledReadConsumesPort(b.platform.Store.ThrottledReadConsumesPort).
		Build()
}

// BuildUnits creates the units in declaration order, all connected to port.
func (b PoolBuilder) BuildUnits(port core.DataPort) []*core.Unit {
	units := make([]*core.Unit, 0, len(b.platform.Units))

	for _, us := range b.platform.Units {
		u := core.NewBuilder().
			WithPort(port).
			WithMode(b.platform.Mode).
			WithOperator(us.Operator).
			WithLatency(b.platform.Latency).
			Build(us.Name)
		units = append(units, u)
	}

	return units
}
