// Package api defines the driver that executes a compiled expression tree on
// a pool of calculation units.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/program"
	"github.com/Bogdan-Zinovij/pzks/store"
	"github.com/Bogdan-Zinovij/pzks/util"
)

// Driver provides the interface to control a simulated vector system.
type Driver interface {
	sim.Component

	// Run ticks the system until every task has been written back.
	Run() error

	// Step runs one clock: assignment, then every unit in declaration
	// order, then the store clock.
	Step()

	// Finished reports whether the queue is empty and every unit is idle.
	Finished() bool

	// ElapsedCycles returns the number of clocks simulated so far.
	ElapsedCycles() int

	Units() []*core.Unit
	Store() *store.Store
	Program() *program.Program
	Mode() core.Mode

	// Pending returns the tasks not yet bound to a unit, in post-order.
	Pending() []program.Task
}

type driverImpl struct {
	*sim.TickingComponent

	engine sim.Engine
	mode   core.Mode
	prog   *program.Program
	store  *store.Store
	units  []*core.Unit

	pending []program.Task
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.Finished() {
		return false
	}

	d.Step()

	return true
}

func (d *driverImpl) Step() {
	d.assignTasks()

	dumpState := slog.Default().Enabled(context.Background(), slog.LevelDebug)

	for _, u := range d.units {
		u.Tick()

		if dumpState {
			core.LogState(u)
		}
	}

	d.store.Tick()
}

func (d *driverImpl) assignTasks() {
	remaining := d.pending[:0]

	for _, t := range d.pending {
		if !d.dependenciesReady(t) || !d.assignToUnit(t) {
			remaining = append(remaining, t)
		}
	}

	d.pending = remaining
}

// dependenciesReady checks the store only. Results held in a private unit
// cache are not visible to the scheduler until written.
func (d *driverImpl) dependenciesReady(t program.Task) bool {
	for _, id := range t.Operands() {
		if !d.store.Has(id) {
			return false
		}
	}

	return true
}

func (d *driverImpl) assignToUnit(t program.Task) bool {
	for _, u := range d.units {
		if !u.IsIdle() || !u.Accepts(t.Operator) {
			continue
		}

		if err := u.Assign(t); err != nil {
			panic(fmt.Sprintf("cannot assign task %d: %v", t.ID, err))
		}

		util.Trace("Driver",
			"Behavior", "Assign",
			"Clock", d.store.Clock(),
			"Task", t.ID,
			"Operator", string(t.Operator),
			"Unit", u.Name(),
		)

		return true
	}

	return false
}

func (d *driverImpl) Finished() bool {
	if len(d.pending) > 0 {
		return false
	}

	for _, u := range d.units {
		if !u.IsIdle() {
			return false
		}
	}

	return true
}

func (d *driverImpl) ElapsedCycles() int {
	return d.store.Clock() - 1
}

func (d *driverImpl) Units() []*core.Unit {
	return d.units
}

func (d *driverImpl) Store() *store.Store {
	return d.store
}

func (d *driverImpl) Program() *program.Program {
	return d.prog
}

func (d *driverImpl) Mode() core.Mode {
	return d.mode
}

func (d *driverImpl) Pending() []program.Task {
	return append([]program.Task(nil), d.pending...)
}

// Run will run all the tasks that have been added to the driver.
func (d *driverImpl) Run() error {
	d.TickNow()

	if err := d.engine.Run(); err != nil {
		return fmt.Errorf("simulation of %s failed: %w", d.Name(), err)
	}

	util.Trace("Driver",
		"Behavior", "Finished",
		"Driver", d.Name(),
		"Mode", string(d.mode),
		"Elapsed", d.ElapsedCycles(),
	)

	return nil
}
