package api

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/Bogdan-Zinovij/pzks/config"
	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/program"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine   sim.Engine
	freq     sim.Freq
	platform *config.Platform
	prog     *program.Program
	tree     *expr.Node
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithPlatform sets the unit pool and latencies.
func (b DriverBuilder) WithPlatform(platform *config.Platform) DriverBuilder {
	b.platform = platform
	return b
}

// WithProgram sets an already compiled program.
func (b DriverBuilder) WithProgram(prog *program.Program) DriverBuilder {
	b.prog = prog
	return b
}

// WithTree sets the expression tree to compile. It is ignored when a program
// is given.
func (b DriverBuilder) WithTree(tree *expr.Node) DriverBuilder {
	b.tree = tree
	return b
}

// Build creates a driver. A nil engine gets a new serial engine, a zero
// frequency 1 GHz and a nil platform the default parallel pool.
func (b DriverBuilder) Build(name string) (Driver, error) {
	prog, err := b.program()
	if err != nil {
		return nil, err
	}

	platform := b.platform
	if platform == nil {
		platform = config.DefaultParallelPlatform()
	}

	if err := platform.Validate(); err != nil {
		return nil, fmt.Errorf("invalid platform: %w", err)
	}

	for _, op := range prog.Operators() {
		if !platform.Supports(op) {
			return nil, fmt.Errorf("no unit can run operator %s", op)
		}
	}

	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	freq := b.freq
	if freq == 0 {
		freq = 1 * sim.GHz
	}

	pool := config.PoolBuilder{}.
		WithPlatform(platform).
		WithConstants(prog.Constants)
	s := pool.BuildStore()

	d := &driverImpl{
		engine:  engine,
		mode:    platform.Mode,
		prog:    prog,
		store:   s,
		units:   pool.BuildUnits(s),
		pending: append([]program.Task(nil), prog.Tasks...),
	}

	d.TickingComponent = sim.NewTickingComponent(name, engine, freq, d)

	return d, nil
}

func (b DriverBuilder) program() (*program.Program, error) {
	if b.prog != nil {
		if err := b.prog.Validate(); err != nil {
			return nil, fmt.Errorf("invalid program: %w", err)
		}

		return b.prog, nil
	}

	if b.tree == nil {
		return nil, fmt.Errorf("driver has neither a program nor a tree")
	}

	prog, err := program.Compile(b.tree)
	if err != nil {
		return nil, fmt.Errorf("cannot compile tree: %w", err)
	}

	return prog, nil
}
