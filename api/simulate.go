package api

import (
	"github.com/Bogdan-Zinovij/pzks/config"
	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/program"
)

// Simulate runs tree to completion on a fresh engine.
func Simulate(tree *expr.Node, platform *config.Platform) (Driver, error) {
	prog, err := program.Compile(tree)
	if err != nil {
		return nil, err
	}

	return run(prog, platform, "Driver")
}

// Compare runs tree on the parallel pool and on the sequential baseline. A
// nil sequential platform is derived from the parallel one.
func Compare(
	tree *expr.Node,
	parallel, sequential *config.Platform,
) (par, seq Driver, err error) {
	prog, err := program.Compile(tree)
	if err != nil {
		return nil, nil, err
	}

	if parallel == nil {
		parallel = config.DefaultParallelPlatform()
	}

	if sequential == nil {
		sequential = parallel.Sequential()
	}

	par, err = run(prog, parallel, "ParallelDriver")
	if err != nil {
		return nil, nil, err
	}

	seq, err = run(prog, sequential, "SequentialDriver")
	if err != nil {
		return nil, nil, err
	}

	return par, seq, nil
}

func run(prog *program.Program, platform *config.Platform, name string) (Driver, error) {
	d, err := DriverBuilder{}.
		WithPlatform(platform).
		WithProgram(prog).
		Build(name)
	if err != nil {
		return nil, err
	}

	if err := d.Run(); err != nil {
		return nil, err
	}

	return d, nil
}
