// Package main provides the command line entry point of the expression tree
// simulator. It runs an expression on the parallel pool and on the
// sequential baseline, prints the comparison and exports the trace.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/Bogdan-Zinovij/pzks/api"
	"github.com/Bogdan-Zinovij/pzks/config"
	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/program"
	"github.com/Bogdan-Zinovij/pzks/report"
	"github.com/Bogdan-Zinovij/pzks/util"
	"github.com/Bogdan-Zinovij/pzks/verify"
)

var (
	treePath   = flag.String("tree", "", "Read the expression tree from a JSON file")
	configPath = flag.String("config", "", "Path to platform configuration YAML file")
	outPath    = flag.String("out", "data.json", "Path of the exported trace")
	serveAddr  = flag.String("serve", "", "Serve the trace over HTTP on this address")
	useMonitor = flag.Bool("monitor", false, "Start the akita monitoring web UI")
	doVerify   = flag.Bool("verify", false, "Check the trace and print a verification report")
	dump       = flag.Bool("dump", false, "Dump the compiled task list")
	verbose    = flag.Bool("v", false, "Trace-level logging")
)

func main() {
	flag.Parse()
	setupLogging()

	expression, tree := loadTree()

	platform := loadPlatform()

	prog, err := program.Compile(tree)
	if err != nil {
		fail("Error compiling tree: %v", err)
	}

	if *dump {
		tree.Print(os.Stdout)
		pp.Println(prog.Tasks)
	}

	par, seq := simulate(prog, platform)

	trace := report.BuildTrace(par, seq, expression, tree)

	fmt.Println(report.RenderTimeline(trace))
	fmt.Println(report.RenderStats(trace.Stats))

	if *outPath != "" {
		if err := trace.SaveToFile(*outPath); err != nil {
			fail("Error saving trace: %v", err)
		}

		slog.Info("Trace saved", "Path", *outPath, "RunID", trace.RunID)
	}

	exitCode := 0
	if *doVerify {
		r := verify.GenerateReport(trace, prog)
		r.WriteReport(os.Stdout)

		if !r.OK() {
			exitCode = 2
		}
	}

	if *serveAddr != "" {
		slog.Info("Serving trace", "Addr", *serveAddr)

		if err := http.ListenAndServe(*serveAddr, report.NewServer(trace)); err != nil {
			fail("Error serving trace: %v", err)
		}
	}

	atexit.Exit(exitCode)
}

func setupLogging() {
	level := slog.LevelWarn
	if *verbose {
		level = util.LevelTrace
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func loadTree() (string, *expr.Node) {
	if *treePath != "" {
		tree, err := expr.LoadTree(*treePath)
		if err != nil {
			fail("Error loading tree: %v", err)
		}

		return tree.String(), tree
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: exprsim [options] <expression>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	expression := flag.Arg(0)

	tree, err := expr.Parse(expression)
	if err != nil {
		fail("Error parsing expression: %v", err)
	}

	return expression, tree
}

func loadPlatform() *config.Platform {
	platform := config.DefaultParallelPlatform()

	if *configPath != "" {
		var err error

		platform, err = config.LoadConfig(*configPath)
		if err != nil {
			fail("Error loading platform config: %v", err)
		}
	}

	platform.ApplyEnv()

	return platform
}

func simulate(prog *program.Program, platform *config.Platform) (par, seq api.Driver) {
	engine := sim.NewSerialEngine()

	var monitor *monitoring.Monitor
	if *useMonitor {
		monitor = monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
	}

	par, err := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithPlatform(platform).
		WithProgram(prog).
		Build("ParallelDriver")
	if err != nil {
		fail("Error building parallel driver: %v", err)
	}

	seq, err = api.DriverBuilder{}.
		WithFreq(1 * sim.GHz).
		WithPlatform(platform.Sequential()).
		WithProgram(prog).
		Build("SequentialDriver")
	if err != nil {
		fail("Error building sequential driver: %v", err)
	}

	if monitor != nil {
		monitor.RegisterComponent(par)
		monitor.StartServer()
	}

	for _, d := range []api.Driver{par, seq} {
		if err := d.Run(); err != nil {
			fail("Error running %s: %v", d.Name(), err)
		}
	}

	return par, seq
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	atexit.Exit(1)
}
