package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"

	"github.com/Bogdan-Zinovij/pzks/api"
	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/report"
)

var expressions = []string{
	"a+b",
	"(a+b)+(c-d)",
	"((a+b)+(c-d))+((e*f)+(g/h))",
	"((a+b)+(c+d))+(e+b)",
	"a*b*c*d*e*b",
	"((a/b)+(c-d))+(a+b)*(c+d)-(a+b)",
	"a+b-c*d/c/d",
}

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))

	t := table.NewWriter()
	t.SetTitle("Speedup of the parallel pool")
	t.AppendHeader(table.Row{"Expression", "Parallel", "Sequential", "Acceleration", "Effectiveness"})

	for _, e := range expressions {
		tree, err := expr.Parse(e)
		if err != nil {
			panic(err)
		}

		par, seq, err := api.Compare(tree, nil, nil)
		if err != nil {
			panic(err)
		}

		s := report.ComputeStats(par, seq)
		t.AppendRow(table.Row{e, s.ParallelTime, s.SequentialTime, s.Acceleration, s.Effectiveness})
	}

	fmt.Println(t.Render())

	atexit.Exit(0)
}
