package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderStats renders the statistics as a table.
func RenderStats(s Stats) string {
	t := table.NewWriter()
	t.SetTitle("Statistics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Parallel time", s.ParallelTime})
	t.AppendRow(table.Row{"Sequential time", s.SequentialTime})
	t.AppendRow(table.Row{"Acceleration", s.Acceleration})
	t.AppendRow(table.Row{"Effectiveness", s.Effectiveness})

	return t.Render()
}

// RenderTimeline renders the trace as a Gantt-like table with one row per
// clock and one column per unit.
func RenderTimeline(tr *Trace) string {
	t := table.NewWriter()
	t.SetTitle(tr.Expression)

	header := table.Row{"Clock"}
	for _, u := range tr.Timeline {
		header = append(header, u.Name)
	}
	t.AppendHeader(header)

	for clock := 1; clock <= tr.MaxTime; clock++ {
		row := table.Row{clock}
		for _, u := range tr.Timeline {
			row = append(row, cell(u, clock))
		}
		t.AppendRow(row)
	}

	return t.Render()
}

func cell(u UnitTimeline, clock int) string {
	for _, e := range u.Tasks {
		if e.Clock != clock {
			continue
		}

		if e.TaskID == nil {
			return ""
		}

		s := fmt.Sprintf("%s #%d", e.Status, *e.TaskID)
		if e.ReadTask != nil {
			s += fmt.Sprintf(" <%d", *e.ReadTask)
		}

		return s
	}

	return ""
}
