package core

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// StateTable renders the log of a unit as a table, one row per clock.
func StateTable(u *Unit) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%s, %s)", u.name, u.mode, u.operator))
	t.AppendHeader(table.Row{"Clock", "Task", "Phase", "Read"})

	for _, e := range u.logs {
		t.AppendRow(table.Row{e.Clock, idOrDash(e.TaskID), e.Phase, idOrDash(e.ReadTask)})
	}

	t.AppendFooter(table.Row{"", "", "Cached", len(u.cache)})

	return t.Render()
}

func idOrDash(id int) string {
	if id == 0 {
		return "-"
	}

	return strconv.Itoa(id)
}

// LogState dumps the working state of a unit at debug level.
func LogState(u *Unit) {
	taskID := 0
	if u.task != nil {
		taskID = u.task.ID
	}

	slog.Debug("UnitState",
		"Unit", u.name,
		"Clock", u.clock,
		"Phase", u.phase.String(),
		"Task", taskID,
		"Operands", u.operands,
		"Remaining", u.remaining,
		"Cached", len(u.cache),
	)
}
