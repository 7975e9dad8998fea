// Package verify checks exported traces for violations of the execution
// model.
//
// A trace is checked without re-running the simulation, so traces loaded
// from disk can be audited as well. Four kinds of checks are run:
//
//   - PORT: the store serves at most one transaction per clock.
//   - ASSIGN: a task runs on exactly one unit, in one contiguous stretch.
//   - TIMELINE: every unit logs each clock from 1 to maxTime exactly once.
//   - DEPENDENCY: a task starts only after its computed operands were
//     written, and every task is written exactly once. This needs the
//     compiled program.
//
// # Usage Example
//
//	trace, _ := report.LoadTrace("data.json")
//	issues := verify.RunChecks(trace, prog)
//	for _, issue := range issues {
//	    log.Printf("[%s] %s t=%d task=%d: %s",
//	        issue.Type, issue.Unit, issue.Clock, issue.TaskID, issue.Message)
//	}
package verify

import (
	"fmt"
	"sort"

	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/program"
	"github.com/Bogdan-Zinovij/pzks/report"
	"github.com/Bogdan-Zinovij/pzks/store"
)

// IssueType categorizes issues
type IssueType string

const (
	IssuePort       IssueType = "PORT"       // Two store transactions in one clock
	IssueAssign     IssueType = "ASSIGN"     // Task split across units or clocks
	IssueTimeline   IssueType = "TIMELINE"   // Missing, duplicate or unordered clocks
	IssueDependency IssueType = "DEPENDENCY" // Task started before its operands
)

// Issue represents a single violation
type Issue struct {
	Type    IssueType
	Unit    string // Unit name, empty if not applicable
	Clock   int    // Clock, 0 if not applicable
	TaskID  int    // Task, 0 if not applicable
	Message string
}

// RunChecks runs every check on the trace. The dependency check is skipped
// when prog is nil.
func RunChecks(t *report.Trace, prog *program.Program) []Issue {
	var issues []Issue

	issues = append(issues, CheckPort(t.Operations)...)
	issues = append(issues, CheckTimeline(t)...)
	issues = append(issues, CheckAssign(t)...)

	if prog != nil {
		issues = append(issues, CheckDependency(t, prog)...)
	}

	return issues
}

// CheckPort reports clocks with more than one store transaction.
func CheckPort(ops []store.Operation) []Issue {
	var issues []Issue

	byClock := make(map[int][]store.Operation)
	for _, op := range ops {
		byClock[op.Clock] = append(byClock[op.Clock], op)
	}

	for _, clock := range sortedKeys(byClock) {
		same := byClock[clock]
		if len(same) < 2 {
			continue
		}

		issues = append(issues, Issue{
			Type:    IssuePort,
			Clock:   clock,
			TaskID:  same[1].TaskID,
			Message: fmt.Sprintf("%d store transactions in one clock", len(same)),
		})
	}

	return issues
}

// CheckTimeline reports units whose log does not cover 1..maxTime exactly.
func CheckTimeline(t *report.Trace) []Issue {
	var issues []Issue

	for _, u := range t.Timeline {
		if len(u.Tasks) != t.MaxTime {
			issues = append(issues, Issue{
				Type: IssueTimeline,
				Unit: u.Name,
				Message: fmt.Sprintf("%d entries for %d clocks",
					len(u.Tasks), t.MaxTime),
			})
		}

		for i, e := range u.Tasks {
			if e.Clock != i+1 {
				issues = append(issues, Issue{
					Type:    IssueTimeline,
					Unit:    u.Name,
					Clock:   e.Clock,
					Message: fmt.Sprintf("entry %d has clock %d", i, e.Clock),
				})

				break
			}
		}

		for _, e := range u.Tasks {
			if _, err := core.ParsePhase(e.Status); err != nil {
				issues = append(issues, Issue{
					Type:    IssueTimeline,
					Unit:    u.Name,
					Clock:   e.Clock,
					Message: err.Error(),
				})
			}
		}
	}

	return issues
}

type stretch struct {
	unit  string
	first int
	last  int
}

// CheckAssign reports tasks that appear on more than one unit or in more
// than one stretch of clocks.
func CheckAssign(t *report.Trace) []Issue {
	var issues []Issue

	seen := make(map[int]stretch)

	for _, u := range t.Timeline {
		for _, e := range u.Tasks {
			if e.TaskID == nil {
				continue
			}

			id := *e.TaskID

			s, ok := seen[id]
			switch {
			case !ok:
				seen[id] = stretch{unit: u.Name, first: e.Clock, last: e.Clock}
			case s.unit != u.Name:
				issues = append(issues, Issue{
					Type:   IssueAssign,
					Unit:   u.Name,
					Clock:  e.Clock,
					TaskID: id,
					Message: fmt.Sprintf("task %d also assigned to %s",
						id, s.unit),
				})
				seen[id] = stretch{unit: u.Name, first: e.Clock, last: e.Clock}
			case e.Clock != s.last+1:
				issues = append(issues, Issue{
					Type:   IssueAssign,
					Unit:   u.Name,
					Clock:  e.Clock,
					TaskID: id,
					Message: fmt.Sprintf("task %d resumed after clock %d",
						id, s.last),
				})
				s.last = e.Clock
				seen[id] = s
			default:
				s.last = e.Clock
				seen[id] = s
			}
		}
	}

	return issues
}

// CheckDependency reports tasks that started before their computed operands
// were written, and tasks that were not written exactly once.
func CheckDependency(t *report.Trace, prog *program.Program) []Issue {
	var issues []Issue

	written := make(map[int]int)
	writes := make(map[int]int)
	for _, op := range t.Operations {
		if op.Kind != store.Write {
			continue
		}

		writes[op.TaskID]++
		if _, ok := written[op.TaskID]; !ok {
			written[op.TaskID] = op.Clock
		}
	}

	started := firstActiveClock(t)

	constants := make(map[int]bool)
	for _, c := range prog.Constants {
		constants[c.ID] = true
	}

	for _, task := range prog.Tasks {
		if writes[task.ID] != 1 {
			issues = append(issues, Issue{
				Type:    IssueDependency,
				TaskID:  task.ID,
				Message: fmt.Sprintf("task written %d times", writes[task.ID]),
			})
		}

		start, ok := started[task.ID]
		if !ok {
			continue
		}

		for _, id := range task.Operands() {
			if constants[id] {
				continue
			}

			clock, ok := written[id]
			if !ok || start <= clock {
				issues = append(issues, Issue{
					Type:   IssueDependency,
					Clock:  start,
					TaskID: task.ID,
					Message: fmt.Sprintf("task started before operand %d was written",
						id),
				})
			}
		}
	}

	return issues
}

func firstActiveClock(t *report.Trace) map[int]int {
	started := make(map[int]int)

	for _, u := range t.Timeline {
		for _, e := range u.Tasks {
			if e.TaskID == nil || e.Status == core.Idle.String() {
				continue
			}

			if c, ok := started[*e.TaskID]; !ok || e.Clock < c {
				started[*e.TaskID] = e.Clock
			}
		}
	}

	return started
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}
