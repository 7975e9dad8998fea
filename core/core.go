package core

import (
	"fmt"
	"slices"

	"github.com/Bogdan-Zinovij/pzks/program"
	"github.com/Bogdan-Zinovij/pzks/store"
	"github.com/Bogdan-Zinovij/pzks/util"
)

// Placeholder is the value written for every result. The simulator models
// timing and port usage, not the arithmetic itself.
const Placeholder = "123"

// Unit is a calculation unit. It cycles through Reading, Processing and
// Writing for every assigned task and returns to Idle afterwards.
type Unit struct {
	name     string
	mode     Mode
	operator program.Operator
	latency  LatencyTable
	port     DataPort

	clock     int
	phase     Phase
	task      *program.Task
	operands  []store.Entry
	remaining int

	// results produced by this unit; reading them does not use the port
	cache []store.Entry
	logs  []LogEntry
}

// Name returns the name of the unit.
func (u *Unit) Name() string {
	return u.name
}

// Mode returns the binding mode of the unit.
func (u *Unit) Mode() Mode {
	return u.mode
}

// Operator returns the operator the unit is currently configured for.
func (u *Unit) Operator() program.Operator {
	return u.operator
}

// Phase returns the current phase.
func (u *Unit) Phase() Phase {
	return u.phase
}

// IsIdle reports whether the unit can accept a task.
func (u *Unit) IsIdle() bool {
	return u.phase == Idle
}

// Accepts reports whether the unit can run tasks of the given operator.
func (u *Unit) Accepts(op program.Operator) bool {
	return u.mode == Sequential || u.operator == op
}

// Task returns the task in flight, if any.
func (u *Unit) Task() (program.Task, bool) {
	if u.task == nil {
		return program.Task{}, false
	}

	return *u.task, true
}

// Logs returns the per-clock log of the unit.
func (u *Unit) Logs() []LogEntry {
	return u.logs
}

// Cache returns the results this unit has produced.
func (u *Unit) Cache() []store.Entry {
	return u.cache
}

// Assign binds a task to an idle unit and starts reading its operands.
func (u *Unit) Assign(t program.Task) error {
	if u.phase != Idle {
		return fmt.Errorf("unit %s is busy with task %d", u.name, u.task.ID)
	}

	if !u.Accepts(t.Operator) {
		return fmt.Errorf("unit %s cannot run operator %s", u.name, t.Operator)
	}

	op := u.operator
	if u.mode == Sequential {
		op = t.Operator
	}

	cycles, ok := u.latency.Cycles(op)
	if !ok {
		return fmt.Errorf("no latency for operator %s", op)
	}

	u.operator = op
	u.task = &t
	u.operands = u.operands[:0]
	u.remaining = cycles
	u.setPhase(Reading)

	return nil
}

// Tick runs the unit for one clock. It always appends exactly one log entry
// and returns whether the unit had a task to work on.
func (u *Unit) Tick() (madeProgress bool) {
	defer func() { u.clock++ }()

	if u.task == nil {
		u.log(Idle, 0)
		return false
	}

	switch u.phase {
	case Reading:
		u.runRead()
	case Processing:
		u.runProcess()
	case Writing:
		u.runWrite()
	default:
		panic(fmt.Sprintf("unit %s holds task %d while %s", u.name, u.task.ID, u.phase))
	}

	return true
}

func (u *Unit) runRead() {
	for _, id := range u.task.Operands() {
		if u.holds(id) {
			continue
		}

		if e, ok := u.lookupCache(id); ok {
			u.operands = append(u.operands, e)

			util.Trace("Unit",
				"Behavior", "CacheHit",
				"Unit", u.name,
				"Clock", u.clock,
				"Task", u.task.ID,
				"Operand", id,
			)
		}
	}

	if len(u.operands) == 2 {
		u.setPhase(Processing)
		u.runProcess()

		return
	}

	missing := u.missingOperands()

	got := u.port.Read(missing, u.task.ID)
	if len(got) == 0 {
		u.log(Idle, 0)
		return
	}

	for _, e := range got {
		if slices.Contains(missing, e.TaskID) && !u.holds(e.TaskID) {
			u.operands = append(u.operands, e)
		}
	}

	readTask := got[0].TaskID
	if len(missing) == 2 && len(got) == 2 {
		readTask = u.task.ID
	}

	u.log(Reading, readTask)

	if len(u.operands) == 2 {
		u.setPhase(Processing)
	}
}

func (u *Unit) runProcess() {
	u.remaining--
	u.log(Processing, 0)

	if u.remaining <= 0 {
		u.setPhase(Writing)
	}
}

func (u *Unit) runWrite() {
	if !u.port.Write(u.task.ID, Placeholder) {
		u.log(Idle, 0)
		return
	}

	u.cache = append(u.cache, store.Entry{TaskID: u.task.ID, Value: Placeholder})
	u.log(Writing, 0)
	u.reset()
}

func (u *Unit) reset() {
	u.task = nil
	u.operands = u.operands[:0]
	u.remaining = 0
	u.setPhase(Idle)
}

func (u *Unit) holds(id int) bool {
	for _, e := range u.operands {
		if e.TaskID == id {
			return true
		}
	}

	return false
}

func (u *Unit) lookupCache(id int) (store.Entry, bool) {
	for _, e := range u.cache {
		if e.TaskID == id {
			return e, true
		}
	}

	return store.Entry{}, false
}

func (u *Unit) missingOperands() []int {
	missing := make([]int, 0, 2)
	for _, id := range u.task.Operands() {
		if !u.holds(id) {
			missing = append(missing, id)
		}
	}

	return missing
}

func (u *Unit) setPhase(p Phase) {
	if u.phase == p {
		return
	}

	taskID := 0
	if u.task != nil {
		taskID = u.task.ID
	}

	util.Trace("Unit",
		"Behavior", "PhaseChange",
		"Unit", u.name,
		"Clock", u.clock,
		"Task", taskID,
		"From", u.phase.String(),
		"To", p.String(),
	)

	u.phase = p
}

func (u *Unit) log(p Phase, readTask int) {
	entry := LogEntry{Clock: u.clock, Phase: p, ReadTask: readTask}
	if u.task != nil {
		entry.TaskID = u.task.ID
	}

	u.logs = append(u.logs, entry)
}
