package core

import "fmt"

// Phase is the operational state of a calculation unit.
type Phase int

const (
	Idle Phase = iota
	Reading
	Processing
	Writing
)

// String returns the name used in exported timelines.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Reading:
		return "reading"
	case Processing:
		return "processing"
	case Writing:
		return "writing"
	default:
		panic(fmt.Sprintf("invalid phase %d", int(p)))
	}
}

// ParsePhase converts a timeline status back into a phase.
func ParsePhase(s string) (Phase, error) {
	for _, p := range []Phase{Idle, Reading, Processing, Writing} {
		if p.String() == s {
			return p, nil
		}
	}

	return Idle, fmt.Errorf("unknown phase %q", s)
}

// LogEntry records what a unit did in one clock. TaskID is 0 when the unit
// had no task. ReadTask is set on Reading entries only: the operand fetched
// in that clock, or the unit's own task when both operands arrived together.
type LogEntry struct {
	Clock    int
	TaskID   int
	Phase    Phase
	ReadTask int
}
