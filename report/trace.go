package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/store"
)

// TaskEntry is one clock of a unit timeline. TaskID is null on clocks
// without an assigned task.
type TaskEntry struct {
	Clock    int    `json:"clock"`
	TaskID   *int   `json:"taskId"`
	Status   string `json:"status"`
	ReadTask *int   `json:"readedTask,omitempty"`
}

// UnitTimeline is the log of one unit.
type UnitTimeline struct {
	Name  string      `json:"name"`
	Tasks []TaskEntry `json:"tasks"`
}

// Trace is the exported result of a comparison. Field names follow the
// format read by the Gantt viewer.
type Trace struct {
	RunID      string            `json:"runId"`
	Timeline   []UnitTimeline    `json:"timeline"`
	MaxTime    int               `json:"maxTime"`
	Stats      Stats             `json:"stats"`
	Expression string            `json:"expression"`
	Tree       *expr.Node        `json:"tree"`
	Operations []store.Operation `json:"operations,omitempty"`
}

// Source is a finished simulation that can be exported.
type Source interface {
	Run
	Store() *store.Store
}

// BuildTrace exports the parallel run together with the statistics against
// the sequential one.
func BuildTrace(
	parallel Source,
	sequential Run,
	expression string,
	tree *expr.Node,
) *Trace {
	t := &Trace{
		RunID:      uuid.New().String(),
		Timeline:   Timeline(parallel.Units()),
		Stats:      ComputeStats(parallel, sequential),
		Expression: expression,
		Tree:       tree,
		Operations: parallel.Store().Operations(),
	}
	t.MaxTime = maxClock(t.Timeline)

	if t.Expression == "" && tree != nil {
		t.Expression = tree.String()
	}

	return t
}

// Timeline converts unit logs to their exported form.
func Timeline(units []*core.Unit) []UnitTimeline {
	timeline := make([]UnitTimeline, 0, len(units))

	for _, u := range units {
		tasks := make([]TaskEntry, 0, len(u.Logs()))
		for _, e := range u.Logs() {
			tasks = append(tasks, TaskEntry{
				Clock:    e.Clock,
				TaskID:   optionalID(e.TaskID),
				Status:   e.Phase.String(),
				ReadTask: optionalID(e.ReadTask),
			})
		}

		timeline = append(timeline, UnitTimeline{Name: u.Name(), Tasks: tasks})
	}

	return timeline
}

func optionalID(id int) *int {
	if id == 0 {
		return nil
	}

	return &id
}

func maxClock(timeline []UnitTimeline) int {
	maxTime := 0
	for _, u := range timeline {
		for _, e := range u.Tasks {
			maxTime = max(maxTime, e.Clock)
		}
	}

	return maxTime
}

// Unit returns the timeline of the named unit.
func (t *Trace) Unit(name string) (UnitTimeline, bool) {
	for _, u := range t.Timeline {
		if u.Name == name {
			return u, true
		}
	}

	return UnitTimeline{}, false
}

// WriteJSON writes the trace as indented JSON.
func (t *Trace) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}

	return nil
}

// SaveToFile writes the trace to a file.
func (t *Trace) SaveToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	return t.WriteJSON(file)
}

// LoadTrace reads a trace written by SaveToFile.
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	t := &Trace{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}

	return t, nil
}
