// Package program flattens an expression tree into the task list executed by
// the vector system.
//
// Nodes are numbered in post-order starting from 1, so the operands of a
// task always carry smaller ids than the task itself. Leaves become
// constants that are pre-loaded into the shared store; internal nodes become
// tasks.
package program

import (
	"fmt"

	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/util"
)

// Node is a numbered tree node.
type Node struct {
	ID       int      `json:"id"`
	Operator Operator `json:"operator,omitempty"`
	Left     int      `json:"left,omitempty"`
	Right    int      `json:"right,omitempty"`
	Literal  string   `json:"literal,omitempty"`
}

// IsLeaf reports whether the node is a constant.
func (n Node) IsLeaf() bool {
	return n.Left == 0 && n.Right == 0
}

// Task is an operation whose operands are two other nodes.
type Task struct {
	ID       int      `json:"id"`
	Operator Operator `json:"operator"`
	Left     int      `json:"left"`
	Right    int      `json:"right"`
}

// Operands returns the ids the task depends on.
func (t Task) Operands() []int {
	return []int{t.Left, t.Right}
}

// Constant is a leaf value available before the simulation starts.
type Constant struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// Program is a flattened expression tree.
type Program struct {
	Nodes     []Node
	Constants []Constant
	Tasks     []Task
}

// MalformedTreeError reports a tree that cannot be executed.
type MalformedTreeError struct {
	Path string
	Msg  string
}

func (e *MalformedTreeError) Error() string {
	if e.Path == "" {
		return "malformed tree: " + e.Msg
	}

	return fmt.Sprintf("malformed tree at %s: %s", e.Path, e.Msg)
}

// Compile flattens a tree. It rejects empty trees, internal nodes with a
// single child, unknown operators and empty leaves.
func Compile(tree *expr.Node) (*Program, error) {
	if tree == nil {
		return nil, &MalformedTreeError{Msg: "empty tree"}
	}

	p := &Program{}
	nextID := util.MakeIncreasingGen(0)

	if _, err := p.flatten(tree, "root", nextID); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Program) flatten(n *expr.Node, path string, nextID func() int) (int, error) {
	if n.IsLeaf() {
		if n.Value == "" {
			return 0, &MalformedTreeError{Path: path, Msg: "leaf without a value"}
		}

		id := nextID()
		p.Nodes = append(p.Nodes, Node{ID: id, Literal: n.Value})
		p.Constants = append(p.Constants, Constant{ID: id, Value: n.Value})

		return id, nil
	}

	if n.Left == nil || n.Right == nil {
		return 0, &MalformedTreeError{Path: path, Msg: "operator " + n.Value + " needs two operands"}
	}

	op, ok := ParseOperator(n.Value)
	if !ok {
		return 0, &MalformedTreeError{Path: path, Msg: fmt.Sprintf("unknown operator %q", n.Value)}
	}

	left, err := p.flatten(n.Left, path+".left", nextID)
	if err != nil {
		return 0, err
	}

	right, err := p.flatten(n.Right, path+".right", nextID)
	if err != nil {
		return 0, err
	}

	id := nextID()
	p.Nodes = append(p.Nodes, Node{ID: id, Operator: op, Left: left, Right: right})
	p.Tasks = append(p.Tasks, Task{ID: id, Operator: op, Left: left, Right: right})

	return id, nil
}

// Validate checks a program that was not produced by Compile. Ids must be
// positive and unique, and every operand of a task must be a constant or a
// task with a smaller id, so that every task can eventually run.
func (p *Program) Validate() error {
	constants := make(map[int]bool)
	tasks := make(map[int]bool)

	for _, c := range p.Constants {
		if c.ID <= 0 || constants[c.ID] {
			return &MalformedTreeError{Msg: fmt.Sprintf("invalid or duplicate constant id %d", c.ID)}
		}
		constants[c.ID] = true
	}

	for _, t := range p.Tasks {
		if t.ID <= 0 || constants[t.ID] || tasks[t.ID] {
			return &MalformedTreeError{Msg: fmt.Sprintf("invalid or duplicate task id %d", t.ID)}
		}
		tasks[t.ID] = true
	}

	for _, t := range p.Tasks {
		if _, ok := ParseOperator(string(t.Operator)); !ok {
			return &MalformedTreeError{Msg: fmt.Sprintf("task %d has unknown operator %q", t.ID, t.Operator)}
		}

		for _, id := range t.Operands() {
			if constants[id] || (tasks[id] && id < t.ID) {
				continue
			}

			return &MalformedTreeError{Msg: fmt.Sprintf("task %d depends on unknown node %d", t.ID, id)}
		}
	}

	return nil
}

// Task returns the task with the given id.
func (p *Program) Task(id int) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}

	return Task{}, false
}

// Operators returns the distinct operators used by the tasks, in canonical
// order.
func (p *Program) Operators() []Operator {
	used := make(map[Operator]bool)
	for _, t := range p.Tasks {
		used[t.Operator] = true
	}

	ops := make([]Operator, 0, len(used))
	for _, op := range isa {
		if used[op] {
			ops = append(ops, op)
		}
	}

	return ops
}

// Root returns the id of the last node, which is the root of the tree.
func (p *Program) Root() int {
	if len(p.Nodes) == 0 {
		return 0
	}

	return p.Nodes[len(p.Nodes)-1].ID
}
