// Package expr is the front end of the simulator. It turns an infix
// arithmetic expression into the binary tree consumed by the program
// compiler, and reads or writes such trees as JSON.
//
// The front end only validates syntax. Algebraic simplification and
// regrouping for parallelism are expected to happen before a tree is handed
// over; trees produced by such tools can be loaded with ReadTree.
package expr

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Node is a node of an expression tree. Internal nodes hold an operator in
// Value and have both children; leaves hold a literal or an identifier.
type Node struct {
	Value string `json:"value"`
	Left  *Node  `json:"left"`
	Right *Node  `json:"right"`
}

// Leaf creates a leaf node.
func Leaf(value string) *Node {
	return &Node{Value: value}
}

// Binary creates an internal node.
func Binary(op string, left, right *Node) *Node {
	return &Node{Value: op, Left: left, Right: right}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// String renders the tree as a fully parenthesized infix expression.
func (n *Node) String() string {
	if n == nil {
		return ""
	}

	if n.IsLeaf() {
		return n.Value
	}

	return "(" + n.Left.String() + n.Value + n.Right.String() + ")"
}

// Depth returns the number of levels of the tree.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}

	return 1 + max(n.Left.Depth(), n.Right.Depth())
}

// Print writes the tree sideways, right subtree on top.
func (n *Node) Print(w io.Writer) {
	n.print(w, 0)
}

func (n *Node) print(w io.Writer, level int) {
	if n == nil {
		return
	}

	n.Right.print(w, level+1)
	fmt.Fprintf(w, "%s-> %s\n", strings.Repeat(" ", 4*level), n.Value)
	n.Left.print(w, level+1)
}

// ReadTree decodes a JSON tree.
func ReadTree(r io.Reader) (*Node, error) {
	var n *Node
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, errors.Wrap(err, "failed to decode expression tree")
	}

	if n == nil {
		return nil, errors.New("empty expression tree")
	}

	return n, nil
}

// LoadTree reads a JSON tree from a file.
func LoadTree(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tree file")
	}
	defer f.Close()

	return ReadTree(f)
}
