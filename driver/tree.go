package driver

import (
	"fmt"
	"io"
)

// Node is a derivation-tree node. A terminal node carries the lexeme
// it was shifted from and its 1-based source line; a non-terminal node
// carries its children in left-to-right order. An empty production
// yields a non-terminal node with no children and no text.
type Node struct {
	KindName string
	Text     string
	Line     int
	Children []*Node

	parent *Node
}

// Parent returns the node this node is a child of, or nil for the
// root. The reference is non-owning; releasing the root releases the
// whole tree.
func (n *Node) Parent() *Node {
	return n.parent
}

// Tree owns a derivation tree through its root.
type Tree struct {
	Root *Node
}

// Leaves returns the terminal leaves of the tree in left-to-right
// order, which is the token sequence the parse consumed.
func (t *Tree) Leaves() []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	var leaves []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Text != "" && len(n.Children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return leaves
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
