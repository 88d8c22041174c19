package physicalplan

import (
	"fmt"
	"strings"
)

// Handle addresses a node inside a Tree.
type Handle int

// None is the handle of "no node", returned by rules that attach nothing.
const None Handle = -1

type entry struct {
	node     Node
	parent   Handle
	children []Handle
}

// Tree is an arena of physical nodes. Nodes are only ever appended: once
// pushed, a node keeps its parent and its position among its siblings.
//
// A Tree has a single writer; it is not safe for concurrent use.
type Tree struct {
	nodes []entry
}

func NewTree(root Node) *Tree {
	return &Tree{nodes: []entry{{node: root, parent: None}}}
}

func (t *Tree) Root() Handle { return 0 }

func (t *Tree) Len() int { return len(t.nodes) }

// Valid reports whether h addresses a node of t.
func (t *Tree) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(t.nodes)
}

// Push appends child as the last child of parent and returns its handle.
// Pushing under a handle that does not belong to t panics.
func (t *Tree) Push(parent Handle, child Node) Handle {
	if !t.Valid(parent) {
		panic(fmt.Sprintf("physicalplan: push under invalid handle %d", parent))
	}
	h := Handle(len(t.nodes))
	t.nodes = append(t.nodes, entry{node: child, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, h)
	return h
}

func (t *Tree) Node(h Handle) Node {
	return t.nodes[h].node
}

func (t *Tree) Parent(h Handle) Handle {
	return t.nodes[h].parent
}

// Children returns a copy of h's children in insertion order.
func (t *Tree) Children(h Handle) []Handle {
	c := t.nodes[h].children
	out := make([]Handle, len(c))
	copy(out, c)
	return out
}

// Walk visits the subtree rooted at the root node depth-first, parents
// before children. Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(h Handle, n Node, depth int) bool) {
	type frame struct {
		h     Handle
		depth int
	}
	stack := []frame{{h: t.Root()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.h, t.nodes[f.h].node, f.depth) {
			continue
		}
		children := t.nodes[f.h].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{h: children[i], depth: f.depth + 1})
		}
	}
}

// Shape is a detached value copy of a subtree, handy for comparisons.
type Shape struct {
	Node     Node
	Children []Shape
}

func (t *Tree) Shape(h Handle) Shape {
	s := Shape{Node: t.nodes[h].node}
	for _, c := range t.nodes[h].children {
		s.Children = append(s.Children, t.Shape(c))
	}
	return s
}

// String dumps the tree one node per line, indented by depth.
func (t *Tree) String() string {
	var b strings.Builder
	t.Walk(func(_ Handle, n Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.String())
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
