// Package tree merges linear leaf-to-root stacks into a call tree and prints
// it.
package tree

// Node is one call site shared by every stack that passes through it.
// Children keep the order in which their addresses were first seen.
type Node struct {
	PC uintptr
	// Hits counts the stacks that end at this node.
	Hits     int
	Children []*Node

	index map[uintptr]*Node
}

// child returns the child at pc, appending a new one when none exists.
func (n *Node) child(pc uintptr) *Node {
	if c, ok := n.index[pc]; ok {
		return c
	}
	c := &Node{PC: pc}
	if n.index == nil {
		n.index = make(map[uintptr]*Node)
	}
	n.index[pc] = c
	n.Children = append(n.Children, c)
	return c
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Build merges stacks, each ordered leaf to root, into a forest. Stacks that
// share their outermost k addresses share a k-deep chain of nodes and branch
// at the first address that differs. Empty stacks are ignored.
func Build(stacks [][]uintptr) []*Node {
	// The sentinel's children are the forest's roots.
	var top Node
	for _, s := range stacks {
		if len(s) == 0 {
			continue
		}
		n := &top
		for i := len(s) - 1; i >= 0; i-- {
			n = n.child(s[i])
		}
		n.Hits++
	}
	return top.Children
}
