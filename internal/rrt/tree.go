package rrt

import "github.com/paulmach/orb"

// NoParent marks the root node's parent index.
const NoParent = -1

// Node is a single state in the planning tree. Control is the unit
// direction that was applied at the parent to reach this state.
type Node struct {
	Pos     orb.Point
	Parent  int
	Control orb.Point
}

// Tree is an append-only arena of nodes rooted at index 0. Parent links are
// stored as indices, so backtracking is a plain index walk and the structure
// is freed in one piece when planning ends.
type Tree struct {
	nodes []Node
}

// NewTree returns a tree holding only the root state.
func NewTree(root orb.Point) *Tree {
	return &Tree{nodes: []Node{{Pos: root, Parent: NoParent}}}
}

func (t *Tree) Len() int        { return len(t.nodes) }
func (t *Tree) At(i int) Node   { return t.nodes[i] }
func (t *Tree) Root() orb.Point { return t.nodes[0].Pos }

// Add appends a node parented to parent and returns its index.
func (t *Tree) Add(pos orb.Point, parent int, control orb.Point) int {
	t.nodes = append(t.nodes, Node{Pos: pos, Parent: parent, Control: control})
	return len(t.nodes) - 1
}

// Backtrack walks parent links from node i to the root and returns the
// positions ordered root first.
func (t *Tree) Backtrack(i int) []orb.Point {
	var rev []orb.Point
	for ; i != NoParent; i = t.nodes[i].Parent {
		rev = append(rev, t.nodes[i].Pos)
	}
	path := make([]orb.Point, len(rev))
	for k, p := range rev {
		path[len(rev)-1-k] = p
	}
	return path
}
