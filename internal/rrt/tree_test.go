package rrt

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestTreeRoot(t *testing.T) {
	tree := NewTree(orb.Point{0.1, 0.2})

	if tree.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", tree.Len())
	}
	root := tree.At(0)
	if root.Parent != NoParent {
		t.Errorf("root parent should be NoParent, got %d", root.Parent)
	}
	if !root.Pos.Equal(orb.Point{0.1, 0.2}) {
		t.Errorf("unexpected root position %v", root.Pos)
	}
}

func TestTreeAddAndBacktrack(t *testing.T) {
	tree := NewTree(orb.Point{0, 0})
	a := tree.Add(orb.Point{0.05, 0}, 0, orb.Point{1, 0})
	b := tree.Add(orb.Point{0.05, 0.05}, a, orb.Point{0, 1})
	// A side branch must not appear in the backtracked path.
	tree.Add(orb.Point{-0.05, 0}, 0, orb.Point{-1, 0})

	path := tree.Backtrack(b)
	want := []orb.Point{{0, 0}, {0.05, 0}, {0.05, 0.05}}
	if len(path) != len(want) {
		t.Fatalf("expected %d waypoints, got %d", len(want), len(path))
	}
	for i := range want {
		if !path[i].Equal(want[i]) {
			t.Errorf("waypoint %d: got %v, want %v", i, path[i], want[i])
		}
	}
}

func TestTreeBacktrackRoot(t *testing.T) {
	tree := NewTree(orb.Point{0.3, 0})
	path := tree.Backtrack(0)
	if len(path) != 1 || !path[0].Equal(orb.Point{0.3, 0}) {
		t.Errorf("backtracking the root should yield just the root, got %v", path)
	}
}

// Every non-root node must have a valid parent added before it, which makes
// the arena a single connected rooted tree with no cycles.
func TestTreeConnected(t *testing.T) {
	tree := NewTree(orb.Point{0, 0})
	tree.Add(orb.Point{0.05, 0}, 0, orb.Point{1, 0})
	tree.Add(orb.Point{0.1, 0}, 1, orb.Point{1, 0})

	for i := 1; i < tree.Len(); i++ {
		parent := tree.At(i).Parent
		if parent < 0 || parent >= i {
			t.Errorf("node %d has invalid parent %d", i, parent)
		}
	}
}
