package arbor

import (
	"errors"
	"testing"
)

// intFinder steers toward key in a tree of ascending ints.
func intFinder(key int) Finder[int] {
	return func(n *Node[int]) Direction {
		switch {
		case key < n.content:
			return Left
		case key > n.content:
			return Right
		}
		return Stop
	}
}

// expectContractViolation runs fn and fails unless it panics with a
// ContractViolation for op.
func expectContractViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("%s: expected panic", op)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("%s: panic value %v is not an error", op, r)
		}
		if !errors.Is(err, ErrContract) {
			t.Fatalf("%s: panic %v does not wrap ErrContract", op, err)
		}
		var cv *ContractViolation
		if !errors.As(err, &cv) || cv.Op != op {
			t.Fatalf("panic %v, want op %q", err, op)
		}
	}()
	fn()
}

func TestDirection(t *testing.T) {
	tests := []struct {
		dir     Direction
		reverse Direction
		name    string
	}{
		{Left, Right, "left"},
		{Right, Left, "right"},
		{Stop, Stop, "stop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dir.Reverse(); got != tt.reverse {
				t.Errorf("Reverse() = %v, want %v", got, tt.reverse)
			}
			if got := tt.dir.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestEmptyTree(t *testing.T) {
	var tree *Node[int]

	if tree.Size() != 0 {
		t.Errorf("Size() = %d, want 0", tree.Size())
	}
	if tree.Height() != 0 {
		t.Errorf("Height() = %d, want 0", tree.Height())
	}
	if err := Validate(tree); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if BalanceFactor(tree) != 0 {
		t.Errorf("BalanceFactor() = %d, want 0", BalanceFactor(tree))
	}
}

func TestNewNodeCachesSizeAndHeight(t *testing.T) {
	leaf := Leaf(1)
	if leaf.Size() != 1 || leaf.Height() != 1 {
		t.Errorf("leaf size/height = %d/%d, want 1/1", leaf.Size(), leaf.Height())
	}
	if !leaf.IsLeaf() || leaf.NumChildren() != 0 {
		t.Error("leaf should have no children")
	}

	lopsided := NewNode(3, NewNode(2, Leaf(1), nil), nil)
	if lopsided.Size() != 3 {
		t.Errorf("Size() = %d, want 3", lopsided.Size())
	}
	if lopsided.Height() != 3 {
		t.Errorf("Height() = %d, want 3", lopsided.Height())
	}
	if lopsided.NumChildren() != 1 {
		t.Errorf("NumChildren() = %d, want 1", lopsided.NumChildren())
	}
	if BalanceFactor(lopsided) != -2 {
		t.Errorf("BalanceFactor() = %d, want -2", BalanceFactor(lopsided))
	}
	if IsBalanced(lopsided) {
		t.Error("lopsided tree reported balanced")
	}
}

func TestChild(t *testing.T) {
	n := NewNode(2, Leaf(1), Leaf(3))

	if n.Child(Left) != n.Left() || n.Left().Content() != 1 {
		t.Error("Child(Left) should be the left child")
	}
	if n.Child(Right) != n.Right() || n.Right().Content() != 3 {
		t.Error("Child(Right) should be the right child")
	}

	expectContractViolation(t, "Child", func() { n.Child(Stop) })
}

func TestMakeTreeMirrors(t *testing.T) {
	a, b := Leaf(1), Leaf(3)

	right := makeTree(2, a, b, Right)
	if right.Left() != a || right.Right() != b {
		t.Error("makeTree(Right) should put child2 on the right")
	}

	left := makeTree(2, a, b, Left)
	if left.Left() != b || left.Right() != a {
		t.Error("makeTree(Left) should put child2 on the left")
	}

	expectContractViolation(t, "makeTree", func() { makeTree(2, a, b, Stop) })
}

func TestValidateDetectsStaleCache(t *testing.T) {
	good := NewNode(2, Leaf(1), Leaf(3))
	if err := Validate(good); err != nil {
		t.Fatalf("Validate(good) = %v", err)
	}

	tests := []struct {
		name string
		tree *Node[int]
	}{
		{"wrong size", &Node[int]{content: 2, left: Leaf(1), right: Leaf(3), size: 4, height: 2}},
		{"wrong height", &Node[int]{content: 2, left: Leaf(1), right: Leaf(3), size: 3, height: 5}},
		{"unbalanced", NewNode(4, NewNode(3, NewNode(2, Leaf(1), nil), nil), nil)},
		{"bad child", NewNode(5, &Node[int]{content: 1, size: 2, height: 1}, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree)
			if !errors.Is(err, ErrInvariant) {
				t.Errorf("Validate() = %v, want ErrInvariant", err)
			}
		})
	}
}

func TestContractViolationError(t *testing.T) {
	err := error(&ContractViolation{Op: "Rotate", Reason: "empty tree"})
	if err.Error() != "arbor: Rotate: empty tree" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrContract) {
		t.Error("ContractViolation should unwrap to ErrContract")
	}
}
