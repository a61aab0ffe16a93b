package arbor

// Finder is a directive that steers a traversal. It is called with each
// node on the way down and returns Left or Right to descend, or Stop to end
// at that node. A Finder is never called with an empty subtree.
//
// A Finder may keep state between calls (IndexFinder counts down its
// index), so each traversal needs its own Finder value.
type Finder[T any] func(n *Node[T]) Direction

// FindResult contains the outcome of a Find.
type FindResult[T any] struct {
	Node      *Node[T] // the node the directive stopped at, or nil
	NumToLeft int      // nodes before the stopping point in in-order sequence
}

// Found returns true if the directive stopped at a node.
func (r FindResult[T]) Found() bool {
	return r.Node != nil
}

// Find follows the directive from the root and returns the node where it
// stopped. If the descent runs into an empty subtree the result's Node is
// nil and NumToLeft is the rank the empty spot would have.
func Find[T any](tree *Node[T], finder Finder[T]) FindResult[T] {
	var result FindResult[T]
	for n := tree; n != nil; {
		dir := finder(n)
		switch {
		case dir < 0:
			n = n.left
		case dir > 0:
			result.NumToLeft += n.left.Size() + 1
			n = n.right
		default:
			result.NumToLeft += n.left.Size()
			result.Node = n
			return result
		}
	}
	return result
}

// IndexFinder returns a directive that stops at the node of the given rank,
// counted from the end named by from: rank 0 is the leftmost node when from
// is Left and the rightmost node when from is Right.
func IndexFinder[T any](index int, from Direction) Finder[T] {
	if from == Stop {
		violate("IndexFinder", "zero direction")
	}
	return func(n *Node[T]) Direction {
		if n == nil {
			violate("IndexFinder", "directive invoked on empty subtree")
		}
		nearSize := n.Child(from).Size()
		switch {
		case index < nearSize:
			return from
		case index == nearSize:
			return Stop
		default:
			index -= nearSize + 1
			return from.Reverse()
		}
	}
}

// FurthestFinder returns a directive that descends toward dir until the
// current node has no child on that side, and stops there.
func FurthestFinder[T any](dir Direction) Finder[T] {
	if dir == Stop {
		violate("FurthestFinder", "zero direction")
	}
	return func(n *Node[T]) Direction {
		if n == nil {
			violate("FurthestFinder", "directive invoked on empty subtree")
		}
		if n.Child(dir) == nil {
			return Stop
		}
		return dir
	}
}

// FurthestInserter returns a directive that always descends toward dir, so
// it never stops and always reaches the empty spot past the extremal node.
func FurthestInserter[T any](dir Direction) Finder[T] {
	if dir == Stop {
		violate("FurthestInserter", "zero direction")
	}
	return func(n *Node[T]) Direction {
		if n == nil {
			violate("FurthestInserter", "directive invoked on empty subtree")
		}
		return dir
	}
}

// At returns the content at the given rank from the left.
func At[T any](tree *Node[T], index int) (T, bool) {
	return at(tree, index, Left)
}

// AtFromRight returns the content at the given rank from the right.
func AtFromRight[T any](tree *Node[T], index int) (T, bool) {
	return at(tree, index, Right)
}

func at[T any](tree *Node[T], index int, from Direction) (T, bool) {
	var zero T
	if index < 0 || index >= tree.Size() {
		return zero, false
	}
	result := Find(tree, IndexFinder[T](index, from))
	if !result.Found() {
		return zero, false
	}
	return result.Node.content, true
}

// First returns the leftmost node, or nil for the empty tree.
func First[T any](tree *Node[T]) *Node[T] {
	return Find(tree, FurthestFinder[T](Left)).Node
}

// Last returns the rightmost node, or nil for the empty tree.
func Last[T any](tree *Node[T]) *Node[T] {
	return Find(tree, FurthestFinder[T](Right)).Node
}
