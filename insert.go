package arbor

import "fmt"

// InsertMode decides what InsertOrReplace does when its directive stops at
// an existing node, and whether reaching an empty spot is allowed.
type InsertMode int

const (
	// InsertLeftIfFound inserts the new content immediately before the
	// found node in in-order sequence.
	InsertLeftIfFound InsertMode = -1

	// ThrowIfFound fails with ErrDuplicate if the directive stops at a node.
	ThrowIfFound InsertMode = 0

	// InsertRightIfFound inserts the new content immediately after the
	// found node in in-order sequence.
	InsertRightIfFound InsertMode = 1

	// ReplaceIfFound replaces the found node's content, or inserts a new
	// leaf if the directive reaches an empty spot.
	ReplaceIfFound InsertMode = 2

	// ReplaceOnly replaces the found node's content and fails with
	// ErrNotFound if the directive reaches an empty spot.
	ReplaceOnly InsertMode = 3
)

// String returns the mode's name.
func (m InsertMode) String() string {
	switch m {
	case InsertLeftIfFound:
		return "insert-left-if-found"
	case ThrowIfFound:
		return "throw-if-found"
	case InsertRightIfFound:
		return "insert-right-if-found"
	case ReplaceIfFound:
		return "replace-if-found"
	case ReplaceOnly:
		return "replace-only"
	}
	return fmt.Sprintf("InsertMode(%d)", int(m))
}

func (m InsertMode) valid() bool {
	return m >= InsertLeftIfFound && m <= ReplaceOnly
}

// InsertOrReplace follows the directive and either places content in a new
// leaf at the empty spot it reaches, or applies mode to the node it stops
// at. Every node from the edit point up to the root is rebuilt and
// rebalanced; everything else is shared with tree, which is left intact.
func InsertOrReplace[T any](tree *Node[T], finder Finder[T], content T, mode InsertMode) (*Node[T], error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	return insertOrReplace(tree, finder, content, mode)
}

func insertOrReplace[T any](n *Node[T], finder Finder[T], content T, mode InsertMode) (*Node[T], error) {
	if n == nil {
		if mode == ReplaceOnly {
			return nil, ErrNotFound
		}
		return Leaf(content), nil
	}

	dir := finder(n)
	if dir == Stop {
		switch mode {
		case ThrowIfFound:
			return nil, ErrDuplicate
		case ReplaceIfFound, ReplaceOnly:
			return NewNode(content, n.left, n.right), nil
		case InsertLeftIfFound:
			// Rightmost spot of the left subtree.
			dir = Left
			finder = FurthestInserter[T](Right)
		case InsertRightIfFound:
			// Leftmost spot of the right subtree.
			dir = Right
			finder = FurthestInserter[T](Left)
		}
	}

	newChild, err := insertOrReplace(n.Child(dir), finder, content, mode)
	if err != nil {
		return nil, err
	}
	return Balance(makeTree(n.content, n.Child(dir.Reverse()), newChild, dir)), nil
}

// Insert adds content at the empty spot the directive reaches. If the
// directive stops at a node, ifFound decides: Stop fails with ErrDuplicate,
// Left and Right insert beside the found node on that side.
func Insert[T any](tree *Node[T], finder Finder[T], content T, ifFound Direction) (*Node[T], error) {
	mode := ThrowIfFound
	switch {
	case ifFound < 0:
		mode = InsertLeftIfFound
	case ifFound > 0:
		mode = InsertRightIfFound
	}
	return InsertOrReplace(tree, finder, content, mode)
}

// Replace swaps the content of the node the directive stops at. It fails
// with ErrNotFound if there is no such node.
func Replace[T any](tree *Node[T], finder Finder[T], content T) (*Node[T], error) {
	return InsertOrReplace(tree, finder, content, ReplaceOnly)
}

// Append adds content as the new rightmost node.
func Append[T any](tree *Node[T], content T) *Node[T] {
	// A furthest inserter never stops, so no mode can fail here.
	out, _ := insertOrReplace(tree, FurthestInserter[T](Right), content, ThrowIfFound)
	return out
}

// Prepend adds content as the new leftmost node.
func Prepend[T any](tree *Node[T], content T) *Node[T] {
	out, _ := insertOrReplace(tree, FurthestInserter[T](Left), content, ThrowIfFound)
	return out
}

// InsertAt inserts content so that it ends up at the given rank from the
// left. index may equal tree.Size() to append.
func InsertAt[T any](tree *Node[T], index int, content T) (*Node[T], error) {
	if index < 0 || index > tree.Size() {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNotFound, index, tree.Size())
	}
	if index == tree.Size() {
		return Append(tree, content), nil
	}
	return InsertOrReplace(tree, IndexFinder[T](index, Left), content, InsertLeftIfFound)
}
