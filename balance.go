package arbor

import "fmt"

// Rotate performs a single rotation toward dir, pivoting on the child on
// the opposite side. Written for a right rotation (dir == Right); the
// mirror case falls out of passing dir through.
//
//	      4              2
//	     / \            / \
//	    2   5   ==>    1   4
//	   / \                / \
//	  1   3              3   5
//
// Subtrees 1, 3 and 5 are reused unchanged.
func Rotate[T any](n *Node[T], dir Direction) *Node[T] {
	if dir == Stop {
		violate("Rotate", "zero direction")
	}
	if n == nil {
		violate("Rotate", "empty tree")
	}
	left, right := dir.Reverse(), dir

	pivot := n.Child(left)
	if pivot == nil {
		violate("Rotate", fmt.Sprintf("no %s child to pivot on", left))
	}

	subtree1 := pivot.Child(left)
	node2 := pivot.content
	subtree3 := pivot.Child(right)
	node4 := n.content
	subtree5 := n.Child(right)

	newRight := makeTree(node4, subtree3, subtree5, right)
	return makeTree(node2, subtree1, newRight, right)
}

// DoubleRotate rotates the child opposite dir away from dir first, then
// rotates the node toward dir. This is the left-right / right-left case.
func DoubleRotate[T any](n *Node[T], dir Direction) *Node[T] {
	if dir == Stop {
		violate("DoubleRotate", "zero direction")
	}
	if n == nil {
		violate("DoubleRotate", "empty tree")
	}
	left, right := dir.Reverse(), dir

	child := n.Child(left)
	if child == nil {
		violate("DoubleRotate", fmt.Sprintf("no %s child", left))
	}
	if child.Child(right) == nil {
		violate("DoubleRotate", fmt.Sprintf("%s child has no %s child", left, right))
	}

	newChild := Rotate(child, left)
	return Rotate(makeTree(n.content, newChild, n.Child(right), right), right)
}

// BalanceFactor returns height(right) - height(left).
func BalanceFactor[T any](n *Node[T]) int {
	if n == nil {
		return 0
	}
	return n.right.Height() - n.left.Height()
}

// IsBalanced returns true if the node's children differ in height by at
// most one. Only the top node is checked.
func IsBalanced[T any](n *Node[T]) bool {
	bf := BalanceFactor(n)
	return bf >= -1 && bf <= 1
}

// IsBalancedRecursively checks every node of the subtree.
func IsBalancedRecursively[T any](n *Node[T]) bool {
	if n == nil {
		return true
	}
	return IsBalanced(n) && IsBalancedRecursively(n.left) && IsBalancedRecursively(n.right)
}

// Balance restores the height invariant at the top node after a single
// insertion or removal below it. Already balanced nodes are returned as is.
func Balance[T any](n *Node[T]) *Node[T] {
	if n == nil || IsBalanced(n) {
		return n
	}

	lh, rh := n.left.Height(), n.right.Height()

	// Rotate away from the taller side.
	dir := Left
	if lh > rh {
		dir = Right
	}
	taller := n.Child(dir.Reverse())

	innerHeight := taller.Child(dir).Height()
	outerHeight := taller.Child(dir.Reverse()).Height()

	if innerHeight > outerHeight {
		return DoubleRotate(n, dir)
	}
	return Rotate(n, dir)
}

// Validate walks the whole tree and reports the first node whose cached
// size or height disagrees with its children, or that is out of balance.
func Validate[T any](tree *Node[T]) error {
	_, err := validate(tree, 0)
	return err
}

func validate[T any](n *Node[T], depth int) (int, error) {
	if n == nil {
		return 0, nil
	}
	leftHeight, err := validate(n.left, depth+1)
	if err != nil {
		return 0, err
	}
	rightHeight, err := validate(n.right, depth+1)
	if err != nil {
		return 0, err
	}

	if want := n.left.Size() + 1 + n.right.Size(); n.size != want {
		return 0, fmt.Errorf("%w: size %d at depth %d, want %d", ErrInvariant, n.size, depth, want)
	}
	height := 1 + max(leftHeight, rightHeight)
	if n.height != height {
		return 0, fmt.Errorf("%w: height %d at depth %d, want %d", ErrInvariant, n.height, depth, height)
	}
	if bf := rightHeight - leftHeight; bf < -1 || bf > 1 {
		return 0, fmt.Errorf("%w: balance factor %d at depth %d", ErrInvariant, bf, depth)
	}
	return height, nil
}
