package arbor

import "iter"

// All iterates the tree's contents in order, left to right.
func All[T any](tree *Node[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		walk(tree, Left, yield)
	}
}

// Backward iterates the tree's contents in reverse order, right to left.
func Backward[T any](tree *Node[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		walk(tree, Right, yield)
	}
}

// walk visits the from side, the node, then the other side. It returns
// false once yield asks to stop.
func walk[T any](n *Node[T], from Direction, yield func(T) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.Child(from), from, yield) &&
		yield(n.content) &&
		walk(n.Child(from.Reverse()), from, yield)
}

// ToSlice copies the tree's contents in order into a new slice.
func ToSlice[T any](tree *Node[T]) []T {
	out := make([]T, 0, tree.Size())
	for v := range All(tree) {
		out = append(out, v)
	}
	return out
}

// SumOfDepths returns the total of every node's depth, counting the root
// as depth 1.
func SumOfDepths[T any](tree *Node[T]) int {
	return sumOfDepths(tree, 1)
}

func sumOfDepths[T any](n *Node[T], depth int) int {
	if n == nil {
		return 0
	}
	return depth + sumOfDepths(n.left, depth+1) + sumOfDepths(n.right, depth+1)
}

// AverageDepth returns the mean node depth, or 0 for the empty tree. For a
// balanced tree it grows with log2 of the size.
func AverageDepth[T any](tree *Node[T]) float64 {
	if tree == nil {
		return 0
	}
	return float64(SumOfDepths(tree)) / float64(tree.Size())
}
