package arbor

// RemoveResult contains the outcome of a Remove.
type RemoveResult[T any] struct {
	Tree    *Node[T] // the new tree
	Removed *Node[T] // the node the directive stopped at, as it was in the old tree
}

// Remove deletes the node the directive stops at and returns the new tree.
// It fails with ErrNotFound if the directive reaches an empty spot.
func Remove[T any](tree *Node[T], finder Finder[T]) (RemoveResult[T], error) {
	var removed *Node[T]
	out, err := remove(tree, finder, &removed)
	if err != nil {
		return RemoveResult[T]{}, err
	}
	return RemoveResult[T]{Tree: out, Removed: removed}, nil
}

func remove[T any](n *Node[T], finder Finder[T], removed **Node[T]) (*Node[T], error) {
	if n == nil {
		return nil, ErrNotFound
	}

	dir := finder(n)
	if dir == Stop {
		*removed = n

		if n.left == nil {
			return n.right, nil
		}
		if n.right == nil {
			return n.left, nil
		}

		// Two children: pull the nearest in-order neighbour up from the
		// larger side (ties go right) and put its content here.
		side := Right
		if n.left.Size() > n.right.Size() {
			side = Left
		}
		var neighbour *Node[T]
		newChild, err := remove(n.Child(side), FurthestFinder[T](side.Reverse()), &neighbour)
		if err != nil {
			return nil, err
		}
		return Balance(makeTree(neighbour.content, n.Child(side.Reverse()), newChild, side)), nil
	}

	newChild, err := remove(n.Child(dir), finder, removed)
	if err != nil {
		return nil, err
	}
	return Balance(makeTree(n.content, n.Child(dir.Reverse()), newChild, dir)), nil
}

// RemoveAt deletes the node at the given rank from the left.
func RemoveAt[T any](tree *Node[T], index int) (RemoveResult[T], error) {
	if index < 0 || index >= tree.Size() {
		return RemoveResult[T]{}, ErrNotFound
	}
	return Remove(tree, IndexFinder[T](index, Left))
}
