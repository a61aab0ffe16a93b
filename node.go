package arbor

// Direction selects a side of a node, or stops a traversal.
type Direction int

const (
	// Left descends into the left child.
	Left Direction = -1

	// Stop ends the traversal at the current node.
	Stop Direction = 0

	// Right descends into the right child.
	Right Direction = 1
)

// Reverse returns the opposite side. Stop reverses to itself.
func (d Direction) Reverse() Direction {
	return -d
}

// String returns "left", "right" or "stop".
func (d Direction) String() string {
	switch {
	case d < 0:
		return "left"
	case d > 0:
		return "right"
	default:
		return "stop"
	}
}

// Node is an immutable tree node. A nil *Node is the empty tree.
//
// Nodes are never modified after construction, so a node may be shared by
// any number of tree versions and read from any number of goroutines.
type Node[T any] struct {
	content T
	left    *Node[T]
	right   *Node[T]

	// Cached at construction from the children's cached values.
	size   int // nodes in this subtree
	height int // levels in this subtree
}

// NewNode creates a node from its content and already-built children.
func NewNode[T any](content T, left, right *Node[T]) *Node[T] {
	return &Node[T]{
		content: content,
		left:    left,
		right:   right,
		size:    left.Size() + 1 + right.Size(),
		height:  1 + max(left.Height(), right.Height()),
	}
}

// Leaf creates a node with no children.
func Leaf[T any](content T) *Node[T] {
	return NewNode(content, nil, nil)
}

// makeTree builds a node with child2 on side child2Dir and child1 on the
// other side. Rotation and rebuild code is written for one mirror case and
// passes the side through.
func makeTree[T any](content T, child1, child2 *Node[T], child2Dir Direction) *Node[T] {
	if child2Dir == Stop {
		violate("makeTree", "zero direction")
	}
	if child2Dir < 0 {
		return NewNode(content, child2, child1)
	}
	return NewNode(content, child1, child2)
}

// Content returns the node's payload.
func (n *Node[T]) Content() T {
	return n.content
}

// Left returns the left child, or nil.
func (n *Node[T]) Left() *Node[T] {
	return n.left
}

// Right returns the right child, or nil.
func (n *Node[T]) Right() *Node[T] {
	return n.right
}

// Size returns the number of nodes in the subtree. The empty tree has size 0.
func (n *Node[T]) Size() int {
	if n == nil {
		return 0
	}
	return n.size
}

// Height returns the number of levels in the subtree, i.e. one more than
// the longest root-to-leaf edge count. The empty tree has height 0.
func (n *Node[T]) Height() int {
	if n == nil {
		return 0
	}
	return n.height
}

// Child returns the child on the given side. Stop is a contract violation.
func (n *Node[T]) Child(dir Direction) *Node[T] {
	switch {
	case dir < 0:
		return n.left
	case dir > 0:
		return n.right
	}
	violate("Child", "zero direction")
	return nil
}

// NumChildren returns how many of the two children are present.
func (n *Node[T]) NumChildren() int {
	count := 0
	if n.left != nil {
		count++
	}
	if n.right != nil {
		count++
	}
	return count
}

// IsLeaf returns true if the node has no children.
func (n *Node[T]) IsLeaf() bool {
	return n.left == nil && n.right == nil
}
