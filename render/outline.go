package render

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/phroun/arbor"
)

// Outline prints the tree as an indented outline, one node per line, with
// each child tagged by its side, its subtree size and its height:
//
//	4000 (n=7 h=3)
//	├── L 20 (n=3 h=2)
//	│   ├── L 1
//	│   └── R 300
//	└── R 600000 (n=3 h=2)
//	    ...
//
// A node with a single child lists only that child.
func Outline[T any](root *arbor.Node[T], label LabelFunc[T]) string {
	if root == nil {
		return NullTree
	}
	if label == nil {
		label = Sprint[T]
	}
	tree := treeprint.NewWithRoot(outlineLabel(root, label, ""))
	outlineChildren(tree, root, label)
	return tree.String()
}

func outlineLabel[T any](n *arbor.Node[T], label LabelFunc[T], side string) string {
	text := label(n.Content())
	if side != "" {
		text = side + " " + text
	}
	if n.IsLeaf() {
		return text
	}
	return fmt.Sprintf("%s (n=%d h=%d)", text, n.Size(), n.Height())
}

func outlineChildren[T any](tree treeprint.Tree, n *arbor.Node[T], label LabelFunc[T]) {
	for _, side := range []arbor.Direction{arbor.Left, arbor.Right} {
		child := n.Child(side)
		if child == nil {
			continue
		}
		tag := "L"
		if side == arbor.Right {
			tag = "R"
		}
		if child.IsLeaf() {
			tree.AddNode(outlineLabel(child, label, tag))
			continue
		}
		branch := tree.AddBranch(outlineLabel(child, label, tag))
		outlineChildren(branch, child, label)
	}
}
