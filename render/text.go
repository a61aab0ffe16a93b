// Package render draws arbor trees as text for debugging and tools.
package render

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/phroun/arbor"
)

// minSpaceBetweenSubtrees is the gap kept between sibling subtrees. It must
// be greater than zero so that edges have somewhere to go.
const minSpaceBetweenSubtrees = 2

// NullTree is what the renderers return for the empty tree.
const NullTree = "NULL TREE"

// LabelFunc returns the text shown for a node's content.
type LabelFunc[T any] func(content T) string

// Sprint labels content with fmt.Sprint.
func Sprint[T any](content T) string {
	return fmt.Sprint(content)
}

// dimensions describes the box a subtree occupies. X positions are relative
// to the left edge of the box.
type dimensions struct {
	width       int
	height      int
	rightWidth  int
	rootX       int
	leftChildX  int
	rightChildX int
}

// drawing holds the state of one DrawAsText call.
type drawing[T any] struct {
	label LabelFunc[T]

	// Shared subtrees are measured once.
	memo   map[*arbor.Node[T]]dimensions
	labels map[*arbor.Node[T]][]string

	lines [][]string // one grapheme cluster per cell
}

// DrawAsText lays the tree out as ASCII art framed by '|' columns, with
// '/' and '\' edges and '‾' runs joining a node to its children:
//
//	|       4000               |
//	|   /‾‾‾    ‾‾‾‾‾\         |
//	|  20          600000      |
//	| /  ‾\       /      ‾\    |
//	|1    300  50000   -7000000|
func DrawAsText[T any](root *arbor.Node[T], label LabelFunc[T]) string {
	if root == nil {
		return NullTree
	}
	if label == nil {
		label = Sprint[T]
	}

	d := &drawing[T]{
		label:  label,
		memo:   make(map[*arbor.Node[T]]dimensions),
		labels: make(map[*arbor.Node[T]][]string),
	}

	dims := d.dimensions(root)
	d.lines = make([][]string, dims.height)
	for r := range d.lines {
		line := make([]string, dims.width+2)
		line[0] = "|"
		for c := 1; c <= dims.width; c++ {
			line[c] = " "
		}
		line[dims.width+1] = "|"
		d.lines[r] = line
	}

	d.draw(root, 1, 0, false)

	var sb strings.Builder
	for _, line := range d.lines {
		for _, cell := range line {
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// labelCells splits a node's label into grapheme clusters.
func (d *drawing[T]) labelCells(n *arbor.Node[T]) []string {
	if cells, ok := d.labels[n]; ok {
		return cells
	}
	var cells []string
	gr := uniseg.NewGraphemes(d.label(n.Content()))
	for gr.Next() {
		cells = append(cells, gr.Str())
	}
	d.labels[n] = cells
	return cells
}

func (d *drawing[T]) dimensions(n *arbor.Node[T]) dimensions {
	if n == nil {
		return dimensions{}
	}
	if dims, ok := d.memo[n]; ok {
		return dims
	}

	left := d.dimensions(n.Left())
	right := d.dimensions(n.Right())

	var dims dimensions

	// Labels are padded to an even width so the root can be centred.
	labelWidth := len(d.labelCells(n))
	dims.width = max(
		labelWidth+labelWidth%2,
		left.width+minSpaceBetweenSubtrees+right.width,
		1,
	)

	if n.IsLeaf() {
		dims.height = 1
	} else {
		dims.height = 2 + max(left.height, right.height)
	}

	dims.rightWidth = right.width

	space := dims.width - left.width - right.width
	dims.rootX = left.width + space/2

	if n.Left() != nil {
		dims.leftChildX = left.rootX
	} else {
		dims.leftChildX = dims.rootX
	}

	if n.Right() != nil {
		dims.rightChildX = left.width + space + right.rootX
	} else {
		dims.rightChildX = dims.rootX
	}

	d.memo[n] = dims
	return dims
}

func (d *drawing[T]) put(x, y int, cell string) {
	d.lines[y][x] = cell
}

func (d *drawing[T]) draw(n *arbor.Node[T], startX, startY int, isLeftSubtree bool) {
	if n == nil {
		return
	}
	dims := d.dimensions(n)

	leftStartX := startX
	rightStartX := startX + dims.width - dims.rightWidth
	leftEdgeX := startX + dims.leftChildX
	rightEdgeX := startX + dims.rightChildX - 1

	if n.Right() != nil {
		d.put(rightEdgeX, startY+1, "\\")
		d.draw(n.Right(), rightStartX, startY+2, false)
	}
	if n.Left() != nil {
		d.put(leftEdgeX, startY+1, "/")
		d.draw(n.Left(), leftStartX, startY+2, true)
	}

	// Odd-width labels lean toward the parent's edge.
	label := d.labelCells(n)
	labelLen := len(label)
	labelStartX := startX + dims.rootX - labelLen/2
	if isLeftSubtree {
		labelStartX -= labelLen % 2
	}
	if labelStartX < startX {
		labelStartX = startX
	}
	if labelStartX+labelLen > startX+dims.width {
		labelStartX = startX + dims.width - labelLen
	}
	for i, cell := range label {
		d.put(labelStartX+i, startY, cell)
	}

	// Overscores run between the two edges, leaving a gap under the label.
	for x := leftEdgeX + 1; x < rightEdgeX; x++ {
		if labelStartX <= x && x < labelStartX+labelLen {
			d.put(x, startY+1, " ")
		} else {
			d.put(x, startY+1, "‾")
		}
	}
}
