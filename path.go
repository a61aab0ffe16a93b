package arbor

import "github.com/phroun/arbor/plist"

// Path returns the nodes visited by the directive, deepest first: the head
// is the node it stopped at, or the last node before it ran into an empty
// subtree, and the last element is the root. found is true only in the
// first case. The empty tree gives the empty list.
//
// Paths share their tails, so extending one never copies it.
func Path[T any](tree *Node[T], finder Finder[T]) (path *plist.List[*Node[T]], found bool) {
	for n := tree; n != nil; {
		path = plist.Push(n, path)
		dir := finder(n)
		if dir == Stop {
			return path, true
		}
		n = n.Child(dir)
	}
	return path, false
}
