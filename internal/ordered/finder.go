// Package ordered builds arbor directives for trees kept in key order.
//
// The tree engine never compares content; these helpers are the thin
// comparator layer the tools put on top of it.
package ordered

import (
	"golang.org/x/exp/constraints"

	"github.com/phroun/arbor"
)

// Finder steers toward the node equal to key in a tree of ordered values.
func Finder[K constraints.Ordered](key K) arbor.Finder[K] {
	return FinderFunc(key, func(k K) K { return k })
}

// FinderFunc steers toward the node whose key, as extracted by keyOf,
// equals key.
func FinderFunc[T any, K constraints.Ordered](key K, keyOf func(T) K) arbor.Finder[T] {
	return func(n *arbor.Node[T]) arbor.Direction {
		return compare(key, keyOf(n.Content()))
	}
}

func compare[K constraints.Ordered](a, b K) arbor.Direction {
	switch {
	case a < b:
		return arbor.Left
	case a > b:
		return arbor.Right
	}
	return arbor.Stop
}

// Insert adds key to an ordered set. It fails with arbor.ErrDuplicate if
// the key is already present.
func Insert[K constraints.Ordered](tree *arbor.Node[K], key K) (*arbor.Node[K], error) {
	return arbor.InsertOrReplace(tree, Finder(key), key, arbor.ThrowIfFound)
}

// Upsert adds key to an ordered set, replacing an equal key if present.
func Upsert[K constraints.Ordered](tree *arbor.Node[K], key K) *arbor.Node[K] {
	// ReplaceIfFound cannot fail.
	out, _ := arbor.InsertOrReplace(tree, Finder(key), key, arbor.ReplaceIfFound)
	return out
}

// Delete removes key from an ordered set. It fails with arbor.ErrNotFound
// if the key is absent.
func Delete[K constraints.Ordered](tree *arbor.Node[K], key K) (*arbor.Node[K], error) {
	result, err := arbor.Remove(tree, Finder(key))
	if err != nil {
		return nil, err
	}
	return result.Tree, nil
}

// Rank returns the number of keys less than key, and whether key is present.
func Rank[K constraints.Ordered](tree *arbor.Node[K], key K) (int, bool) {
	result := arbor.Find(tree, Finder(key))
	return result.NumToLeft, result.Found()
}

// Contains reports whether key is present.
func Contains[K constraints.Ordered](tree *arbor.Node[K], key K) bool {
	return arbor.Find(tree, Finder(key)).Found()
}
