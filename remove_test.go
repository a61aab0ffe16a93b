package arbor

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove(t *testing.T) {
	tests := []struct {
		name     string
		items    []int
		key      int
		want     []int
		wantRoot int
	}{
		{"only node", []int{1}, 1, nil, 0},
		{"leaf", []int{1, 2, 3}, 3, []int{1, 2}, 2},
		{"node with one child", []int{1, 2, 3, 4}, 2, []int{1, 3, 4}, 3},
		// Equal sides pull the successor up from the right.
		{"two children, tie", []int{1, 2, 3}, 2, []int{1, 3}, 3},
		// A larger left side gives up the predecessor instead.
		{"two children, larger left", []int{1, 2, 3, 4}, 3, []int{1, 2, 4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := FromSlice(tt.items)

			result, err := Remove(tree, intFinder(tt.key))
			require.NoError(t, err)
			require.NotNil(t, result.Removed)
			assert.Equal(t, tt.key, result.Removed.Content())

			if tt.want == nil {
				assert.Nil(t, result.Tree)
			} else {
				assert.Equal(t, tt.want, ToSlice(result.Tree))
				assert.Equal(t, tt.wantRoot, result.Tree.Content())
			}
			assert.NoError(t, Validate(result.Tree))

			// The input tree is never touched.
			assert.Equal(t, tt.items, ToSlice(tree))
		})
	}
}

func TestRemoveNotFound(t *testing.T) {
	_, err := Remove[int](nil, intFinder(1))
	assert.ErrorIs(t, err, ErrNotFound)

	tree := FromSlice([]int{1, 2, 3})
	result, err := Remove(tree, intFinder(5))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, result.Tree)
	assert.Nil(t, result.Removed)
}

func TestRemoveAt(t *testing.T) {
	tree := FromSlice([]string{"a", "b", "c", "d", "e"})

	result, err := RemoveAt(tree, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", result.Removed.Content())
	assert.Equal(t, []string{"a", "c", "d", "e"}, ToSlice(result.Tree))

	_, err = RemoveAt(tree, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = RemoveAt(tree, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveUntilEmpty(t *testing.T) {
	tree := FromSlice(sequence(100))
	rng := rand.New(rand.NewPCG(7, 7))

	want := sequence(100)
	for tree != nil {
		index := rng.IntN(tree.Size())
		result, err := RemoveAt(tree, index)
		require.NoError(t, err)
		require.Equal(t, want[index], result.Removed.Content())
		want = slices.Delete(want, index, index+1)

		tree = result.Tree
		require.NoError(t, Validate(tree))
		require.Equal(t, len(want), tree.Size())
	}
	assert.Empty(t, want)
}

func TestRandomInsertsAndRemovals(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 14))

	var tree *Node[int]
	var want []int
	for i := 0; i < 5000; i++ {
		key := rng.IntN(500)
		pos, present := slices.BinarySearch(want, key)

		if rng.IntN(2) == 0 {
			next, err := InsertOrReplace(tree, intFinder(key), key, ThrowIfFound)
			if present {
				require.ErrorIs(t, err, ErrDuplicate)
				continue
			}
			require.NoError(t, err)
			want = slices.Insert(want, pos, key)
			tree = next
		} else {
			result, err := Remove(tree, intFinder(key))
			if !present {
				require.ErrorIs(t, err, ErrNotFound)
				continue
			}
			require.NoError(t, err)
			want = slices.Delete(want, pos, pos+1)
			tree = result.Tree
		}

		require.NoError(t, Validate(tree))
	}

	if len(want) == 0 {
		assert.Nil(t, tree)
	} else {
		assert.Equal(t, want, ToSlice(tree))
	}
}
