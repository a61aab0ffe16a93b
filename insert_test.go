package arbor

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertSequenceStaysBalanced(t *testing.T) {
	var tree *Node[int]
	for i := 0; i < 10; i++ {
		next, err := InsertOrReplace(tree, FurthestInserter[int](Right), i, ThrowIfFound)
		require.NoError(t, err)
		require.NoError(t, Validate(next), "after inserting %d", i)
		require.True(t, IsBalancedRecursively(next))
		tree = next
	}

	assert.Equal(t, 10, tree.Size())
	assert.Equal(t, sequence(10), ToSlice(tree))
	assert.LessOrEqual(t, tree.Height(), 4)
}

func TestInsertModes(t *testing.T) {
	base := FromSlice([]int{10, 20, 30})

	tests := []struct {
		name    string
		key     int
		content int
		mode    InsertMode
		want    []int
		wantErr error
	}{
		{"throw on new key", 25, 25, ThrowIfFound, []int{10, 20, 25, 30}, nil},
		{"throw on existing key", 20, 20, ThrowIfFound, nil, ErrDuplicate},
		{"insert left of found", 20, 19, InsertLeftIfFound, []int{10, 19, 20, 30}, nil},
		{"insert right of found", 20, 21, InsertRightIfFound, []int{10, 20, 21, 30}, nil},
		{"insert left reaches gap", 15, 15, InsertLeftIfFound, []int{10, 15, 20, 30}, nil},
		{"replace found", 20, 22, ReplaceIfFound, []int{10, 22, 30}, nil},
		{"replace inserts at gap", 40, 40, ReplaceIfFound, []int{10, 20, 30, 40}, nil},
		{"replace only found", 30, 31, ReplaceOnly, []int{10, 20, 31}, nil},
		{"replace only at gap", 5, 5, ReplaceOnly, nil, ErrNotFound},
		{"invalid mode", 5, 5, InsertMode(7), nil, ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InsertOrReplace(base, intFinder(tt.key), tt.content, tt.mode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ToSlice(got))
			assert.NoError(t, Validate(got))

			// The input tree is never touched.
			assert.Equal(t, []int{10, 20, 30}, ToSlice(base))
		})
	}
}

func TestInsertModeString(t *testing.T) {
	assert.Equal(t, "throw-if-found", ThrowIfFound.String())
	assert.Equal(t, "replace-only", ReplaceOnly.String())
	assert.Equal(t, "InsertMode(9)", InsertMode(9).String())
}

func TestInsertWrappers(t *testing.T) {
	tree := FromSlice([]int{1, 2, 3})

	_, err := Insert(tree, intFinder(2), 2, Stop)
	assert.ErrorIs(t, err, ErrDuplicate)

	left, err := Insert(tree, intFinder(2), 100, Left)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 100, 2, 3}, ToSlice(left))

	right, err := Insert(tree, intFinder(2), 100, Right)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 100, 3}, ToSlice(right))

	replaced, err := Replace(tree, intFinder(3), 33)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 33}, ToSlice(replaced))

	_, err = Replace(tree, intFinder(4), 4)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []int{1, 2, 3, 4}, ToSlice(Append(tree, 4)))
	assert.Equal(t, []int{0, 1, 2, 3}, ToSlice(Prepend(tree, 0)))
	assert.Equal(t, []int{7}, ToSlice(Append[int](nil, 7)))
}

func TestInsertAt(t *testing.T) {
	var tree *Node[string]
	var want []string

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		index := rng.IntN(len(want) + 1)
		content := string(rune('a' + i%26))

		next, err := InsertAt(tree, index, content)
		require.NoError(t, err)
		want = slices.Insert(want, index, content)

		require.Equal(t, want, ToSlice(next))
		require.NoError(t, Validate(next))
		got, ok := At(next, index)
		require.True(t, ok)
		require.Equal(t, content, got)
		tree = next
	}

	_, err := InsertAt(tree, -1, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = InsertAt(tree, tree.Size()+1, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertPersistence(t *testing.T) {
	versions := []*Node[int]{nil}
	for i := 0; i < 64; i++ {
		versions = append(versions, Append(versions[len(versions)-1], i))
	}

	for size, tree := range versions {
		assert.Equal(t, sequence(size), ToSlice(tree), "version %d", size)
		assert.NoError(t, Validate(tree))
	}
}

func TestInsertSharesUntouchedSubtrees(t *testing.T) {
	tree := FromSlice(sequence(15))
	next := Append(tree, 15)

	// Only the right spine is rebuilt.
	assert.Same(t, tree.Left(), next.Left())
	assert.NotSame(t, tree.Right(), next.Right())
}

func TestRandomInserts(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	var tree *Node[int]
	present := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		key := rng.IntN(1000)
		next, err := InsertOrReplace(tree, intFinder(key), key, ThrowIfFound)
		if present[key] {
			require.ErrorIs(t, err, ErrDuplicate)
			continue
		}
		require.NoError(t, err)
		present[key] = true
		tree = next
	}

	require.NoError(t, Validate(tree))
	got := ToSlice(tree)
	assert.True(t, slices.IsSorted(got))
	assert.Len(t, got, len(present))
}
