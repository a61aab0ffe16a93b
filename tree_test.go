package arbor

import (
	"math/rand/v2"
	"testing"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestFindByIndex(t *testing.T) {
	for _, n := range []int{1, 2, 7, 31, 100} {
		tree := FromSlice(sequence(n))

		for i := 0; i < n; i++ {
			result := Find(tree, IndexFinder[int](i, Left))
			if !result.Found() {
				t.Fatalf("n=%d: rank %d from left not found", n, i)
			}
			if result.Node.Content() != i {
				t.Errorf("n=%d: rank %d from left = %d", n, i, result.Node.Content())
			}
			if result.NumToLeft != i {
				t.Errorf("n=%d: rank %d NumToLeft = %d", n, i, result.NumToLeft)
			}

			result = Find(tree, IndexFinder[int](i, Right))
			if !result.Found() {
				t.Fatalf("n=%d: rank %d from right not found", n, i)
			}
			if want := n - 1 - i; result.Node.Content() != want {
				t.Errorf("n=%d: rank %d from right = %d, want %d", n, i, result.Node.Content(), want)
			}
			if result.NumToLeft != n-1-i {
				t.Errorf("n=%d: rank %d from right NumToLeft = %d", n, i, result.NumToLeft)
			}
		}
	}
}

func TestFindRankRoundTrip(t *testing.T) {
	// Odd values, so every even key is a gap between two of them.
	items := make([]int, 50)
	for i := range items {
		items[i] = 2*i + 1
	}
	tree := FromSlice(items)

	for i, v := range items {
		result := Find(tree, intFinder(v))
		if !result.Found() || result.NumToLeft != i {
			t.Errorf("Find(%d) = found %v rank %d, want rank %d", v, result.Found(), result.NumToLeft, i)
		}
		back, ok := At(tree, result.NumToLeft)
		if !ok || back != v {
			t.Errorf("At(%d) = %d, %v, want %d", result.NumToLeft, back, ok, v)
		}
	}

	for i := 0; i <= len(items); i++ {
		result := Find(tree, intFinder(2*i))
		if result.Found() {
			t.Errorf("Find(%d) should not be found", 2*i)
		}
		if result.NumToLeft != i {
			t.Errorf("Find(%d) NumToLeft = %d, want %d", 2*i, result.NumToLeft, i)
		}
	}
}

func TestFindEmpty(t *testing.T) {
	result := Find[int](nil, intFinder(3))
	if result.Found() || result.NumToLeft != 0 {
		t.Errorf("Find on empty tree = %+v", result)
	}
}

func TestAt(t *testing.T) {
	tree := FromSlice([]string{"a", "b", "c", "d"})

	tests := []struct {
		index     int
		wantLeft  string
		wantRight string
		ok        bool
	}{
		{0, "a", "d", true},
		{1, "b", "c", true},
		{3, "d", "a", true},
		{4, "", "", false},
		{-1, "", "", false},
	}

	for _, tt := range tests {
		got, ok := At(tree, tt.index)
		if ok != tt.ok || got != tt.wantLeft {
			t.Errorf("At(%d) = %q, %v, want %q, %v", tt.index, got, ok, tt.wantLeft, tt.ok)
		}
		got, ok = AtFromRight(tree, tt.index)
		if ok != tt.ok || got != tt.wantRight {
			t.Errorf("AtFromRight(%d) = %q, %v, want %q, %v", tt.index, got, ok, tt.wantRight, tt.ok)
		}
	}
}

func TestFirstLast(t *testing.T) {
	if First[int](nil) != nil || Last[int](nil) != nil {
		t.Error("First/Last of the empty tree should be nil")
	}

	tree := FromSlice(sequence(10))
	if First(tree).Content() != 0 {
		t.Errorf("First() = %d, want 0", First(tree).Content())
	}
	if Last(tree).Content() != 9 {
		t.Errorf("Last() = %d, want 9", Last(tree).Content())
	}
}

func TestFurthestInserterNeverStops(t *testing.T) {
	tree := FromSlice(sequence(7))
	for _, dir := range []Direction{Left, Right} {
		result := Find(tree, FurthestInserter[int](dir))
		if result.Found() {
			t.Errorf("FurthestInserter(%v) stopped at %d", dir, result.Node.Content())
		}
		want := 0
		if dir == Right {
			want = 7
		}
		if result.NumToLeft != want {
			t.Errorf("FurthestInserter(%v) NumToLeft = %d, want %d", dir, result.NumToLeft, want)
		}
	}
}

func TestDirectiveContracts(t *testing.T) {
	expectContractViolation(t, "IndexFinder", func() { IndexFinder[int](0, Stop) })
	expectContractViolation(t, "FurthestFinder", func() { FurthestFinder[int](Stop) })
	expectContractViolation(t, "FurthestInserter", func() { FurthestInserter[int](Stop) })

	expectContractViolation(t, "IndexFinder", func() { IndexFinder[int](0, Left)(nil) })
	expectContractViolation(t, "FurthestFinder", func() { FurthestFinder[int](Left)(nil) })
	expectContractViolation(t, "FurthestInserter", func() { FurthestInserter[int](Right)(nil) })
}

func TestFindIsRepeatable(t *testing.T) {
	// Odd keys 1..99, built two ways.
	items := make([]int, 50)
	for i := range items {
		items[i] = 2*i + 1
	}
	var inserted *Node[int]
	rng := rand.New(rand.NewPCG(5, 5))
	for _, i := range rng.Perm(len(items)) {
		v := items[i]
		next, err := InsertOrReplace(inserted, intFinder(v), v, ThrowIfFound)
		if err != nil {
			t.Fatalf("inserting %d: %v", v, err)
		}
		inserted = next
	}

	trees := []struct {
		name string
		tree *Node[int]
	}{
		{"bulk built", FromSlice(items)},
		{"inserted", inserted},
	}

	tests := []struct {
		name   string
		finder func() Finder[int]
		found  bool
	}{
		{"present key", func() Finder[int] { return intFinder(37) }, true},
		{"smallest key", func() Finder[int] { return intFinder(1) }, true},
		{"missing key", func() Finder[int] { return intFinder(38) }, false},
		{"past the end", func() Finder[int] { return intFinder(500) }, false},
		{"furthest left", func() Finder[int] { return FurthestFinder[int](Left) }, true},
		{"furthest right", func() Finder[int] { return FurthestFinder[int](Right) }, true},
	}

	for _, tr := range trees {
		for _, tt := range tests {
			t.Run(tr.name+"/"+tt.name, func(t *testing.T) {
				finder := tt.finder()
				first := Find(tr.tree, finder)
				second := Find(tr.tree, finder)

				if first.Found() != tt.found {
					t.Fatalf("Found() = %v, want %v", first.Found(), tt.found)
				}
				if first.Node != second.Node {
					t.Errorf("Node differs between calls: %p vs %p", first.Node, second.Node)
				}
				if first.NumToLeft != second.NumToLeft {
					t.Errorf("NumToLeft = %d then %d", first.NumToLeft, second.NumToLeft)
				}
			})
		}
	}
}
