package arbor

// ConstructFromSlice builds a minimum-height tree holding items[start:end]
// in order. The midpoint becomes the root and each half is built the same
// way, so the result is balanced without any rotations. A negative end
// means len(items).
func ConstructFromSlice[T any](items []T, start, end int) *Node[T] {
	if end < 0 {
		end = len(items)
	}
	if start < 0 {
		start = 0
	}
	if end > len(items) {
		end = len(items)
	}
	return constructFromSlice(items, start, end)
}

func constructFromSlice[T any](items []T, start, end int) *Node[T] {
	if end <= start {
		return nil
	}
	mid := (start + end) / 2
	return NewNode(
		items[mid],
		constructFromSlice(items, start, mid),
		constructFromSlice(items, mid+1, end),
	)
}

// FromSlice builds a minimum-height tree holding all of items in order.
func FromSlice[T any](items []T) *Node[T] {
	return constructFromSlice(items, 0, len(items))
}
