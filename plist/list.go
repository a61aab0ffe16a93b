// Package plist provides a persistent, immutable, singly-linked list.
//
// Pushing onto a list returns a new list that shares the old one as its
// tail; nothing is ever modified in place. A nil *List is the empty list.
package plist

import (
	"fmt"
	"iter"
	"strings"
)

// List is one cell of a persistent list.
type List[T any] struct {
	head T
	rest *List[T]
	len  int
}

// Push returns a new list with head in front of rest.
func Push[T any](head T, rest *List[T]) *List[T] {
	return &List[T]{
		head: head,
		rest: rest,
		len:  rest.Len() + 1,
	}
}

// Of builds a list holding items in the given order.
func Of[T any](items ...T) *List[T] {
	var l *List[T]
	for i := len(items) - 1; i >= 0; i-- {
		l = Push(items[i], l)
	}
	return l
}

// Head returns the first element. Calling Head on the empty list panics.
func (l *List[T]) Head() T {
	return l.head
}

// Rest returns the list after the first element.
func (l *List[T]) Rest() *List[T] {
	if l == nil {
		return nil
	}
	return l.rest
}

// Len returns the number of elements. The empty list has length 0.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.len
}

// IsEmpty returns true for the empty list.
func (l *List[T]) IsEmpty() bool {
	return l == nil
}

// All iterates the elements from head to tail.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for c := l; c != nil; c = c.rest {
			if !yield(c.head) {
				return
			}
		}
	}
}

// Slice copies the elements into a new slice, head first.
func (l *List[T]) Slice() []T {
	out := make([]T, 0, l.Len())
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

// Reverse returns a new list with the elements in the opposite order.
func (l *List[T]) Reverse() *List[T] {
	var out *List[T]
	for v := range l.All() {
		out = Push(v, out)
	}
	return out
}

// String formats the list as nested cells, e.g. LL(1, LL(2, nullptr)).
func (l *List[T]) String() string {
	return Format(l, "LL")
}

// Format is String with a custom cell prefix.
func Format[T any](l *List[T], prefix string) string {
	var sb strings.Builder
	depth := 0
	for c := l; c != nil; c = c.rest {
		fmt.Fprintf(&sb, "%s(%v, ", prefix, c.head)
		depth++
	}
	sb.WriteString("nullptr")
	sb.WriteString(strings.Repeat(")", depth))
	return sb.String()
}
