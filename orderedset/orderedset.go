// Package orderedset implements a sorted-vector set: a contiguous,
// insertion-sorted slice with no duplicates, iteration order equal to sort
// order, and O(log n) membership via binary search.
//
// This is the determinism primitive the rest of the module relies on:
// instead of sorting results at read time, this package keeps the sort
// invariant standing at all times, which connectivity.Connectivity needs
// so that its Bonds() and BondOrders() results stay index-aligned across
// inserts and removes (spec section 3.8).
package orderedset

import "sort"

// Set is a sorted, deduplicated contiguous sequence of T, ordered by less.
type Set[T any] struct {
	items []T
	less  func(a, b T) bool
}

// New builds an empty Set ordered by less.
func New[T any](less func(a, b T) bool) *Set[T] {
	return &Set[T]{less: less}
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return len(s.items) }

// search returns the lower-bound index: the first position i such that
// !less(items[i], v), i.e. where v would be inserted to keep order.
func (s *Set[T]) search(v T) int {
	return sort.Search(len(s.items), func(i int) bool {
		return !s.less(s.items[i], v)
	})
}

// equal reports whether a and b are mutually non-less, i.e. equivalent
// under the ordering (this package only requires a strict weak order, not
// a separate equality predicate).
func (s *Set[T]) equal(a, b T) bool {
	return !s.less(a, b) && !s.less(b, a)
}

// Find returns the index of v and true if present, or (-1, false).
func (s *Set[T]) Find(v T) (int, bool) {
	i := s.search(v)
	if i < len(s.items) && s.equal(s.items[i], v) {
		return i, true
	}
	return -1, false
}

// Insert inserts v if absent, keeping the sort invariant. Returns the
// final index of v and whether an insertion actually happened.
func (s *Set[T]) Insert(v T) (int, bool) {
	i := s.search(v)
	if i < len(s.items) && s.equal(s.items[i], v) {
		return i, false
	}
	s.items = append(s.items, v)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	return i, true
}

// Erase removes the element at index, shifting later elements down. It is
// a no-op if index is out of range.
func (s *Set[T]) Erase(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
}

// EraseValue removes v if present and reports whether it was found.
func (s *Set[T]) EraseValue(v T) bool {
	i, ok := s.Find(v)
	if !ok {
		return false
	}
	s.Erase(i)
	return true
}

// AsSlice returns the internal slice by reference: callers may index it
// (e.g. to align a parallel array by rank) but must not break the sort
// invariant if they mutate it. Named AsSlice rather than AsVec/AsMutableVec
// (spec section 3.2's C++-flavoured names) per Go convention.
func (s *Set[T]) AsSlice() []T { return s.items }
