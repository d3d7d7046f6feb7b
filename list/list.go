// Package list implements a relative-index doubly-linked list: the Go
// analogue of REL_LIST_* from the original C headers. Every link is a
// 1-origin ridx.Index into a caller-owned arena; NIL (0) terminates the
// list in both directions.
package list

import "github.com/rpcpool/relidx/ridx"

// Entry is the embeddable link field.
type Entry struct {
	next ridx.Index
	prev ridx.Index
}

// Linker constrains *T to expose its Entry.
type Linker[T any] interface {
	*T
	ListEntry() *Entry
}

// Head is the list head.
type Head struct {
	first ridx.Index
}

func (h *Head) Init()            { h.first = ridx.Nil }
func (h *Head) Empty() bool      { return h.first == ridx.Nil }
func (h *Head) First() ridx.Index { return h.first }

func at[T any, PT Linker[T]](arena []T, idx ridx.Index) PT {
	return PT(&arena[ridx.ToSlot(idx)])
}

// Next returns the index following elm, or ridx.Nil at the tail.
func Next[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).ListEntry().next
}

// Prev returns the index preceding elm, or ridx.Nil at the head.
func Prev[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).ListEntry().prev
}

// InsertHead makes elm the new first element.
func InsertHead[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	first := head.first
	e.ListEntry().prev = ridx.Nil
	e.ListEntry().next = first
	if first != ridx.Nil {
		at[T, PT](arena, first).ListEntry().prev = elm
	}
	head.first = elm
}

// InsertAfter inserts elm immediately after listelm.
func InsertAfter[T any, PT Linker[T]](head *Head, arena []T, listelm, elm ridx.Index) {
	le := at[T, PT](arena, listelm)
	e := at[T, PT](arena, elm)
	next := le.ListEntry().next
	e.ListEntry().prev = listelm
	e.ListEntry().next = next
	le.ListEntry().next = elm
	if next != ridx.Nil {
		at[T, PT](arena, next).ListEntry().prev = elm
	}
}

// InsertBefore inserts elm immediately before listelm.
func InsertBefore[T any, PT Linker[T]](head *Head, arena []T, listelm, elm ridx.Index) {
	le := at[T, PT](arena, listelm)
	e := at[T, PT](arena, elm)
	prev := le.ListEntry().prev
	e.ListEntry().prev = prev
	e.ListEntry().next = listelm
	le.ListEntry().prev = elm
	if prev != ridx.Nil {
		at[T, PT](arena, prev).ListEntry().next = elm
	} else {
		head.first = elm
	}
}

// Remove unlinks elm in O(1).
func Remove[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	next := e.ListEntry().next
	prev := e.ListEntry().prev
	if next != ridx.Nil {
		at[T, PT](arena, next).ListEntry().prev = prev
	}
	if prev != ridx.Nil {
		at[T, PT](arena, prev).ListEntry().next = next
	} else {
		head.first = next
	}
	e.ListEntry().next = ridx.Nil
	e.ListEntry().prev = ridx.Nil
}

// Swap exchanges the contents of head1 and head2.
func Swap[T any, PT Linker[T]](head1, head2 *Head, arena []T) {
	f1, f2 := head1.first, head2.first
	head1.first, head2.first = f2, f1
	if head1.first != ridx.Nil {
		at[T, PT](arena, head1.first).ListEntry().prev = ridx.Nil
	}
	if head2.first != ridx.Nil {
		at[T, PT](arena, head2.first).ListEntry().prev = ridx.Nil
	}
}

// ForEach calls fn for every element from First to the tail, in order.
func ForEach[T any, PT Linker[T]](head *Head, arena []T, fn func(ridx.Index)) {
	for cur := head.first; cur != ridx.Nil; cur = Next[T, PT](arena, cur) {
		fn(cur)
	}
}

// ForEachSafe calls fn for every element, pre-fetching the successor before
// calling fn so fn may freely remove the current element.
func ForEachSafe[T any, PT Linker[T]](head *Head, arena []T, fn func(ridx.Index)) {
	cur := head.first
	for cur != ridx.Nil {
		next := Next[T, PT](arena, cur)
		fn(cur)
		cur = next
	}
}
