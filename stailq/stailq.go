// Package stailq implements a relative-index singly-linked tail queue: the
// Go analogue of REL_STAILQ_* from the original C headers. The head tracks
// both First and Last so InsertTail is O(1).
package stailq

import "github.com/rpcpool/relidx/ridx"

// Entry is the embeddable link field.
type Entry struct {
	next ridx.Index
}

// Linker constrains *T to expose its Entry.
type Linker[T any] interface {
	*T
	StailqEntry() *Entry
}

// Head tracks the first and last elements.
type Head struct {
	first ridx.Index
	last  ridx.Index
}

func (h *Head) Init() {
	h.first = ridx.Nil
	h.last = ridx.Nil
}

func (h *Head) Empty() bool       { return h.first == ridx.Nil }
func (h *Head) First() ridx.Index { return h.first }
func (h *Head) Last() ridx.Index  { return h.last }

func at[T any, PT Linker[T]](arena []T, idx ridx.Index) PT {
	return PT(&arena[ridx.ToSlot(idx)])
}

// Next returns the index following elm, or ridx.Nil at the tail.
func Next[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).StailqEntry().next
}

// InsertHead makes elm the new first element.
func InsertHead[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	first := head.first
	e.StailqEntry().next = first
	head.first = elm
	if first == ridx.Nil {
		head.last = elm
	}
}

// InsertTail appends elm after the current last element.
func InsertTail[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	e.StailqEntry().next = ridx.Nil
	if head.last != ridx.Nil {
		at[T, PT](arena, head.last).StailqEntry().next = elm
	} else {
		head.first = elm
	}
	head.last = elm
}

// InsertAfter inserts elm immediately after tqelm.
func InsertAfter[T any, PT Linker[T]](head *Head, arena []T, tqelm, elm ridx.Index) {
	t := at[T, PT](arena, tqelm)
	e := at[T, PT](arena, elm)
	next := t.StailqEntry().next
	e.StailqEntry().next = next
	t.StailqEntry().next = elm
	if next == ridx.Nil {
		head.last = elm
	}
}

// RemoveHead drops the first element. No-op on an empty queue.
func RemoveHead[T any, PT Linker[T]](head *Head, arena []T) {
	first := head.first
	if first == ridx.Nil {
		return
	}
	next := at[T, PT](arena, first).StailqEntry().next
	head.first = next
	if next == ridx.Nil {
		head.last = ridx.Nil
	}
}

// RemoveAfter drops the element following elm. No-op if elm has no
// successor.
func RemoveAfter[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	rem := e.StailqEntry().next
	if rem == ridx.Nil {
		return
	}
	nn := at[T, PT](arena, rem).StailqEntry().next
	e.StailqEntry().next = nn
	if nn == ridx.Nil {
		head.last = elm
	}
}

// Remove walks the queue from the head to unlink elm. O(n).
func Remove[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	if head.first == elm {
		RemoveHead[T, PT](head, arena)
		return
	}
	cur := head.first
	for cur != ridx.Nil {
		if at[T, PT](arena, cur).StailqEntry().next == elm {
			RemoveAfter[T, PT](head, arena, cur)
			return
		}
		cur = Next[T, PT](arena, cur)
	}
}

// RemoveHeadUntil drops every element from the current head up to and
// including elm, leaving elm's successor as the new first.
func RemoveHeadUntil[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	var next ridx.Index
	if elm != ridx.Nil {
		next = at[T, PT](arena, elm).StailqEntry().next
	}
	head.first = next
	if next == ridx.Nil {
		head.last = ridx.Nil
	}
}

// Concat moves every element of head2 onto the tail of head1, leaving
// head2 empty.
func Concat[T any, PT Linker[T]](head1, head2 *Head, arena []T) {
	if head2.Empty() {
		return
	}
	if !head1.Empty() {
		at[T, PT](arena, head1.last).StailqEntry().next = head2.first
	} else {
		head1.first = head2.first
	}
	head1.last = head2.last
	head2.first = ridx.Nil
	head2.last = ridx.Nil
}

// Swap exchanges the contents of head1 and head2.
func Swap(head1, head2 *Head) {
	head1.first, head2.first = head2.first, head1.first
	head1.last, head2.last = head2.last, head1.last
}

// ForEach calls fn for every element from First to Last, in order.
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
