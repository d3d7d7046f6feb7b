// Package slist implements a relative-index singly-linked list: the Go
// analogue of REL_SLIST_* from the original C headers. Every link is a
// 1-origin ridx.Index into a caller-owned arena; NIL (0) terminates the
// list. There is no tail pointer, matching the original.
package slist

import "github.com/rpcpool/relidx/ridx"

// Entry is the embeddable link field. An element type embeds Entry (or
// holds one) and exposes it through the Linker constraint below.
type Entry struct {
	next ridx.Index
}

// Linker constrains *T to expose its Entry, the Go analogue of passing a
// field name to the REL_SLIST_* macros.
type Linker[T any] interface {
	*T
	SlistEntry() *Entry
}

// Head is the list head: just the index of the first element.
type Head struct {
	first ridx.Index
}

// Init resets head to the empty list.
func (h *Head) Init() {
	h.first = ridx.Nil
}

// Empty reports whether the list has no elements.
func (h *Head) Empty() bool {
	return h.first == ridx.Nil
}

// First returns the index of the first element, or ridx.Nil if empty.
func (h *Head) First() ridx.Index {
	return h.first
}

// Next returns the index following elm, or ridx.Nil at the end of the list.
func Next[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	e := PT(&arena[ridx.ToSlot(elm)])
	return e.SlistEntry().next
}

// InsertHead makes elm the new first element.
func InsertHead[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := PT(&arena[ridx.ToSlot(elm)])
	e.SlistEntry().next = head.first
	head.first = elm
}

// InsertAfter inserts elm immediately after after.
func InsertAfter[T any, PT Linker[T]](arena []T, after, elm ridx.Index) {
	a := PT(&arena[ridx.ToSlot(after)])
	e := PT(&arena[ridx.ToSlot(elm)])
	e.SlistEntry().next = a.SlistEntry().next
	a.SlistEntry().next = elm
}

// RemoveHead drops the first element. No-op on an empty list.
func RemoveHead[T any, PT Linker[T]](head *Head, arena []T) {
	first := head.first
	if first == ridx.Nil {
		return
	}
	e := PT(&arena[ridx.ToSlot(first)])
	head.first = e.SlistEntry().next
}

// RemoveAfter drops the element following elm. No-op if elm has no
// successor.
func RemoveAfter[T any, PT Linker[T]](arena []T, elm ridx.Index) {
	e := PT(&arena[ridx.ToSlot(elm)])
	rem := e.SlistEntry().next
	if rem == ridx.Nil {
		return
	}
	r := PT(&arena[ridx.ToSlot(rem)])
	e.SlistEntry().next = r.SlistEntry().next
}

// Remove walks the list from the head to unlink elm. O(n); prefer
// RemoveHead/RemoveAfter when the predecessor is already known.
func Remove[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	if head.first == elm {
		RemoveHead[T, PT](head, arena)
		return
	}
	cur := head.first
	for cur != ridx.Nil {
		if Next[T, PT](arena, cur) == elm {
			RemoveAfter[T, PT](arena, cur)
			return
		}
		cur = Next[T, PT](arena, cur)
	}
}

// ForEach calls fn for every element from First to the end, in order.
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
