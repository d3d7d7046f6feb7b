// Package circleq implements a relative-index circular doubly-linked queue:
// the Go analogue of REL_CIRCLEQ_* from the original C headers. The ring
// has no NIL terminator internally — Next/Prev always resolve to a live
// element once the ring is non-empty — so forward iteration must stop by
// comparing against the head's remembered first element rather than by
// testing for ridx.Nil.
package circleq

import "github.com/rpcpool/relidx/ridx"

// Entry is the embeddable link field.
type Entry struct {
	next ridx.Index
	prev ridx.Index
}

// Linker constrains *T to expose its Entry.
type Linker[T any] interface {
	*T
	CircleqEntry() *Entry
}

// Head tracks the ring's canonical first element.
type Head struct {
	first ridx.Index
}

func (h *Head) Init()             { h.first = ridx.Nil }
func (h *Head) Empty() bool       { return h.first == ridx.Nil }
func (h *Head) First() ridx.Index { return h.first }

func at[T any, PT Linker[T]](arena []T, idx ridx.Index) PT {
	return PT(&arena[ridx.ToSlot(idx)])
}

// Next returns the element following elm, wrapping around the ring.
func Next[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).CircleqEntry().next
}

// Prev returns the element preceding elm, wrapping around the ring.
func Prev[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).CircleqEntry().prev
}

// Last returns the element preceding First, i.e. the tail of the ring as
// seen from Head, or ridx.Nil on an empty ring.
func Last[T any, PT Linker[T]](head *Head, arena []T) ridx.Index {
	if head.Empty() {
		return ridx.Nil
	}
	return Prev[T, PT](arena, head.first)
}

// InsertHead makes elm the new first element of the ring.
func InsertHead[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	if head.Empty() {
		head.first = elm
		e.CircleqEntry().next = elm
		e.CircleqEntry().prev = elm
		return
	}
	first := head.first
	last := at[T, PT](arena, first).CircleqEntry().prev
	e.CircleqEntry().next = first
	e.CircleqEntry().prev = last
	at[T, PT](arena, first).CircleqEntry().prev = elm
	at[T, PT](arena, last).CircleqEntry().next = elm
	head.first = elm
}

// InsertTail makes elm the new last element of the ring (First unchanged).
func InsertTail[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	if head.Empty() {
		head.first = elm
		e.CircleqEntry().next = elm
		e.CircleqEntry().prev = elm
		return
	}
	first := head.first
	last := at[T, PT](arena, first).CircleqEntry().prev
	e.CircleqEntry().next = first
	e.CircleqEntry().prev = last
	at[T, PT](arena, first).CircleqEntry().prev = elm
	at[T, PT](arena, last).CircleqEntry().next = elm
}

// InsertAfter inserts elm immediately after listelm.
func InsertAfter[T any, PT Linker[T]](arena []T, listelm, elm ridx.Index) {
	le := at[T, PT](arena, listelm)
	e := at[T, PT](arena, elm)
	next := le.CircleqEntry().next
	e.CircleqEntry().prev = listelm
	e.CircleqEntry().next = next
	le.CircleqEntry().next = elm
	at[T, PT](arena, next).CircleqEntry().prev = elm
}

// InsertBefore inserts elm immediately before listelm.
func InsertBefore[T any, PT Linker[T]](head *Head, arena []T, listelm, elm ridx.Index) {
	le := at[T, PT](arena, listelm)
	e := at[T, PT](arena, elm)
	prev := le.CircleqEntry().prev
	e.CircleqEntry().next = listelm
	e.CircleqEntry().prev = prev
	at[T, PT](arena, prev).CircleqEntry().next = elm
	le.CircleqEntry().prev = elm
	if head.first == listelm {
		head.first = elm
	}
}

// Remove unlinks elm from the ring.
func Remove[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	next := e.CircleqEntry().next
	prev := e.CircleqEntry().prev
	if next == elm {
		head.first = ridx.Nil
	} else {
		at[T, PT](arena, prev).CircleqEntry().next = next
		at[T, PT](arena, next).CircleqEntry().prev = prev
		if head.first == elm {
			head.first = next
		}
	}
	e.CircleqEntry().next = ridx.Nil
	e.CircleqEntry().prev = ridx.Nil
}

// ForEach visits every element exactly once, starting at First.
func ForEach[T any, PT Linker[T]](head *Head, arena []T, fn func(ridx.Index)) {
	if head.Empty() {
		return
	}
	first := head.first
	for cur := first; ; {
		fn(cur)
		next := Next[T, PT](arena, cur)
		if next == first {
			return
		}
		cur = next
	}
}

// ForEachReverse visits every element exactly once, starting at Last.
func ForEachReverse[T any, PT Linker[T]](head *Head, arena []T, fn func(ridx.Index)) {
	if head.Empty() {
		return
	}
	start := Last[T, PT](head, arena)
	for cur := start; ; {
		fn(cur)
		prev := Prev[T, PT](arena, cur)
		if prev == start {
			return
		}
		cur = prev
	}
}

// SafeIterator walks a ring from its state at construction time, tolerating
// removal of the current element during iteration — the circular-queue
// analogue of ForEachSafe. Construct with NewSafeIterator and call Next
// until it returns ok == false. Caller may remove the index just returned
// by Next before calling Next again, but must not remove any other element
// mid-traversal.
//
// The ring has no NIL terminator, so unlike ForEachSafe's "walk until Nil"
// loop, SafeIterator must know independently when a full pass is done. The
// original REL_CIRCLEQ_FOREACH_SAFE macro tracks this by rebinding a
// remembered anchor index and comparing it against the prefetched successor
// each step; ported literally, that rebind makes the anchor chase the
// current element every iteration (idx(var) equals the anchor by
// induction from the very first step), so the wraparound comparison never
// fires for a ring of more than one element. SafeIterator instead counts
// down from the element count observed at construction, which is
// unaffected by where removals happen and gives the same one-pass-over-the-
// original-membership guarantee.
type SafeIterator[T any, PT Linker[T]] struct {
	arena     []T
	next      ridx.Index
	remaining int
}

// NewSafeIterator begins a safe forward traversal of head.
func NewSafeIterator[T any, PT Linker[T]](head *Head, arena []T) *SafeIterator[T, PT] {
	it := &SafeIterator[T, PT]{arena: arena, next: head.first}
	ForEach[T, PT](head, arena, func(ridx.Index) { it.remaining++ })
	return it
}

// Next returns the next live element in the ring and true, or ridx.Nil and
// false once every element present at construction time has been visited.
// The successor is pre-fetched before returning, so the caller may remove
// the returned index from the ring before the following Next call.
func (it *SafeIterator[T, PT]) Next() (ridx.Index, bool) {
	if it.remaining == 0 {
		return ridx.Nil, false
	}
	cur := it.next
	it.next = Next[T, PT](it.arena, cur)
	it.remaining--
	return cur, true
}
