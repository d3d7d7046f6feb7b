// Package tailq implements a relative-index doubly-linked tail queue: the
// Go analogue of REL_TAILQ_* from the original C headers. It combines
// list's O(1) arbitrary removal with stailq's O(1) tail insertion and
// supports reverse iteration.
package tailq

import "github.com/rpcpool/relidx/ridx"

// Entry is the embeddable link field.
type Entry struct {
	next ridx.Index
	prev ridx.Index
}

// Linker constrains *T to expose its Entry.
type Linker[T any] interface {
	*T
	TailqEntry() *Entry
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

// Reset reinitializes the head to empty, matching REL_TAILQ_RESET.
func (h *Head) Reset() { h.Init() }

func (h *Head) Empty() bool       { return h.first == ridx.Nil }
func (h *Head) First() ridx.Index { return h.first }
func (h *Head) Last() ridx.Index  { return h.last }

func at[T any, PT Linker[T]](arena []T, idx ridx.Index) PT {
	return PT(&arena[ridx.ToSlot(idx)])
}

// Next returns the index following elm, or ridx.Nil at the tail.
func Next[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).TailqEntry().next
}

// Prev returns the index preceding elm, or ridx.Nil at the head.
func Prev[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	return at[T, PT](arena, elm).TailqEntry().prev
}

// InsertHead makes elm the new first element.
func InsertHead[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	first := head.first
	e.TailqEntry().prev = ridx.Nil
	e.TailqEntry().next = first
	if first != ridx.Nil {
		at[T, PT](arena, first).TailqEntry().prev = elm
	} else {
		head.last = elm
	}
	head.first = elm
}

// InsertTail appends elm after the current last element.
func InsertTail[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	last := head.last
	e.TailqEntry().next = ridx.Nil
	e.TailqEntry().prev = last
	if last != ridx.Nil {
		at[T, PT](arena, last).TailqEntry().next = elm
	} else {
		head.first = elm
	}
	head.last = elm
}

// InsertAfter inserts elm immediately after listelm.
func InsertAfter[T any, PT Linker[T]](head *Head, arena []T, listelm, elm ridx.Index) {
	le := at[T, PT](arena, listelm)
	e := at[T, PT](arena, elm)
	next := le.TailqEntry().next
	e.TailqEntry().next = next
	e.TailqEntry().prev = listelm
	le.TailqEntry().next = elm
	if next != ridx.Nil {
		at[T, PT](arena, next).TailqEntry().prev = elm
	} else {
		head.last = elm
	}
}

// InsertBefore inserts elm immediately before listelm.
func InsertBefore[T any, PT Linker[T]](head *Head, arena []T, listelm, elm ridx.Index) {
	le := at[T, PT](arena, listelm)
	e := at[T, PT](arena, elm)
	prev := le.TailqEntry().prev
	e.TailqEntry().prev = prev
	e.TailqEntry().next = listelm
	le.TailqEntry().prev = elm
	if prev != ridx.Nil {
		at[T, PT](arena, prev).TailqEntry().next = elm
	} else {
		head.first = elm
	}
}

// Remove unlinks elm in O(1).
func Remove[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) {
	e := at[T, PT](arena, elm)
	next := e.TailqEntry().next
	prev := e.TailqEntry().prev
	if next != ridx.Nil {
		at[T, PT](arena, next).TailqEntry().prev = prev
	} else {
		head.last = prev
	}
	if prev != ridx.Nil {
		at[T, PT](arena, prev).TailqEntry().next = next
	} else {
		head.first = next
	}
	e.TailqEntry().next = ridx.Nil
	e.TailqEntry().prev = ridx.Nil
}

// Concat moves every element of head2 onto the tail of head1, leaving
// head2 empty.
func Concat[T any, PT Linker[T]](head1, head2 *Head, arena []T) {
	if head2.Empty() {
		return
	}
	if !head1.Empty() {
		h1last := head1.last
		h2first := head2.first
		at[T, PT](arena, h1last).TailqEntry().next = h2first
		at[T, PT](arena, h2first).TailqEntry().prev = h1last
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

// ForEachReverse calls fn for every element from Last to First.
func ForEachReverse[T any, PT Linker[T]](head *Head, arena []T, fn func(ridx.Index)) {
	for cur := head.last; cur != ridx.Nil; cur = Prev[T, PT](arena, cur) {
		fn(cur)
	}
}
