package tailq

import (
	"testing"

	"github.com/rpcpool/relidx/ridx"
	"github.com/stretchr/testify/require"
)

type elem struct {
	val int
	ent Entry
}

func (e *elem) TailqEntry() *Entry { return &e.ent }

func collect(head *Head, arena []elem) []int {
	var out []int
	ForEach[elem](head, arena, func(i ridx.Index) {
		out = append(out, arena[ridx.ToSlot(i)].val)
	})
	return out
}

func collectReverse(head *Head, arena []elem) []int {
	var out []int
	ForEachReverse[elem](head, arena, func(i ridx.Index) {
		out = append(out, arena[ridx.ToSlot(i)].val)
	})
	return out
}

func newArena(n int) []elem {
	arena := make([]elem, n)
	for i := range arena {
		arena[i].val = i
	}
	return arena
}

func TestInsertTailAndReverse(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))
	InsertTail[elem](&head, arena, ridx.FromSlot(2))

	require.Equal(t, []int{0, 1, 2}, collect(&head, arena))
	require.Equal(t, []int{2, 1, 0}, collectReverse(&head, arena))
}

func TestRemoveFromMiddleUpdatesBothNeighbors(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))
	InsertTail[elem](&head, arena, ridx.FromSlot(2))

	Remove[elem](&head, arena, ridx.FromSlot(1))
	require.Equal(t, []int{0, 2}, collect(&head, arena))
	require.Equal(t, ridx.FromSlot(0), Prev[elem](arena, ridx.FromSlot(2)))
	require.Equal(t, ridx.FromSlot(2), Next[elem](arena, ridx.FromSlot(0)))
}

func TestRemoveTailUpdatesLast(t *testing.T) {
	arena := newArena(2)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))

	Remove[elem](&head, arena, ridx.FromSlot(1))
	require.Equal(t, ridx.FromSlot(0), head.Last())
}

func TestConcat(t *testing.T) {
	arena := newArena(4)
	var h1, h2 Head
	h1.Init()
	h2.Init()
	InsertTail[elem](&h1, arena, ridx.FromSlot(0))
	InsertTail[elem](&h2, arena, ridx.FromSlot(1))
	InsertTail[elem](&h2, arena, ridx.FromSlot(2))

	Concat[elem](&h1, &h2, arena)
	require.Equal(t, []int{0, 1, 2}, collect(&h1, arena))
	require.True(t, h2.Empty())
}

func TestReset(t *testing.T) {
	arena := newArena(1)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	head.Reset()
	require.True(t, head.Empty())
	require.Equal(t, ridx.Nil, head.Last())
}
