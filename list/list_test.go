package list

import (
	"testing"

	"github.com/rpcpool/relidx/ridx"
	"github.com/stretchr/testify/require"
)

type elem struct {
	val int
	ent Entry
}

func (e *elem) ListEntry() *Entry { return &e.ent }

func collect(head *Head, arena []elem) []int {
	var out []int
	ForEach[elem](head, arena, func(i ridx.Index) {
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

func TestInsertHeadAndBefore(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()

	InsertHead[elem](&head, arena, ridx.FromSlot(0))
	InsertBefore[elem](&head, arena, ridx.FromSlot(0), ridx.FromSlot(1))
	require.Equal(t, []int{1, 0}, collect(&head, arena))
	require.Equal(t, ridx.FromSlot(1), head.First())
}

func TestInsertAfter(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertHead[elem](&head, arena, ridx.FromSlot(0))
	InsertAfter[elem](&head, arena, ridx.FromSlot(0), ridx.FromSlot(1))
	InsertAfter[elem](&head, arena, ridx.FromSlot(0), ridx.FromSlot(2))
	require.Equal(t, []int{0, 2, 1}, collect(&head, arena))
}

func TestRemoveMiddleAndHead(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertHead[elem](&head, arena, ridx.FromSlot(2))
	InsertHead[elem](&head, arena, ridx.FromSlot(1))
	InsertHead[elem](&head, arena, ridx.FromSlot(0))

	Remove[elem](&head, arena, ridx.FromSlot(1))
	require.Equal(t, []int{0, 2}, collect(&head, arena))

	Remove[elem](&head, arena, ridx.FromSlot(0))
	require.Equal(t, []int{2}, collect(&head, arena))
	require.Equal(t, ridx.Nil, Prev[elem](arena, ridx.FromSlot(2)))
}

func TestSwap(t *testing.T) {
	arena := newArena(2)
	var h1, h2 Head
	h1.Init()
	h2.Init()
	InsertHead[elem](&h1, arena, ridx.FromSlot(0))
	InsertHead[elem](&h2, arena, ridx.FromSlot(1))

	Swap[elem](&h1, &h2, arena)
	require.Equal(t, ridx.FromSlot(1), h1.First())
	require.Equal(t, ridx.FromSlot(0), h2.First())
}
