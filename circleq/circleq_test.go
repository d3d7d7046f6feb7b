package circleq

import (
	"testing"

	"github.com/rpcpool/relidx/ridx"
	"github.com/stretchr/testify/require"
)

type elem struct {
	val int
	ent Entry
}

func (e *elem) CircleqEntry() *Entry { return &e.ent }

func newArena(n int) []elem {
	arena := make([]elem, n)
	for i := range arena {
		arena[i].val = i
	}
	return arena
}

func collect(head *Head, arena []elem) []int {
	var out []int
	ForEach[elem](head, arena, func(i ridx.Index) {
		out = append(out, arena[ridx.ToSlot(i)].val)
	})
	return out
}

func TestInsertHeadRingOrder(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertHead[elem](&head, arena, ridx.FromSlot(0))
	InsertHead[elem](&head, arena, ridx.FromSlot(1))
	InsertHead[elem](&head, arena, ridx.FromSlot(2))

	require.Equal(t, []int{2, 1, 0}, collect(&head, arena))
	require.Equal(t, ridx.FromSlot(0), Last[elem](&head, arena))
	require.Equal(t, ridx.FromSlot(2), Next[elem](arena, ridx.FromSlot(0)))
}

func TestInsertTailKeepsFirst(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertHead[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))
	InsertTail[elem](&head, arena, ridx.FromSlot(2))

	require.Equal(t, ridx.FromSlot(0), head.First())
	require.Equal(t, []int{0, 1, 2}, collect(&head, arena))
}

func TestRemoveLastElementEmptiesRing(t *testing.T) {
	arena := newArena(1)
	var head Head
	head.Init()
	InsertHead[elem](&head, arena, ridx.FromSlot(0))
	Remove[elem](&head, arena, ridx.FromSlot(0))
	require.True(t, head.Empty())
}

func TestRemoveRebindsFirst(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertHead[elem](&head, arena, ridx.FromSlot(2))
	InsertHead[elem](&head, arena, ridx.FromSlot(1))
	InsertHead[elem](&head, arena, ridx.FromSlot(0))

	Remove[elem](&head, arena, ridx.FromSlot(0))
	require.Equal(t, ridx.FromSlot(1), head.First())
	require.Equal(t, []int{1, 2}, collect(&head, arena))
}

func TestForEachReverse(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))
	InsertTail[elem](&head, arena, ridx.FromSlot(2))

	var out []int
	ForEachReverse[elem](&head, arena, func(i ridx.Index) {
		out = append(out, arena[ridx.ToSlot(i)].val)
	})
	require.Equal(t, []int{2, 1, 0}, out)
}

func TestSafeIteratorAllowsRemovingCurrent(t *testing.T) {
	arena := newArena(4)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))
	InsertTail[elem](&head, arena, ridx.FromSlot(2))
	InsertTail[elem](&head, arena, ridx.FromSlot(3))

	it := NewSafeIterator[elem](&head, arena)
	var seen []int
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		seen = append(seen, arena[ridx.ToSlot(i)].val)
		if arena[ridx.ToSlot(i)].val == 1 {
			Remove[elem](&head, arena, i)
		}
	}
	require.Equal(t, []int{0, 1, 2, 3}, seen)
	require.Equal(t, []int{0, 2, 3}, collect(&head, arena))
}

func TestSafeIteratorSurvivesAnchorRemoval(t *testing.T) {
	arena := newArena(3)
	var head Head
	head.Init()
	InsertTail[elem](&head, arena, ridx.FromSlot(0))
	InsertTail[elem](&head, arena, ridx.FromSlot(1))
	InsertTail[elem](&head, arena, ridx.FromSlot(2))

	it := NewSafeIterator[elem](&head, arena)
	var seen []int
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		seen = append(seen, arena[ridx.ToSlot(i)].val)
		if arena[ridx.ToSlot(i)].val == 0 {
			Remove[elem](&head, arena, i)
		}
	}
	require.Equal(t, []int{0, 1, 2}, seen)
	require.Equal(t, []int{1, 2}, collect(&head, arena))
}
