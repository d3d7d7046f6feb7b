package rbtree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/rpcpool/relidx/ridx"
	"github.com/stretchr/testify/require"
)

type elem struct {
	key int
	ent Entry
}

func (e *elem) RBEntry() *Entry { return &e.ent }

func cmpKey(a, b *elem) int {
	if a.key < b.key {
		return -1
	}
	if a.key > b.key {
		return 1
	}
	return 0
}

func inOrderKeys(head *Head, arena []elem) []int {
	var out []int
	InOrder[elem](head, arena, func(i ridx.Index) bool {
		out = append(out, arena[ridx.ToSlot(i)].key)
		return true
	})
	return out
}

func checkInvariants(t *testing.T, head *Head, arena []elem, root ridx.Index) int {
	t.Helper()
	if root == ridx.Nil {
		return 1
	}
	e := &arena[ridx.ToSlot(root)].ent
	if e.color == red {
		if e.left != ridx.Nil {
			require.Equal(t, black, arena[ridx.ToSlot(e.left)].ent.color, "red node with red left child")
		}
		if e.right != ridx.Nil {
			require.Equal(t, black, arena[ridx.ToSlot(e.right)].ent.color, "red node with red right child")
		}
	}
	lh := checkInvariants(t, head, arena, e.left)
	rh := checkInvariants(t, head, arena, e.right)
	require.Equal(t, lh, rh, "black height mismatch")
	if e.color == black {
		return lh + 1
	}
	return lh
}

func TestInsertFindRemoveFuzz(t *testing.T) {
	const n = 500
	arena := make([]elem, n)
	var head Head
	head.Init()

	rng := rand.New(rand.NewSource(7))
	keys := rng.Perm(n)
	for i, k := range keys {
		arena[i].key = k
		occ := Insert[elem](&head, arena, ridx.FromSlot(i), cmpKey)
		require.Equal(t, ridx.Nil, occ)
	}
	require.Equal(t, n, head.Count())
	require.Equal(t, black, arena[ridx.ToSlot(head.Root())].ent.color)
	checkInvariants(t, &head, arena, head.Root())

	sorted := append([]int(nil), keys...)
	sort.Ints(sorted)
	require.Equal(t, sorted, inOrderKeys(&head, arena))

	for _, k := range keys {
		key := &elem{key: k}
		found := Find[elem](&head, arena, key, cmpKey)
		require.NotEqual(t, ridx.Nil, found)
		require.Equal(t, k, arena[ridx.ToSlot(found)].key)
	}

	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys {
		key := &elem{key: k}
		found := Find[elem](&head, arena, key, cmpKey)
		require.NotEqual(t, ridx.Nil, found)
		Remove[elem](&head, arena, found)
		if !head.Empty() {
			checkInvariants(t, &head, arena, head.Root())
		}
	}
	require.Equal(t, 0, head.Count())
	require.True(t, head.Empty())
}

func TestDuplicateInsertReturnsOccupant(t *testing.T) {
	arena := make([]elem, 2)
	arena[0].key = 5
	arena[1].key = 5
	var head Head
	head.Init()

	occ := Insert[elem](&head, arena, ridx.FromSlot(0), cmpKey)
	require.Equal(t, ridx.Nil, occ)
	occ = Insert[elem](&head, arena, ridx.FromSlot(1), cmpKey)
	require.Equal(t, ridx.FromSlot(0), occ)
	require.Equal(t, 1, head.Count())
}

func TestMinMaxNextPrev(t *testing.T) {
	arena := make([]elem, 5)
	for i := range arena {
		arena[i].key = i * 10
	}
	var head Head
	head.Init()
	order := []int{2, 0, 4, 1, 3}
	for _, i := range order {
		Insert[elem](&head, arena, ridx.FromSlot(i), cmpKey)
	}

	require.Equal(t, 0, arena[ridx.ToSlot(Min[elem](&head, arena))].key)
	require.Equal(t, 40, arena[ridx.ToSlot(Max[elem](&head, arena))].key)

	mid := ridx.FromSlot(2)
	require.Equal(t, 30, arena[ridx.ToSlot(Next[elem](arena, mid))].key)
	require.Equal(t, 10, arena[ridx.ToSlot(Prev[elem](arena, mid))].key)
}

func TestLowerBound(t *testing.T) {
	arena := make([]elem, 5)
	for i := range arena {
		arena[i].key = i * 10
	}
	var head Head
	head.Init()
	for i := 0; i < 5; i++ {
		Insert[elem](&head, arena, ridx.FromSlot(i), cmpKey)
	}

	lb := LowerBound[elem](&head, arena, &elem{key: 25}, cmpKey)
	require.Equal(t, 30, arena[ridx.ToSlot(lb)].key)

	lb = LowerBound[elem](&head, arena, &elem{key: 100}, cmpKey)
	require.Equal(t, ridx.Nil, lb)
}
