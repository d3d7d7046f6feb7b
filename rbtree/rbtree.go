// Package rbtree implements a relative-index red-black tree: the Go
// analogue of REL_RB_GENERATE from the original C headers. Child/parent
// links are stored as ridx.Index fields, next to a color field, inside the
// arena element itself; NIL (0) represents both "no child" and "black" for a
// missing node, matching the original's color_idx helper.
package rbtree

import "github.com/rpcpool/relidx/ridx"

type color uint8

const (
	red   color = 0
	black color = 1
)

// Entry is the embeddable link field.
type Entry struct {
	parent ridx.Index
	left   ridx.Index
	right  ridx.Index
	color  color
}

// Linker constrains *T to expose its Entry.
type Linker[T any] interface {
	*T
	RBEntry() *Entry
}

// Comparator orders keys the same way C's cmp callback did: negative if a
// sorts before b, zero if equal, positive otherwise.
type Comparator[T any] func(a, b *T) int

// Head is the tree head: the root index plus a maintained element count
// (Count below) — a feature recovered from the original test harness's
// rbt_count helper, not expressed as a macro in rel_queue_tree.h itself.
type Head struct {
	root  ridx.Index
	count int
}

func (h *Head) Init() {
	h.root = ridx.Nil
	h.count = 0
}

func (h *Head) Empty() bool       { return h.root == ridx.Nil }
func (h *Head) Root() ridx.Index  { return h.root }
func (h *Head) Count() int        { return h.count }

func at[T any, PT Linker[T]](arena []T, idx ridx.Index) PT {
	return PT(&arena[ridx.ToSlot(idx)])
}

func colorOf[T any, PT Linker[T]](arena []T, idx ridx.Index) color {
	if idx == ridx.Nil {
		return black
	}
	return at[T, PT](arena, idx).RBEntry().color
}

func setColor[T any, PT Linker[T]](arena []T, idx ridx.Index, c color) {
	if idx != ridx.Nil {
		at[T, PT](arena, idx).RBEntry().color = c
	}
}

func leftOf[T any, PT Linker[T]](arena []T, idx ridx.Index) ridx.Index {
	if idx == ridx.Nil {
		return ridx.Nil
	}
	return at[T, PT](arena, idx).RBEntry().left
}

func rightOf[T any, PT Linker[T]](arena []T, idx ridx.Index) ridx.Index {
	if idx == ridx.Nil {
		return ridx.Nil
	}
	return at[T, PT](arena, idx).RBEntry().right
}

func parentOf[T any, PT Linker[T]](arena []T, idx ridx.Index) ridx.Index {
	if idx == ridx.Nil {
		return ridx.Nil
	}
	return at[T, PT](arena, idx).RBEntry().parent
}

func setLeft[T any, PT Linker[T]](arena []T, p, c ridx.Index) {
	if p != ridx.Nil {
		at[T, PT](arena, p).RBEntry().left = c
	}
	if c != ridx.Nil {
		at[T, PT](arena, c).RBEntry().parent = p
	}
}

func setRight[T any, PT Linker[T]](arena []T, p, c ridx.Index) {
	if p != ridx.Nil {
		at[T, PT](arena, p).RBEntry().right = c
	}
	if c != ridx.Nil {
		at[T, PT](arena, c).RBEntry().parent = p
	}
}

func transplant[T any, PT Linker[T]](head *Head, arena []T, u, v ridx.Index) {
	up := parentOf[T, PT](arena, u)
	if up == ridx.Nil {
		head.root = v
		if v != ridx.Nil {
			at[T, PT](arena, v).RBEntry().parent = ridx.Nil
		}
	} else if u == leftOf[T, PT](arena, up) {
		setLeft[T, PT](arena, up, v)
	} else {
		setRight[T, PT](arena, up, v)
	}
}

func rotateLeft[T any, PT Linker[T]](head *Head, arena []T, x ridx.Index) {
	y := rightOf[T, PT](arena, x)
	yL := leftOf[T, PT](arena, y)
	setRight[T, PT](arena, x, yL)
	xp := parentOf[T, PT](arena, x)
	if xp == ridx.Nil {
		head.root = y
		if y != ridx.Nil {
			at[T, PT](arena, y).RBEntry().parent = ridx.Nil
		}
	} else if x == leftOf[T, PT](arena, xp) {
		setLeft[T, PT](arena, xp, y)
	} else {
		setRight[T, PT](arena, xp, y)
	}
	setLeft[T, PT](arena, y, x)
}

func rotateRight[T any, PT Linker[T]](head *Head, arena []T, x ridx.Index) {
	y := leftOf[T, PT](arena, x)
	yR := rightOf[T, PT](arena, y)
	setLeft[T, PT](arena, x, yR)
	xp := parentOf[T, PT](arena, x)
	if xp == ridx.Nil {
		head.root = y
		if y != ridx.Nil {
			at[T, PT](arena, y).RBEntry().parent = ridx.Nil
		}
	} else if x == leftOf[T, PT](arena, xp) {
		setLeft[T, PT](arena, xp, y)
	} else {
		setRight[T, PT](arena, xp, y)
	}
	setRight[T, PT](arena, y, x)
}

// Insert adds elm into the tree. On a duplicate key (cmp returns 0 against
// an existing node) it returns that occupant and leaves the tree
// unmodified, mirroring the original's "return existing" behavior. On a
// fresh insert it returns the zero index (ridx.Nil) and the tree now
// contains elm.
func Insert[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index, cmp Comparator[T]) ridx.Index {
	z := elm
	zp := PT(&arena[ridx.ToSlot(z)])

	var y ridx.Index = ridx.Nil
	x := head.root
	for x != ridx.Nil {
		y = x
		xp := PT(&arena[ridx.ToSlot(x)])
		c := cmp((*T)(zp), (*T)(xp))
		if c < 0 {
			x = leftOf[T, PT](arena, x)
		} else if c > 0 {
			x = rightOf[T, PT](arena, x)
		} else {
			return x
		}
	}

	e := zp.RBEntry()
	e.parent = y
	e.left = ridx.Nil
	e.right = ridx.Nil
	e.color = red

	if y == ridx.Nil {
		head.root = z
	} else {
		yp := PT(&arena[ridx.ToSlot(y)])
		if cmp((*T)(zp), (*T)(yp)) < 0 {
			setLeft[T, PT](arena, y, z)
		} else {
			setRight[T, PT](arena, y, z)
		}
	}

	for z != head.root && colorOf[T, PT](arena, parentOf[T, PT](arena, z)) == red {
		p := parentOf[T, PT](arena, z)
		g := parentOf[T, PT](arena, p)
		if p == leftOf[T, PT](arena, g) {
			u := rightOf[T, PT](arena, g)
			if colorOf[T, PT](arena, u) == red {
				setColor[T, PT](arena, p, black)
				setColor[T, PT](arena, u, black)
				setColor[T, PT](arena, g, red)
				z = g
			} else {
				if z == rightOf[T, PT](arena, p) {
					z = p
					rotateLeft[T, PT](head, arena, z)
					p = parentOf[T, PT](arena, z)
					g = parentOf[T, PT](arena, p)
				}
				setColor[T, PT](arena, p, black)
				setColor[T, PT](arena, g, red)
				rotateRight[T, PT](head, arena, g)
			}
		} else {
			u := leftOf[T, PT](arena, g)
			if colorOf[T, PT](arena, u) == red {
				setColor[T, PT](arena, p, black)
				setColor[T, PT](arena, u, black)
				setColor[T, PT](arena, g, red)
				z = g
			} else {
				if z == leftOf[T, PT](arena, p) {
					z = p
					rotateRight[T, PT](head, arena, z)
					p = parentOf[T, PT](arena, z)
					g = parentOf[T, PT](arena, p)
				}
				setColor[T, PT](arena, p, black)
				setColor[T, PT](arena, g, red)
				rotateLeft[T, PT](head, arena, g)
			}
		}
	}
	setColor[T, PT](arena, head.root, black)
	if head.root != ridx.Nil {
		at[T, PT](arena, head.root).RBEntry().parent = ridx.Nil
	}
	head.count++
	return ridx.Nil
}

func minmax[T any, PT Linker[T]](arena []T, x ridx.Index, dir int) ridx.Index {
	if x == ridx.Nil {
		return ridx.Nil
	}
	if dir < 0 {
		for leftOf[T, PT](arena, x) != ridx.Nil {
			x = leftOf[T, PT](arena, x)
		}
	} else {
		for rightOf[T, PT](arena, x) != ridx.Nil {
			x = rightOf[T, PT](arena, x)
		}
	}
	return x
}

// Min returns the smallest element, or ridx.Nil on an empty tree.
func Min[T any, PT Linker[T]](head *Head, arena []T) ridx.Index {
	return minmax[T, PT](arena, head.root, -1)
}

// Max returns the largest element, or ridx.Nil on an empty tree.
func Max[T any, PT Linker[T]](head *Head, arena []T) ridx.Index {
	return minmax[T, PT](arena, head.root, +1)
}

// Next returns the in-order successor of elm, or ridx.Nil if elm is the
// maximum.
func Next[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	x := elm
	if r := rightOf[T, PT](arena, x); r != ridx.Nil {
		x = r
		for leftOf[T, PT](arena, x) != ridx.Nil {
			x = leftOf[T, PT](arena, x)
		}
		return x
	}
	p := parentOf[T, PT](arena, x)
	for p != ridx.Nil && x == rightOf[T, PT](arena, p) {
		x = p
		p = parentOf[T, PT](arena, x)
	}
	return p
}

// Prev returns the in-order predecessor of elm, or ridx.Nil if elm is the
// minimum.
func Prev[T any, PT Linker[T]](arena []T, elm ridx.Index) ridx.Index {
	x := elm
	if l := leftOf[T, PT](arena, x); l != ridx.Nil {
		x = l
		for rightOf[T, PT](arena, x) != ridx.Nil {
			x = rightOf[T, PT](arena, x)
		}
		return x
	}
	p := parentOf[T, PT](arena, x)
	for p != ridx.Nil && x == leftOf[T, PT](arena, p) {
		x = p
		p = parentOf[T, PT](arena, x)
	}
	return p
}

// Find returns the element comparing equal to key, or ridx.Nil if absent.
func Find[T any, PT Linker[T]](head *Head, arena []T, key *T, cmp Comparator[T]) ridx.Index {
	x := head.root
	for x != ridx.Nil {
		xp := PT(&arena[ridx.ToSlot(x)])
		c := cmp(key, (*T)(xp))
		if c < 0 {
			x = leftOf[T, PT](arena, x)
		} else if c > 0 {
			x = rightOf[T, PT](arena, x)
		} else {
			return x
		}
	}
	return ridx.Nil
}

// LowerBound returns the smallest element not less than key (cmp(key, elm)
// <= 0), or ridx.Nil if every element sorts before key.
func LowerBound[T any, PT Linker[T]](head *Head, arena []T, key *T, cmp Comparator[T]) ridx.Index {
	x := head.root
	var res ridx.Index = ridx.Nil
	for x != ridx.Nil {
		xp := PT(&arena[ridx.ToSlot(x)])
		c := cmp(key, (*T)(xp))
		if c <= 0 {
			res = x
			x = leftOf[T, PT](arena, x)
		} else {
			x = rightOf[T, PT](arena, x)
		}
	}
	return res
}

// Remove unlinks elm from the tree and returns it (with its link fields
// reset), matching the original's "return the removed element" contract.
func Remove[T any, PT Linker[T]](head *Head, arena []T, elm ridx.Index) ridx.Index {
	z := elm
	y := z
	yColor := colorOf[T, PT](arena, y)
	var x, xParent ridx.Index

	if leftOf[T, PT](arena, z) == ridx.Nil {
		x = rightOf[T, PT](arena, z)
		xParent = parentOf[T, PT](arena, z)
		transplant[T, PT](head, arena, z, x)
	} else if rightOf[T, PT](arena, z) == ridx.Nil {
		x = leftOf[T, PT](arena, z)
		xParent = parentOf[T, PT](arena, z)
		transplant[T, PT](head, arena, z, x)
	} else {
		y = rightOf[T, PT](arena, z)
		for leftOf[T, PT](arena, y) != ridx.Nil {
			y = leftOf[T, PT](arena, y)
		}
		yColor = colorOf[T, PT](arena, y)
		x = rightOf[T, PT](arena, y)
		if parentOf[T, PT](arena, y) == z {
			xParent = y
			if x != ridx.Nil {
				at[T, PT](arena, x).RBEntry().parent = y
			}
		} else {
			xParent = parentOf[T, PT](arena, y)
			transplant[T, PT](head, arena, y, x)
			setRight[T, PT](arena, y, rightOf[T, PT](arena, z))
		}
		transplant[T, PT](head, arena, z, y)
		setLeft[T, PT](arena, y, leftOf[T, PT](arena, z))
		setColor[T, PT](arena, y, colorOf[T, PT](arena, z))
	}

	if yColor == black {
		xi, xpi := x, xParent
		for xi != head.root && colorOf[T, PT](arena, xi) == black {
			if xi == leftOf[T, PT](arena, xpi) {
				w := rightOf[T, PT](arena, xpi)
				if colorOf[T, PT](arena, w) == red {
					setColor[T, PT](arena, w, black)
					setColor[T, PT](arena, xpi, red)
					rotateLeft[T, PT](head, arena, xpi)
					w = rightOf[T, PT](arena, xpi)
				}
				if colorOf[T, PT](arena, leftOf[T, PT](arena, w)) == black &&
					colorOf[T, PT](arena, rightOf[T, PT](arena, w)) == black {
					setColor[T, PT](arena, w, red)
					xi = xpi
					xpi = parentOf[T, PT](arena, xi)
				} else {
					if colorOf[T, PT](arena, rightOf[T, PT](arena, w)) == black {
						setColor[T, PT](arena, leftOf[T, PT](arena, w), black)
						setColor[T, PT](arena, w, red)
						rotateRight[T, PT](head, arena, w)
						w = rightOf[T, PT](arena, xpi)
					}
					setColor[T, PT](arena, w, colorOf[T, PT](arena, xpi))
					setColor[T, PT](arena, xpi, black)
					setColor[T, PT](arena, rightOf[T, PT](arena, w), black)
					rotateLeft[T, PT](head, arena, xpi)
					xi = head.root
					xpi = ridx.Nil
				}
			} else {
				w := leftOf[T, PT](arena, xpi)
				if colorOf[T, PT](arena, w) == red {
					setColor[T, PT](arena, w, black)
					setColor[T, PT](arena, xpi, red)
					rotateRight[T, PT](head, arena, xpi)
					w = leftOf[T, PT](arena, xpi)
				}
				if colorOf[T, PT](arena, rightOf[T, PT](arena, w)) == black &&
					colorOf[T, PT](arena, leftOf[T, PT](arena, w)) == black {
					setColor[T, PT](arena, w, red)
					xi = xpi
					xpi = parentOf[T, PT](arena, xi)
				} else {
					if colorOf[T, PT](arena, leftOf[T, PT](arena, w)) == black {
						setColor[T, PT](arena, rightOf[T, PT](arena, w), black)
						setColor[T, PT](arena, w, red)
						rotateLeft[T, PT](head, arena, w)
						w = leftOf[T, PT](arena, xpi)
					}
					setColor[T, PT](arena, w, colorOf[T, PT](arena, xpi))
					setColor[T, PT](arena, xpi, black)
					setColor[T, PT](arena, leftOf[T, PT](arena, w), black)
					rotateRight[T, PT](head, arena, xpi)
					xi = head.root
					xpi = ridx.Nil
				}
			}
		}
		setColor[T, PT](arena, xi, black)
	}
	if head.root != ridx.Nil {
		at[T, PT](arena, head.root).RBEntry().parent = ridx.Nil
	}
	e := at[T, PT](arena, elm).RBEntry()
	e.parent, e.left, e.right = ridx.Nil, ridx.Nil, ridx.Nil
	e.color = red
	head.count--
	return elm
}

// InOrder visits every element in ascending key order, stopping early if fn
// returns false. Recovered from original_source/test_rel_rbtree.c's
// RB_FOREACH-style traversal, which the distilled spec dropped.
func InOrder[T any, PT Linker[T]](head *Head, arena []T, fn func(ridx.Index) bool) {
	for x := Min[T, PT](head, arena); x != ridx.Nil; x = Next[T, PT](arena, x) {
		if !fn(x) {
			return
		}
	}
}
