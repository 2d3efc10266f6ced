package macrocell

import (
	"fmt"
	"iter"
	"math/bits"
)

// frame is a pending subtree (node != nil) or a pending leaf block, anchored
// at a global point.
type frame struct {
	node Macrocell
	leaf LeafBlock
	at   Point
}

// Cursor walks the alive cells of a macrocell that fall in a window. Cells
// come out in quadrant order (nw, ne, sw, se) at every level, so the order is
// reproducible. A Cursor does no work beyond what Next is asked for.
type Cursor struct {
	window Rect
	stack  []frame
	bits   uint64
	at     Point
}

// NewCursor starts a walk of root, whose local origin sits at the global
// point at, restricted to window.
func NewCursor(root Macrocell, at Point, window Rect) *Cursor {
	c := &Cursor{window: window}
	c.pushNode(root, at)
	return c
}

func (c *Cursor) pushNode(node Macrocell, at Point) {
	if node.Size() == 0 || !Square(at, node.Level()).Overlaps(c.window) {
		return
	}
	c.stack = append(c.stack, frame{node: node, at: at})
}

func (c *Cursor) pushLeaf(leaf LeafBlock, at Point) {
	if leaf == 0 || !Square(at, leafLevel).Overlaps(c.window) {
		return
	}
	c.stack = append(c.stack, frame{leaf: leaf, at: at})
}

// Next returns the next alive cell, or ok == false once the walk is done.
func (c *Cursor) Next() (p Point, ok bool) {
	for {
		for c.bits != 0 {
			i := bits.TrailingZeros64(c.bits)
			c.bits &= c.bits - 1
			p = c.at.Add(leafPoints[i])
			if c.window.Contains(p) {
				return p, true
			}
		}
		if len(c.stack) == 0 {
			return Point{}, false
		}
		f := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		switch n := f.node.(type) {
		case nil:
			c.bits = uint64(f.leaf)
			c.at = f.at
		case *LeafNode:
			// pushed in reverse so that nw pops first
			for q := SE; ; q-- {
				c.pushLeaf(n.leaves[q], f.at.Add(q.corner(LeafSide)))
				if q == NW {
					break
				}
			}
		case *BranchNode:
			half := 1 << (n.level - 1)
			for q := SE; ; q-- {
				c.pushNode(n.children[q], f.at.Add(q.corner(half)))
				if q == NW {
					break
				}
			}
		default:
			panic(fmt.Sprintf("unknown macrocell type %T", n))
		}
	}
}

// Cells returns a lazy sequence of the global coordinates of the alive cells
// of root (anchored at at) that fall in window. Each range over the sequence
// starts a fresh walk.
func Cells(root Macrocell, at Point, window Rect) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		c := NewCursor(root, at, window)
		for {
			p, ok := c.Next()
			if !ok || !yield(p) {
				return
			}
		}
	}
}
