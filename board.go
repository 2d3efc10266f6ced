package macrocell

import (
	"fmt"
	"iter"
	"math"
)

// Board is a macrocell placed on the unbounded plane: the root's local origin
// sits at the global point Offset(). Boards are values; every change returns
// a new Board sharing all untouched structure with the old one. The zero
// Board is empty.
type Board struct {
	offset Point
	root   Macrocell
}

// NewBoard returns an empty board covering the level-4 square at the origin.
func NewBoard() Board {
	return Board{root: EmptyOf(MinLevel)}
}

// NewBoardAt places root with its local origin at the global point offset.
func NewBoardAt(offset Point, root Macrocell) Board {
	if root == nil {
		panic("nil board root")
	}
	return Board{offset: offset, root: root}
}

// FromGrid builds the smallest board anchored at the top-left corner of the
// grid's bounding box that holds every alive cell of the grid.
func FromGrid(grid Grid) Board {
	bounds, ok := grid.Bounds()
	if !ok {
		return NewBoard()
	}
	level := levelFor(max(bounds.Width, bounds.Height))
	at := bounds.Min()
	if lister, ok := grid.(CellLister); ok {
		square := Square(at, level)
		var ps []Point
		for p := range lister.Cells() {
			if square.Contains(p) {
				ps = append(ps, p)
			}
		}
		return Board{offset: at, root: buildFromPoints(ps, at, level)}
	}
	return Board{offset: at, root: buildFromGrid(grid, at, level)}
}

func (b Board) node() Macrocell {
	if b.root == nil {
		return EmptyOf(MinLevel)
	}
	return b.root
}

// Root is the macrocell holding the board's cells.
func (b Board) Root() Macrocell { return b.node() }

// Offset is the global position of the root's local origin.
func (b Board) Offset() Point { return b.offset }

// Level is the level of the root.
func (b Board) Level() uint8 { return b.node().Level() }

// Extent is the square of the plane the board can address without growing.
func (b Board) Extent() Rect { return Square(b.offset, b.Level()) }

// OffsetBy moves the whole board by delta.
func (b Board) OffsetBy(delta Point) Board {
	return Board{offset: b.offset.Add(delta), root: b.node()}
}

// WithCell returns a board with the cell at global point p set or cleared,
// growing the root until p is addressable. Clearing a cell outside the
// extent changes nothing, since it is already dead.
func (b Board) WithCell(p Point, alive bool) Board {
	for !inSquare(p.Sub(b.offset), b.Level()) {
		if !alive {
			return b
		}
		b = b.Grow()
	}
	root := b.node()
	return Board{offset: b.offset, root: root.WithCell(p.Sub(b.offset), alive)}
}

// Grow doubles the extent of the board without moving any cell. Each quadrant
// of the old root becomes the innermost corner of a quadrant of the new root,
// so the old extent ends up centred in the new one.
func (b Board) Grow() Board {
	root := b.node()
	level := root.Level()
	var grown Macrocell
	switch n := root.(type) {
	case *LeafNode:
		grown = NewBranch(
			NewLeafNode(0, 0, 0, n.leaves[NW]),
			NewLeafNode(0, 0, n.leaves[NE], 0),
			NewLeafNode(0, n.leaves[SW], 0, 0),
			NewLeafNode(n.leaves[SE], 0, 0, 0),
		)
	case *BranchNode:
		e := EmptyOf(level - 1)
		c := n.children
		grown = NewBranch(
			NewBranch(e, e, e, c[NW]),
			NewBranch(e, e, c[NE], e),
			NewBranch(e, c[SW], e, e),
			NewBranch(c[SE], e, e, e),
		)
	default:
		panic(fmt.Sprintf("unknown macrocell type %T", root))
	}
	shift := 1 << (level - 1)
	return Board{offset: b.offset.Sub(Point{shift, shift}), root: grown}
}

// CellsInWindow lazily yields the global coordinates of the alive cells in
// window, which may extend past the board's extent.
func (b Board) CellsInWindow(window Rect) iter.Seq[Point] {
	return Cells(b.node(), b.offset, window)
}

// Alive reports whether the cell at global point p is alive.
func (b Board) Alive(p Point) bool {
	return b.node().Contains(p.Sub(b.offset))
}

// Bounds is the tightest window holding every alive cell.
func (b Board) Bounds() (Rect, bool) {
	if b.node().Size() == 0 {
		return Rect{}, false
	}
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for p := range b.CellsInWindow(b.Extent()) {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX + 1, maxY - minY + 1}, true
}

// Cells yields every alive cell, letting FromGrid rebuild a board without
// scanning its extent.
func (b Board) Cells() iter.Seq[Point] {
	return b.CellsInWindow(b.Extent())
}

func (b Board) String() string {
	return fmt.Sprintf("board{level=%d offset=%v size=%d}", b.Level(), b.offset, b.node().Size())
}
