package macrocell

import (
	"fmt"
	"math/bits"
)

// Quadrant names one of the four children of a macrocell, or one of the four
// 4×4 lanes of a LeafBlock.
type Quadrant uint8

const (
	NW Quadrant = iota
	NE
	SW
	SE
)

var quadrantNames = [4]string{"nw", "ne", "sw", "se"}

func (q Quadrant) String() string {
	if int(q) < len(quadrantNames) {
		return quadrantNames[q]
	}
	return fmt.Sprintf("Quadrant(%d)", q)
}

// quadrantOf picks the quadrant of p within a square whose half side is half.
func quadrantOf(p Point, half int) Quadrant {
	q := NW
	if p.X >= half {
		q |= NE
	}
	if p.Y >= half {
		q |= SW
	}
	return q
}

// corner is the local offset of quadrant q in a square whose half side is half.
func (q Quadrant) corner(half int) Point {
	var p Point
	if q&NE != 0 {
		p.X = half
	}
	if q&SW != 0 {
		p.Y = half
	}
	return p
}

// LeafSide is the side of the square covered by a LeafBlock.
const (
	LeafSide  = 8
	leafLevel = 3
)

// LeafBlock is an 8×8 region of cells packed into one word. Each 16-bit lane
// holds one 4×4 quadrant (nw, ne, sw, se from the low bits up), row-major
// inside the lane, so Quadrant is a shift and a truncation.
type LeafBlock uint64

var (
	// leafMasks is indexed by y*LeafSide+x.
	leafMasks [LeafSide * LeafSide]LeafBlock
	// leafPoints is indexed by bit number.
	leafPoints [LeafSide * LeafSide]Point
)

func init() {
	for y := 0; y < LeafSide; y++ {
		for x := 0; x < LeafSide; x++ {
			p := Point{x, y}
			bit := int(quadrantOf(p, LeafSide/2))*16 + (y%4)*4 + x%4
			leafMasks[y*LeafSide+x] = 1 << bit
			leafPoints[bit] = p
		}
	}
}

func leafMask(p Point) (LeafBlock, bool) {
	if p.X < 0 || p.X >= LeafSide || p.Y < 0 || p.Y >= LeafSide {
		return 0, false
	}
	return leafMasks[p.Y*LeafSide+p.X], true
}

// Size is the number of alive cells in the block.
func (b LeafBlock) Size() int {
	return bits.OnesCount64(uint64(b))
}

// Quadrant returns the 16-bit lane holding quadrant q.
func (b LeafBlock) Quadrant(q Quadrant) uint16 {
	return uint16(b >> (16 * uint(q&3)))
}

// WithCell returns a copy of the block with the cell at local point p set or
// cleared. p must be inside the block.
func (b LeafBlock) WithCell(p Point, alive bool) LeafBlock {
	mask, ok := leafMask(p)
	if !ok {
		panic(fmt.Sprintf("leaf block point %v out of range", p))
	}
	if alive {
		return b | mask
	}
	return b &^ mask
}

// Contains reports whether the cell at local point p is alive.
func (b LeafBlock) Contains(p Point) bool {
	mask, ok := leafMask(p)
	return ok && b&mask != 0
}

// ContainsAll reports whether every point is alive in the block.
func (b LeafBlock) ContainsAll(ps []Point) bool {
	var want LeafBlock
	for _, p := range ps {
		mask, ok := leafMask(p)
		if !ok {
			return false
		}
		want |= mask
	}
	return b&want == want
}

// Points returns the alive cells of the block in bit order.
func (b LeafBlock) Points() []Point {
	ps := make([]Point, 0, b.Size())
	for rest := uint64(b); rest != 0; rest &= rest - 1 {
		ps = append(ps, leafPoints[bits.TrailingZeros64(rest)])
	}
	return ps
}

func leafFromGrid(grid Grid, at Point) LeafBlock {
	var b LeafBlock
	for i, mask := range leafMasks {
		if grid.Alive(at.Add(Point{i % LeafSide, i / LeafSide})) {
			b |= mask
		}
	}
	return b
}

func leafFromPoints(ps []Point, at Point) LeafBlock {
	var b LeafBlock
	for _, p := range ps {
		if mask, ok := leafMask(p.Sub(at)); ok {
			b |= mask
		}
	}
	return b
}
