package macrocell

import (
	"fmt"
	"math/bits"
)

// levelFor is the smallest level whose square is at least side cells wide.
func levelFor(side int) uint8 {
	level := uint8(MinLevel)
	if side > 1 {
		level = max(level, uint8(bits.Len(uint(side-1))))
	}
	if level > MaxLevel {
		panic(fmt.Sprintf("side %d needs a level above %d", side, MaxLevel))
	}
	return level
}

// buildFromGrid builds the macrocell covering the square of the given level
// anchored at the grid point at, by quartering the window down to leaf blocks.
func buildFromGrid(grid Grid, at Point, level uint8) Macrocell {
	if level < MinLevel {
		panic(fmt.Sprintf("cannot build level %d macrocell", level))
	}
	half := 1 << (level - 1)
	if level == MinLevel {
		return NewLeafNode(
			leafFromGrid(grid, at),
			leafFromGrid(grid, at.Add(NE.corner(half))),
			leafFromGrid(grid, at.Add(SW.corner(half))),
			leafFromGrid(grid, at.Add(SE.corner(half))),
		)
	}
	var children [4]Macrocell
	for q := range children {
		children[q] = buildFromGrid(grid, at.Add(Quadrant(q).corner(half)), level-1)
	}
	return newBranch(children)
}

// buildFromPoints is buildFromGrid for an explicit list of grid points, all
// of which must lie inside the square. Empty quadrants become the canonical
// empty subtree without being visited.
func buildFromPoints(ps []Point, at Point, level uint8) Macrocell {
	if len(ps) == 0 {
		return EmptyOf(level)
	}
	half := 1 << (level - 1)
	var parts [4][]Point
	for _, p := range ps {
		q := quadrantOf(p.Sub(at), half)
		parts[q] = append(parts[q], p)
	}
	if level == MinLevel {
		var leaves [4]LeafBlock
		for q, part := range parts {
			leaves[q] = leafFromPoints(part, at.Add(Quadrant(q).corner(half)))
		}
		return NewLeafNode(leaves[NW], leaves[NE], leaves[SW], leaves[SE])
	}
	var children [4]Macrocell
	for q, part := range parts {
		children[q] = buildFromPoints(part, at.Add(Quadrant(q).corner(half)), level-1)
	}
	return newBranch(children)
}
