package macrocell

import "iter"

// CellSet is a read-only set view of the alive cells of a board, in global
// coordinates.
type CellSet struct {
	board Board
}

// AliveCells returns the set view of the board's alive cells.
func (b Board) AliveCells() CellSet {
	return CellSet{b}
}

// Size is the number of alive cells.
func (s CellSet) Size() int {
	return s.board.node().Size()
}

// Contains reports whether p is alive.
func (s CellSet) Contains(p Point) bool {
	return s.board.Alive(p)
}

// ContainsAll reports whether every point is alive. Repeated points are
// allowed.
func (s CellSet) ContainsAll(ps []Point) bool {
	seen := make(map[Point]struct{}, len(ps))
	local := make([]Point, 0, len(ps))
	for _, p := range ps {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		local = append(local, p.Sub(s.board.offset))
	}
	return s.board.node().ContainsAll(local)
}

// All lazily yields every alive cell in nw, ne, sw, se quadrant order.
func (s CellSet) All() iter.Seq[Point] {
	return s.board.Cells()
}

// Equal reports whether both views hold exactly the same cells.
func (s CellSet) Equal(other CellSet) bool {
	if s.Size() != other.Size() {
		return false
	}
	for p := range s.All() {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}
