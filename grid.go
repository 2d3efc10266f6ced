package macrocell

import (
	"iter"
	"math"
)

// Grid is any representation of a set of alive cells that a Board can be
// built from.
type Grid interface {
	// Alive reports whether the cell at p is alive.
	Alive(p Point) bool
	// Bounds is the smallest window holding every alive cell; ok is false
	// when there are none.
	Bounds() (bounds Rect, ok bool)
}

// CellLister is implemented by grids that can list their alive cells
// directly. FromGrid uses it to build sparse grids without scanning every
// cell of the bounding box.
type CellLister interface {
	Cells() iter.Seq[Point]
}

// PointSet is a Grid backed by a map.
type PointSet map[Point]struct{}

// NewPointSet returns a set holding the given points.
func NewPointSet(ps ...Point) PointSet {
	s := make(PointSet, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

// CollectPoints drains a sequence of points into a set.
func CollectPoints(seq iter.Seq[Point]) PointSet {
	s := PointSet{}
	for p := range seq {
		s[p] = struct{}{}
	}
	return s
}

func (s PointSet) Alive(p Point) bool {
	_, ok := s[p]
	return ok
}

func (s PointSet) Bounds() (Rect, bool) {
	if len(s) == 0 {
		return Rect{}, false
	}
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for p := range s {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX + 1, maxY - minY + 1}, true
}

func (s PointSet) Cells() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for p := range s {
			if !yield(p) {
				return
			}
		}
	}
}
