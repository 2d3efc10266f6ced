package macrocell

import "fmt"

// Point is a cell coordinate. X grows east and Y grows south.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is the half-open window [X, X+Width) × [Y, Y+Height).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Square returns the window of side 1<<level anchored at p.
func Square(p Point, level uint8) Rect {
	side := 1 << level
	return Rect{p.X, p.Y, side, side}
}

// Empty reports whether the window covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the window.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Overlaps reports whether the two windows share at least one cell.
func (r Rect) Overlaps(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.Width, r.Y+r.Height

	ox1, oy1 := other.X, other.Y
	ox2, oy2 := other.X+other.Width, other.Y+other.Height

	return x1 < ox2 && x2 > ox1 && y1 < oy2 && y2 > oy1
}

// Min is the top-left (north-west) corner of the window.
func (r Rect) Min() Point {
	return Point{r.X, r.Y}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}
