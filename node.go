package macrocell

import "fmt"

const (
	// MinLevel is the level of a LeafNode, the smallest macrocell (16×16).
	MinLevel uint8 = 4
	// MaxLevel bounds growth so that every extent and offset fits in an int.
	MaxLevel uint8 = 60
)

// Macrocell is an immutable square region of 1<<Level() × 1<<Level() cells
// with its origin at local (0,0). There are exactly two shapes, *LeafNode and
// *BranchNode; switch on the concrete type to tell them apart.
//
// Nodes are never modified once built. WithCell returns a new node that shares
// every untouched child with its source, so nodes may be aliased freely across
// boards and goroutines.
type Macrocell interface {
	// Level is the log2 of the side of the region.
	Level() uint8
	// Size is the number of alive cells in the region.
	Size() int
	// Hash is a structural hash, stable within one process.
	Hash() uint64
	// Contains reports whether the cell at local point p is alive. Points
	// outside the region are never alive.
	Contains(p Point) bool
	// ContainsAll reports whether every one of the distinct local points is
	// alive.
	ContainsAll(ps []Point) bool
	// WithCell returns a copy of the region with the cell at local point p
	// set or cleared. It panics if p is outside the region.
	WithCell(p Point, alive bool) Macrocell

	macrocell()
}

// LeafNode is the level-4 macrocell: four 8×8 leaf blocks.
type LeafNode struct {
	leaves [4]LeafBlock
	size   int
	hash   uint64
}

// BranchNode is a macrocell of level 5 or more: four macrocells one level
// down.
type BranchNode struct {
	level    uint8
	children [4]Macrocell
	size     int
	hash     uint64
}

func (*LeafNode) macrocell()   {}
func (*BranchNode) macrocell() {}

// NewLeafNode builds a level-4 node from its four leaf blocks.
func NewLeafNode(nw, ne, sw, se LeafBlock) *LeafNode {
	if nw|ne|sw|se == 0 && emptyLeaf != nil {
		return emptyLeaf
	}
	return newLeafNode([4]LeafBlock{nw, ne, sw, se})
}

func newLeafNode(leaves [4]LeafBlock) *LeafNode {
	n := &LeafNode{leaves: leaves}
	h := hashSeed ^ uint64(MinLevel)
	for _, leaf := range leaves {
		n.size += leaf.Size()
		h = hashCombine(h, uint64(leaf))
	}
	n.hash = hashFinish(h)
	return n
}

// NewBranch builds a node one level above its four children. All children
// must share one level; anything else is a programming error and panics.
func NewBranch(nw, ne, sw, se Macrocell) *BranchNode {
	return newBranch([4]Macrocell{nw, ne, sw, se})
}

func newBranch(children [4]Macrocell) *BranchNode {
	for q, child := range children {
		if child == nil {
			panic(fmt.Sprintf("nil %v child", Quadrant(q)))
		}
	}
	childLevel := children[0].Level()
	for q, child := range children[1:] {
		if child.Level() != childLevel {
			panic(fmt.Sprintf("%v child has level %d, nw child has level %d",
				Quadrant(q+1), child.Level(), childLevel))
		}
	}
	if childLevel >= MaxLevel {
		panic(fmt.Sprintf("level %d exceeds maximum %d", childLevel+1, MaxLevel))
	}
	level := childLevel + 1
	size := 0
	for _, child := range children {
		size += child.Size()
	}
	if size == 0 && emptyBranches[level] != nil {
		return emptyBranches[level]
	}
	n := &BranchNode{level: level, children: children, size: size}
	h := hashSeed ^ uint64(level)
	for _, child := range children {
		h = hashCombine(h, child.Hash())
	}
	n.hash = hashFinish(h)
	return n
}

func (n *LeafNode) Level() uint8 { return MinLevel }
func (n *LeafNode) Size() int    { return n.size }
func (n *LeafNode) Hash() uint64 { return n.hash }

// Leaf returns the leaf block in quadrant q.
func (n *LeafNode) Leaf(q Quadrant) LeafBlock { return n.leaves[q&3] }

// Leaves returns the four leaf blocks in nw, ne, sw, se order.
func (n *LeafNode) Leaves() [4]LeafBlock { return n.leaves }

func (n *BranchNode) Level() uint8 { return n.level }
func (n *BranchNode) Size() int    { return n.size }
func (n *BranchNode) Hash() uint64 { return n.hash }

// Child returns the sub-macrocell in quadrant q.
func (n *BranchNode) Child(q Quadrant) Macrocell { return n.children[q&3] }

// Children returns the four sub-macrocells in nw, ne, sw, se order.
func (n *BranchNode) Children() [4]Macrocell { return n.children }

func inSquare(p Point, level uint8) bool {
	side := 1 << level
	return p.X >= 0 && p.X < side && p.Y >= 0 && p.Y < side
}

func (n *LeafNode) Contains(p Point) bool {
	if n.size == 0 || !inSquare(p, MinLevel) {
		return false
	}
	q := quadrantOf(p, LeafSide)
	return n.leaves[q].Contains(p.Sub(q.corner(LeafSide)))
}

func (n *BranchNode) Contains(p Point) bool {
	if n.size == 0 || !inSquare(p, n.level) {
		return false
	}
	half := 1 << (n.level - 1)
	q := quadrantOf(p, half)
	return n.children[q].Contains(p.Sub(q.corner(half)))
}

// partition splits points by quadrant of a square with the given level and
// translates each into its quadrant's frame. ok is false if any point is
// outside the square.
func partition(ps []Point, level uint8) (parts [4][]Point, ok bool) {
	half := 1 << (level - 1)
	for _, p := range ps {
		if !inSquare(p, level) {
			return parts, false
		}
		q := quadrantOf(p, half)
		parts[q] = append(parts[q], p.Sub(q.corner(half)))
	}
	return parts, true
}

func (n *LeafNode) ContainsAll(ps []Point) bool {
	if len(ps) == 0 {
		return true
	}
	if n.size < len(ps) {
		return false
	}
	parts, ok := partition(ps, MinLevel)
	if !ok {
		return false
	}
	for q, part := range parts {
		if !n.leaves[q].ContainsAll(part) {
			return false
		}
	}
	return true
}

func (n *BranchNode) ContainsAll(ps []Point) bool {
	if len(ps) == 0 {
		return true
	}
	if n.size < len(ps) {
		return false
	}
	parts, ok := partition(ps, n.level)
	if !ok {
		return false
	}
	for q, part := range parts {
		if !n.children[q].ContainsAll(part) {
			return false
		}
	}
	return true
}

func (n *LeafNode) WithCell(p Point, alive bool) Macrocell {
	if !inSquare(p, MinLevel) {
		panic(fmt.Sprintf("point %v outside level %d macrocell", p, MinLevel))
	}
	q := quadrantOf(p, LeafSide)
	leaf := n.leaves[q].WithCell(p.Sub(q.corner(LeafSide)), alive)
	if leaf == n.leaves[q] {
		return n
	}
	leaves := n.leaves
	leaves[q] = leaf
	return NewLeafNode(leaves[NW], leaves[NE], leaves[SW], leaves[SE])
}

func (n *BranchNode) WithCell(p Point, alive bool) Macrocell {
	if !inSquare(p, n.level) {
		panic(fmt.Sprintf("point %v outside level %d macrocell", p, n.level))
	}
	half := 1 << (n.level - 1)
	q := quadrantOf(p, half)
	child := n.children[q].WithCell(p.Sub(q.corner(half)), alive)
	if child == n.children[q] {
		return n
	}
	children := n.children
	children[q] = child
	return newBranch(children)
}

// Equal reports whether two macrocells hold the same cells at the same level.
func Equal(a, b Macrocell) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Hash() != b.Hash() || a.Size() != b.Size() || a.Level() != b.Level() {
		return false
	}
	switch x := a.(type) {
	case *LeafNode:
		y, ok := b.(*LeafNode)
		return ok && x.leaves == y.leaves
	case *BranchNode:
		y, ok := b.(*BranchNode)
		if !ok {
			return false
		}
		for q := range x.children {
			if !Equal(x.children[q], y.children[q]) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("unknown macrocell type %T", a))
	}
}

// hashSeed and the combine step follow the usual golden-ratio mixing; the
// result is only compared within one process.
const hashSeed uint64 = 0x9e3779b97f4a7c15

func hashCombine(h, v uint64) uint64 {
	return h ^ (v + hashSeed + (h << 6) + (h >> 2))
}

func hashFinish(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}
