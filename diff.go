package macrocell

import (
	"fmt"
	"math/bits"
)

type diffItem struct {
	from, to         Macrocell
	fromLeaf, toLeaf LeafBlock
	at               Point
}

type diffStack struct {
	things []diffItem
}

func (stack *diffStack) pop() (diffItem, bool) {
	if len(stack.things) == 0 {
		return diffItem{}, false
	}
	popped := stack.things[len(stack.things)-1]
	stack.things = stack.things[:len(stack.things)-1]
	return popped, true
}

func (stack *diffStack) push(item diffItem) {
	stack.things = append(stack.things, item)
}

// pushChildren queues the differing children of two same-level nodes so that
// nw pops first.
func (stack *diffStack) pushChildren(from, to Macrocell, at Point) {
	switch f := from.(type) {
	case *LeafNode:
		t := to.(*LeafNode)
		for q := SE; ; q-- {
			if f.leaves[q] != t.leaves[q] {
				stack.push(diffItem{fromLeaf: f.leaves[q], toLeaf: t.leaves[q], at: at.Add(q.corner(LeafSide))})
			}
			if q == NW {
				break
			}
		}
	case *BranchNode:
		t := to.(*BranchNode)
		half := 1 << (f.level - 1)
		for q := SE; ; q-- {
			if f.children[q] != t.children[q] {
				stack.push(diffItem{from: f.children[q], to: t.children[q], at: at.Add(q.corner(half))})
			}
			if q == NW {
				break
			}
		}
	default:
		panic(fmt.Sprintf("unknown macrocell type %T", from))
	}
}

// Diff invokes f for every cell whose state differs between the two boards;
// alive is the cell's state in to. Iteration stops when f returns
// keepGoing == false or an error.
//
// Boards that share a lineage (one derived from the other by WithCell and
// Grow) are compared structurally, skipping every subtree they share. Other
// boards are compared cell by cell.
func Diff(from, to Board, f func(p Point, alive bool) (keepGoing bool, err error)) error {
	for from.Level() < to.Level() {
		from = from.Grow()
	}
	for to.Level() < from.Level() {
		to = to.Grow()
	}
	if from.offset != to.offset {
		return diffCells(from, to, f)
	}
	stack := diffStack{}
	stack.push(diffItem{from: from.node(), to: to.node(), at: from.offset})
	for {
		item, ok := stack.pop()
		if !ok {
			return nil
		}
		if item.from == nil {
			changed := uint64(item.fromLeaf ^ item.toLeaf)
			for ; changed != 0; changed &= changed - 1 {
				i := bits.TrailingZeros64(changed)
				alive := uint64(item.toLeaf)&(1<<i) != 0
				keepGoing, err := f(item.at.Add(leafPoints[i]), alive)
				if err != nil {
					return fmt.Errorf("callback: %w", err)
				}
				if !keepGoing {
					return nil
				}
			}
			continue
		}
		if Equal(item.from, item.to) {
			continue
		}
		stack.pushChildren(item.from, item.to, item.at)
	}
}

func diffCells(from, to Board, f func(p Point, alive bool) (bool, error)) error {
	for p := range from.Cells() {
		if to.Alive(p) {
			continue
		}
		keepGoing, err := f(p, false)
		if err != nil {
			return fmt.Errorf("callback: %w", err)
		}
		if !keepGoing {
			return nil
		}
	}
	for p := range to.Cells() {
		if from.Alive(p) {
			continue
		}
		keepGoing, err := f(p, true)
		if err != nil {
			return fmt.Errorf("callback: %w", err)
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}
