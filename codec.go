package macrocell

import "fmt"

// recordSink receives the records of a serialized tree, children before
// parents. Records are numbered implicitly from 1 in the order received.
type recordSink interface {
	leaf(leaf LeafBlock) error
	node(level uint8, refs [4]int) error
}

type indexedNode struct {
	node  Macrocell
	index int
}

// recordEncoder assigns each distinct leaf block and macrocell an index the
// first time it is written and reuses it for every later equal occurrence.
type recordEncoder struct {
	sink   recordSink
	next   int
	leaves map[LeafBlock]int
	nodes  map[uint64][]indexedNode
}

func newRecordEncoder(sink recordSink) *recordEncoder {
	return &recordEncoder{
		sink:   sink,
		next:   1,
		leaves: map[LeafBlock]int{},
		nodes:  map[uint64][]indexedNode{},
	}
}

func (e *recordEncoder) lookup(n Macrocell) (int, bool) {
	for _, c := range e.nodes[n.Hash()] {
		if Equal(c.node, n) {
			return c.index, true
		}
	}
	return 0, false
}

func (e *recordEncoder) ref(n Macrocell) int {
	if n.Size() == 0 {
		return 0
	}
	index, ok := e.lookup(n)
	if !ok {
		panic("child written after its parent")
	}
	return index
}

func (e *recordEncoder) leafRef(leaf LeafBlock) (int, error) {
	if leaf == 0 {
		return 0, nil
	}
	if index, ok := e.leaves[leaf]; ok {
		return index, nil
	}
	if err := e.sink.leaf(leaf); err != nil {
		return 0, err
	}
	e.leaves[leaf] = e.next
	e.next++
	return e.leaves[leaf], nil
}

func (e *recordEncoder) writeNode(n Macrocell, refs [4]int) error {
	if err := e.sink.node(n.Level(), refs); err != nil {
		return err
	}
	h := n.Hash()
	e.nodes[h] = append(e.nodes[h], indexedNode{n, e.next})
	e.next++
	return nil
}

type encodeFrame struct {
	node     Macrocell
	expanded bool
}

// encode writes every record needed by root and returns root's index, or 0
// for an empty root.
func (e *recordEncoder) encode(root Macrocell) (int, error) {
	if root.Size() == 0 {
		return 0, nil
	}
	stack := []encodeFrame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, done := e.lookup(top.node); done {
			stack = stack[:len(stack)-1]
			continue
		}
		switch n := top.node.(type) {
		case *LeafNode:
			var refs [4]int
			for q, leaf := range n.leaves {
				index, err := e.leafRef(leaf)
				if err != nil {
					return 0, err
				}
				refs[q] = index
			}
			if err := e.writeNode(n, refs); err != nil {
				return 0, err
			}
			stack = stack[:len(stack)-1]
		case *BranchNode:
			if !top.expanded {
				top.expanded = true
				for q := SE; ; q-- {
					child := n.children[q]
					if _, done := e.lookup(child); child.Size() > 0 && !done {
						stack = append(stack, encodeFrame{node: child})
					}
					if q == NW {
						break
					}
				}
				continue
			}
			var refs [4]int
			for q, child := range n.children {
				refs[q] = e.ref(child)
			}
			if err := e.writeNode(n, refs); err != nil {
				return 0, err
			}
			stack = stack[:len(stack)-1]
		default:
			panic(fmt.Sprintf("unknown macrocell type %T", n))
		}
	}
	return e.ref(root), nil
}

// trim descends through branch roots with a single non-empty child, so the
// serialized root is as small as the content allows.
func trim(root Macrocell, at Point) (Macrocell, Point) {
	for {
		n, ok := root.(*BranchNode)
		if !ok {
			return root, at
		}
		only := -1
		for q, child := range n.children {
			if child.Size() == 0 {
				continue
			}
			if only >= 0 {
				return root, at
			}
			only = q
		}
		if only < 0 {
			return root, at
		}
		at = at.Add(Quadrant(only).corner(1 << (n.level - 1)))
		root = n.children[only]
	}
}

// refError reports a node record field that names no usable entity.
type refError struct {
	field int
	msg   string
}

// recordAssembler rebuilds a tree from records, in the shared 1-based index
// space of leaf blocks and nodes.
type recordAssembler struct {
	next   int
	leaves map[int]LeafBlock
	nodes  map[int]Macrocell
	cache  NodeCache
}

func newRecordAssembler(cache NodeCache) *recordAssembler {
	return &recordAssembler{
		next:   1,
		leaves: map[int]LeafBlock{},
		nodes:  map[int]Macrocell{},
		cache:  cache,
	}
}

func (a *recordAssembler) addLeaf(leaf LeafBlock) int {
	a.leaves[a.next] = leaf
	a.next++
	return a.next - 1
}

// skip consumes an index for a record that could not be read.
func (a *recordAssembler) skip() int {
	a.next++
	return a.next - 1
}

func (a *recordAssembler) addNode(level uint8, refs [4]int) (int, *refError) {
	if level < MinLevel || level > MaxLevel {
		return 0, &refError{-1, fmt.Sprintf("level %d is outside [%d, %d]", level, MinLevel, MaxLevel)}
	}
	var node Macrocell
	if level == MinLevel {
		var leaves [4]LeafBlock
		for q, ref := range refs {
			if ref == 0 {
				continue
			}
			leaf, ok := a.leaves[ref]
			if !ok {
				return 0, &refError{q, fmt.Sprintf("%v refers to %d, which is not a leaf defined earlier", Quadrant(q), ref)}
			}
			leaves[q] = leaf
		}
		node = NewLeafNode(leaves[NW], leaves[NE], leaves[SW], leaves[SE])
	} else {
		var children [4]Macrocell
		for q, ref := range refs {
			if ref == 0 {
				children[q] = EmptyOf(level - 1)
				continue
			}
			child, ok := a.nodes[ref]
			if !ok {
				return 0, &refError{q, fmt.Sprintf("%v refers to %d, which is not a node defined earlier", Quadrant(q), ref)}
			}
			if child.Level() != level-1 {
				return 0, &refError{q, fmt.Sprintf("%v refers to %d, a level %d node, in a level %d node", Quadrant(q), ref, child.Level(), level)}
			}
			children[q] = child
		}
		node = newBranch(children)
	}
	a.nodes[a.next] = a.intern(node)
	a.next++
	return a.next - 1, nil
}

func (a *recordAssembler) intern(n Macrocell) Macrocell {
	if a.cache == nil || n.Size() == 0 {
		return n
	}
	if v, ok := a.cache.Get(n.Hash()); ok {
		if cached, ok := v.(Macrocell); ok && Equal(cached, n) {
			return cached
		}
	}
	a.cache.Add(n.Hash(), n)
	return n
}

// root is the entity with the highest index; a lone leaf block is wrapped in
// a level-4 node as its nw quadrant.
func (a *recordAssembler) root() (Macrocell, bool) {
	last := a.next - 1
	if node, ok := a.nodes[last]; ok {
		return node, true
	}
	if leaf, ok := a.leaves[last]; ok {
		return NewLeafNode(leaf, 0, 0, 0), true
	}
	return nil, false
}
